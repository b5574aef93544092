package ownership

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/erdviz/pkg/errors"
)

// MappingFileProvider reads an explicit ownership mapping from a YAML file
// (JSON is accepted too). Each key is a project-relative path; each value is
// either the owner name or an object with an "owner" field:
//
//	app/models/account.rb: identity
//	app/models/invoice.rb:
//	  owner: billing
type MappingFileProvider struct {
	Path string
}

// FileOwnerships decodes the mapping file.
func (p MappingFileProvider) FileOwnerships() (Mapping, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read ownership file: %w", err)
	}
	return ParseMapping(data)
}

// ParseMapping decodes YAML or JSON ownership data.
func ParseMapping(data []byte) (Mapping, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "decode ownership mapping")
	}

	m := make(Mapping, len(raw))
	for path, node := range raw {
		if err := errors.ValidateRelativePath(path); err != nil {
			return nil, err
		}
		var rec Record
		switch node.Kind {
		case yaml.ScalarNode:
			rec.Owner = node.Value
		case yaml.MappingNode:
			if err := node.Decode(&rec); err != nil {
				return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "ownership entry %s", path)
			}
		default:
			return nil, errors.New(errors.ErrCodeConfiguration, "ownership entry %s: want owner name or {owner: name}", path)
		}
		m[path] = rec
	}
	return m, nil
}
