package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/erdviz/pkg/erd"
	"github.com/matzehuels/erdviz/pkg/errors"
)

// ReadJSON decodes and validates a JSON schema document from r.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*erd.Schema, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSchema, err, "decode JSON schema")
	}
	return fromDocument(doc)
}

// ReadYAML decodes and validates a YAML schema document from r.
func ReadYAML(r io.Reader) (*erd.Schema, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSchema, err, "decode YAML schema")
	}
	return fromDocument(doc)
}

// ImportFile reads a schema file, choosing YAML for .yml/.yaml files and
// JSON otherwise.
func ImportFile(path string) (*erd.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "schema file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return ReadYAML(f)
	default:
		return ReadJSON(f)
	}
}

func fromDocument(doc document) (*erd.Schema, error) {
	s := erd.NewSchema(doc.Name)
	for _, e := range doc.Entities {
		ent := s.AddEntity(e.Name, e.Table)
		for _, a := range e.Attributes {
			ent.AddAttribute(erd.Attribute{Name: a.Name, Type: a.Type, Nullable: a.Nullable, PrimaryKey: a.PrimaryKey})
		}
	}
	for _, r := range doc.Relationships {
		s.AddRelationship(erd.Relationship{From: r.From, To: r.To, Label: r.Label})
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
