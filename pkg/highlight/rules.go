package highlight

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/erdviz/pkg/errors"
)

// Transparent is the color meaning "no highlight".
const Transparent = "transparent"

// ColorRule assigns colors to attributes whose name matches any of its terms.
//
// JSON form:
//
//	{
//	  "table_color": "#RRGGBB",      tables with a matching row get this color
//	  "row_color": "#RRGGBB",        matching rows get this color
//	  "name_in": ["id"],             exact column name
//	  "name_includes": ["token"],    anywhere in the column name
//	  "name_ends_with": ["_id"],     end of the column name
//	  "name_starts_with": ["is_"]    start of the column name
//	}
type ColorRule struct {
	NameIn         []string
	NameStartsWith []string
	NameEndsWith   []string
	NameIncludes   []string
	TableColor     string
	RowColor       string
}

// Colors is the result of matching an attribute against a rule set.
type Colors struct {
	TableColor string `json:"table_color"`
	RowColor   string `json:"row_color"`
}

// NoColors is returned when no rule matches.
var NoColors = Colors{TableColor: Transparent, RowColor: Transparent}

// empty reports whether the rule has no terms at all. Such a rule never
// matches.
func (r ColorRule) empty() bool {
	return len(r.NameIn) == 0 && len(r.NameStartsWith) == 0 &&
		len(r.NameEndsWith) == 0 && len(r.NameIncludes) == 0
}

// Matches reports whether name satisfies any of the rule's terms, checked
// as exact name, substring, suffix, then prefix.
func (r ColorRule) Matches(name string) bool {
	for _, s := range r.NameIn {
		if name == s {
			return true
		}
	}
	for _, s := range r.NameIncludes {
		if strings.Contains(name, s) {
			return true
		}
	}
	for _, s := range r.NameEndsWith {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	for _, s := range r.NameStartsWith {
		if strings.HasPrefix(name, s) {
			return true
		}
	}
	return false
}

// ruleJSON is the wire form. name_equals is an older spelling of name_in.
// Keys are matched exactly; see decodeRule.
type ruleJSON struct {
	NameIn         []string `json:"name_in"`
	NameEquals     []string `json:"name_equals"`
	NameStartsWith []string `json:"name_starts_with"`
	NameEndsWith   []string `json:"name_ends_with"`
	NameIncludes   []string `json:"name_includes"`
	TableColor     *string  `json:"table_color"`
	RowColor       *string  `json:"row_color"`
}

// ParseRules decodes a JSON array of color rules.
//
// An empty or blank source, and the legacy empty object "{}", yield an
// empty rule set. Anything else must be an array of objects with only the
// known keys, string colors, and string-array term sets; violations return
// an error with code [errors.ErrCodeConfiguration]. Missing colors default
// to [Transparent].
func ParseRules(source string) ([]ColorRule, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" || trimmed == "{}" {
		return nil, nil
	}
	if trimmed == "null" {
		return nil, errors.New(errors.ErrCodeConfiguration, "color rules must be a JSON array, got null")
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))

	var raw []map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "color rules must be a JSON array of rule objects")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.ErrCodeConfiguration, "color rules: unexpected data after the rule array")
	}

	rules := make([]ColorRule, len(raw))
	for i, obj := range raw {
		if obj == nil {
			return nil, errors.New(errors.ErrCodeConfiguration, "color rule %d must be an object, got null", i)
		}
		r, err := decodeRule(obj)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "color rule %d", i)
		}
		rules[i] = ColorRule{
			NameIn:         append(append([]string(nil), r.NameIn...), r.NameEquals...),
			NameStartsWith: r.NameStartsWith,
			NameEndsWith:   r.NameEndsWith,
			NameIncludes:   r.NameIncludes,
			TableColor:     colorOrTransparent(r.TableColor),
			RowColor:       colorOrTransparent(r.RowColor),
		}
	}
	return rules, nil
}

func colorOrTransparent(c *string) string {
	if c == nil || *c == "" {
		return Transparent
	}
	return *c
}

// decodeRule decodes one rule object. encoding/json folds key case, so
// keys are dispatched by hand to reject anything but the exact spelling.
func decodeRule(obj map[string]json.RawMessage) (*ruleJSON, error) {
	r := &ruleJSON{}
	for key, val := range obj {
		var dst any
		switch key {
		case "name_in":
			dst = &r.NameIn
		case "name_equals":
			dst = &r.NameEquals
		case "name_starts_with":
			dst = &r.NameStartsWith
		case "name_ends_with":
			dst = &r.NameEndsWith
		case "name_includes":
			dst = &r.NameIncludes
		case "table_color":
			dst = &r.TableColor
		case "row_color":
			dst = &r.RowColor
		default:
			return nil, fmt.Errorf("unknown key %q", key)
		}
		if err := json.Unmarshal(val, dst); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
	}
	return r, nil
}
