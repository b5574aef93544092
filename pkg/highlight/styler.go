package highlight

import (
	"github.com/matzehuels/erdviz/pkg/erd"
	"github.com/matzehuels/erdviz/pkg/render"
)

// Styler colors tables and rows of the wrapped styler's output according to
// the rules from its source. Cluster methods pass through unchanged.
type Styler struct {
	render.Styler
	source RuleSource
}

// NewStyler wraps base. A nil base means [render.BaseStyler]; a nil source
// means [EnvSource] with the default key.
func NewStyler(base render.Styler, source RuleSource) *Styler {
	if base == nil {
		base = render.BaseStyler{}
	}
	if source == nil {
		source = EnvSource{}
	}
	return &Styler{Styler: base, source: source}
}

// TableStyle sets bgcolor to the first non-transparent table color among
// attrs. When there is none the base style is returned as is.
func (s *Styler) TableStyle(e *erd.Entity, attrs []*erd.Attribute) (render.Style, error) {
	style, err := s.Styler.TableStyle(e, attrs)
	if err != nil {
		return nil, err
	}
	rules, err := s.source.Rules()
	if err != nil {
		return nil, err
	}
	if color, ok := TableColor(attrs, rules); ok {
		return style.Merge(render.Style{"bgcolor": color}), nil
	}
	return style, nil
}

// RowStyle always sets bgcolor to the attribute's row color, including
// transparent.
func (s *Styler) RowStyle(e *erd.Entity, a *erd.Attribute) (render.Style, error) {
	style, err := s.Styler.RowStyle(e, a)
	if err != nil {
		return nil, err
	}
	rules, err := s.source.Rules()
	if err != nil {
		return nil, err
	}
	return style.Merge(render.Style{"bgcolor": ColorsFor(a.Name, rules).RowColor}), nil
}
