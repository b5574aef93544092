package render

import (
	"maps"

	"github.com/matzehuels/erdviz/pkg/erd"
)

// Style is a set of Graphviz attributes (e.g. bgcolor, margin, fontsize).
// Values are rendered with fmt's %v verb.
type Style map[string]any

// Clone returns a shallow copy of s. The clone of a nil Style is an empty Style.
func (s Style) Clone() Style {
	out := make(Style, len(s))
	maps.Copy(out, s)
	return out
}

// Merge returns a copy of s with every key of other set on top.
// Keys in other win on collision. Neither input is modified.
func (s Style) Merge(other Style) Style {
	out := s.Clone()
	maps.Copy(out, other)
	return out
}

// Styler is the extension point the diagram renderer consults while
// emitting a schema. Decorating implementations wrap another Styler and
// adjust its result rather than replacing it.
type Styler interface {
	// TableStyle returns attributes for the HTML table of an entity.
	TableStyle(e *erd.Entity, attrs []*erd.Attribute) (Style, error)

	// RowStyle returns attributes for the table cell of a single attribute.
	RowStyle(e *erd.Entity, a *erd.Attribute) (Style, error)

	// ClusterAttributes returns attributes for the cluster subgraph that
	// contains e.
	ClusterAttributes(e *erd.Entity) (Style, error)

	// ClusterKey returns the cluster an entity belongs to. Entities with an
	// empty key are not clustered.
	ClusterKey(e *erd.Entity) string
}

// BaseStyler provides the default look of an entity table and cluster.
// It never clusters on its own: ClusterKey always returns "".
type BaseStyler struct{}

var _ Styler = BaseStyler{}

// TableStyle returns the default table attributes.
func (BaseStyler) TableStyle(*erd.Entity, []*erd.Attribute) (Style, error) {
	return Style{
		"bgcolor":     "white",
		"border":      1,
		"cellborder":  0,
		"cellspacing": 0,
		"cellpadding": 4,
	}, nil
}

// RowStyle returns the default row attributes.
func (BaseStyler) RowStyle(*erd.Entity, *erd.Attribute) (Style, error) {
	return Style{"align": "left"}, nil
}

// ClusterAttributes returns the default cluster attributes.
func (BaseStyler) ClusterAttributes(*erd.Entity) (Style, error) {
	return Style{
		"fontname": "Helvetica",
		"penwidth": 1,
	}, nil
}

// ClusterKey returns "" so that the base styler leaves entities unclustered.
func (BaseStyler) ClusterKey(*erd.Entity) string { return "" }
