package cluster

import (
	"strings"

	"github.com/matzehuels/erdviz/pkg/erd"
	"github.com/matzehuels/erdviz/pkg/render"
)

// Cluster fill colors per namespace kind.
const (
	ColorPack  = "#EEEEFF"
	ColorGem   = "#FFEEEE"
	ColorOwner = "#EEFFEE"
)

// every cluster gets these regardless of namespace
var universalStyle = render.Style{"margin": 10, "fontsize": 30}

// StyleFor merges the universal cluster style and then the namespace
// specific style onto base. base is not modified.
func StyleFor(label string, base render.Style) render.Style {
	style := base.Merge(universalStyle)
	switch {
	case strings.HasPrefix(label, PrefixPack):
		return style.Merge(render.Style{"style": "filled", "color": ColorPack})
	case strings.HasPrefix(label, PrefixGem):
		return style.Merge(render.Style{"style": "filled", "color": ColorGem})
	case strings.HasPrefix(label, PrefixOwner):
		return style.Merge(render.Style{"style": "filled", "color": ColorOwner})
	default:
		return style
	}
}

// Styler groups entities by namespace and styles their clusters. Table and
// row methods pass through to the wrapped styler.
type Styler struct {
	render.Styler
	resolver erd.NamespaceResolver
}

// NewStyler wraps base. A nil base means [render.BaseStyler].
func NewStyler(base render.Styler, resolver erd.NamespaceResolver) *Styler {
	if base == nil {
		base = render.BaseStyler{}
	}
	return &Styler{Styler: base, resolver: resolver}
}

// ClusterKey returns the entity's memoized namespace label.
func (s *Styler) ClusterKey(e *erd.Entity) string {
	return e.Namespace(s.resolver)
}

// ClusterAttributes applies [StyleFor] to the wrapped styler's attributes.
func (s *Styler) ClusterAttributes(e *erd.Entity) (render.Style, error) {
	base, err := s.Styler.ClusterAttributes(e)
	if err != nil {
		return nil, err
	}
	return StyleFor(e.Namespace(s.resolver), base), nil
}
