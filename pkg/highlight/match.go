package highlight

import "github.com/matzehuels/erdviz/pkg/erd"

// ColorsFor returns the colors of the first rule matching name.
// Later rules are never consulted once one matches. Rules with no terms are
// skipped. When nothing matches the result is [NoColors].
func ColorsFor(name string, rules []ColorRule) Colors {
	for _, r := range rules {
		if r.empty() || !r.Matches(name) {
			continue
		}
		return Colors{TableColor: r.TableColor, RowColor: r.RowColor}
	}
	return NoColors
}

// TableColor scans attrs in order and returns the first table color that is
// not [Transparent]. The boolean is false when every attribute resolves to
// transparent, meaning the table keeps its default color.
func TableColor(attrs []*erd.Attribute, rules []ColorRule) (string, bool) {
	for _, a := range attrs {
		if c := ColorsFor(a.Name, rules).TableColor; c != Transparent {
			return c, true
		}
	}
	return "", false
}
