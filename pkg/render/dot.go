package render

import (
	"bytes"
	"fmt"
	"html"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/erdviz/pkg/erd"
)

// Options configures DOT generation.
type Options struct {
	// RankDir is the Graphviz rank direction. Defaults to "LR".
	RankDir string
	// ShowTypes appends the column type to each attribute row.
	ShowTypes bool
	// Title is rendered as the graph label when non-empty.
	Title string
}

// ToDOT converts a schema to Graphviz DOT source.
//
// Each entity becomes an HTML-like table whose attributes come from
// styler.TableStyle; each attribute row uses styler.RowStyle. Entities are
// grouped into cluster subgraphs by styler.ClusterKey, ordered by key; the
// cluster's attributes come from styler.ClusterAttributes of its first
// entity. The first styler error aborts generation.
func ToDOT(s *erd.Schema, styler Styler, opts Options) (string, error) {
	if styler == nil {
		styler = BaseStyler{}
	}
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph ERD {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=plain, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10, arrowhead=crow];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	clusters := make(map[string][]*erd.Entity)
	var loose []*erd.Entity
	for _, e := range s.Entities {
		key := styler.ClusterKey(e)
		if key == "" {
			loose = append(loose, e)
			continue
		}
		clusters[key] = append(clusters[key], e)
	}

	for i, key := range slices.Sorted(maps.Keys(clusters)) {
		members := clusters[key]
		style, err := styler.ClusterAttributes(members[0])
		if err != nil {
			return "", fmt.Errorf("cluster %q: %w", key, err)
		}
		if _, ok := style["label"]; !ok {
			style = style.Merge(Style{"label": key})
		}

		fmt.Fprintf(&buf, "  subgraph \"cluster_%d\" {\n", i)
		for _, k := range slices.Sorted(maps.Keys(style)) {
			fmt.Fprintf(&buf, "    %s=%s;\n", k, quoteValue(style[k]))
		}
		for _, e := range members {
			if err := writeEntity(&buf, "    ", e, styler, opts); err != nil {
				return "", err
			}
		}
		buf.WriteString("  }\n")
	}

	for _, e := range loose {
		if err := writeEntity(&buf, "  ", e, styler, opts); err != nil {
			return "", err
		}
	}

	if len(s.Relationships) > 0 {
		buf.WriteString("\n")
	}
	for _, r := range s.Relationships {
		if r.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", r.From, r.To, r.Label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", r.From, r.To)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func writeEntity(buf *bytes.Buffer, indent string, e *erd.Entity, styler Styler, opts Options) error {
	table, err := styler.TableStyle(e, e.Attributes)
	if err != nil {
		return fmt.Errorf("entity %s: %w", e.Name, err)
	}

	var sb strings.Builder
	sb.WriteString("<TABLE")
	writeHTMLAttrs(&sb, table)
	sb.WriteString(">")
	fmt.Fprintf(&sb, "<TR><TD><B>%s</B></TD></TR>", html.EscapeString(e.Name))

	for _, a := range e.Attributes {
		row, err := styler.RowStyle(e, a)
		if err != nil {
			return fmt.Errorf("entity %s attribute %s: %w", e.Name, a.Name, err)
		}
		sb.WriteString("<TR><TD")
		writeHTMLAttrs(&sb, row)
		sb.WriteString(">")
		sb.WriteString(fmtAttribute(a, opts.ShowTypes))
		sb.WriteString("</TD></TR>")
	}
	sb.WriteString("</TABLE>")

	fmt.Fprintf(buf, "%s%q [label=<%s>];\n", indent, e.Name, sb.String())
	return nil
}

func fmtAttribute(a *erd.Attribute, showTypes bool) string {
	name := html.EscapeString(a.Name)
	if a.PrimaryKey {
		name = "<U>" + name + "</U>"
	}
	if !showTypes || a.Type == "" {
		return name
	}
	typ := html.EscapeString(a.Type)
	if a.Nullable {
		typ += "?"
	}
	return name + ` <FONT COLOR="grey40">` + typ + "</FONT>"
}

func writeHTMLAttrs(sb *strings.Builder, s Style) {
	for _, k := range slices.Sorted(maps.Keys(s)) {
		fmt.Fprintf(sb, ` %s="%s"`, strings.ToUpper(k), html.EscapeString(fmt.Sprint(s[k])))
	}
}

// quoteValue renders a DOT attribute value. Numbers are emitted bare,
// everything else is quoted.
func quoteValue(v any) string {
	switch v.(type) {
	case int, int64, float64:
		return fmt.Sprint(v)
	default:
		return fmt.Sprintf("%q", fmt.Sprint(v))
	}
}
