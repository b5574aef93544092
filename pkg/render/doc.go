// Package render turns an [erd.Schema] into Graphviz output.
//
// # Overview
//
// Rendering has two steps. [ToDOT] walks the schema and asks a [Styler] for
// the attributes of every entity table, attribute row, and cluster. The
// resulting DOT source is then handed to Graphviz by [Render], [RenderSVG],
// or [RenderPNG], which use [github.com/goccy/go-graphviz] in-process.
//
// # Styler Chain
//
// [BaseStyler] supplies the default look. Customizations wrap it:
//
//	var s render.Styler = render.BaseStyler{}
//	s = highlight.NewStyler(s, highlight.EnvSource{Key: "ERDVIZ_COLORS"})
//	s = cluster.NewStyler(s, classifier)
//	dot, err := render.ToDOT(schema, s, render.Options{ShowTypes: true})
//
// Each wrapper calls the wrapped Styler first and merges its own keys on top,
// so keys it does not own are preserved.
package render
