// Package pkg provides the core libraries for erdviz diagram rendering.
//
// # Overview
//
// erdviz renders entity-relationship diagrams of relational schemas. Two
// customizations are layered onto a base Graphviz renderer: attribute-driven
// table and row colors, and clustering of entities by the pack, gem or code
// owner that defines them.
//
// # Architecture
//
// The typical data flow:
//
//	JSON/YAML document or live database
//	         ↓
//	    [io] / [source] (load an erd.Schema)
//	         ↓
//	    [render] + [highlight] + [cluster] (styler chain, DOT source)
//	         ↓
//	    [render] (Graphviz: SVG, PNG)
//	         ↓
//	    [cache] (artifacts keyed by DOT hash)
//
// [pipeline] orchestrates the steps; [config] supplies the project roots,
// ownership source and color rules; [locate] and [ownership] feed the
// cluster classifier.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/erdviz/pkg/config"
//	    "github.com/matzehuels/erdviz/pkg/pipeline"
//	)
//
//	cfg, _ := config.Load("erdviz.toml")
//	project, _ := pipeline.OpenProject(cfg, nil)
//
//	opts := project.Options()
//	opts.SchemaFile = "schema.json"
//	opts.Formats = []string{"svg"}
//
//	result, err := pipeline.NewRunner(nil, nil).Execute(ctx, opts)
//	os.WriteFile("schema.svg", result.Artifacts["svg"], 0o644)
//
// [io]: https://pkg.go.dev/github.com/matzehuels/erdviz/pkg/io
// [source]: https://pkg.go.dev/github.com/matzehuels/erdviz/pkg/source
// [render]: https://pkg.go.dev/github.com/matzehuels/erdviz/pkg/render
// [highlight]: https://pkg.go.dev/github.com/matzehuels/erdviz/pkg/highlight
// [cluster]: https://pkg.go.dev/github.com/matzehuels/erdviz/pkg/cluster
// [cache]: https://pkg.go.dev/github.com/matzehuels/erdviz/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/erdviz/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/erdviz/pkg/config
// [locate]: https://pkg.go.dev/github.com/matzehuels/erdviz/pkg/locate
// [ownership]: https://pkg.go.dev/github.com/matzehuels/erdviz/pkg/ownership
package pkg
