// Package pipeline provides the diagram pipeline shared by the CLI and the
// HTTP server.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Load: read a schema document, introspect a database, or take a schema
//     already in memory
//  2. Style: generate DOT through the styler chain
//     base -> highlight (color rules) -> cluster (namespaces)
//  3. Render: convert DOT to each requested format, consulting the artifact
//     cache first
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    SchemaFile: "schema.json",
//	    Formats:    []string{"svg"},
//	    Namespaces: classifier,
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erdviz/pkg/cache"
	"github.com/matzehuels/erdviz/pkg/erd"
	"github.com/matzehuels/erdviz/pkg/errors"
	"github.com/matzehuels/erdviz/pkg/highlight"
	"github.com/matzehuels/erdviz/pkg/render"
)

// DefaultFormats is used when Options.Formats is empty.
var DefaultFormats = []string{render.FormatSVG}

// Options configures one pipeline run. Exactly one schema source must be
// set: Schema, SchemaFile, or Driver with DSN.
type Options struct {
	// Schema sources
	Schema     *erd.Schema
	SchemaFile string
	Driver     string
	DSN        string
	DBSchema   string // Database schema for introspection (driver default if empty)
	Name       string // Diagram name for introspected schemas

	Formats []string
	Render  render.Options

	// Colors supplies the color rules. Nil reads highlight.DefaultEnvKey.
	Colors highlight.RuleSource
	// Namespaces groups entities into clusters. Nil disables clustering.
	Namespaces erd.NamespaceResolver

	// Refresh skips cache reads; fresh artifacts are still written.
	Refresh bool
	TTL     time.Duration

	Logger *log.Logger
}

// Result holds the outputs of a run.
type Result struct {
	Schema    *erd.Schema
	DOT       string
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records sizes and timings of a run.
type Stats struct {
	EntityCount       int
	RelationshipCount int
	LoadTime          time.Duration
	RenderTime        time.Duration
}

// CacheInfo reports which artifacts came from the cache.
type CacheInfo struct {
	Hits      []string // Formats served from cache
	RenderHit bool     // Every requested format was cached
}

// ValidateAndSetDefaults checks the schema source and formats and fills in
// defaults.
func (o *Options) ValidateAndSetDefaults() error {
	sources := 0
	if o.Schema != nil {
		sources++
	}
	if o.SchemaFile != "" {
		sources++
	}
	if o.Driver != "" {
		sources++
		if o.DSN == "" {
			return errors.New(errors.ErrCodeInvalidInput, "--dsn is required with --db %s", o.Driver)
		}
	}
	switch sources {
	case 0:
		return errors.New(errors.ErrCodeInvalidInput, "no schema source: give a schema file or a database")
	case 1:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "give exactly one schema source")
	}

	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if err := render.ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.TTL == 0 {
		o.TTL = cache.DefaultTTL
	}
	return nil
}

// sourceName describes the schema source for logs and hooks.
func (o *Options) sourceName() string {
	switch {
	case o.SchemaFile != "":
		return o.SchemaFile
	case o.Driver != "":
		return o.Driver
	default:
		return "memory"
	}
}
