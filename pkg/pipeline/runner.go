package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erdviz/pkg/cache"
	"github.com/matzehuels/erdviz/pkg/cluster"
	"github.com/matzehuels/erdviz/pkg/erd"
	"github.com/matzehuels/erdviz/pkg/highlight"
	erdio "github.com/matzehuels/erdviz/pkg/io"
	"github.com/matzehuels/erdviz/pkg/observability"
	"github.com/matzehuels/erdviz/pkg/render"
	"github.com/matzehuels/erdviz/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching; a nil logger
// uses log.Default.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs the load, style and render stages.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	loadStart := time.Now()
	schema, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Schema: schema,
		Stats: Stats{
			EntityCount:       len(schema.Entities),
			RelationshipCount: len(schema.Relationships),
			LoadTime:          time.Since(loadStart),
		},
	}
	logger.Info("loaded schema",
		"source", opts.sourceName(),
		"entities", result.Stats.EntityCount,
		"relationships", result.Stats.RelationshipCount,
		"duration", result.Stats.LoadTime)

	dot, err := render.ToDOT(schema, Styler(opts.Colors, opts.Namespaces), opts.Render)
	if err != nil {
		return nil, fmt.Errorf("generate dot: %w", err)
	}
	result.DOT = dot

	renderStart := time.Now()
	artifacts, hits, err := r.RenderWithCacheInfo(ctx, dot, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo = CacheInfo{Hits: hits, RenderHit: len(hits) > 0 && len(hits) == cacheableFormats(opts.Formats)}

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(hits),
		"duration", result.Stats.RenderTime)
	return result, nil
}

// Load returns the schema named by opts.
func (r *Runner) Load(ctx context.Context, opts Options) (s *erd.Schema, err error) {
	name := opts.sourceName()
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)
	start := time.Now()
	defer func() {
		count := 0
		if s != nil {
			count = len(s.Entities)
		}
		hooks.OnLoadComplete(ctx, name, count, time.Since(start), err)
	}()

	switch {
	case opts.Schema != nil:
		if err := opts.Schema.Validate(); err != nil {
			return nil, err
		}
		return opts.Schema, nil
	case opts.SchemaFile != "":
		return erdio.ImportFile(opts.SchemaFile)
	default:
		l, err := source.Open(opts.Driver, opts.DSN)
		if err != nil {
			return nil, err
		}
		defer l.Close()
		l.Schema = opts.DBSchema
		l.Logger = r.logger(opts)
		if err := l.Ping(ctx); err != nil {
			return nil, err
		}
		return l.Load(ctx, opts.Name)
	}
}

// Styler builds the styler chain used for DOT generation. A nil colors
// source reads the default environment variable; a nil resolver disables
// clustering.
func Styler(colors highlight.RuleSource, namespaces erd.NamespaceResolver) render.Styler {
	var s render.Styler = highlight.NewStyler(render.BaseStyler{}, colors)
	if namespaces != nil {
		s = cluster.NewStyler(s, namespaces)
	}
	return s
}

// RenderWithCacheInfo renders dot to every format in opts and reports which
// formats were served from the cache. DOT output is never cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, dot string, opts Options) (map[string][]byte, []string, error) {
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()
	logger := r.logger(opts)

	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var hits []string
	for _, format := range opts.Formats {
		if format == render.FormatDOT {
			artifacts[format] = []byte(dot)
			continue
		}

		key := cache.ArtifactKey(dot, format)
		if !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				logger.Warn("cache read failed", "format", format, "error", err)
			} else if hit {
				cacheHooks.OnCacheHit(ctx, format)
				artifacts[format] = data
				hits = append(hits, format)
				continue
			}
			cacheHooks.OnCacheMiss(ctx, format)
		}

		data, err := render.Render(ctx, dot, format)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, nil, err
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
			logger.Warn("cache write failed", "format", format, "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, format, len(data))
		}
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, hits, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func cacheableFormats(formats []string) int {
	n := 0
	for _, f := range formats {
		if f != render.FormatDOT {
			n++
		}
	}
	return n
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}
