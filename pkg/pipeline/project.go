package pipeline

import (
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erdviz/pkg/cluster"
	"github.com/matzehuels/erdviz/pkg/config"
	"github.com/matzehuels/erdviz/pkg/highlight"
	"github.com/matzehuels/erdviz/pkg/locate"
	"github.com/matzehuels/erdviz/pkg/ownership"
	"github.com/matzehuels/erdviz/pkg/render"
)

// Project wires the classification and color settings of a config into
// pipeline inputs.
type Project struct {
	Config     *config.Config
	Classifier *cluster.Classifier
	Owners     *ownership.Registry
	Colors     highlight.RuleSource
}

// OpenProject indexes the model sources under cfg.ProjectRoot and prepares
// the ownership registry. Ownership is computed lazily on first lookup.
func OpenProject(cfg *config.Config, logger *log.Logger) (*Project, error) {
	if logger == nil {
		logger = log.Default()
	}

	index, err := locate.Scan(cfg.ProjectRoot, cfg.ModelGlobs)
	if err != nil {
		return nil, err
	}
	logger.Debug("indexed model sources", "root", cfg.ProjectRoot, "entities", index.Len())

	owners := ownership.NewRegistry(ownershipProvider(cfg), logger)

	return &Project{
		Config: cfg,
		Classifier: &cluster.Classifier{
			Locator:     index,
			Owners:      owners,
			ProjectRoot: cfg.ProjectRoot,
			PackRoots:   roots(cfg.PackRoots),
			GemRoots:    roots(cfg.GemRoots),
			Logger:      logger,
		},
		Owners: owners,
		Colors: cfg.ColorSource(),
	}, nil
}

// ownershipProvider prefers an explicit mapping file over CODEOWNERS.
func ownershipProvider(cfg *config.Config) ownership.Provider {
	if cfg.OwnershipFile != "" {
		return ownership.MappingFileProvider{Path: cfg.OwnershipFile}
	}
	return ownership.CodeownersProvider{
		Root:    cfg.ProjectRoot,
		File:    cfg.Codeowners,
		Include: relativeGlobs(cfg.ModelGlobs),
	}
}

// relativeGlobs drops absolute globs such as installed library directories,
// which lie outside the project and so have no CODEOWNERS entry.
func relativeGlobs(globs []string) []string {
	var out []string
	for _, g := range globs {
		if !path.IsAbs(filepath.ToSlash(g)) {
			out = append(out, g)
		}
	}
	return out
}

func roots(paths []string) []cluster.Root {
	out := make([]cluster.Root, len(paths))
	for i, p := range paths {
		out[i] = cluster.Root(p)
	}
	return out
}

// Options returns pipeline options carrying the project's settings. The
// caller sets the schema source and formats.
func (p *Project) Options() Options {
	return Options{
		Render:     render.Options{RankDir: p.Config.Render.RankDir, ShowTypes: p.Config.Render.ShowTypes},
		Colors:     p.Colors,
		Namespaces: p.Classifier,
		TTL:        p.Config.Cache.TTL.Duration,
	}
}
