package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/erdviz/pkg/errors"
	"github.com/matzehuels/erdviz/pkg/pipeline"
	"github.com/matzehuels/erdviz/pkg/render"
	"github.com/matzehuels/erdviz/pkg/source"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path (multiple)
	formats  []string // output formats: dot, svg, png
	driver   string   // database driver for live introspection
	dsn      string   // database connection string
	dbSchema string   // database schema (postgres/mysql)
	name     string   // diagram name for database sources
	rankDir  string   // overrides render.rankdir when set
	types    bool     // show attribute types
	noCache  bool     // disable the artifact cache
	refresh  bool     // re-render even when cached
	watch    bool     // re-render whenever the schema file changes
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [schema]",
		Short: "Render an entity-relationship diagram",
		Long: `Render an entity-relationship diagram from a JSON or YAML schema document,
or from a live database with --db and --dsn.

Entities are clustered by the pack, gem or code owner that defines them and
colored by the rules in the colors config key or ERDVIZ_COLORS.

Rendered SVG and PNG artifacts are cached by the hash of the generated DOT.`,
		Example: `  erdviz render schema.json
  erdviz render schema.yaml -f dot,svg -o docs/erd
  erdviz render --db postgres --dsn "postgres://localhost/app?sslmode=disable"
  erdviz render schema.json --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := render.ValidateFormats(opts.formats); err != nil {
				return err
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			if opts.watch && input == "" {
				return errors.New(errors.ErrCodeInvalidInput, "--watch needs a schema file")
			}
			return c.runRender(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png (comma-separated)")
	cmd.Flags().StringVar(&opts.driver, "db", "", "introspect a database: "+strings.Join(source.Drivers, ", "))
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "database connection string")
	cmd.Flags().StringVar(&opts.dbSchema, "db-schema", "", "database schema (default: public for postgres, current database for mysql)")
	cmd.Flags().StringVar(&opts.name, "name", "", "diagram name (database sources)")
	cmd.Flags().StringVar(&opts.rankDir, "rankdir", "", "graph direction: LR, RL, TB or BT")
	cmd.Flags().BoolVar(&opts.types, "types", false, "show attribute types")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the schema file changes")

	return cmd
}

// runRender renders once, then keeps re-rendering on change when watching.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	project, err := pipeline.OpenProject(cfg, c.Logger)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := project.Options()
	popts.SchemaFile = input
	popts.Driver = opts.driver
	popts.DSN = opts.dsn
	popts.DBSchema = opts.dbSchema
	popts.Name = opts.name
	popts.Formats = opts.formats
	popts.Refresh = opts.refresh
	popts.Logger = c.Logger
	if opts.rankDir != "" {
		popts.Render.RankDir = opts.rankDir
	}
	if opts.types {
		popts.Render.ShowTypes = true
	}

	base := basePath(opts.output, input, popts.Name)
	if err := c.renderOnce(ctx, runner, popts, base); err != nil || !opts.watch {
		return err
	}

	return c.watchFile(ctx, input, func() {
		if err := c.renderOnce(ctx, runner, popts, base); err != nil {
			printError("%s", errors.UserMessage(err))
		}
	})
}

// renderOnce executes the pipeline and writes one file per format.
func (c *CLI) renderOnce(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, base string) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", sourceLabel(opts))
	p := newProgress(logger)

	spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, base)
	if err != nil {
		return err
	}

	p.done(fmt.Sprintf("Rendered %d entities, %d relationships", result.Stats.EntityCount, result.Stats.RelationshipCount))
	printSuccess("Rendered %s", diagramName(result, base))
	for _, path := range paths {
		printFile(path)
	}
	printStats(result.Stats.EntityCount, result.Stats.RelationshipCount, result.CacheInfo.RenderHit)
	return nil
}

// writeArtifacts writes artifacts to base.<format> in the order requested.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "create output directory")
		}
	}
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the output base path. An explicit output loses a known
// format extension; otherwise the input's extension is stripped. Database
// sources fall back to the diagram name.
func basePath(output, input, name string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if render.ValidateFormats([]string{strings.TrimPrefix(ext, ".")}) == nil && ext != "" {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if input != "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if name != "" {
		return name
	}
	return "erd"
}

func diagramName(result *pipeline.Result, base string) string {
	if result.Schema != nil && result.Schema.Name != "" {
		return result.Schema.Name
	}
	return filepath.Base(base)
}

func sourceLabel(opts pipeline.Options) string {
	if opts.SchemaFile != "" {
		return opts.SchemaFile
	}
	return opts.Driver + " database"
}
