package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/erdviz/pkg/cluster"
	"github.com/matzehuels/erdviz/pkg/pipeline"
)

// classifyCommand prints the namespace label of each named entity.
func (c *CLI) classifyCommand() *cobra.Command {
	var showPath bool

	cmd := &cobra.Command{
		Use:   "classify [entity...]",
		Short: "Print the namespace label of entities",
		Long: `Print the namespace label each entity would be clustered under.

Labels are resolved from the entity's source file: a pack root gives
"pack: <name>", a code owner gives "owner: <team>", an installed library gives
"gem: <name>". Entities without a source file are "unknown".`,
		Example: `  erdviz classify Invoice Account
  erdviz classify Invoice --path`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			project, err := pipeline.OpenProject(cfg, c.Logger)
			if err != nil {
				return err
			}

			for _, name := range args {
				res := project.Classifier.Classify(name)
				printKeyValue(name, res.Label())
				if res.Kind == cluster.KindUnknown {
					printWarning("no source file found for %s", name)
					continue
				}
				if showPath && res.Path != "" {
					printDetail("%s", res.Path)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showPath, "path", "p", false, "also print the defining source file")

	return cmd
}
