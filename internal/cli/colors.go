package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/erdviz/pkg/highlight"
)

// colorsCommand prints the table and row colors resolved for attribute names.
func (c *CLI) colorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "colors [attribute...]",
		Short: "Print the colors matched by attribute names",
		Long: `Print the table and row colors the configured rules assign to each
attribute name. The first matching rule wins; unmatched names are transparent.`,
		Example: `  erdviz colors user_id email
  ERDVIZ_COLORS='[{"name_in": ["email"], "row_color": "#FF0000"}]' erdviz colors email`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			rules, err := cfg.ColorSource().Rules()
			if err != nil {
				return err
			}
			c.Logger.Debug("color rules loaded", "rules", len(rules))

			for _, name := range args {
				col := highlight.ColorsFor(name, rules)
				printColorPair(name, col.TableColor, col.RowColor)
			}
			return nil
		},
	}
}
