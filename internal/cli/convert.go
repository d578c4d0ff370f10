package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/supplychain/pkg/errors"
	scio "github.com/matzehuels/supplychain/pkg/io"
	"github.com/matzehuels/supplychain/pkg/source"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <source> <output>",
		Short: "Convert a dataset to JSON or YAML",
		Long: `Convert loads a dataset from any source and writes its records to a
.json, .yaml or .yml file. Use it to snapshot a database into a file.`,
		Example: `  supplychain convert chain.json chain.yaml
  supplychain convert mongodb://localhost/chain snapshot.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := scio.FormatFromPath(args[1]); err != nil {
				return err
			}
			so := c.settings().SourceOptions()
			so.Logger = c.Logger
			src, err := source.Open(ctx, args[0], so)
			if err != nil {
				return err
			}
			defer src.Close(ctx)

			data, err := src.Load(ctx)
			if err != nil {
				return err
			}
			if err := scio.Export(data, args[1]); err != nil {
				return errors.Wrap(errors.ErrCodeExport, err, "write %s", args[1])
			}
			printSuccess("Converted %s", StyleValue.Render(src.Name()))
			printDetail("%d items, %d connections", len(data.Items), len(data.Connections))
			printFile(args[1])
			return nil
		},
	}
	return cmd
}
