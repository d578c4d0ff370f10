package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/pipeline"
)

// layoutCommand creates the layout command, which prints the positioned
// scene instead of an image.
func (c *CLI) layoutCommand() *cobra.Command {
	f := &runFlags{}
	var output string

	cmd := &cobra.Command{
		Use:   "layout [source]",
		Short: "Print the positioned scene of a dataset as JSON",
		Long: `Layout runs the same pipeline as render and writes the visible nodes and
edges with their computed geometry as JSON, for use by other renderers.`,
		Example: `  supplychain layout chain.yaml --level 1 > scene.json
  supplychain layout chain.yaml --algorithm dot --direction top-to-bottom`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(c, args)
			if err != nil {
				return err
			}
			opts.Formats = []string{pipeline.FormatJSON}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), f, opts, output)
		},
	}

	f.register(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) runLayout(ctx context.Context, f *runFlags, opts pipeline.Options, output string) error {
	res, err := f.execute(ctx, c, opts)
	if err != nil {
		return err
	}
	scene := res.Artifacts[pipeline.FormatJSON]
	c.Logger.Debug("layout complete",
		"nodes", res.Stats.VisibleNodes, "edges", res.Stats.VisibleEdges, "layout", res.Stats.LayoutTime)

	if output == "" {
		_, err := fmt.Fprintln(os.Stdout, string(scene))
		return err
	}
	if err := os.WriteFile(output, scene, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeExport, err, "write %s", output)
	}
	printSuccess("Laid out %s", StyleValue.Render(opts.Source))
	printFile(output)
	return nil
}
