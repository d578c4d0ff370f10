package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/layout"
	"github.com/matzehuels/supplychain/pkg/pipeline"
	"github.com/matzehuels/supplychain/pkg/worker"
)

// runFlags are the pipeline flags shared by render and layout.
type runFlags struct {
	opts      pipeline.Options
	collapse  string
	direction string
	routing   string
	noCache   bool
	useWorker bool
	timeout   time.Duration
}

func (f *runFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.opts.Algorithm, "algorithm", "a", "", "layout algorithm: layered (default), dot")
	fs.IntVarP(&f.opts.Level, "level", "l", 0, "collapse groups with this many ancestors (0 shows all)")
	fs.StringVar(&f.collapse, "collapse", "", "comma-separated group ids to collapse")
	fs.StringVar(&f.opts.Genealogy, "genealogy", "", "show only the neighborhood of this item")
	fs.StringVar(&f.opts.Highlight, "highlight", "", "highlight the items connected to this item")
	fs.StringVar(&f.opts.Search, "search", "", "mark items matching this text")
	fs.StringVar(&f.opts.HeatField, "heat", "", "record field that drives the heat overlay")
	fs.StringVar(&f.opts.LabelField, "label", "", "connection field summed into folding labels")
	fs.StringVar(&f.direction, "direction", "", "layout direction: left-to-right, right-to-left, top-to-bottom, bottom-to-top")
	fs.StringVar(&f.routing, "routing", "", "edge routing: orthogonal, polyline, octilinear, curved")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the layout and artifact cache")
	fs.BoolVar(&f.useWorker, "worker", false, "run layouts on a Redis worker")
	fs.DurationVar(&f.timeout, "timeout", pipeline.DefaultTimeout, "abort the run after this long")
}

// options merges the flags over the configuration.
func (f *runFlags) options(c *CLI, args []string) (pipeline.Options, error) {
	cfg := c.settings()
	opts := f.opts
	opts.Source = c.sourceArg(args)
	if opts.Source == "" {
		return opts, errors.New(errors.ErrCodeInvalidInput, "no data source: pass a file or URI, or set source in the config")
	}
	opts.SourceOptions = cfg.SourceOptions()
	if opts.Algorithm == "" {
		opts.Algorithm = cfg.Algorithm
	}
	if opts.Level == 0 {
		opts.Level = cfg.Level
	}
	if f.collapse != "" {
		opts.Collapse = strings.Split(f.collapse, ",")
	}
	lo := cfg.Layout
	if f.direction != "" {
		lo.Direction = layout.Direction(f.direction)
	}
	if f.routing != "" {
		lo.Routing = layout.Routing(f.routing)
	}
	opts.Layout = &lo
	if opts.Scale == 0 {
		opts.Scale = cfg.Export.Scale
	}
	if opts.Margins == 0 {
		opts.Margins = cfg.Export.Margins
	}
	return opts, nil
}

// execute runs the pipeline with a spinner.
func (f *runFlags) execute(ctx context.Context, c *CLI, opts pipeline.Options) (*pipeline.Result, error) {
	runner, store, err := c.newRunner(f.noCache)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if f.useWorker {
		cfg := c.settings()
		rdb := cfg.RedisClient()
		defer rdb.Close()
		conn, err := worker.NewRedisConn(ctx, rdb, cfg.Redis.Prefix)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		runner.Executor = worker.NewClient(conn, opts.Algorithm, c.Logger)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	spin := newSpinner(ctx, "Laying out "+opts.Source)
	spin.Start()
	res, err := runner.Execute(ctx, opts)
	spin.Stop()
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "run exceeded %s", f.timeout)
	}
	return res, err
}

type renderFlags struct {
	runFlags
	output  string
	formats string
	inline  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	f := &renderFlags{inline: true}

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Lay out a dataset and export it",
		Long: `Render loads a dataset, applies folding and filters, lays it out, and
writes one file per format. The source is a .json/.yaml file or a
mongodb:// or neo4j:// URI; without one the configured source is used.`,
		Example: `  supplychain render chain.yaml -f svg,png
  supplychain render chain.yaml --level 1 --heat co2 -o out/chain
  supplychain render mongodb://localhost/chain --genealogy item-42`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(c, args)
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(f.formats)
			opts.InlineImages = f.inline && c.settings().Export.InlineImages
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), f, opts)
		},
	}

	f.register(cmd.Flags())
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output base path (default: source name)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output formats: svg (default), png, pdf, json")
	cmd.Flags().Float64Var(&f.opts.Zoom, "zoom", 0, "export zoom")
	cmd.Flags().Float64Var(&f.opts.Scale, "scale", 0, "PNG raster scale")
	cmd.Flags().Float64Var(&f.opts.Margins, "margins", 0, "margin around the diagram")
	cmd.Flags().BoolVar(&f.inline, "inline-images", f.inline, "embed item images in the output")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, f *renderFlags, opts pipeline.Options) error {
	prog := newProgress(c.Logger)
	res, err := f.execute(ctx, c, opts)
	if err != nil {
		return err
	}

	base := f.output
	if base == "" {
		base = outputBase(opts.Source)
	}
	var written []string
	for _, format := range opts.Formats {
		path := outputPath(base, format, len(opts.Formats))
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrap(errors.ErrCodeExport, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeExport, err, "write %s", path)
		}
		written = append(written, path)
	}

	prog.done("rendered", "files", len(written))
	printSuccess("Rendered %s", StyleValue.Render(opts.Source))
	cached := len(res.CacheInfo.ArtifactHits) > 0
	printStats(res.Stats.Items, res.Stats.Connections, res.Stats.VisibleNodes, cached)
	for _, p := range written {
		printFile(p)
	}
	return nil
}

// outputBase derives an output base path from a source reference.
func outputBase(source string) string {
	if strings.Contains(source, "://") {
		return appName
	}
	return strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
}

// outputPath returns the file for one format. A single format given an
// explicit extension keeps it.
func outputPath(base, format string, n int) string {
	if n == 1 && strings.EqualFold(strings.TrimPrefix(filepath.Ext(base), "."), format) {
		return base
	}
	if format == pipeline.FormatJSON {
		return base + ".scene.json"
	}
	return base + "." + format
}
