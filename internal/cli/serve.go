package cli

import (
	"context"
	"net"

	"github.com/spf13/cobra"

	"github.com/matzehuels/supplychain/internal/server"
	"github.com/matzehuels/supplychain/pkg/pipeline"
	"github.com/matzehuels/supplychain/pkg/source"
)

type serveFlags struct {
	runFlags
	addr  string
	watch bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve [source]",
		Short: "Serve an interactive diagram over HTTP",
		Long: `Serve loads a dataset into a model and exposes its folding, highlight,
layout and export operations as a JSON API. Scene updates are pushed to
websocket clients on /ws and Prometheus metrics are served on /metrics.`,
		Example: `  supplychain serve chain.yaml --watch
  supplychain serve neo4j://localhost:7687 --addr :9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(c, args)
			if err != nil {
				return err
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			cfg := c.settings()
			if !cmd.Flags().Changed("addr") {
				f.addr = cfg.Server.Addr
			}
			if !cmd.Flags().Changed("watch") {
				f.watch = cfg.Server.Watch
			}
			return c.runServe(cmd.Context(), f, opts)
		},
	}

	f.register(cmd.Flags())
	cmd.Flags().StringVar(&f.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "reload the data file when it changes")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, f *serveFlags, opts pipeline.Options) error {
	c.registerMetrics()
	prog := newProgress(c.Logger)

	runner, store, err := c.newRunner(f.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	so := opts.SourceOptions
	so.Logger = c.Logger
	src, err := source.Open(ctx, opts.Source, so)
	if err != nil {
		return err
	}
	defer src.Close(context.WithoutCancel(ctx))

	data, err := src.Load(ctx)
	if err != nil {
		return err
	}
	m, err := runner.Build(ctx, data, opts)
	if err != nil {
		return err
	}
	prog.done("model ready", "source", src.Name(), "items", len(data.Items))

	srv := server.New(m, server.Options{Addr: f.addr, Source: src, Watch: f.watch, Logger: c.Logger})
	printSuccess("Serving %s", StyleValue.Render(src.Name()))
	printKeyValue("address", f.addr)
	if f.watch {
		printKeyValue("watch", "on")
	}
	printNextStep("Fetch the scene", "curl http://"+localURL(f.addr)+"/api/scene")
	return srv.Run(ctx)
}

// localURL turns a listen address into a host:port for local requests.
func localURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
