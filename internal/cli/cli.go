// Package cli implements the supplychain command-line interface.
//
// # Commands
//
//   - render: lay out a dataset and export SVG, PNG, PDF or scene JSON
//   - layout: print the positioned scene of a dataset as JSON
//   - serve: serve an interactive model over HTTP and websockets
//   - browse: explore the grouping tree in the terminal
//   - worker: run layout requests from Redis
//   - convert: convert datasets between JSON and YAML
//   - cache: manage the layout and artifact cache
//
// # Configuration
//
// Settings come from ~/.config/supplychain/config.toml (or --config), a
// .env file in the working directory, and SUPPLYCHAIN_* variables; flags
// override them. See package config.
//
// # Logging
//
// Logs go to stderr through charmbracelet/log. --verbose enables debug
// output and --log-format json switches to structured lines.
package cli

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/supplychain/pkg/buildinfo"
	"github.com/matzehuels/supplychain/pkg/cache"
	"github.com/matzehuels/supplychain/pkg/config"
	"github.com/matzehuels/supplychain/pkg/httputil"
	"github.com/matzehuels/supplychain/pkg/observability"
	"github.com/matzehuels/supplychain/pkg/pipeline"
)

const appName = "supplychain"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	logFormat  string
	cfg        *config.Config

	metricsOnce sync.Once
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level, formatText)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Supplychain lays out and explores grouped supply-chain graphs",
		Long:         `Supplychain loads items and connections from files or databases, folds them into groups, and lays them out incrementally for export or interactive exploration.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.applyLogFormat(); err != nil {
				return err
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/supplychain/config.toml)")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", formatText, "log format: text, json")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.workerCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// settings returns the loaded configuration, or the defaults before
// PersistentPreRunE ran.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// registerMetrics installs the Prometheus and tracing hooks once.
func (c *CLI) registerMetrics() {
	c.metricsOnce.Do(func() {
		m := observability.NewMetrics(prometheus.DefaultRegisterer)
		observability.SetSyncHooks(m)
		observability.SetWorkerHooks(m)
		observability.SetCacheHooks(m)
		observability.SetLayoutHooks(observability.ChainLayoutHooks(m, observability.NewTracing()))
	})
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The caller closes the
// returned cache.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, cache.Cache, error) {
	cfg := c.settings()
	var store cache.Cache = cache.NewNullCache()
	if !noCache {
		var err error
		if store, err = cfg.OpenCache(); err != nil {
			return nil, nil, err
		}
	}
	r := pipeline.NewRunner(store, nil, c.Logger)
	r.Fetcher = &httputil.Fetcher{}
	if !noCache {
		images, err := httputil.NewCache(imageCacheDir(cfg), cfg.Cache.TTL)
		if err != nil {
			c.Logger.Warn("image cache unavailable", "err", err)
		} else {
			r.Fetcher.Cache = images
		}
	}
	return r, store, nil
}

// sourceArg returns the dataset named on the command line or configured.
func (c *CLI) sourceArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return c.settings().DefaultSource()
}

// parseFormats parses a comma-separated format list.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

// stderrIsTerminal reports whether progress output can be animated.
func stderrIsTerminal() bool {
	fi, err := os.Stderr.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
