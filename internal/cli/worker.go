package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/supplychain/pkg/cache"
	"github.com/matzehuels/supplychain/pkg/pipeline"
	"github.com/matzehuels/supplychain/pkg/worker"
)

// workerCommand creates the worker command.
func (c *CLI) workerCommand() *cobra.Command {
	var (
		algorithm   string
		redisAddr   string
		concurrency int
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run layout requests from Redis",
		Long: `Worker takes layout requests from the Redis list shared with clients
started with --worker, runs them, and publishes the replies. Any number of
workers can serve the same prefix.`,
		Example: `  SUPPLYCHAIN_REDIS_ADDR=redis:6379 supplychain worker --concurrency 4`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			if algorithm == "" {
				algorithm = cfg.Algorithm
			}
			alg, err := pipeline.Algorithm(algorithm)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = cfg.Worker.Concurrency
			}
			if redisAddr != "" {
				cfg.Redis.Addr = redisAddr
			}

			var store cache.Cache = cache.NewNullCache()
			if !noCache {
				if store, err = cfg.OpenCache(); err != nil {
					return err
				}
			}
			defer store.Close()

			c.registerMetrics()
			rdb := cfg.RedisClient()
			defer rdb.Close()
			l := worker.NewRedisListener(rdb, cfg.Redis.Prefix)
			defer l.Close()

			printSuccess("Worker ready")
			printKeyValue("algorithm", alg.Name())
			printKeyValue("redis", cfg.Redis.Addr)
			printKeyValue("concurrency", StyleNumber.Render(strconv.Itoa(concurrency)))
			return worker.Serve(cmd.Context(), l, alg, worker.ServeOptions{
				Cache:       store,
				CacheTTL:    cfg.Cache.TTL,
				Concurrency: concurrency,
				Logger:      c.Logger,
			})
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "layout algorithm: layered (default), dot")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address (overrides config and SUPPLYCHAIN_REDIS_ADDR)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", worker.DefaultConcurrency, "requests handled in parallel")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	return cmd
}
