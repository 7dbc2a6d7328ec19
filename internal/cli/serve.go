package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxarrow/internal/server"
	"github.com/matzehuels/boxarrow/pkg/cache"
	"github.com/matzehuels/boxarrow/pkg/observability/prom"
	"github.com/matzehuels/boxarrow/pkg/pipeline"
)

// apiKeyPrefix separates the server's cache entries from CLI runs sharing
// the same backend.
const apiKeyPrefix = "api:"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noMetrics bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the resolve-and-render pipeline over HTTP:

  POST /v1/resolve           resolve an input tree to geometry (JSON)
  POST /v1/render/{format}   resolve and render one format
  GET  /healthz              liveness and build information
  GET  /metrics              Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			cc, err := newCache(ctx, cfg.Cache, false)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, apiKeyPrefix), c.Logger)
			runner.TTL = cfg.Cache.TTL.Std()
			defer runner.Close()

			var opts []server.Option
			if !noMetrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				prom.New(reg).Install()
				opts = append(opts, server.WithMetrics(reg))
			}

			printInfo("Listening on %s", StyleHighlight.Render(cfg.Server.Addr))
			return server.New(runner, cfg, c.Logger, opts...).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}
