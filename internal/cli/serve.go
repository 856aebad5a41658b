package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/badgeboard/internal/metrics"
	"github.com/matzehuels/badgeboard/internal/server"
	"github.com/matzehuels/badgeboard/pkg/store"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noStore   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the badge API over HTTP",
		Long: `Serve the badge API over HTTP for a host application: field catalogue,
document validation, badge resolution, preview rendering, template storage
and Prometheus metrics at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Serve.Addr
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			cfg := server.Config{
				Logger:      c.Logger,
				Runner:      runner,
				Placeholder: c.Config.Placeholder,
			}
			if !noStore {
				st, err := c.Config.openStore(ctx)
				if err != nil {
					return err
				}
				defer st.Close()
				cfg.Store = st
			}
			if !noMetrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				m := metrics.NewMetrics()
				m.Install()
				cfg.Registry, cfg.Metrics = reg, m
			}

			srv, err := server.New(cfg)
			if err != nil {
				return err
			}
			c.Logger.Info("serving", "addr", addr, "store", storeName(cfg.Store, c.Config), "metrics", !noMetrics)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the preview cache")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "disable /templates")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable /metrics")
	return cmd
}

func storeName(st store.Store, cfg Config) string {
	if st == nil {
		return "none"
	}
	return cfg.Store.Backend
}
