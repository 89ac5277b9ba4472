package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/config"
	"github.com/abhisek/mathdrill/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP progress service",
	Long: `Serve accepts progress events from remote MathDrill clients (progress sink
"http") and stores them in the configured database. Metrics are exposed on
/metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		// The service always writes to its own database.
		cfg.Progress.Sink = config.SinkLocal

		env, err := setupWith(cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		srv := server.New(server.Options{
			Progress:       env.st.ProgressRepo(),
			Events:         env.st.EventRepo(),
			Catalog:        env.cat,
			Logger:         env.log,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Registry:       reg,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		env.log.Info("progress service listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("driver", cfg.Database.Driver))
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
