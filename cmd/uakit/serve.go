package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/uakit/pkg/enrich"
	"github.com/dmitrymomot/uakit/pkg/httpapi"
	"github.com/dmitrymomot/uakit/pkg/metrics"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the classification API over HTTP",
		Long: `Serve exposes the engine over HTTP:

  GET  /v1/classify?ua=...   classify one user agent
  POST /v1/classify          classify {"user_agent": "..."}
  POST /v1/enrich            enrich one event or an array of events
  GET  /healthz, /readyz     liveness and readiness
  GET  /metrics              Prometheus metrics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			collector, err := metrics.New(metrics.FromConfig(a.settings.Metrics)...)
			if err != nil {
				return err
			}
			if err := collector.TrackLookups(a.lookups); err != nil {
				return err
			}

			engine, checks, err := a.engine(ctx, enrich.WithRecorder(collector))
			if err != nil {
				return err
			}

			handler := httpapi.NewHandler(engine,
				httpapi.WithLogger(a.log),
				httpapi.WithMetrics(collector.Handler()),
				httpapi.WithReadiness(checks...),
				httpapi.WithMaxBodyBytes(a.settings.HTTP.MaxBodyBytes),
			)
			srv := httpapi.NewServerFromConfig(a.settings.HTTP, httpapi.WithServerLogger(a.log))
			return srv.Run(ctx, handler)
		},
	}
	cmd.Flags().String("addr", "", "listen address (UA_HTTP_ADDR)")
	return cmd
}
