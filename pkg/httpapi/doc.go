// Package httpapi serves user-agent classification and event enrichment
// over HTTP.
//
// NewHandler builds a chi router around an Engine:
//
//	GET  /v1/classify?ua=...   classify one user agent
//	POST /v1/classify          {"user_agent": "..."}
//	POST /v1/enrich            one JSON event or an array of events
//	GET  /healthz              liveness
//	GET  /readyz               readiness, runs the registered checks
//	GET  /metrics              optional, see WithMetrics
//
// Classification answers 200 with the laid-out fields, or 204 when the input
// is empty or cannot be classified. Every response carries an X-Request-ID
// header; incoming IDs are kept when they are well formed, otherwise a UUID is
// generated. The ID is available through RequestIDFromContext and is added
// to log records by RequestIDExtractor.
//
// Server runs a handler with graceful shutdown on context cancellation or
// SIGINT/SIGTERM:
//
//	srv := httpapi.NewServer(httpapi.WithAddr(":8080"), httpapi.WithLogger(log))
//	if err := srv.Run(ctx, httpapi.NewHandler(engine)); err != nil {
//		return err
//	}
package httpapi
