// Package opensearch connects to an OpenSearch cluster and indexes enriched
// events into it.
//
// New builds a client from Config and checks that the cluster answers.
// Sink writes batches of events with the _bulk API:
//
//	client, err := opensearch.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	sink, err := opensearch.NewSink(client, cfg.Index, opensearch.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	res, err := sink.Write(ctx, events)
//
// Write reports per-document failures through BulkResult and returns
// ErrBulkFailed when the request or any document failed. Healthcheck
// returns a probe suitable for readiness endpoints.
package opensearch
