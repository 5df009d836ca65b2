package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/uakit/pkg/enrich"
	"github.com/dmitrymomot/uakit/pkg/event"
	"github.com/dmitrymomot/uakit/pkg/logger"
	"github.com/dmitrymomot/uakit/pkg/opensearch"
)

// line is one input line and, when it held a JSON object, its event.
type line struct {
	raw []byte
	ev  *event.Event
}

// batchWriter receives every enriched batch in input order.
type batchWriter func(ctx context.Context, batch []line) error

func newEnrichCmd(a *app) *cobra.Command {
	var toOpenSearch bool

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Enrich newline-delimited JSON events from stdin",
		Long: `Enrich reads one JSON event per line from standard input, writes the user
agent fields into each event and prints the events in input order. Lines
that are not JSON objects are passed through unchanged.

With --opensearch the events are indexed in bulk instead of printed.`,
		Example: `  uakit enrich --source agent --layout nested < events.ndjson
  uakit enrich --source '[http][user_agent]' --opensearch http://localhost:9200 --index web`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			engine, _, err := a.engine(ctx)
			if err != nil {
				return err
			}

			write := writeLines(cmd.OutOrStdout())
			if toOpenSearch {
				if write, err = a.openSearchWriter(ctx); err != nil {
					return err
				}
			}

			return a.enrichStream(ctx, engine, cmd.InOrStdin(), write)
		},
	}

	f := cmd.Flags()
	f.Int("workers", 4, "events enriched concurrently (UA_WORKERS)")
	f.Int("batch-size", 500, "events per batch (UA_BATCH_SIZE)")
	f.StringSlice("opensearch", nil, "index into these OpenSearch addresses (UA_OPENSEARCH_ADDRESSES)")
	f.String("index", "", "OpenSearch index (UA_OPENSEARCH_INDEX)")
	cmd.PreRun = func(cmd *cobra.Command, _ []string) {
		toOpenSearch = len(a.settings.OpenSearch.Addresses) > 0
	}
	return cmd
}

// enrichStream reads r in batches, enriches each batch on a bounded worker
// group and hands it to write before reading the next one.
func (a *app) enrichStream(ctx context.Context, engine *enrich.Engine, r io.Reader, write batchWriter) error {
	reader := bufio.NewReaderSize(r, 64*1024)
	size := a.settings.BatchSize
	n := 0

	for {
		batch, err := readBatch(reader, size)
		if len(batch) > 0 {
			if perr := a.enrichBatch(ctx, engine, batch, n); perr != nil {
				return perr
			}
			if werr := write(ctx, batch); werr != nil {
				return werr
			}
			n += len(batch)
		}
		if errors.Is(err, io.EOF) {
			a.log.InfoContext(ctx, "enrichment finished", logger.Component("enrich"), logger.Count(n))
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *app) enrichBatch(ctx context.Context, engine *enrich.Engine, batch []line, offset int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.settings.Workers)

	for i := range batch {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			l := &batch[i]
			ev, err := event.Parse(l.raw)
			if err != nil {
				a.log.WarnContext(ctx, "passing through invalid event",
					logger.Component("enrich"),
					slog.Int("line", offset+i+1),
					logger.Error(err),
				)
				return nil
			}
			engine.Apply(ctx, ev)
			l.ev = ev
			return nil
		})
	}
	return g.Wait()
}

// readBatch returns up to size non-empty lines. It returns io.EOF together
// with the final lines.
func readBatch(r *bufio.Reader, size int) ([]line, error) {
	batch := make([]line, 0, size)
	for len(batch) < size {
		raw, err := r.ReadBytes('\n')
		raw = trimEOL(raw)
		if len(raw) > 0 {
			batch = append(batch, line{raw: raw})
		}
		if err != nil {
			return batch, err
		}
	}
	return batch, nil
}

func trimEOL(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func writeLines(w io.Writer) batchWriter {
	bw := bufio.NewWriter(w)
	return func(_ context.Context, batch []line) error {
		for _, l := range batch {
			out := l.raw
			if l.ev != nil {
				data, err := json.Marshal(l.ev)
				if err != nil {
					return err
				}
				out = data
			}
			if _, err := bw.Write(out); err != nil {
				return err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		return bw.Flush()
	}
}

// openSearchWriter indexes the events of each batch. Lines that were not
// events are skipped with a warning.
func (a *app) openSearchWriter(ctx context.Context) (batchWriter, error) {
	cfg := a.settings.OpenSearch
	client, err := opensearch.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sink, err := opensearch.NewSink(client, cfg.Index,
		opensearch.WithLogger(a.log),
		opensearch.WithRefresh(cfg.Refresh),
	)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, batch []line) error {
		events := make([]*event.Event, 0, len(batch))
		for _, l := range batch {
			if l.ev != nil {
				events = append(events, l.ev)
			}
		}
		if skipped := len(batch) - len(events); skipped > 0 {
			a.log.WarnContext(ctx, "invalid events not indexed",
				logger.Component("opensearch"),
				logger.Count(skipped),
			)
		}
		if len(events) == 0 {
			return nil
		}
		res, err := sink.Write(ctx, events)
		a.log.DebugContext(ctx, "batch indexed",
			logger.Component("opensearch"),
			slog.String("index", sink.Index()),
			logger.Count(res.Indexed),
			slog.Int("failed", res.Failed),
		)
		return err
	}, nil
}
