package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dmitrymomot/uakit/pkg/event"
	"github.com/dmitrymomot/uakit/pkg/logger"
)

// maxReasons bounds how many item errors a BulkResult keeps.
const maxReasons = 5

// Observer is notified after every bulk write.
type Observer interface {
	ObserveSink(indexed, failed int)
}

// BulkResult summarises one bulk write.
type BulkResult struct {
	Indexed int
	Failed  int
	Reasons []string
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithLogger sets the logger item failures are reported to.
func WithLogger(l *slog.Logger) SinkOption {
	return func(s *Sink) { s.log = logger.OrDiscard(l) }
}

// WithRefresh sets the refresh parameter of bulk requests ("true", "false", "wait_for").
func WithRefresh(refresh string) SinkOption {
	return func(s *Sink) { s.refresh = refresh }
}

// WithObserver registers an observer for write results.
func WithObserver(o Observer) SinkOption {
	return func(s *Sink) { s.observer = o }
}

// Sink indexes events into a single index. It is safe for concurrent use.
type Sink struct {
	client   *opensearch.Client
	index    string
	refresh  string
	log      *slog.Logger
	observer Observer
}

// NewSink returns a Sink writing to index.
func NewSink(client *opensearch.Client, index string, opts ...SinkOption) (*Sink, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if index == "" {
		return nil, ErrEmptyIndex
	}
	s := &Sink{client: client, index: index, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Index returns the target index name.
func (s *Sink) Index() string { return s.index }

type bulkItem struct {
	Status int `json:"status"`
	Error  *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

type bulkResponse struct {
	Errors bool                  `json:"errors"`
	Items  []map[string]bulkItem `json:"items"`
}

// Write indexes events with one bulk request. Events that cannot be encoded
// are counted as failed without being sent.
func (s *Sink) Write(ctx context.Context, events []*event.Event) (BulkResult, error) {
	var (
		res  BulkResult
		body bytes.Buffer
		sent int
	)

	for _, ev := range events {
		if ev == nil {
			res.Failed++
			res.addReason("nil event")
			continue
		}
		doc, err := json.Marshal(ev)
		if err != nil {
			res.Failed++
			res.addReason(err.Error())
			continue
		}
		body.WriteString(`{"index":{}}` + "\n")
		body.Write(doc)
		body.WriteByte('\n')
		sent++
	}

	if sent == 0 {
		return s.finish(ctx, res)
	}

	opts := []func(*opensearchapi.BulkRequest){
		s.client.Bulk.WithContext(ctx),
		s.client.Bulk.WithIndex(s.index),
	}
	if s.refresh != "" {
		opts = append(opts, s.client.Bulk.WithRefresh(s.refresh))
	}

	resp, err := s.client.Bulk(&body, opts...)
	if err != nil {
		res.Failed += sent
		s.notify(res)
		return res, errors.Join(ErrBulkFailed, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		res.Failed += sent
		s.notify(res)
		return res, fmt.Errorf("%w: status %d", ErrBulkFailed, resp.StatusCode)
	}

	var br bulkResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		res.Failed += sent
		s.notify(res)
		return res, errors.Join(ErrBulkFailed, err)
	}

	for _, item := range br.Items {
		for _, r := range item {
			if r.Error != nil || r.Status >= 300 {
				res.Failed++
				if r.Error != nil {
					res.addReason(r.Error.Type + ": " + r.Error.Reason)
				}
				continue
			}
			res.Indexed++
		}
	}

	return s.finish(ctx, res)
}

func (s *Sink) finish(ctx context.Context, res BulkResult) (BulkResult, error) {
	s.notify(res)
	if res.Failed == 0 {
		return res, nil
	}
	s.log.WarnContext(ctx, "bulk write had failures",
		logger.Component("opensearch"),
		slog.String("index", s.index),
		logger.Count(res.Indexed),
		slog.Int("failed", res.Failed),
		slog.Any("reasons", res.Reasons),
	)
	return res, fmt.Errorf("%w: %d of %d documents failed", ErrBulkFailed, res.Failed, res.Failed+res.Indexed)
}

func (s *Sink) notify(res BulkResult) {
	if s.observer != nil {
		s.observer.ObserveSink(res.Indexed, res.Failed)
	}
}

func (r *BulkResult) addReason(reason string) {
	if len(r.Reasons) < maxReasons {
		r.Reasons = append(r.Reasons, reason)
	}
}
