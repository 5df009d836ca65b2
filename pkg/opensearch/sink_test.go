package opensearch_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	osgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uakit/pkg/event"
	"github.com/dmitrymomot/uakit/pkg/opensearch"
)

const infoBody = `{"name":"node-1","cluster_name":"test","version":{"distribution":"opensearch","number":"2.11.0"},"tagline":"The OpenSearch Project: https://opensearch.org/"}`

type fakeCluster struct {
	mu       sync.Mutex
	paths    []string
	lines    []string
	response string
	status   int
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == "/" {
		_, _ = w.Write([]byte(infoBody))
		return
	}

	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	sc := bufio.NewScanner(r.Body)
	for sc.Scan() {
		f.lines = append(f.lines, sc.Text())
	}
	status, body := f.status, f.response
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func newClient(t *testing.T, h http.Handler) *osgo.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	client, err := opensearch.New(context.Background(), opensearch.Config{
		Addresses:    []string{srv.URL},
		DisableRetry: true,
	})
	require.NoError(t, err)
	return client
}

type observer struct{ indexed, failed int }

func (o *observer) ObserveSink(indexed, failed int) {
	o.indexed += indexed
	o.failed += failed
}

func TestNewSink(t *testing.T) {
	t.Parallel()

	_, err := opensearch.NewSink(nil, "idx")
	assert.ErrorIs(t, err, opensearch.ErrNilClient)

	client := newClient(t, &fakeCluster{})
	_, err = opensearch.NewSink(client, "")
	assert.ErrorIs(t, err, opensearch.ErrEmptyIndex)
}

func TestSink_Write(t *testing.T) {
	t.Parallel()

	events := []*event.Event{
		event.New(map[string]any{"agent": "curl/8.4.0", "ua": map[string]any{"name": "curl"}}),
		event.New(map[string]any{"agent": "wget"}),
	}

	t.Run("all indexed", func(t *testing.T) {
		cluster := &fakeCluster{response: `{"took":3,"errors":false,"items":[{"index":{"status":201}},{"index":{"status":201}}]}`}
		obs := &observer{}
		sink, err := opensearch.NewSink(newClient(t, cluster), "uakit-events", opensearch.WithObserver(obs), opensearch.WithRefresh("wait_for"))
		require.NoError(t, err)

		res, err := sink.Write(context.Background(), events)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Indexed)
		assert.Zero(t, res.Failed)
		assert.Equal(t, 2, obs.indexed)

		require.Equal(t, []string{"/uakit-events/_bulk"}, cluster.paths)
		require.Len(t, cluster.lines, 4)
		assert.Equal(t, `{"index":{}}`, cluster.lines[0])
		assert.JSONEq(t, `{"agent":"curl/8.4.0","ua":{"name":"curl"}}`, cluster.lines[1])
	})

	t.Run("item failures", func(t *testing.T) {
		cluster := &fakeCluster{response: `{"took":3,"errors":true,"items":[
			{"index":{"status":201}},
			{"index":{"status":400,"error":{"type":"mapper_parsing_exception","reason":"failed to parse field [agent]"}}}
		]}`}
		sink, err := opensearch.NewSink(newClient(t, cluster), "uakit-events")
		require.NoError(t, err)

		res, err := sink.Write(context.Background(), append(events, nil))
		assert.ErrorIs(t, err, opensearch.ErrBulkFailed)
		assert.Equal(t, 1, res.Indexed)
		assert.Equal(t, 2, res.Failed)
		assert.Contains(t, strings.Join(res.Reasons, ";"), "mapper_parsing_exception")
	})

	t.Run("request rejected", func(t *testing.T) {
		cluster := &fakeCluster{status: http.StatusForbidden, response: `{"error":"forbidden"}`}
		sink, err := opensearch.NewSink(newClient(t, cluster), "uakit-events")
		require.NoError(t, err)

		res, err := sink.Write(context.Background(), events)
		assert.ErrorIs(t, err, opensearch.ErrBulkFailed)
		assert.Equal(t, 2, res.Failed)
	})

	t.Run("nothing to send", func(t *testing.T) {
		cluster := &fakeCluster{}
		sink, err := opensearch.NewSink(newClient(t, cluster), "uakit-events")
		require.NoError(t, err)

		res, err := sink.Write(context.Background(), nil)
		require.NoError(t, err)
		assert.Zero(t, res.Indexed)
		assert.Empty(t, cluster.paths)
	})
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := opensearch.New(context.Background(), opensearch.Config{})
	assert.ErrorIs(t, err, opensearch.ErrNoAddresses)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err = opensearch.New(context.Background(), opensearch.Config{Addresses: []string{srv.URL}, DisableRetry: true})
	assert.ErrorIs(t, err, opensearch.ErrHealthcheckFailed)
}
