package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybrty/pentest-e2e/config"
)

// newFakeBackend starts an httptest server speaking just enough of the
// OpenSearch REST API for the client under test, and returns a client
// pointed at it.
func newFakeBackend(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	c, err := NewClient(config.SearchConfig{
		Host:    u.Hostname(),
		Port:    port,
		Scheme:  "http",
		Timeout: 5 * time.Second,
	}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestSearchDecodesHitsAndTotal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cybrty-runs/_search", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "query")
		assert.EqualValues(t, 10, body["size"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hits": {
				"total": {"value": 2, "relation": "eq"},
				"hits": [
					{"_id": "1", "_index": "cybrty-runs", "_source": {"run_id": "run-1", "status": "completed"}},
					{"_id": "2", "_index": "cybrty-runs", "_source": {"run_id": "run-2", "status": "failed"}}
				]
			}
		}`))
	})

	c := newFakeBackend(t, mux)
	res, err := c.Search(context.Background(), "cybrty-runs", MatchAll(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Hits, 2)
	assert.Equal(t, "1", res.Hits[0].ID)
	assert.Contains(t, string(res.Hits[0].Source), `"run_id"`)
}

func TestSearchErrorStatusIncludesBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/missing/_search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"}}`))
	})

	c := newFakeBackend(t, mux)
	_, err := c.Search(context.Background(), "missing", MatchAll(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index_not_found_exception")
}

func TestCount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cybrty-actions/_count", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count": 7}`))
	})

	c := newFakeBackend(t, mux)
	n, err := c.Count(context.Background(), "cybrty-actions", Term("run_id", "run-1"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestRefreshIndex(t *testing.T) {
	var refreshed bool
	mux := http.NewServeMux()
	mux.HandleFunc("/cybrty-runs/_refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshed = true
		_, _ = w.Write([]byte(`{"_shards":{"total":1,"successful":1,"failed":0}}`))
	})

	c := newFakeBackend(t, mux)
	require.NoError(t, c.RefreshIndex(context.Background(), "cybrty-runs"))
	assert.True(t, refreshed)
}

func TestIndexExists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/present", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/absent", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c := newFakeBackend(t, mux)

	exists, err := c.IndexExists(context.Background(), "present")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.IndexExists(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetDocumentMissingReturnsNil(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cybrty-runs/_doc/run-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"run-1","found":true,"_source":{"status":"completed"}}`))
	})
	mux.HandleFunc("/cybrty-runs/_doc/run-gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"found":false}`))
	})

	c := newFakeBackend(t, mux)

	src, err := c.GetDocument(context.Background(), "cybrty-runs", "run-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"completed"}`, string(src))

	src, err = c.GetDocument(context.Background(), "cybrty-runs", "run-gone")
	require.NoError(t, err)
	assert.Nil(t, src)
}

func TestClusterHealthy(t *testing.T) {
	status := "red"
	mux := http.NewServeMux()
	mux.HandleFunc("/_cluster/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	})

	c := newFakeBackend(t, mux)
	assert.False(t, c.ClusterHealthy(context.Background()))

	status = "yellow"
	assert.True(t, c.ClusterHealthy(context.Background()))

	status = "green"
	assert.True(t, c.ClusterHealthy(context.Background()))
}

func TestEnsureIndicesCreatesMissingOnly(t *testing.T) {
	created := map[string]bool{}
	existing := map[string]bool{"cybrty-runs": true}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path[1:]
		switch {
		case r.Method == http.MethodHead:
			if existing[name] {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusNotFound)
			}
		case r.Method == http.MethodPut:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Contains(t, body, "mappings")
			created[name] = true
			existing[name] = true
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("POST /{index}/_refresh", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_shards":{"total":1,"successful":1,"failed":0}}`))
	})

	c := newFakeBackend(t, mux)
	idx := config.IndexConfig{
		Planner: "cybrty-planner",
		Actions: "cybrty-actions",
		Runs:    "cybrty-runs",
	}
	require.NoError(t, EnsureIndices(context.Background(), c, idx, slog.New(slog.DiscardHandler)))

	assert.True(t, created["cybrty-planner"])
	assert.True(t, created["cybrty-actions"])
	assert.False(t, created["cybrty-runs"])
}
