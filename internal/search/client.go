// Package search wraps the OpenSearch backend that the orchestrator's
// logging pipeline writes to. It exposes only the operations the
// verification suite needs: search, count, refresh, existence, and a small
// amount of document plumbing for index bootstrap.
package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	opensearch "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/cybrty/pentest-e2e/config"
	"github.com/cybrty/pentest-e2e/internal/poll"
)

// Hit is one matched document.
type Hit struct {
	ID     string          `json:"_id"`
	Index  string          `json:"_index"`
	Source json.RawMessage `json:"_source"`
}

// SearchResult carries the raw hit list plus the total match count. Callers
// interpret _source fields themselves; the facade does not validate document
// shape.
type SearchResult struct {
	Total int
	Hits  []Hit
}

// Client executes queries against a single OpenSearch cluster. It owns one
// transport for its lifetime; Close releases pooled connections.
type Client struct {
	os        *opensearch.Client
	transport *http.Transport
	logger    *slog.Logger
}

// NewClient builds a search client from config.
func NewClient(cfg config.SearchConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: cfg.Timeout,
	}
	if cfg.Scheme == "https" && !cfg.VerifyCerts {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- lab clusters use self-signed certs
	}

	osClient, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{cfg.Address()},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create opensearch client: %w", err)
	}

	return &Client{
		os:        osClient,
		transport: transport,
		logger:    logger.With("component", "search_client"),
	}, nil
}

// Search executes query against index and returns up to size hits.
func (c *Client) Search(ctx context.Context, index string, query Query, size int) (*SearchResult, error) {
	if size <= 0 {
		size = 100
	}

	body, err := json.Marshal(map[string]any{"query": query, "size": size})
	if err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", index, err)
	}
	defer closeBody(res.Body, c.logger)

	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", index, responseError(res))
	}

	var decoded struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []Hit `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return &SearchResult{Total: decoded.Hits.Total.Value, Hits: decoded.Hits.Hits}, nil
}

// Count returns the number of documents in index matching query. A nil query
// counts every document.
func (c *Client) Count(ctx context.Context, index string, query Query) (int, error) {
	var reqBody io.Reader
	if query != nil {
		body, err := json.Marshal(map[string]any{"query": query})
		if err != nil {
			return 0, fmt.Errorf("encode count body: %w", err)
		}
		reqBody = bytes.NewReader(body)
	}

	req := opensearchapi.CountRequest{Index: []string{index}, Body: reqBody}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", index, err)
	}
	defer closeBody(res.Body, c.logger)

	if res.IsError() {
		return 0, fmt.Errorf("count %s: %s", index, responseError(res))
	}

	var decoded struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("decode count response: %w", err)
	}
	return decoded.Count, nil
}

// RefreshIndex makes documents written so far visible to search. The backend
// only exposes new documents after a refresh cycle, so tests must call this
// before asserting absence or presence; skipping it produces false negatives
// caused purely by indexing latency. Refreshing is idempotent with respect
// to visibility.
func (c *Client) RefreshIndex(ctx context.Context, index string) error {
	req := opensearchapi.IndicesRefreshRequest{Index: []string{index}}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", index, err)
	}
	defer closeBody(res.Body, c.logger)

	if res.IsError() {
		return fmt.Errorf("refresh %s: %s", index, responseError(res))
	}
	drain(res.Body)
	return nil
}

// IndexExists reports whether the index exists.
func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{Index: []string{index}}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", index, err)
	}
	defer closeBody(res.Body, c.logger)
	drain(res.Body)

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("check index %s: unexpected status %d", index, res.StatusCode)
	}
}

// CreateIndex creates an index with the given mapping. Mapping may be nil.
func (c *Client) CreateIndex(ctx context.Context, index string, mapping map[string]any) error {
	var reqBody io.Reader
	if mapping != nil {
		body, err := json.Marshal(map[string]any{"mappings": mapping})
		if err != nil {
			return fmt.Errorf("encode index mapping: %w", err)
		}
		reqBody = bytes.NewReader(body)
	}

	req := opensearchapi.IndicesCreateRequest{Index: index, Body: reqBody}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer closeBody(res.Body, c.logger)

	if res.IsError() {
		return fmt.Errorf("create index %s: %s", index, responseError(res))
	}
	drain(res.Body)
	return nil
}

// GetDocument fetches a document's source by id. Missing documents return
// (nil, nil).
func (c *Client) GetDocument(ctx context.Context, index, id string) (json.RawMessage, error) {
	req := opensearchapi.GetRequest{Index: index, DocumentID: id}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return nil, fmt.Errorf("get document %s/%s: %w", index, id, err)
	}
	defer closeBody(res.Body, c.logger)

	if res.StatusCode == http.StatusNotFound {
		drain(res.Body)
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("get document %s/%s: %s", index, id, responseError(res))
	}

	var decoded struct {
		Source json.RawMessage `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode document response: %w", err)
	}
	return decoded.Source, nil
}

// IndexDocument writes a document, mainly used by tests seeding fixtures.
func (c *Client) IndexDocument(ctx context.Context, index, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	req := opensearchapi.IndexRequest{Index: index, DocumentID: id, Body: bytes.NewReader(body)}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return fmt.Errorf("index document %s/%s: %w", index, id, err)
	}
	defer closeBody(res.Body, c.logger)

	if res.IsError() {
		return fmt.Errorf("index document %s/%s: %s", index, id, responseError(res))
	}
	drain(res.Body)
	return nil
}

// DeleteDocument removes a document by id. Missing documents are not errors.
func (c *Client) DeleteDocument(ctx context.Context, index, id string) error {
	req := opensearchapi.DeleteRequest{Index: index, DocumentID: id}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return fmt.Errorf("delete document %s/%s: %w", index, id, err)
	}
	defer closeBody(res.Body, c.logger)
	drain(res.Body)

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete document %s/%s: unexpected status %d", index, id, res.StatusCode)
	}
	return nil
}

// ClusterHealthy performs a best-effort cluster health check, returning a
// boolean so it can serve directly as a poll condition during startup.
// Yellow is healthy for a single-node lab cluster.
func (c *Client) ClusterHealthy(ctx context.Context) bool {
	req := opensearchapi.ClusterHealthRequest{}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		c.logger.DebugContext(ctx, "cluster health check failed", "error", err)
		return false
	}
	defer closeBody(res.Body, c.logger)

	if res.IsError() {
		drain(res.Body)
		return false
	}

	var decoded struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return false
	}
	return decoded.Status == "green" || decoded.Status == "yellow"
}

// WaitForReady polls cluster health until the backend responds or the
// timeout elapses.
func (c *Client) WaitForReady(ctx context.Context, timeout, interval time.Duration) bool {
	return poll.WaitFor(ctx, func(ctx context.Context) (bool, error) {
		return c.ClusterHealthy(ctx), nil
	}, poll.Options{
		Timeout:     timeout,
		Interval:    interval,
		Description: "search cluster health",
		Logger:      c.logger,
	})
}

// Close releases the client's pooled connections.
func (c *Client) Close() {
	c.transport.CloseIdleConnections()
}

func responseError(res *opensearchapi.Response) string {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return res.Status()
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return res.Status()
	}
	return fmt.Sprintf("%s: %s", res.Status(), msg)
}

func drain(body io.Reader) {
	_, _ = io.Copy(io.Discard, body)
}

func closeBody(body io.Closer, logger *slog.Logger) {
	if err := body.Close(); err != nil && !errors.Is(err, io.EOF) {
		logger.Debug("close response body failed", "error", err)
	}
}
