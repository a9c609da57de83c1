package firestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/devandanger/firebase-utils/core/filter"
)

// CollectionSpec describes one collection fetch.
type CollectionSpec struct {
	// Path is the collection path relative to the database root, e.g.
	// "users" or "users/u1/orders".
	Path string
	// Filters restrict the result set. Non-empty filters switch the
	// fetch from plain listing to a structured query.
	Filters []filter.Filter
	// OrderBy is an optional field to order by (structured query only).
	OrderBy string
	// Limit caps the number of returned records. Zero means no limit.
	Limit int
}

// Client fetches records from one Firestore project.
type Client interface {
	// GetDocument fetches a single document by path. A missing document
	// returns (nil, nil); only transport, auth and decode failures
	// return an error.
	GetDocument(ctx context.Context, path string) (*Record, error)
	// ListCollection fetches a full collection into memory.
	ListCollection(ctx context.Context, spec CollectionSpec) ([]*Record, error)
	// StreamCollection delivers records incrementally as pages arrive.
	// The record channel closes when the collection is drained; exactly
	// one value is sent on the error channel afterwards (nil on
	// success).
	StreamCollection(ctx context.Context, spec CollectionSpec) (<-chan *Record, <-chan error)
}

// NewClient creates a REST client for one project side.
func NewClient(cfg Config) (Client, error) {
	if cfg.Project == "" {
		return nil, fmt.Errorf("firestore: project is required")
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Strict transport timeouts so a dead endpoint fails fast instead of
	// hanging a comparison run.
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ResponseHeaderTimeout: timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
	}

	database := cfg.Database
	if database == "" {
		database = "(default)"
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 300
	}

	return &restClient{
		httpClient: &http.Client{Transport: transport},
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		root:       fmt.Sprintf("projects/%s/databases/%s/documents", cfg.Project, database),
		token:      cfg.Token,
		pageSize:   pageSize,
	}, nil
}

type restClient struct {
	httpClient *http.Client
	endpoint   string
	root       string
	token      string
	pageSize   int
}

// restDocument is the wire form of a document.
type restDocument struct {
	Name       string               `json:"name"`
	Fields     map[string]restValue `json:"fields"`
	CreateTime string               `json:"createTime"`
	UpdateTime string               `json:"updateTime"`
}

func (c *restClient) GetDocument(ctx context.Context, path string) (*Record, error) {
	u := fmt.Sprintf("%s/v1/%s/%s", c.endpoint, c.root, path)

	body, status, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, statusError(status, body)
	}

	var doc restDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("malformed document response: %w", err)
	}
	return c.record(doc)
}

func (c *restClient) ListCollection(ctx context.Context, spec CollectionSpec) ([]*Record, error) {
	var records []*Record
	err := c.fetchCollection(ctx, spec, func(rec *Record) {
		records = append(records, rec)
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (c *restClient) StreamCollection(ctx context.Context, spec CollectionSpec) (<-chan *Record, <-chan error) {
	recordCh := make(chan *Record)
	errCh := make(chan error, 1)

	go func() {
		defer close(recordCh)
		errCh <- c.fetchCollection(ctx, spec, func(rec *Record) {
			select {
			case recordCh <- rec:
			case <-ctx.Done():
			}
		})
	}()

	return recordCh, errCh
}

// fetchCollection pages through a collection, invoking emit per record.
// Filtered or ordered fetches go through runQuery; plain fetches use the
// cheaper list endpoint.
func (c *restClient) fetchCollection(ctx context.Context, spec CollectionSpec, emit func(*Record)) error {
	if len(spec.Filters) > 0 || spec.OrderBy != "" {
		return c.runQuery(ctx, spec, emit)
	}
	return c.listDocuments(ctx, spec, emit)
}

func (c *restClient) listDocuments(ctx context.Context, spec CollectionSpec, emit func(*Record)) error {
	emitted := 0
	pageToken := ""

	for {
		q := url.Values{}
		q.Set("pageSize", fmt.Sprintf("%d", c.pageSize))
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}
		u := fmt.Sprintf("%s/v1/%s/%s?%s", c.endpoint, c.root, spec.Path, q.Encode())

		body, status, err := c.do(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return statusError(status, body)
		}

		var page struct {
			Documents     []restDocument `json:"documents"`
			NextPageToken string         `json:"nextPageToken"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return fmt.Errorf("malformed list response: %w", err)
		}

		for _, doc := range page.Documents {
			rec, err := c.record(doc)
			if err != nil {
				return err
			}
			emit(rec)
			emitted++
			if spec.Limit > 0 && emitted >= spec.Limit {
				return nil
			}
		}

		if page.NextPageToken == "" {
			return nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *restClient) runQuery(ctx context.Context, spec CollectionSpec, emit func(*Record)) error {
	parent, collection := splitCollectionPath(spec.Path)
	u := fmt.Sprintf("%s/v1/%s%s:runQuery", c.endpoint, c.root, parent)

	reqBody, err := json.Marshal(map[string]any{
		"structuredQuery": structuredQuery(collection, spec),
	})
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}

	body, status, err := c.do(ctx, http.MethodPost, u, reqBody)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return statusError(status, body)
	}

	// runQuery returns a JSON array of {document} envelopes.
	var results []struct {
		Document *restDocument `json:"document"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return fmt.Errorf("malformed query response: %w", err)
	}

	for _, res := range results {
		if res.Document == nil {
			continue
		}
		rec, err := c.record(*res.Document)
		if err != nil {
			return err
		}
		emit(rec)
	}
	return nil
}

// structuredQuery builds the runQuery body for a filtered fetch.
func structuredQuery(collection string, spec CollectionSpec) map[string]any {
	query := map[string]any{
		"from": []map[string]any{{"collectionId": collection}},
	}

	if len(spec.Filters) > 0 {
		conditions := make([]map[string]any, 0, len(spec.Filters))
		for _, f := range spec.Filters {
			conditions = append(conditions, map[string]any{
				"fieldFilter": map[string]any{
					"field": map[string]any{"fieldPath": f.Field},
					"op":    queryOperator(f.Op),
					"value": encodeValue(f.Value),
				},
			})
		}
		if len(conditions) == 1 {
			query["where"] = conditions[0]
		} else {
			query["where"] = map[string]any{
				"compositeFilter": map[string]any{
					"op":      "AND",
					"filters": conditions,
				},
			}
		}
	}

	if spec.OrderBy != "" {
		query["orderBy"] = []map[string]any{
			{"field": map[string]any{"fieldPath": spec.OrderBy}, "direction": "ASCENDING"},
		}
	}
	if spec.Limit > 0 {
		query["limit"] = spec.Limit
	}
	return query
}

// queryOperator maps a filter operator to its wire name.
func queryOperator(op filter.Op) string {
	switch op {
	case filter.OpEqual:
		return "EQUAL"
	case filter.OpNotEqual:
		return "NOT_EQUAL"
	case filter.OpLess:
		return "LESS_THAN"
	case filter.OpLessEqual:
		return "LESS_THAN_OR_EQUAL"
	case filter.OpGreater:
		return "GREATER_THAN"
	case filter.OpGreaterEqual:
		return "GREATER_THAN_OR_EQUAL"
	case filter.OpIn:
		return "IN"
	case filter.OpContains:
		return "ARRAY_CONTAINS"
	default:
		return "EQUAL"
	}
}

// record converts a wire document into a Record.
func (c *restClient) record(doc restDocument) (*Record, error) {
	data, err := decodeFields(doc.Fields)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", doc.Name, err)
	}

	path := trimDatabasePrefix(doc.Name)
	id := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		id = path[i+1:]
	}

	rec := &Record{ID: id, Path: path, Data: data}
	if doc.CreateTime != "" {
		rec.CreateTime, _ = time.Parse(time.RFC3339Nano, doc.CreateTime)
	}
	if doc.UpdateTime != "" {
		rec.UpdateTime, _ = time.Parse(time.RFC3339Nano, doc.UpdateTime)
	}
	return rec, nil
}

// do executes one HTTP request and returns the body and status code.
func (c *restClient) do(ctx context.Context, method, u string, reqBody []byte) ([]byte, int, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// splitCollectionPath splits "users/u1/orders" into the parent document
// path ("/users/u1") and the collection ID ("orders"). A top-level
// collection has an empty parent.
func splitCollectionPath(path string) (parent, collection string) {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return "/" + path[:i], path[i+1:]
	}
	return "", path
}

func statusError(status int, body []byte) error {
	var apiErr struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("firestore: %s (%s)", apiErr.Error.Message, apiErr.Error.Status)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("firestore: authentication failed (HTTP %d)", status)
	}
	return fmt.Errorf("firestore: unexpected HTTP %d", status)
}
