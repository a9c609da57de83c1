package firestore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devandanger/firebase-utils/core/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		Project:  "test-project",
		Endpoint: srv.URL,
		Token:    "test-token",
		PageSize: 2,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresProject(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestGetDocument(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t,
			"/v1/projects/test-project/databases/(default)/documents/users/u1",
			r.URL.Path)

		fmt.Fprint(w, `{
			"name": "projects/test-project/databases/(default)/documents/users/u1",
			"fields": {
				"name": {"stringValue": "Ada"},
				"age": {"integerValue": "36"}
			},
			"createTime": "2024-01-01T00:00:00Z",
			"updateTime": "2024-02-01T00:00:00Z"
		}`)
	}))

	rec, err := client.GetDocument(context.Background(), "users/u1")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "u1", rec.ID)
	assert.Equal(t, "users/u1", rec.Path)
	assert.Equal(t, "Ada", rec.Data["name"])
	assert.Equal(t, int64(36), rec.Data["age"])
	assert.Equal(t, 2024, rec.CreateTime.Year())
}

func TestGetDocument_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec, err := client.GetDocument(context.Background(), "users/missing")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGetDocument_AuthError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"message": "Missing or insufficient permissions.", "status": "PERMISSION_DENIED"}}`)
	}))

	_, err := client.GetDocument(context.Background(), "users/u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PERMISSION_DENIED")
}

func pageDocument(id string) map[string]any {
	return map[string]any{
		"name": "projects/test-project/databases/(default)/documents/users/" + id,
		"fields": map[string]any{
			"name": map[string]any{"stringValue": id},
		},
	}
}

func TestListCollection_Paged(t *testing.T) {
	var tokens []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("pageToken")
		tokens = append(tokens, token)
		assert.Equal(t, "2", r.URL.Query().Get("pageSize"))

		var page map[string]any
		if token == "" {
			page = map[string]any{
				"documents":     []any{pageDocument("u1"), pageDocument("u2")},
				"nextPageToken": "page-2",
			}
		} else {
			page = map[string]any{
				"documents": []any{pageDocument("u3")},
			}
		}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))

	records, err := client.ListCollection(context.Background(), CollectionSpec{Path: "users"})
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "u1", records[0].ID)
	assert.Equal(t, "u3", records[2].ID)
	assert.Equal(t, []string{"", "page-2"}, tokens)
}

func TestListCollection_Limit(t *testing.T) {
	requests := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		page := map[string]any{
			"documents":     []any{pageDocument("u1"), pageDocument("u2")},
			"nextPageToken": "more",
		}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))

	records, err := client.ListCollection(context.Background(), CollectionSpec{Path: "users", Limit: 2})
	require.NoError(t, err)

	assert.Len(t, records, 2)
	assert.Equal(t, 1, requests)
}

func TestListCollection_Query(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t,
			"/v1/projects/test-project/databases/(default)/documents:runQuery",
			r.URL.Path)

		var req struct {
			StructuredQuery struct {
				From []struct {
					CollectionID string `json:"collectionId"`
				} `json:"from"`
				Where struct {
					FieldFilter struct {
						Field struct {
							FieldPath string `json:"fieldPath"`
						} `json:"field"`
						Op    string    `json:"op"`
						Value restValue `json:"value"`
					} `json:"fieldFilter"`
				} `json:"where"`
				OrderBy []struct {
					Direction string `json:"direction"`
				} `json:"orderBy"`
				Limit int `json:"limit"`
			} `json:"structuredQuery"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		q := req.StructuredQuery
		assert.Equal(t, "users", q.From[0].CollectionID)
		assert.Equal(t, "status", q.Where.FieldFilter.Field.FieldPath)
		assert.Equal(t, "EQUAL", q.Where.FieldFilter.Op)
		require.NotNil(t, q.Where.FieldFilter.Value.StringValue)
		assert.Equal(t, "active", *q.Where.FieldFilter.Value.StringValue)
		assert.Equal(t, "ASCENDING", q.OrderBy[0].Direction)
		assert.Equal(t, 10, q.Limit)

		fmt.Fprint(w, `[{"document": {
			"name": "projects/test-project/databases/(default)/documents/users/u1",
			"fields": {"status": {"stringValue": "active"}}
		}}, {"readTime": "2024-01-01T00:00:00Z"}]`)
	}))

	f, err := filter.Parse("status == 'active'")
	require.NoError(t, err)

	records, err := client.ListCollection(context.Background(), CollectionSpec{
		Path:    "users",
		Filters: []filter.Filter{f},
		OrderBy: "name",
		Limit:   10,
	})
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "u1", records[0].ID)
}

func TestStreamCollection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := map[string]any{
			"documents": []any{pageDocument("u1"), pageDocument("u2")},
		}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))

	recordCh, errCh := client.StreamCollection(context.Background(), CollectionSpec{Path: "users"})

	var ids []string
	for rec := range recordCh {
		ids = append(ids, rec.ID)
	}
	require.NoError(t, <-errCh)
	assert.Equal(t, []string{"u1", "u2"}, ids)
}

func TestStreamCollection_Error(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	recordCh, errCh := client.StreamCollection(context.Background(), CollectionSpec{Path: "users"})
	for range recordCh {
	}
	assert.Error(t, <-errCh)
}

func TestSplitCollectionPath(t *testing.T) {
	tests := []struct {
		path       string
		parent     string
		collection string
	}{
		{"users", "", "users"},
		{"users/u1/orders", "/users/u1", "orders"},
	}

	for _, tt := range tests {
		parent, collection := splitCollectionPath(tt.path)
		assert.Equal(t, tt.parent, parent)
		assert.Equal(t, tt.collection, collection)
	}
}
