package compare

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/devandanger/firebase-utils/core/firestore"
	"github.com/devandanger/firebase-utils/core/firestore/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(source, target firestore.Client) *fiber.App {
	app := fiber.New()
	handler := NewHandler(newService(source, target, Options{}))
	handler.RegisterRoutes(app)
	return app
}

func TestHandleCompareDocument(t *testing.T) {
	source := new(mocks.Client)
	target := new(mocks.Client)
	source.On("GetDocument", mock.Anything, "users/u1").
		Return(record("u1", map[string]any{"name": "Ada"}), nil)
	target.On("GetDocument", mock.Anything, "users/u1").
		Return(record("u1", map[string]any{"name": "Grace"}), nil)

	app := newTestApp(source, target)
	resp, err := app.Test(httptest.NewRequest("GET", "/v1/compare/document/users/u1", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result DocumentResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "users/u1", result.Path)
	require.Len(t, result.Differences, 1)
	assert.Equal(t, "name", result.Differences[0].Path)
}

func TestHandleCompareDocument_UpstreamFailure(t *testing.T) {
	source := new(mocks.Client)
	target := new(mocks.Client)
	source.On("GetDocument", mock.Anything, "users/u1").
		Return(nil, errors.New("connection refused"))
	target.On("GetDocument", mock.Anything, "users/u1").
		Return(nil, nil).Maybe()

	app := newTestApp(source, target)
	resp, err := app.Test(httptest.NewRequest("GET", "/v1/compare/document/users/u1", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "source fetch failed")
}

func TestHandleCompareCollection(t *testing.T) {
	source := new(mocks.Client)
	target := new(mocks.Client)
	source.On("ListCollection", mock.Anything, mock.Anything).Return([]*firestore.Record{
		record("u1", map[string]any{"name": "Ada"}),
	}, nil)
	target.On("ListCollection", mock.Anything, mock.Anything).Return([]*firestore.Record{}, nil)

	app := newTestApp(source, target)
	resp, err := app.Test(httptest.NewRequest("GET", "/v1/compare/collection/users", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result CollectionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "users", result.Path)
	assert.Equal(t, 1, result.SourceCount)
	assert.Equal(t, 0, result.TargetCount)
	require.NotNil(t, result.Report)
	require.Len(t, result.Report.Removed, 1)
	assert.Equal(t, "u1", result.Report.Removed[0].Key)
}
