package export

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/devandanger/firebase-utils/core/render"
	"github.com/devandanger/firebase-utils/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "users.json")
	value := map[string]any{"_id": "u1", "name": "Ada"}

	require.NoError(t, WriteFile(path, value, render.FormatJSON))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, value, decoded)
}

func TestWriteFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yaml")

	require.NoError(t, WriteFile(path, map[string]any{"name": "Ada"}, render.FormatYAML))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "name: Ada")
}

func TestWriteFile_TerminalFormatsExportAsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, WriteFile(path, map[string]any{"k": "v"}, render.FormatPretty))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal(raw, &decoded))
}

func TestUpload(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "firestore-exports").Return(true, nil)
	client.On("PutObject", mock.Anything, "firestore-exports", "users.json",
		mock.Anything, mock.Anything, mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "application/json"
		})).Return(minio.UploadInfo{}, nil)

	uploader := NewUploader(client, "firestore-exports")
	err := uploader.Upload(context.Background(), "users.json",
		map[string]any{"_id": "u1"}, render.FormatJSON)

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestUpload_CreatesBucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "new-bucket").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "new-bucket", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "new-bucket", "users.yaml",
		mock.Anything, mock.Anything, mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "application/yaml"
		})).Return(minio.UploadInfo{}, nil)

	uploader := NewUploader(client, "new-bucket")
	err := uploader.Upload(context.Background(), "users.yaml",
		map[string]any{"_id": "u1"}, render.FormatYAML)

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestUpload_BucketCheckFails(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "b").Return(false, errors.New("unreachable"))

	uploader := NewUploader(client, "b")
	err := uploader.Upload(context.Background(), "x.json", map[string]any{}, render.FormatJSON)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check bucket")
}
