// Package export writes normalized snapshots and diff reports to local
// files and optionally uploads them to object storage. Exported files
// carry the exact core output structures, serialized with stable key
// ordering.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/devandanger/firebase-utils/core/render"
	"github.com/devandanger/firebase-utils/core/storage"

	"github.com/minio/minio-go/v7"
)

// WriteFile serializes v in the given format (json or yaml) and writes
// it to path, creating parent directories as needed.
func WriteFile(path string, v any, format render.Format) error {
	var buf bytes.Buffer
	if err := encode(&buf, v, format); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func encode(buf *bytes.Buffer, v any, format render.Format) error {
	switch format {
	case render.FormatYAML:
		return render.YAML(buf, v)
	case render.FormatJSON, render.FormatPretty, render.FormatTable:
		// Terminal-oriented formats export as JSON.
		return render.JSON(buf, v)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// Uploader pushes exported files to S3-compatible storage.
type Uploader struct {
	client storage.Client
	bucket string
}

// NewUploader creates an uploader over an established storage client.
func NewUploader(client storage.Client, bucket string) *Uploader {
	return &Uploader{client: client, bucket: bucket}
}

// Upload serializes v and puts it at objectName in the configured
// bucket, creating the bucket on first use.
func (u *Uploader) Upload(ctx context.Context, objectName string, v any, format render.Format) error {
	var buf bytes.Buffer
	if err := encode(&buf, v, format); err != nil {
		return err
	}

	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	contentType := "application/json"
	if format == render.FormatYAML {
		contentType = "application/yaml"
	}

	_, err = u.client.PutObject(ctx, u.bucket, objectName,
		bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload export: %w", err)
	}
	return nil
}
