// Package storage provides the S3-compatible object storage client used
// to upload exported snapshots and diff reports.
package storage
