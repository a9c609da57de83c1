package firestore

import (
	"time"

	"github.com/devandanger/firebase-utils/core/canonical"
)

// Record is one fetched document: identifier, decoded field values, and
// provenance. Immutable once produced by the client.
type Record struct {
	// ID is the last segment of the document path.
	ID string
	// Path is the document path relative to the database root, e.g.
	// "users/u1".
	Path string
	// Data holds the decoded field values.
	Data map[string]any
	// CreateTime is the server-side creation time.
	CreateTime time.Time
	// UpdateTime is the server-side last update time.
	UpdateTime time.Time
}

// Document converts the record into the normalizer's input shape.
// Provenance becomes the metadata value, ignored in comparison unless
// explicitly included.
func (r *Record) Document() *canonical.Document {
	if r == nil {
		return nil
	}

	data := make(map[string]any, len(r.Data))
	for k, v := range r.Data {
		data[k] = v
	}

	var meta any
	if !r.CreateTime.IsZero() || !r.UpdateTime.IsZero() {
		meta = map[string]any{
			"createTime": r.CreateTime,
			"updateTime": r.UpdateTime,
		}
	}

	return &canonical.Document{ID: r.ID, Data: data, Metadata: meta}
}
