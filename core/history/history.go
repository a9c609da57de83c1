// Package history records comparison run summaries in the optional MySQL
// store, so environment drift can be tracked across runs.
package history

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Run is one recorded comparison run.
type Run struct {
	// ID is the auto-incremented primary key.
	ID uint `gorm:"primaryKey" json:"id"`
	// Mode is the comparison mode (document, collection).
	Mode string `gorm:"size:16" json:"mode"`
	// Path is the compared document or collection path.
	Path string `gorm:"size:512" json:"path"`
	// Source is the source-side project ID.
	Source string `gorm:"size:128" json:"source"`
	// Target is the target-side project ID.
	Target string `gorm:"size:128" json:"target"`
	// Added counts records present only on the target side.
	Added int `json:"added"`
	// Removed counts records present only on the source side.
	Removed int `json:"removed"`
	// Changed counts records with field-level differences.
	Changed int `json:"changed"`
	// HasDifferences reports whether the run found any difference.
	HasDifferences bool `json:"has_differences"`
	// CreatedAt is when the run was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// TableName fixes the table name independent of gorm pluralization.
func (Run) TableName() string {
	return "comparison_runs"
}

// Store persists comparison runs.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store over an established connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the backing table.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Run{}); err != nil {
		return fmt.Errorf("failed to migrate history schema: %w", err)
	}
	return nil
}

// Record inserts one run.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load runs: %w", err)
	}
	return runs, nil
}
