package history

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewStore(db), mock
}

func TestStore_Record(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `comparison_runs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	run := &Run{
		Mode:           "collection",
		Path:           "users",
		Source:         "proj-prod",
		Target:         "proj-staging",
		Added:          1,
		HasDifferences: true,
	}
	err := store.Record(context.Background(), run)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Recent(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "mode", "path", "source", "target", "added", "removed", "changed", "has_differences", "created_at"}).
		AddRow(2, "collection", "users", "a", "b", 0, 1, 0, true, time.Now()).
		AddRow(1, "document", "users/u1", "a", "b", 0, 0, 0, false, time.Now())

	mock.ExpectQuery("SELECT \\* FROM `comparison_runs`").WillReturnRows(rows)

	runs, err := store.Recent(context.Background(), 10)
	assert.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "users", runs[0].Path)
	assert.True(t, runs[0].HasDifferences)
	assert.NoError(t, mock.ExpectationsWereMet())
}
