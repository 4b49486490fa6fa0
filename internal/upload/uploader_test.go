package upload

import (
	"context"
	"database/sql"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrZ199/Nelsonbook/internal/observability"
	"github.com/DrZ199/Nelsonbook/internal/storage"
)

func quietLogger() *observability.Logger {
	return observability.NewLogger(observability.LogConfig{
		Level:       "error",
		Format:      "json",
		Output:      io.Discard,
		ServiceName: "test",
	})
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.DBConfig{Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.ApplySchema(context.Background(), db))
	return db
}

func sampleDataset() *storage.Dataset {
	ds := &storage.Dataset{
		Volumes: []*storage.Volume{{ID: 1, Title: "Core Concepts", StartPage: 1}},
		Parts:   []*storage.Part{{ID: 1, VolumeID: 1, PartNumber: "I", Title: "The Field of Pediatrics", StartPage: 1}},
	}
	for i := int64(1); i <= 7; i++ {
		ds.Chapters = append(ds.Chapters, &storage.Chapter{
			ID: i, PartID: 1, Title: "Chapter", TitleTSV: "chapter", StartPage: 1,
		})
	}
	return ds
}

func TestUploadDataset_AllRows(t *testing.T) {
	db := newTestDB(t)
	repos := storage.NewRepositories(db)
	u := New(repos, Config{BatchSize: 3}, quietLogger())

	summary, err := u.UploadDataset(context.Background(), sampleDataset())
	require.NoError(t, err)

	assert.Zero(t, summary.FailedBatches)
	assert.Equal(t, 1, summary.Uploaded["volumes"])
	assert.Equal(t, 7, summary.Uploaded["chapters"])

	n, err := repos.Chapters.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestUploadDataset_FailedBatchesAreSkipped(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec("DROP TABLE nelson_chapters")
	require.NoError(t, err)

	repos := storage.NewRepositories(db)
	u := New(repos, Config{BatchSize: 3, MaxRetries: 0}, quietLogger())

	summary, err := u.UploadDataset(context.Background(), sampleDataset())
	require.NoError(t, err, "missing table must not abort the run")

	assert.Equal(t, 3, summary.FailedBatches)
	assert.Zero(t, summary.Uploaded["chapters"])
	assert.Equal(t, 1, summary.Uploaded["volumes"])
}

func TestUploadDataset_ContextCancellation(t *testing.T) {
	db := newTestDB(t)
	repos := storage.NewRepositories(db)
	u := New(repos, Config{BatchSize: 1}, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := u.UploadDataset(ctx, sampleDataset())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUploadDataset_EmptyDataset(t *testing.T) {
	db := newTestDB(t)
	u := New(storage.NewRepositories(db), Config{}, quietLogger())

	summary, err := u.UploadDataset(context.Background(), &storage.Dataset{})
	require.NoError(t, err)
	assert.Zero(t, summary.FailedBatches)
	assert.Zero(t, summary.Uploaded["volumes"])
}
