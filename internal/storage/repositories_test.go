package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), DBConfig{Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, ApplySchema(context.Background(), db))
	return db
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), DBConfig{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}

func TestRepositories_InsertAndCount(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(newTestDB(t))

	require.NoError(t, repos.Volumes.InsertBatch(ctx, []*Volume{
		{ID: 1, Title: "Core Concepts and Development", StartPage: 1},
		{ID: 2, Title: "Clinical Disorders and Therapeutics", StartPage: 1},
	}))
	require.NoError(t, repos.Parts.InsertBatch(ctx, []*Part{
		{ID: 1, VolumeID: 2, PartNumber: "VI", Title: "Respiratory Disease", StartPage: 225},
	}))

	number := "1"
	require.NoError(t, repos.Chapters.InsertBatch(ctx, []*Chapter{
		{ID: 1, PartID: 1, ChapterNumber: &number, Title: "Asthma", TitleTSV: "asthma", StartPage: 260},
	}))
	require.NoError(t, repos.Sections.InsertBatch(ctx, []*Section{
		{ID: 1, ChapterID: 1, SectionNumber: "1.1", Title: "Epidemiology", TitleTSV: "epidemiology"},
		{ID: 2, ChapterID: 1, SectionNumber: "1.2", Title: "Treatment", TitleTSV: "treatment"},
	}))

	n, err := repos.Volumes.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	sections, err := repos.Sections.ListByChapter(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "1.1", sections[0].SectionNumber)
}

func TestRepositories_EmptyBatchIsNoop(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(newTestDB(t))

	require.NoError(t, repos.Drugs.InsertBatch(ctx, nil))

	n, err := repos.Drugs.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDrugRepository_GetByName(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(newTestDB(t))

	brands := "Advil; Motrin"
	require.NoError(t, repos.Drugs.InsertBatch(ctx, []*Drug{
		{ID: 1, Name: "ibuprofen", NameTSV: "ibuprofen", BrandNames: &brands},
		{ID: 2, Name: "acetaminophen", NameTSV: "acetaminophen"},
	}))

	d, err := repos.Drugs.GetByName(ctx, "ibuprofen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.ID)
	require.NotNil(t, d.BrandNames)
	assert.Equal(t, "Advil; Motrin", *d.BrandNames)

	d, err = repos.Drugs.GetByName(ctx, "acetaminophen")
	require.NoError(t, err)
	assert.Nil(t, d.BrandNames)

	_, err = repos.Drugs.GetByName(ctx, "unobtainium")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDosageRepository_ListByDrug(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(newTestDB(t))

	require.NoError(t, repos.Drugs.InsertBatch(ctx, []*Drug{
		{ID: 1, Name: "ibuprofen", NameTSV: "ibuprofen"},
	}))

	age := "6 mo"
	require.NoError(t, repos.Dosages.InsertBatch(ctx, []*DrugDosage{
		{ID: 1, DrugID: 1, Route: "PO", Dosage: "10 mg/kg", AgeGroup: &age},
		{ID: 2, DrugID: 1, Dosage: "200 mg"},
	}))

	rows, err := repos.Dosages.ListByDrug(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "PO", rows[0].Route)
	require.NotNil(t, rows[0].AgeGroup)
	assert.Equal(t, "6 mo", *rows[0].AgeGroup)
	assert.Nil(t, rows[1].AgeGroup)
}

func TestChapterRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(newTestDB(t))

	require.NoError(t, repos.Volumes.InsertBatch(ctx, []*Volume{{ID: 1, Title: "V1", StartPage: 1}}))
	require.NoError(t, repos.Parts.InsertBatch(ctx, []*Part{{ID: 1, VolumeID: 1, PartNumber: "I", Title: "P", StartPage: 1}}))
	require.NoError(t, repos.Chapters.InsertBatch(ctx, []*Chapter{
		{ID: 7, PartID: 1, Title: "Overview of Pediatrics", TitleTSV: "of overview pediatrics", StartPage: 1},
	}))

	c, err := repos.Chapters.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Overview of Pediatrics", c.Title)
	assert.Nil(t, c.ChapterNumber)

	_, err = repos.Chapters.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
