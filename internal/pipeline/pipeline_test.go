package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
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

func writeParts(t *testing.T, parts map[int]string) string {
	t.Helper()
	dir := t.TempDir()
	for n, content := range parts {
		path := filepath.Join(dir, fmt.Sprintf("nelson_part_%d.txt", n))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func runPipeline(t *testing.T, dir string) (*Result, *storage.Dataset) {
	t.Helper()
	p := NewPipeline(Config{InputDir: dir}, quietLogger())
	res, err := p.Run(context.Background())
	require.NoError(t, err)
	return res, p.Dataset()
}

func findChapter(ds *storage.Dataset, number string) *storage.Chapter {
	for _, ch := range ds.Chapters {
		if ch.ChapterNumber != nil && *ch.ChapterNumber == number {
			return ch
		}
	}
	return nil
}

func findSection(ds *storage.Dataset, number string) *storage.Section {
	for _, sec := range ds.Sections {
		if sec.SectionNumber == number {
			return sec
		}
	}
	return nil
}

func findDrug(ds *storage.Dataset, name string) *storage.Drug {
	for _, d := range ds.Drugs {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func findCondition(ds *storage.Dataset, name string) *storage.MedicalCondition {
	for _, c := range ds.Conditions {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRun_ChapterSectionBlockAndDosage(t *testing.T) {
	dir := writeParts(t, map[int]string{
		1: "Chapter 1 Asthma\n1.1 Epidemiology\nAsthma affects children. ibuprofen 10 mg/kg q6h PO\n",
	})

	res, ds := runPipeline(t, dir)
	assert.Equal(t, 1, res.Files)
	assert.Empty(t, res.FailedFiles)

	ch := findChapter(ds, "1")
	require.NotNil(t, ch)
	assert.Equal(t, "Asthma", ch.Title)

	sec := findSection(ds, "1.1")
	require.NotNil(t, sec)
	assert.Equal(t, "Epidemiology", sec.Title)
	assert.Equal(t, ch.ID, sec.ChapterID)

	var block *storage.ContentBlock
	for _, b := range ds.Blocks {
		if b.SectionID == sec.ID {
			block = b
		}
	}
	require.NotNil(t, block)
	assert.Contains(t, block.Content, "ibuprofen 10 mg/kg")

	drug := findDrug(ds, "ibuprofen")
	require.NotNil(t, drug)

	found := false
	for _, row := range ds.Dosages {
		if row.DrugID == drug.ID && row.Route == "PO" {
			assert.Contains(t, row.Dosage, "10 mg/kg")
			found = true
		}
	}
	assert.True(t, found, "expected a PO dosage row for ibuprofen")
}

func TestRun_DrugSharedAcrossFiles(t *testing.T) {
	dir := writeParts(t, map[int]string{
		1: "Chapter 1 Fever\n1.1 Management\nStart amoxicillin for otitis media.\n",
		2: "Chapter 2 Infections\n2.1 Therapy\nAmoxicillin remains first line.\n",
	})

	_, ds := runPipeline(t, dir)

	count := 0
	for _, d := range ds.Drugs {
		if d.Name == "amoxicillin" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, ds.Drugs, 1, "only names actually present in the text yield rows")
}

func TestRun_ChapterTitleConditionGetsFirstSection(t *testing.T) {
	dir := writeParts(t, map[int]string{
		1: "Chapter 7 Heart Failure\n7.1 Management\nSupportive care only.\n",
	})

	_, ds := runPipeline(t, dir)

	cond := findCondition(ds, "Heart Failure")
	require.NotNil(t, cond, "seeded from the table of contents")

	sec := findSection(ds, "7.1")
	require.NotNil(t, sec)
	assert.Equal(t, sec.ID, cond.SectionID)
}

func TestRun_PreambleGoesToFallbackSection(t *testing.T) {
	dir := writeParts(t, map[int]string{
		1: "Editorial preface text before any structure.\nChapter 3 Growth\n3.1 Infancy\nNormal growth patterns.\n",
	})

	_, ds := runPipeline(t, dir)

	general := findSection(ds, "")
	require.NotNil(t, general)
	assert.Equal(t, "General", general.Title)

	found := false
	for _, b := range ds.Blocks {
		if b.SectionID == general.ID {
			assert.Contains(t, b.Content, "Editorial preface")
			found = true
		}
	}
	assert.True(t, found)
}

func TestRun_CountsAreStableAcrossRuns(t *testing.T) {
	dir := writeParts(t, map[int]string{
		1: "Chapter 1 Asthma\n1.1 Epidemiology\nAsthma is common. albuterol PO: 2 mg\n",
		2: "Chapter 2 Pneumonia\n2.1 Diagnosis\nPneumonia and asthma can coexist.\n",
	})

	first, _ := runPipeline(t, dir)
	second, _ := runPipeline(t, dir)

	assert.Equal(t, first.Chapters, second.Chapters)
	assert.Equal(t, first.Sections, second.Sections)
	assert.Equal(t, first.Blocks, second.Blocks)
	assert.Equal(t, first.Drugs, second.Drugs)
	assert.Equal(t, first.Conditions, second.Conditions)
	assert.Equal(t, first.Dosages, second.Dosages)
}

func TestRun_BadFileIsIsolated(t *testing.T) {
	dir := writeParts(t, map[int]string{
		1: "Chapter 1 Asthma\n1.1 Epidemiology\nAsthma notes.\n",
	})
	// A directory matching the name pattern fails the read but must not
	// abort the rest of the batch.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nelson_part_2.txt"), 0o755))

	res, ds := runPipeline(t, dir)

	require.Len(t, res.FailedFiles, 1)
	assert.Contains(t, res.FailedFiles[0], "nelson_part_2.txt")
	assert.NotNil(t, findChapter(ds, "1"))
}

func TestRun_EmptyDirFails(t *testing.T) {
	p := NewPipeline(Config{InputDir: t.TempDir()}, quietLogger())
	_, err := p.Run(context.Background())
	assert.Error(t, err)
}

func TestRun_ContextCancellation(t *testing.T) {
	dir := writeParts(t, map[int]string{1: "Chapter 1 Asthma\n1.1 Notes\ntext\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(Config{InputDir: dir}, quietLogger())
	_, err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
