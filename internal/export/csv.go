// Package export serializes the parsed dataset into flat files consumed by
// the upload tooling: one CSV per table plus an optional SQL script. Header
// and column names are a stable contract with the downstream schema.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/DrZ199/Nelsonbook/internal/storage"
)

// optional renders a nullable field. Absent values become empty strings so
// NOT NULL columns downstream accept them.
func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// WriteCSV writes one CSV file per entity collection into dir, creating it if
// needed. Files always carry a header row, even for empty collections.
func WriteCSV(ds *storage.Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	tables := []struct {
		name   string
		header []string
		rows   func() [][]string
	}{
		{
			name:   "volumes.csv",
			header: []string{"volume_id", "title", "start_page"},
			rows: func() [][]string {
				out := make([][]string, 0, len(ds.Volumes))
				for _, v := range ds.Volumes {
					out = append(out, []string{
						strconv.FormatInt(v.ID, 10), v.Title, strconv.Itoa(v.StartPage),
					})
				}
				return out
			},
		},
		{
			name:   "parts.csv",
			header: []string{"part_id", "volume_id", "part_number", "title", "start_page"},
			rows: func() [][]string {
				out := make([][]string, 0, len(ds.Parts))
				for _, p := range ds.Parts {
					out = append(out, []string{
						strconv.FormatInt(p.ID, 10), strconv.FormatInt(p.VolumeID, 10),
						p.PartNumber, p.Title, strconv.Itoa(p.StartPage),
					})
				}
				return out
			},
		},
		{
			name:   "chapters.csv",
			header: []string{"chapter_id", "part_id", "chapter_number", "title", "title_tsv", "start_page"},
			rows: func() [][]string {
				out := make([][]string, 0, len(ds.Chapters))
				for _, c := range ds.Chapters {
					out = append(out, []string{
						strconv.FormatInt(c.ID, 10), strconv.FormatInt(c.PartID, 10),
						optional(c.ChapterNumber), c.Title, c.TitleTSV, strconv.Itoa(c.StartPage),
					})
				}
				return out
			},
		},
		{
			name:   "sections.csv",
			header: []string{"section_id", "chapter_id", "section_number", "title", "title_tsv"},
			rows: func() [][]string {
				out := make([][]string, 0, len(ds.Sections))
				for _, s := range ds.Sections {
					out = append(out, []string{
						strconv.FormatInt(s.ID, 10), strconv.FormatInt(s.ChapterID, 10),
						s.SectionNumber, s.Title, s.TitleTSV,
					})
				}
				return out
			},
		},
		{
			name:   "content_blocks.csv",
			header: []string{"block_id", "section_id", "content", "content_tsv"},
			rows: func() [][]string {
				out := make([][]string, 0, len(ds.Blocks))
				for _, b := range ds.Blocks {
					out = append(out, []string{
						strconv.FormatInt(b.ID, 10), strconv.FormatInt(b.SectionID, 10),
						b.Content, b.ContentTSV,
					})
				}
				return out
			},
		},
		{
			name: "medical_conditions.csv",
			header: []string{
				"condition_id", "section_id", "name", "name_tsv",
				"clinical_manifestations", "epidemiology",
			},
			rows: func() [][]string {
				out := make([][]string, 0, len(ds.Conditions))
				for _, c := range ds.Conditions {
					out = append(out, []string{
						strconv.FormatInt(c.ID, 10), strconv.FormatInt(c.SectionID, 10),
						c.Name, c.NameTSV,
						optional(c.ClinicalManifestations), optional(c.Epidemiology),
					})
				}
				return out
			},
		},
		{
			name:   "drugs.csv",
			header: []string{"drug_id", "drug_name", "name_tsv", "brand_names", "indications"},
			rows: func() [][]string {
				out := make([][]string, 0, len(ds.Drugs))
				for _, d := range ds.Drugs {
					out = append(out, []string{
						strconv.FormatInt(d.ID, 10), d.Name, d.NameTSV,
						optional(d.BrandNames), optional(d.Indications),
					})
				}
				return out
			},
		},
		{
			name:   "drug_dosages.csv",
			header: []string{"dosage_id", "drug_id", "route", "dosage", "age_group"},
			rows: func() [][]string {
				out := make([][]string, 0, len(ds.Dosages))
				for _, d := range ds.Dosages {
					out = append(out, []string{
						strconv.FormatInt(d.ID, 10), strconv.FormatInt(d.DrugID, 10),
						d.Route, d.Dosage, optional(d.AgeGroup),
					})
				}
				return out
			},
		},
	}

	for _, table := range tables {
		if err := writeTable(filepath.Join(dir, table.name), table.header, table.rows()); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header to %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}
