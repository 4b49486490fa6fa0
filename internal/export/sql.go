package export

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/DrZ199/Nelsonbook/internal/storage"
)

// SQLOptions tune script generation.
type SQLOptions struct {
	// BatchSize is the number of rows per INSERT statement.
	BatchSize int
	// MaxContentLen truncates content block text to keep individual
	// statements within editor and client limits. Zero means no cap.
	MaxContentLen int
}

const defaultBatchSize = 100

// WriteSQL writes one script containing the schema followed by batched INSERT
// statements for every collection.
func WriteSQL(ds *storage.Dataset, path string, opts SQLOptions) error {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(storage.SchemaSQL + "\n"); err != nil {
		return err
	}

	g := sqlGen{w: w, opts: opts}
	g.inserts("nelson_volumes", []string{"volume_id", "title", "start_page"},
		len(ds.Volumes), func(i int) []string {
			v := ds.Volumes[i]
			return []string{num(v.ID), quote(v.Title), strconv.Itoa(v.StartPage)}
		})
	g.inserts("nelson_parts", []string{"part_id", "volume_id", "part_number", "title", "start_page"},
		len(ds.Parts), func(i int) []string {
			p := ds.Parts[i]
			return []string{num(p.ID), num(p.VolumeID), quote(p.PartNumber), quote(p.Title), strconv.Itoa(p.StartPage)}
		})
	g.inserts("nelson_chapters", []string{"chapter_id", "part_id", "chapter_number", "title", "title_tsv", "start_page"},
		len(ds.Chapters), func(i int) []string {
			c := ds.Chapters[i]
			return []string{num(c.ID), num(c.PartID), quote(optional(c.ChapterNumber)), quote(c.Title), quote(c.TitleTSV), strconv.Itoa(c.StartPage)}
		})
	g.inserts("nelson_sections", []string{"section_id", "chapter_id", "section_number", "title", "title_tsv"},
		len(ds.Sections), func(i int) []string {
			s := ds.Sections[i]
			return []string{num(s.ID), num(s.ChapterID), quote(s.SectionNumber), quote(s.Title), quote(s.TitleTSV)}
		})
	g.inserts("nelson_content_blocks", []string{"block_id", "section_id", "content", "content_tsv"},
		len(ds.Blocks), func(i int) []string {
			b := ds.Blocks[i]
			content := b.Content
			tsv := b.ContentTSV
			if opts.MaxContentLen > 0 {
				content = truncate(content, opts.MaxContentLen)
				tsv = truncate(tsv, opts.MaxContentLen)
			}
			return []string{num(b.ID), num(b.SectionID), quote(content), quote(tsv)}
		})
	g.inserts("nelson_medical_conditions", []string{"condition_id", "section_id", "name", "name_tsv", "clinical_manifestations", "epidemiology"},
		len(ds.Conditions), func(i int) []string {
			c := ds.Conditions[i]
			return []string{num(c.ID), num(c.SectionID), quote(c.Name), quote(c.NameTSV), quote(optional(c.ClinicalManifestations)), quote(optional(c.Epidemiology))}
		})
	g.inserts("nelson_drugs", []string{"drug_id", "drug_name", "name_tsv", "brand_names", "indications"},
		len(ds.Drugs), func(i int) []string {
			d := ds.Drugs[i]
			return []string{num(d.ID), quote(d.Name), quote(d.NameTSV), quote(optional(d.BrandNames)), quote(optional(d.Indications))}
		})
	g.inserts("nelson_drug_dosages", []string{"dosage_id", "drug_id", "route", "dosage", "age_group"},
		len(ds.Dosages), func(i int) []string {
			d := ds.Dosages[i]
			return []string{num(d.ID), num(d.DrugID), quote(d.Route), quote(d.Dosage), quote(optional(d.AgeGroup))}
		})
	if g.err != nil {
		return g.err
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

type sqlGen struct {
	w    *bufio.Writer
	opts SQLOptions
	err  error
}

// inserts emits batched INSERT statements for one table.
func (g *sqlGen) inserts(table string, columns []string, count int, row func(i int) []string) {
	if g.err != nil || count == 0 {
		return
	}

	for start := 0; start < count; start += g.opts.BatchSize {
		end := start + g.opts.BatchSize
		if end > count {
			end = count
		}

		var b strings.Builder
		fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES\n", table, strings.Join(columns, ", "))
		for i := start; i < end; i++ {
			b.WriteString("    (" + strings.Join(row(i), ", ") + ")")
			if i < end-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(";\n\n")

		if _, err := g.w.WriteString(b.String()); err != nil {
			g.err = fmt.Errorf("writing %s inserts: %w", table, err)
			return
		}
	}
}

func num(v int64) string {
	return strconv.FormatInt(v, 10)
}

// quote renders a SQL string literal with single quotes doubled.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
