package pipeline

import (
	"strings"

	"github.com/DrZ199/Nelsonbook/internal/corpus"
	"github.com/DrZ199/Nelsonbook/internal/registry"
	"github.com/DrZ199/Nelsonbook/internal/scanner"
	"github.com/DrZ199/Nelsonbook/internal/storage"
	"github.com/DrZ199/Nelsonbook/internal/textutil"
)

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	var b strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// resolvePart maps a file's numeric part label to a seeded part. Seed data
// labels parts with Roman numerals, so the arabic number from the filename is
// converted before lookup. Unknown numbers fall back to the first part.
func resolvePart(ds *storage.Dataset, number int) int64 {
	label := roman(number)
	for _, p := range ds.Parts {
		if p.PartNumber == label {
			return p.ID
		}
	}
	if len(ds.Parts) > 0 {
		return ds.Parts[0].ID
	}
	return 1
}

// runStructurePass scans one file's text for chapter and section headers and
// appends the discovered skeleton rows. Chapters with numbers already seen are
// appended, not merged; the source corpus repeats numbering across files and
// disambiguation is not attempted here.
func runStructurePass(content string, partID int64, reg *registry.Registry, ds *storage.Dataset) {
	for _, b := range scanner.Scan(content) {
		switch b.Kind {
		case scanner.BoundaryChapter:
			number := b.Number
			corpus.AddChapter(reg, ds, partID, &number, b.Title, 1)

		case scanner.BoundarySection:
			ds.Sections = append(ds.Sections, &storage.Section{
				ID:            reg.NextID(registry.KindSection),
				ChapterID:     resolveChapter(ds, b.Number),
				SectionNumber: b.Number,
				Title:         b.Title,
				TitleTSV:      textutil.TokenizeAndSort(b.Title),
			})
		}
	}
}

// resolveChapter picks the owning chapter for a section number: the most
// recently discovered chapter whose number starts with the section's numeric
// prefix, else the last chapter seen, else id 1. Non-monotonic numbering can
// make this pick the wrong chapter; the join is best effort.
func resolveChapter(ds *storage.Dataset, sectionNumber string) int64 {
	prefix, _, _ := strings.Cut(sectionNumber, ".")
	for i := len(ds.Chapters) - 1; i >= 0; i-- {
		ch := ds.Chapters[i]
		if ch.ChapterNumber != nil && strings.HasPrefix(*ch.ChapterNumber, prefix) {
			return ch.ID
		}
	}
	if len(ds.Chapters) > 0 {
		return ds.Chapters[len(ds.Chapters)-1].ID
	}
	return 1
}
