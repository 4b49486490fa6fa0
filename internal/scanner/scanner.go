// Package scanner detects structural boundaries (chapter, section, and
// subsection headers) in raw textbook text.
package scanner

import (
	"regexp"
	"sort"
	"strings"
)

// BoundaryKind distinguishes the hierarchy level of a detected header.
type BoundaryKind string

const (
	BoundaryChapter    BoundaryKind = "chapter"
	BoundarySection    BoundaryKind = "section"
	BoundarySubsection BoundaryKind = "subsection"
)

// Boundary is one detected structural header. Pos and End are byte offsets of
// the full header match within the scanned document, so the text between one
// boundary's End and the next boundary's Pos is exactly the prose belonging
// to the first.
type Boundary struct {
	Kind   BoundaryKind
	Number string
	Title  string
	Pos    int
	End    int
}

// Header patterns are applied in fixed precedence: chapter > section >
// subsection. The chapter title may sit on the same line as the marker or on
// a following line.
var (
	chapterRe    = regexp.MustCompile(`(?m)^Chapter\s+(\d+(?:\.\d+)?)\.?\s+(\S[^\n]*)`)
	sectionRe    = regexp.MustCompile(`(?m)^(\d+\.\d+)\.?\s+(\S[^\n]*)`)
	subsectionRe = regexp.MustCompile(`(?m)^(\d+\.\d+\.\d+)\.?\s+(\S[^\n]*)`)
)

// Scan returns every structural boundary in the document, ordered by
// position. Subsection patterns are only evaluated inside the span between a
// section header and the next section or chapter header; elsewhere a dotted
// triple is ordinary prose.
func Scan(content string) []Boundary {
	var bounds []Boundary

	for _, m := range chapterRe.FindAllStringSubmatchIndex(content, -1) {
		bounds = append(bounds, boundaryFromMatch(content, m, BoundaryChapter))
	}

	for _, m := range sectionRe.FindAllStringSubmatchIndex(content, -1) {
		b := boundaryFromMatch(content, m, BoundarySection)
		if withinAny(bounds, b.Pos) {
			continue // inside a chapter header line
		}
		bounds = append(bounds, b)
	}

	sort.SliceStable(bounds, func(i, j int) bool { return bounds[i].Pos < bounds[j].Pos })

	bounds = append(bounds, scanSubsections(content, bounds)...)
	sort.SliceStable(bounds, func(i, j int) bool { return bounds[i].Pos < bounds[j].Pos })

	return bounds
}

// scanSubsections finds subsection headers within each section's span.
func scanSubsections(content string, bounds []Boundary) []Boundary {
	var subs []Boundary

	for i, b := range bounds {
		if b.Kind != BoundarySection {
			continue
		}

		spanEnd := len(content)
		if i+1 < len(bounds) {
			spanEnd = bounds[i+1].Pos
		}

		span := content[b.End:spanEnd]
		for _, m := range subsectionRe.FindAllStringSubmatchIndex(span, -1) {
			sub := boundaryFromMatch(span, m, BoundarySubsection)
			sub.Pos += b.End
			sub.End += b.End
			// A subsection must extend its enclosing section's numbering.
			if !strings.HasPrefix(sub.Number, b.Number+".") {
				continue
			}
			subs = append(subs, sub)
		}
	}

	return subs
}

func boundaryFromMatch(content string, m []int, kind BoundaryKind) Boundary {
	return Boundary{
		Kind:   kind,
		Number: content[m[2]:m[3]],
		Title:  strings.TrimSpace(content[m[4]:m[5]]),
		Pos:    m[0],
		End:    m[1],
	}
}

func withinAny(bounds []Boundary, pos int) bool {
	for _, b := range bounds {
		if pos >= b.Pos && pos < b.End {
			return true
		}
	}
	return false
}
