package pipeline

import (
	"github.com/DrZ199/Nelsonbook/internal/storage"
)

// Skeleton is the read-only structural index built after the first pass.
// The second pass resolves boundary markers against it instead of walking
// the collections, so content resolution cannot depend on scan order.
type Skeleton struct {
	chaptersByNumber map[string]*storage.Chapter
	sectionsByNumber map[string]*storage.Section
	chaptersByID     map[int64]*storage.Chapter
	partsByID        map[int64]*storage.Part
}

// BuildSkeleton indexes the chapters and sections discovered so far. When a
// number appears more than once the first occurrence wins, matching the order
// boundaries were discovered in.
func BuildSkeleton(ds *storage.Dataset) *Skeleton {
	s := &Skeleton{
		chaptersByNumber: make(map[string]*storage.Chapter),
		sectionsByNumber: make(map[string]*storage.Section),
		chaptersByID:     make(map[int64]*storage.Chapter),
		partsByID:        make(map[int64]*storage.Part),
	}
	for _, ch := range ds.Chapters {
		s.chaptersByID[ch.ID] = ch
		if ch.ChapterNumber != nil {
			if _, seen := s.chaptersByNumber[*ch.ChapterNumber]; !seen {
				s.chaptersByNumber[*ch.ChapterNumber] = ch
			}
		}
	}
	for _, sec := range ds.Sections {
		if _, seen := s.sectionsByNumber[sec.SectionNumber]; !seen {
			s.sectionsByNumber[sec.SectionNumber] = sec
		}
	}
	for _, p := range ds.Parts {
		s.partsByID[p.ID] = p
	}
	return s
}

func (s *Skeleton) ChapterByNumber(number string) (*storage.Chapter, bool) {
	ch, ok := s.chaptersByNumber[number]
	return ch, ok
}

func (s *Skeleton) SectionByNumber(number string) (*storage.Section, bool) {
	sec, ok := s.sectionsByNumber[number]
	return sec, ok
}

// Context returns the titles of the chapter and part that own a section.
// Either may be empty when the hierarchy is incomplete.
func (s *Skeleton) Context(sec *storage.Section) (chapterTitle, partTitle string) {
	ch, ok := s.chaptersByID[sec.ChapterID]
	if !ok {
		return "", ""
	}
	if p, ok := s.partsByID[ch.PartID]; ok {
		partTitle = p.Title
	}
	return ch.Title, partTitle
}
