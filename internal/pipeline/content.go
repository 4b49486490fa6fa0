package pipeline

import (
	"strings"

	"github.com/DrZ199/Nelsonbook/internal/extract"
	"github.com/DrZ199/Nelsonbook/internal/registry"
	"github.com/DrZ199/Nelsonbook/internal/scanner"
	"github.com/DrZ199/Nelsonbook/internal/storage"
	"github.com/DrZ199/Nelsonbook/internal/textutil"
)

// contentPass walks one file's text a second time, slicing the prose between
// structural boundaries into content blocks and feeding each block to the
// entity miner. It tracks which chapter and section are currently open;
// boundary markers themselves never become block text.
type contentPass struct {
	skel  *Skeleton
	reg   *registry.Registry
	ds    *storage.Dataset
	miner *extract.Miner

	chapter *storage.Chapter
	section *storage.Section

	// general holds lazily created fallback sections for prose that appears
	// before any section header, one per enclosing chapter.
	general map[int64]*storage.Section
}

func newContentPass(skel *Skeleton, reg *registry.Registry, ds *storage.Dataset, miner *extract.Miner) *contentPass {
	return &contentPass{
		skel:    skel,
		reg:     reg,
		ds:      ds,
		miner:   miner,
		general: make(map[int64]*storage.Section),
	}
}

func (p *contentPass) run(content string) {
	p.chapter = nil
	p.section = nil

	pos := 0
	for _, b := range scanner.Scan(content) {
		p.flush(content[pos:b.Pos])
		switch b.Kind {
		case scanner.BoundaryChapter:
			if ch, ok := p.skel.ChapterByNumber(b.Number); ok {
				p.chapter = ch
			}
			p.section = nil
		case scanner.BoundarySection:
			if sec, ok := p.skel.SectionByNumber(b.Number); ok {
				p.section = sec
			}
		case scanner.BoundarySubsection:
			// Subsections split blocks but stay inside the open section.
		}
		pos = b.End
	}
	p.flush(content[pos:])
}

// flush turns buffered prose into one content block and mines it. Prose with
// no open section is attached to a synthetic fallback section so no text is
// dropped.
func (p *contentPass) flush(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	sec := p.section
	if sec == nil {
		sec = p.generalSection()
	}

	p.ds.Blocks = append(p.ds.Blocks, &storage.ContentBlock{
		ID:         p.reg.NextID(registry.KindBlock),
		SectionID:  sec.ID,
		Content:    text,
		ContentTSV: textutil.TokenizeAndSort(text),
	})

	chapterTitle, partTitle := p.skel.Context(sec)
	p.miner.Mine(text, sec.ID, chapterTitle, partTitle)
}

func (p *contentPass) generalSection() *storage.Section {
	chapterID := int64(1)
	if p.chapter != nil {
		chapterID = p.chapter.ID
	}
	if sec, ok := p.general[chapterID]; ok {
		return sec
	}
	sec := &storage.Section{
		ID:        p.reg.NextID(registry.KindSection),
		ChapterID: chapterID,
		Title:     "General",
		TitleTSV:  textutil.TokenizeAndSort("General"),
	}
	p.ds.Sections = append(p.ds.Sections, sec)
	p.general[chapterID] = sec
	return sec
}
