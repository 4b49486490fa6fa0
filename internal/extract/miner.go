package extract

import (
	"strings"

	"github.com/DrZ199/Nelsonbook/internal/corpus"
	"github.com/DrZ199/Nelsonbook/internal/registry"
	"github.com/DrZ199/Nelsonbook/internal/storage"
	"github.com/DrZ199/Nelsonbook/internal/textutil"
)

// Miner walks content blocks looking for known drug and condition names.
// Each distinct name yields exactly one entity row for the whole run; repeat
// mentions only influence which section a condition is attached to.
type Miner struct {
	reg *registry.Registry
	ds  *storage.Dataset

	drugs      []string
	conditions []string

	conditionByID map[int64]*storage.MedicalCondition
}

func New(reg *registry.Registry, ds *storage.Dataset) *Miner {
	m := &Miner{
		reg:           reg,
		ds:            ds,
		drugs:         corpus.CommonDrugs(),
		conditions:    corpus.CommonConditions(),
		conditionByID: make(map[int64]*storage.MedicalCondition),
	}
	for _, c := range ds.Conditions {
		m.conditionByID[c.ID] = c
	}
	return m
}

// Mine extracts drug mentions, dosing statements, and condition mentions from
// one block of section content. The part title steers the heuristics: parts
// about therapeutics widen dosage scanning, parts about diseases let later
// mentions relocate a condition to the more relevant section.
func (m *Miner) Mine(content string, sectionID int64, chapterTitle, partTitle string) {
	m.mineDrugs(content, partTitle)
	m.mineConditions(content, sectionID, chapterTitle, partTitle)
}

func (m *Miner) mineDrugs(content, partTitle string) {
	wide := textutil.ContainsAny(partTitle, corpus.TherapeuticContextTerms)
	lower := strings.ToLower(content)

	for _, name := range m.drugs {
		if !textutil.ContainsWord(content, name) {
			continue
		}
		id, created := m.reg.GetOrCreateDrug(name)
		if created {
			m.ds.Drugs = append(m.ds.Drugs, &storage.Drug{
				ID:      id,
				Name:    name,
				NameTSV: textutil.TokenizeAndSort(name),
			})
		}

		idx := strings.Index(lower, strings.ToLower(name))
		if idx < 0 {
			continue
		}
		radius := NarrowRadius
		if wide {
			radius = WideRadius
		}
		window := textutil.Window(content, idx, len(name), radius)
		m.ds.Dosages = append(m.ds.Dosages, ExtractDosages(window, id, m.reg, wide)...)
	}
}

func (m *Miner) mineConditions(content string, sectionID int64, chapterTitle, partTitle string) {
	relevant := textutil.ContainsAny(partTitle, corpus.ConditionContextTerms)

	// Conditions promoted from chapter titles start out unanchored. The first
	// section discovered under a matching chapter claims them.
	for _, c := range m.ds.Conditions {
		if c.SectionID == 0 && strings.Contains(chapterTitle, c.Name) {
			c.SectionID = sectionID
		}
	}

	for _, name := range m.conditions {
		if !textutil.ContainsWord(content, name) {
			continue
		}
		id, created := m.reg.GetOrCreateCondition(name)
		if created {
			c := &storage.MedicalCondition{
				ID:        id,
				SectionID: sectionID,
				Name:      name,
				NameTSV:   textutil.TokenizeAndSort(name),
			}
			m.ds.Conditions = append(m.ds.Conditions, c)
			m.conditionByID[id] = c
		} else if relevant {
			if c, ok := m.conditionByID[id]; ok {
				c.SectionID = sectionID
			}
		}
	}
}
