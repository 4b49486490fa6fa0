// Package corpus holds the seeded reference structure of the textbook (the
// volumes, parts, and table-of-contents chapters known up front) and the
// curated drug and condition lexicons the miner matches against.
package corpus

import (
	"strings"

	"github.com/DrZ199/Nelsonbook/internal/registry"
	"github.com/DrZ199/Nelsonbook/internal/storage"
	"github.com/DrZ199/Nelsonbook/internal/textutil"
)

// Seed populates the dataset with the static textbook structure: two volumes,
// their parts, the chapters listed in the table of contents, and the
// conditions promoted from condition-subject chapter titles. Seeded
// conditions carry section id 0 until the content pass assigns a home.
func Seed(reg *registry.Registry, ds *storage.Dataset) {
	vol1 := addVolume(reg, ds, "Core Concepts and Development", 1)
	vol2 := addVolume(reg, ds, "Clinical Disorders and Therapeutics", 1)

	p1 := addPart(reg, ds, vol1, "I", "The Field of Pediatrics", 1)
	p2 := addPart(reg, ds, vol1, "II", "Growth, Development, and Behavior", 260)

	p5 := addPart(reg, ds, vol2, "V", "Cardiovascular Disease", 1)
	p6 := addPart(reg, ds, vol2, "VI", "Respiratory Disease", 225)
	addPart(reg, ds, vol2, "VII", "Hematology and Oncology", 415)
	addPart(reg, ds, vol2, "VIII", "Gastroenterology and Nutrition", 670)
	addPart(reg, ds, vol2, "IX", "Endocrinology", 910)
	addPart(reg, ds, vol2, "X", "Nephrology and Urology", 1030)
	addPart(reg, ds, vol2, "XI", "Neurology", 1135)
	addPart(reg, ds, vol2, "XII", "Infectious Diseases", 1240)
	addPart(reg, ds, vol2, "XIII", "Rheumatology and Immunology", 1345)
	addPart(reg, ds, vol2, "XIV", "Critical Care", 1435)
	addPart(reg, ds, vol2, "XV", "Surgery", 1525)

	seedChapters(reg, ds, p1, p2, p5, p6)
	promoteConditionChapters(reg, ds)
}

func addVolume(reg *registry.Registry, ds *storage.Dataset, title string, startPage int) int64 {
	v := &storage.Volume{
		ID:        reg.NextID(registry.KindVolume),
		Title:     title,
		StartPage: startPage,
	}
	ds.Volumes = append(ds.Volumes, v)
	return v.ID
}

func addPart(reg *registry.Registry, ds *storage.Dataset, volumeID int64, number, title string, startPage int) int64 {
	p := &storage.Part{
		ID:         reg.NextID(registry.KindPart),
		VolumeID:   volumeID,
		PartNumber: number,
		Title:      title,
		StartPage:  startPage,
	}
	ds.Parts = append(ds.Parts, p)
	return p.ID
}

// AddChapter appends a chapter with a registry-assigned id and derived search
// form. Used both for seeded TOC chapters (no chapter number) and chapters
// discovered in text.
func AddChapter(reg *registry.Registry, ds *storage.Dataset, partID int64, number *string, title string, startPage int) *storage.Chapter {
	c := &storage.Chapter{
		ID:            reg.NextID(registry.KindChapter),
		PartID:        partID,
		ChapterNumber: number,
		Title:         title,
		TitleTSV:      textutil.TokenizeAndSort(title),
		StartPage:     startPage,
	}
	ds.Chapters = append(ds.Chapters, c)
	return c
}

func seedChapters(reg *registry.Registry, ds *storage.Dataset, p1, p2, p5, p6 int64) {
	type tocEntry struct {
		partID    int64
		title     string
		startPage int
	}

	toc := []tocEntry{
		{p1, "Overview of Pediatrics", 1},
		{p1, "Child Health Disparities", 20},
		{p1, "Global Child Health", 35},
		{p1, "Quality and Value in Healthcare for Children", 50},
		{p1, "Safety in Healthcare for Children", 65},
		{p1, "Ethics in Pediatric Care", 80},
		{p1, "Pediatric Palliative Care", 95},
		{p1, "Domestic and International Adoption", 110},
		{p1, "Foster and Kinship Care", 125},
		{p1, "Medical Evaluation of the Foreign-Born Child", 140},
		{p1, "Cultural Issues in Pediatric Care", 155},
		{p1, "Maximizing Children's Health: Screening, Counseling", 170},
		{p1, "Injury Control", 185},
		{p1, "Impact of Violence Exposure on Children", 200},
		{p1, "Child Trafficking for Sex and Labor", 215},
		{p1, "Abused and Neglected Children", 230},
		{p1, "Strategies for Health Behavior Change", 245},

		{p2, "Developmental and Behavioral Theories", 260},
		{p2, "Positive Parenting and Support", 275},
		{p2, "Assessment of Fetal Growth and Development", 290},
		{p2, "The Newborn", 305},
		{p2, "The First Year", 320},
		{p2, "The Second Year", 335},
		{p2, "The Preschool Years", 350},
		{p2, "Middle Childhood", 365},
		{p2, "Adolescence", 380},
		{p2, "Assessment of Growth", 395},
		{p2, "Developmental and Behavioral Screening", 410},
		{p2, "Child Care", 425},
		{p2, "Loss, Separation, and Bereavement", 440},
		{p2, "Sleep Medicine", 455},

		{p5, "Congenital Heart Disease", 1},
		{p5, "Acquired Heart Disease", 25},
		{p5, "Hypertension", 50},
		{p5, "Dyslipidemia", 70},
		{p5, "Cardiomyopathies", 90},
		{p5, "Arrhythmias", 110},
		{p5, "Heart Failure", 130},
		{p5, "Cardiac Transplantation", 150},
		{p5, "Endocarditis", 170},
		{p5, "Hypercoagulable States", 190},
		{p5, "Cardiovascular Imaging", 210},

		{p6, "Upper Respiratory Tract Infections", 225},
		{p6, "Lower Respiratory Tract Infections", 240},
		{p6, "Asthma", 260},
		{p6, "Cystic Fibrosis", 280},
		{p6, "Bronchopulmonary Dysplasia", 300},
		{p6, "Interstitial Lung Disease", 320},
		{p6, "Pulmonary Hypertension", 340},
		{p6, "Sleep-Disordered Breathing", 360},
		{p6, "Respiratory Failure", 380},
		{p6, "Lung Transplantation", 400},
	}

	for _, e := range toc {
		AddChapter(reg, ds, e.partID, nil, e.title, e.startPage)
	}
}

// promoteConditionChapters registers a condition for every seeded chapter
// whose title names a condition subject. "Headache and Migraine" style titles
// keep only the leading condition.
func promoteConditionChapters(reg *registry.Registry, ds *storage.Dataset) {
	for _, chapter := range ds.Chapters {
		if !containsMarker(chapter.Title) {
			continue
		}

		name := strings.SplitN(chapter.Title, " and ", 2)[0]
		id, created := reg.GetOrCreateCondition(name)
		if !created {
			continue
		}

		ds.Conditions = append(ds.Conditions, &storage.MedicalCondition{
			ID:        id,
			SectionID: 0, // assigned once the chapter's first section is seen
			Name:      name,
			NameTSV:   textutil.TokenizeAndSort(name),
		})
	}
}

func containsMarker(title string) bool {
	for _, marker := range conditionChapterMarkers {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}
