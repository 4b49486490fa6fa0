// Package storage provides the relational models and repositories for the
// parsed textbook dataset.
package storage

// Volume represents one physical volume of the textbook. Volumes are seeded
// at startup and never mutated.
type Volume struct {
	ID        int64  `json:"volume_id" db:"volume_id"`
	Title     string `json:"title" db:"title"`
	StartPage int    `json:"start_page" db:"start_page"`
}

// Part represents a named part within a volume (e.g. part "V",
// "Cardiovascular Disease"). Parts are seeded reference data.
type Part struct {
	ID         int64  `json:"part_id" db:"part_id"`
	VolumeID   int64  `json:"volume_id" db:"volume_id"`
	PartNumber string `json:"part_number" db:"part_number"`
	Title      string `json:"title" db:"title"`
	StartPage  int    `json:"start_page" db:"start_page"`
}

// Chapter represents a chapter, either seeded from the table of contents or
// discovered from a "Chapter N" marker in the text. ChapterNumber is textual
// and may be fractional ("4.2"); uniqueness is not enforced, so a number seen
// again in a later file appends a new chapter rather than merging.
type Chapter struct {
	ID            int64   `json:"chapter_id" db:"chapter_id"`
	PartID        int64   `json:"part_id" db:"part_id"`
	ChapterNumber *string `json:"chapter_number,omitempty" db:"chapter_number"`
	Title         string  `json:"title" db:"title"`
	TitleTSV      string  `json:"title_tsv" db:"title_tsv"`
	StartPage     int     `json:"start_page" db:"start_page"`
}

// Section represents a numbered section header ("1.1 Epidemiology") resolved
// against a chapter. The chapter join is a numeric-prefix heuristic and may be
// wrong when numbering is non-monotonic; it is never left unresolved.
type Section struct {
	ID            int64  `json:"section_id" db:"section_id"`
	ChapterID     int64  `json:"chapter_id" db:"chapter_id"`
	SectionNumber string `json:"section_number" db:"section_number"`
	Title         string `json:"title" db:"title"`
	TitleTSV      string `json:"title_tsv" db:"title_tsv"`
}

// ContentBlock holds the prose between two structural boundaries, verbatim,
// plus its normalized search form. Blocks are immutable once created.
type ContentBlock struct {
	ID         int64  `json:"block_id" db:"block_id"`
	SectionID  int64  `json:"section_id" db:"section_id"`
	Content    string `json:"content" db:"content"`
	ContentTSV string `json:"content_tsv" db:"content_tsv"`
}

// MedicalCondition is a deduplicated condition entity. One record exists per
// distinct normalized name; SectionID is the condition's current home section
// and is the only field that may be rewritten after creation (last relevant
// context wins).
type MedicalCondition struct {
	ID                     int64   `json:"condition_id" db:"condition_id"`
	SectionID              int64   `json:"section_id" db:"section_id"`
	Name                   string  `json:"name" db:"name"`
	NameTSV                string  `json:"name_tsv" db:"name_tsv"`
	ClinicalManifestations *string `json:"clinical_manifestations,omitempty" db:"clinical_manifestations"`
	Epidemiology           *string `json:"epidemiology,omitempty" db:"epidemiology"`
}

// Drug is a deduplicated drug entity. Unlike conditions, a drug is never
// updated after creation.
type Drug struct {
	ID          int64   `json:"drug_id" db:"drug_id"`
	Name        string  `json:"drug_name" db:"drug_name"`
	NameTSV     string  `json:"name_tsv" db:"name_tsv"`
	BrandNames  *string `json:"brand_names,omitempty" db:"brand_names"`
	Indications *string `json:"indications,omitempty" db:"indications"`
}

// DrugDosage is one dosage fact mined from a window of text around a drug
// mention. Dosages are never deduplicated: multiple rules firing on the same
// window each produce an independent row.
type DrugDosage struct {
	ID       int64   `json:"dosage_id" db:"dosage_id"`
	DrugID   int64   `json:"drug_id" db:"drug_id"`
	Route    string  `json:"route" db:"route"`
	Dosage   string  `json:"dosage" db:"dosage"`
	AgeGroup *string `json:"age_group,omitempty" db:"age_group"`
}

// Dataset aggregates every collection produced by a pipeline run in creation
// order. It is append-only during a run; nothing is removed or reordered.
type Dataset struct {
	Volumes       []*Volume
	Parts         []*Part
	Chapters      []*Chapter
	Sections      []*Section
	Blocks        []*ContentBlock
	Conditions    []*MedicalCondition
	Drugs         []*Drug
	Dosages       []*DrugDosage
}
