package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrNotFound = errors.New("record not found")
)

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// strOrEmpty flattens an optional field for NOT NULL columns.
func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// insertBatch executes one multi-row INSERT with ordinal placeholders. The
// caller is responsible for keeping batches within placeholder limits.
func insertBatch(ctx context.Context, db DB, table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))

	args := make([]interface{}, 0, len(rows)*len(columns))
	n := 1
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteString(")")
		args = append(args, row...)
	}

	if _, err := db.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}
	return nil
}

func count(ctx context.Context, db DB, table string) (int64, error) {
	var c int64
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&c)
	return c, err
}

// VolumeRepository handles volume rows.
type VolumeRepository struct {
	db DB
}

func NewVolumeRepository(db DB) *VolumeRepository {
	return &VolumeRepository{db: db}
}

func (r *VolumeRepository) InsertBatch(ctx context.Context, volumes []*Volume) error {
	rows := make([][]interface{}, 0, len(volumes))
	for _, v := range volumes {
		rows = append(rows, []interface{}{v.ID, v.Title, v.StartPage})
	}
	return insertBatch(ctx, r.db, "nelson_volumes",
		[]string{"volume_id", "title", "start_page"}, rows)
}

func (r *VolumeRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "nelson_volumes")
}

// PartRepository handles part rows.
type PartRepository struct {
	db DB
}

func NewPartRepository(db DB) *PartRepository {
	return &PartRepository{db: db}
}

func (r *PartRepository) InsertBatch(ctx context.Context, parts []*Part) error {
	rows := make([][]interface{}, 0, len(parts))
	for _, p := range parts {
		rows = append(rows, []interface{}{p.ID, p.VolumeID, p.PartNumber, p.Title, p.StartPage})
	}
	return insertBatch(ctx, r.db, "nelson_parts",
		[]string{"part_id", "volume_id", "part_number", "title", "start_page"}, rows)
}

func (r *PartRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "nelson_parts")
}

// ChapterRepository handles chapter rows.
type ChapterRepository struct {
	db DB
}

func NewChapterRepository(db DB) *ChapterRepository {
	return &ChapterRepository{db: db}
}

func (r *ChapterRepository) InsertBatch(ctx context.Context, chapters []*Chapter) error {
	rows := make([][]interface{}, 0, len(chapters))
	for _, c := range chapters {
		rows = append(rows, []interface{}{
			c.ID, c.PartID, strOrEmpty(c.ChapterNumber), c.Title, c.TitleTSV, c.StartPage,
		})
	}
	return insertBatch(ctx, r.db, "nelson_chapters",
		[]string{"chapter_id", "part_id", "chapter_number", "title", "title_tsv", "start_page"}, rows)
}

// GetByID retrieves one chapter.
func (r *ChapterRepository) GetByID(ctx context.Context, id int64) (*Chapter, error) {
	query := `
		SELECT chapter_id, part_id, chapter_number, title, title_tsv, start_page
		FROM nelson_chapters WHERE chapter_id = $1
	`
	var (
		c      Chapter
		number string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.PartID, &number, &c.Title, &c.TitleTSV, &c.StartPage,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if number != "" {
		c.ChapterNumber = &number
	}
	return &c, nil
}

func (r *ChapterRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "nelson_chapters")
}

// SectionRepository handles section rows.
type SectionRepository struct {
	db DB
}

func NewSectionRepository(db DB) *SectionRepository {
	return &SectionRepository{db: db}
}

func (r *SectionRepository) InsertBatch(ctx context.Context, sections []*Section) error {
	rows := make([][]interface{}, 0, len(sections))
	for _, s := range sections {
		rows = append(rows, []interface{}{s.ID, s.ChapterID, s.SectionNumber, s.Title, s.TitleTSV})
	}
	return insertBatch(ctx, r.db, "nelson_sections",
		[]string{"section_id", "chapter_id", "section_number", "title", "title_tsv"}, rows)
}

// ListByChapter retrieves the sections under one chapter in id order.
func (r *SectionRepository) ListByChapter(ctx context.Context, chapterID int64) ([]*Section, error) {
	query := `
		SELECT section_id, chapter_id, section_number, title, title_tsv
		FROM nelson_sections
		WHERE chapter_id = $1
		ORDER BY section_id
	`
	rows, err := r.db.QueryContext(ctx, query, chapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []*Section
	for rows.Next() {
		s := &Section{}
		if err := rows.Scan(&s.ID, &s.ChapterID, &s.SectionNumber, &s.Title, &s.TitleTSV); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (r *SectionRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "nelson_sections")
}

// ContentBlockRepository handles content block rows.
type ContentBlockRepository struct {
	db DB
}

func NewContentBlockRepository(db DB) *ContentBlockRepository {
	return &ContentBlockRepository{db: db}
}

func (r *ContentBlockRepository) InsertBatch(ctx context.Context, blocks []*ContentBlock) error {
	rows := make([][]interface{}, 0, len(blocks))
	for _, b := range blocks {
		rows = append(rows, []interface{}{b.ID, b.SectionID, b.Content, b.ContentTSV})
	}
	return insertBatch(ctx, r.db, "nelson_content_blocks",
		[]string{"block_id", "section_id", "content", "content_tsv"}, rows)
}

func (r *ContentBlockRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "nelson_content_blocks")
}

// ConditionRepository handles medical condition rows.
type ConditionRepository struct {
	db DB
}

func NewConditionRepository(db DB) *ConditionRepository {
	return &ConditionRepository{db: db}
}

func (r *ConditionRepository) InsertBatch(ctx context.Context, conditions []*MedicalCondition) error {
	rows := make([][]interface{}, 0, len(conditions))
	for _, c := range conditions {
		rows = append(rows, []interface{}{
			c.ID, c.SectionID, c.Name, c.NameTSV,
			strOrEmpty(c.ClinicalManifestations), strOrEmpty(c.Epidemiology),
		})
	}
	return insertBatch(ctx, r.db, "nelson_medical_conditions",
		[]string{"condition_id", "section_id", "name", "name_tsv", "clinical_manifestations", "epidemiology"}, rows)
}

func (r *ConditionRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "nelson_medical_conditions")
}

// DrugRepository handles drug rows.
type DrugRepository struct {
	db DB
}

func NewDrugRepository(db DB) *DrugRepository {
	return &DrugRepository{db: db}
}

func (r *DrugRepository) InsertBatch(ctx context.Context, drugs []*Drug) error {
	rows := make([][]interface{}, 0, len(drugs))
	for _, d := range drugs {
		rows = append(rows, []interface{}{
			d.ID, d.Name, d.NameTSV, strOrEmpty(d.BrandNames), strOrEmpty(d.Indications),
		})
	}
	return insertBatch(ctx, r.db, "nelson_drugs",
		[]string{"drug_id", "drug_name", "name_tsv", "brand_names", "indications"}, rows)
}

// GetByName retrieves one drug by its exact name.
func (r *DrugRepository) GetByName(ctx context.Context, name string) (*Drug, error) {
	query := `
		SELECT drug_id, drug_name, name_tsv, brand_names, indications
		FROM nelson_drugs WHERE drug_name = $1
	`
	var (
		d           Drug
		brands      string
		indications string
	)
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&d.ID, &d.Name, &d.NameTSV, &brands, &indications,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if brands != "" {
		d.BrandNames = &brands
	}
	if indications != "" {
		d.Indications = &indications
	}
	return &d, nil
}

func (r *DrugRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "nelson_drugs")
}

// DosageRepository handles drug dosage rows.
type DosageRepository struct {
	db DB
}

func NewDosageRepository(db DB) *DosageRepository {
	return &DosageRepository{db: db}
}

func (r *DosageRepository) InsertBatch(ctx context.Context, dosages []*DrugDosage) error {
	rows := make([][]interface{}, 0, len(dosages))
	for _, d := range dosages {
		rows = append(rows, []interface{}{
			d.ID, d.DrugID, d.Route, d.Dosage, strOrEmpty(d.AgeGroup),
		})
	}
	return insertBatch(ctx, r.db, "nelson_drug_dosages",
		[]string{"dosage_id", "drug_id", "route", "dosage", "age_group"}, rows)
}

// ListByDrug retrieves the dosages recorded for one drug.
func (r *DosageRepository) ListByDrug(ctx context.Context, drugID int64) ([]*DrugDosage, error) {
	query := `
		SELECT dosage_id, drug_id, route, dosage, age_group
		FROM nelson_drug_dosages
		WHERE drug_id = $1
		ORDER BY dosage_id
	`
	rows, err := r.db.QueryContext(ctx, query, drugID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DrugDosage
	for rows.Next() {
		d := &DrugDosage{}
		var age string
		if err := rows.Scan(&d.ID, &d.DrugID, &d.Route, &d.Dosage, &age); err != nil {
			return nil, err
		}
		if age != "" {
			d.AgeGroup = &age
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DosageRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "nelson_drug_dosages")
}

// Repositories bundles all repositories together.
type Repositories struct {
	Volumes    *VolumeRepository
	Parts      *PartRepository
	Chapters   *ChapterRepository
	Sections   *SectionRepository
	Blocks     *ContentBlockRepository
	Conditions *ConditionRepository
	Drugs      *DrugRepository
	Dosages    *DosageRepository
}

// NewRepositories creates all repositories with the given database connection.
func NewRepositories(db DB) *Repositories {
	return &Repositories{
		Volumes:    NewVolumeRepository(db),
		Parts:      NewPartRepository(db),
		Chapters:   NewChapterRepository(db),
		Sections:   NewSectionRepository(db),
		Blocks:     NewContentBlockRepository(db),
		Conditions: NewConditionRepository(db),
		Drugs:      NewDrugRepository(db),
		Dosages:    NewDosageRepository(db),
	}
}
