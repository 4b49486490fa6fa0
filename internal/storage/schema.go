package storage

// SchemaSQL creates the relational tables the dataset uploads into. Text
// columns are NOT NULL with empty defaults; exporters and repositories write
// empty strings rather than nulls.
const SchemaSQL = `-- Nelson Textbook of Pediatrics relational schema

CREATE TABLE IF NOT EXISTS nelson_volumes (
    volume_id BIGINT PRIMARY KEY,
    title TEXT NOT NULL,
    start_page INT NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS nelson_parts (
    part_id BIGINT PRIMARY KEY,
    volume_id BIGINT NOT NULL REFERENCES nelson_volumes(volume_id),
    part_number TEXT NOT NULL,
    title TEXT NOT NULL,
    start_page INT NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS nelson_chapters (
    chapter_id BIGINT PRIMARY KEY,
    part_id BIGINT NOT NULL REFERENCES nelson_parts(part_id),
    chapter_number TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL,
    title_tsv TEXT NOT NULL DEFAULT '',
    start_page INT NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS nelson_sections (
    section_id BIGINT PRIMARY KEY,
    chapter_id BIGINT NOT NULL REFERENCES nelson_chapters(chapter_id),
    section_number TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL,
    title_tsv TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS nelson_content_blocks (
    block_id BIGINT PRIMARY KEY,
    section_id BIGINT NOT NULL REFERENCES nelson_sections(section_id),
    content TEXT NOT NULL,
    content_tsv TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS nelson_medical_conditions (
    condition_id BIGINT PRIMARY KEY,
    section_id BIGINT NOT NULL DEFAULT 0,
    name TEXT NOT NULL,
    name_tsv TEXT NOT NULL DEFAULT '',
    clinical_manifestations TEXT NOT NULL DEFAULT '',
    epidemiology TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS nelson_drugs (
    drug_id BIGINT PRIMARY KEY,
    drug_name TEXT NOT NULL,
    name_tsv TEXT NOT NULL DEFAULT '',
    brand_names TEXT NOT NULL DEFAULT '',
    indications TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS nelson_drug_dosages (
    dosage_id BIGINT PRIMARY KEY,
    drug_id BIGINT NOT NULL REFERENCES nelson_drugs(drug_id),
    route TEXT NOT NULL DEFAULT '',
    dosage TEXT NOT NULL DEFAULT '',
    age_group TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_nelson_sections_chapter ON nelson_sections(chapter_id);
CREATE INDEX IF NOT EXISTS idx_nelson_content_blocks_section ON nelson_content_blocks(section_id);
CREATE INDEX IF NOT EXISTS idx_nelson_drug_dosages_drug ON nelson_drug_dosages(drug_id);
`
