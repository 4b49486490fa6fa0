package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/DrZ199/Nelsonbook/internal/corpus"
	"github.com/DrZ199/Nelsonbook/internal/extract"
	"github.com/DrZ199/Nelsonbook/internal/observability"
	"github.com/DrZ199/Nelsonbook/internal/registry"
	"github.com/DrZ199/Nelsonbook/internal/storage"
)

// partFileRe matches the corpus file naming convention and captures the
// numeric part label.
var partFileRe = regexp.MustCompile(`^nelson_part_(\d+)\.txt$`)

// Config controls a pipeline run.
type Config struct {
	// InputDir is searched non-recursively for part files.
	InputDir string
}

// Result summarizes one completed run.
type Result struct {
	Files       int
	FailedFiles []string
	Volumes     int
	Parts       int
	Chapters    int
	Sections    int
	Blocks      int
	Conditions  int
	Drugs       int
	Dosages     int
	Duration    time.Duration
}

// Pipeline converts a directory of textbook part files into the relational
// dataset. Two passes run over the same files: the first builds the chapter
// and section skeleton, the second resolves prose and entities against it.
type Pipeline struct {
	cfg Config
	log *observability.Logger

	reg *registry.Registry
	ds  *storage.Dataset
}

func NewPipeline(cfg Config, log *observability.Logger) *Pipeline {
	if log == nil {
		log = observability.DefaultLogger()
	}
	return &Pipeline{
		cfg: cfg,
		log: log.WithOperation("parse"),
		reg: registry.New(),
		ds:  &storage.Dataset{},
	}
}

// Dataset returns the collections built by Run.
func (p *Pipeline) Dataset() *storage.Dataset {
	return p.ds
}

// Run executes the full pipeline. Individual file failures are logged and
// recorded in the result; only an empty input set or a cancelled context
// aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := time.Now()

	files, err := p.discoverFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no part files found in %s", p.cfg.InputDir)
	}

	p.log.Info().Int("files", len(files)).Str("dir", p.cfg.InputDir).Msg("starting run")

	corpus.Seed(p.reg, p.ds)

	res := &Result{Files: len(files)}
	failed := make(map[string]bool)

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := os.ReadFile(f.path)
		if err != nil {
			p.log.Error().Err(err).Str("file", f.path).Msg("structure pass failed")
			failed[f.path] = true
			continue
		}
		partID := resolvePart(p.ds, f.number)
		runStructurePass(string(content), partID, p.reg, p.ds)
		p.log.Debug().Str("file", f.path).Int("part", f.number).Msg("structure pass done")
	}

	skel := BuildSkeleton(p.ds)
	miner := extract.New(p.reg, p.ds)
	pass := newContentPass(skel, p.reg, p.ds, miner)

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if failed[f.path] {
			continue
		}
		content, err := os.ReadFile(f.path)
		if err != nil {
			p.log.Error().Err(err).Str("file", f.path).Msg("content pass failed")
			failed[f.path] = true
			continue
		}
		pass.run(string(content))
		p.log.Debug().Str("file", f.path).Msg("content pass done")
	}

	for path := range failed {
		res.FailedFiles = append(res.FailedFiles, path)
	}
	sort.Strings(res.FailedFiles)

	res.Volumes = len(p.ds.Volumes)
	res.Parts = len(p.ds.Parts)
	res.Chapters = len(p.ds.Chapters)
	res.Sections = len(p.ds.Sections)
	res.Blocks = len(p.ds.Blocks)
	res.Conditions = len(p.ds.Conditions)
	res.Drugs = len(p.ds.Drugs)
	res.Dosages = len(p.ds.Dosages)
	res.Duration = time.Since(started)

	p.log.Info().
		Int("chapters", res.Chapters).
		Int("sections", res.Sections).
		Int("blocks", res.Blocks).
		Int("drugs", res.Drugs).
		Int("conditions", res.Conditions).
		Int("dosages", res.Dosages).
		Dur("duration", res.Duration).
		Msg("run complete")

	return res, nil
}

type partFile struct {
	path   string
	number int
}

func (p *Pipeline) discoverFiles() ([]partFile, error) {
	matches, err := filepath.Glob(filepath.Join(p.cfg.InputDir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("listing input files: %w", err)
	}
	sort.Strings(matches)

	var files []partFile
	for _, m := range matches {
		groups := partFileRe.FindStringSubmatch(filepath.Base(m))
		if groups == nil {
			continue
		}
		n, err := strconv.Atoi(groups[1])
		if err != nil {
			continue
		}
		files = append(files, partFile{path: m, number: n})
	}
	return files, nil
}
