// Package upload pushes the exported dataset into the relational store in
// batches, with bounded retries and an inter-batch delay to stay under hosted
// database rate limits.
package upload

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/DrZ199/Nelsonbook/internal/observability"
	"github.com/DrZ199/Nelsonbook/internal/storage"
)

// Config tunes batching and retry behavior.
type Config struct {
	// BatchSize is the number of rows per INSERT.
	BatchSize int
	// Delay is the pause between consecutive batches.
	Delay time.Duration
	// MaxRetries bounds re-attempts for one failed batch.
	MaxRetries int
	// RetryBackoff is the base sleep before a retry, multiplied by the
	// attempt number.
	RetryBackoff time.Duration
	// Progress renders per-table progress bars on stderr.
	Progress bool
}

const (
	defaultBatchSize    = 100
	defaultMaxRetries   = 3
	defaultRetryBackoff = 2 * time.Second
)

// Summary reports what one upload run accomplished.
type Summary struct {
	JobID         uuid.UUID
	Uploaded      map[string]int
	FailedBatches int
	Duration      time.Duration
}

// Uploader writes a parsed dataset through the storage repositories.
type Uploader struct {
	repos *storage.Repositories
	cfg   Config
	log   *observability.Logger
}

func New(repos *storage.Repositories, cfg Config, log *observability.Logger) *Uploader {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	if log == nil {
		log = observability.DefaultLogger()
	}
	return &Uploader{repos: repos, cfg: cfg, log: log.WithOperation("upload")}
}

// UploadDataset uploads every collection in dependency order so foreign keys
// resolve. A batch that keeps failing after retries is skipped and counted;
// the run continues with the next batch.
func (u *Uploader) UploadDataset(ctx context.Context, ds *storage.Dataset) (*Summary, error) {
	started := time.Now()
	summary := &Summary{
		JobID:    uuid.New(),
		Uploaded: make(map[string]int),
	}

	log := u.log.With().Str("job_id", summary.JobID.String()).Logger()
	log.Info().Int("batch_size", u.cfg.BatchSize).Msg("starting upload")

	var progress *mpb.Progress
	if u.cfg.Progress {
		progress = mpb.New(mpb.WithWidth(64), mpb.WithOutput(os.Stderr))
	}

	tables := []struct {
		name   string
		total  int
		insert func(ctx context.Context, start, end int) error
	}{
		{"volumes", len(ds.Volumes), func(ctx context.Context, s, e int) error {
			return u.repos.Volumes.InsertBatch(ctx, ds.Volumes[s:e])
		}},
		{"parts", len(ds.Parts), func(ctx context.Context, s, e int) error {
			return u.repos.Parts.InsertBatch(ctx, ds.Parts[s:e])
		}},
		{"chapters", len(ds.Chapters), func(ctx context.Context, s, e int) error {
			return u.repos.Chapters.InsertBatch(ctx, ds.Chapters[s:e])
		}},
		{"sections", len(ds.Sections), func(ctx context.Context, s, e int) error {
			return u.repos.Sections.InsertBatch(ctx, ds.Sections[s:e])
		}},
		{"content_blocks", len(ds.Blocks), func(ctx context.Context, s, e int) error {
			return u.repos.Blocks.InsertBatch(ctx, ds.Blocks[s:e])
		}},
		{"medical_conditions", len(ds.Conditions), func(ctx context.Context, s, e int) error {
			return u.repos.Conditions.InsertBatch(ctx, ds.Conditions[s:e])
		}},
		{"drugs", len(ds.Drugs), func(ctx context.Context, s, e int) error {
			return u.repos.Drugs.InsertBatch(ctx, ds.Drugs[s:e])
		}},
		{"drug_dosages", len(ds.Dosages), func(ctx context.Context, s, e int) error {
			return u.repos.Dosages.InsertBatch(ctx, ds.Dosages[s:e])
		}},
	}

	for _, table := range tables {
		var bar *mpb.Bar
		if progress != nil && table.total > 0 {
			bar = progress.AddBar(int64(table.total),
				mpb.PrependDecorators(
					decor.Name(table.name, decor.WC{W: len(table.name) + 1, C: decor.DSyncSpaceR}),
					decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(decor.Percentage()),
			)
		}

		uploaded, failed, err := u.uploadTable(ctx, log, table.name, table.total, table.insert, bar)
		summary.Uploaded[table.name] = uploaded
		summary.FailedBatches += failed
		if err != nil {
			if progress != nil {
				progress.Wait()
			}
			return summary, err
		}
	}

	if progress != nil {
		progress.Wait()
	}

	summary.Duration = time.Since(started)
	log.Info().
		Int("failed_batches", summary.FailedBatches).
		Dur("duration", summary.Duration).
		Msg("upload complete")
	return summary, nil
}

// uploadTable pushes one collection batch by batch. Only context cancellation
// propagates as an error.
func (u *Uploader) uploadTable(
	ctx context.Context,
	log *observability.Logger,
	name string,
	total int,
	insert func(ctx context.Context, start, end int) error,
	bar *mpb.Bar,
) (uploaded, failedBatches int, err error) {
	for start := 0; start < total; start += u.cfg.BatchSize {
		end := start + u.cfg.BatchSize
		if end > total {
			end = total
		}

		if err := u.insertWithRetry(ctx, log, name, start, end, insert); err != nil {
			if ctx.Err() != nil {
				return uploaded, failedBatches, ctx.Err()
			}
			failedBatches++
			log.Error().Err(err).Str("table", name).Int("start", start).Msg("batch failed, skipping")
		} else {
			uploaded += end - start
		}
		if bar != nil {
			bar.IncrBy(end - start)
		}

		if u.cfg.Delay > 0 && end < total {
			if err := sleep(ctx, u.cfg.Delay); err != nil {
				return uploaded, failedBatches, err
			}
		}
	}
	return uploaded, failedBatches, nil
}

func (u *Uploader) insertWithRetry(
	ctx context.Context,
	log *observability.Logger,
	name string,
	start, end int,
	insert func(ctx context.Context, start, end int) error,
) error {
	var lastErr error
	for attempt := 0; attempt <= u.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * u.cfg.RetryBackoff
			log.Warn().Str("table", name).Int("attempt", attempt).Dur("backoff", backoff).Msg("retrying batch")
			if err := sleep(ctx, backoff); err != nil {
				return err
			}
		}
		if lastErr = insert(ctx, start, end); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
