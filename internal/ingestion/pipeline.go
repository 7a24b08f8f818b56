package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/JaimeStill/rankwise/internal/cutoffs"
	"github.com/JaimeStill/rankwise/internal/institutions"
	"github.com/JaimeStill/rankwise/pkg/metrics"
	"github.com/JaimeStill/rankwise/pkg/tabular"
)

const (
	DefaultCheckpointInterval = 50
	DefaultErrorSampleSize    = 10
)

// Runs persists run records. Checkpoint and Complete overwrite the run's
// counters and error log with p.
type Runs interface {
	Create(ctx context.Context, cmd CreateRunCommand) (*Run, error)
	AttachSource(ctx context.Context, id uuid.UUID, key string) error
	Checkpoint(ctx context.Context, id uuid.UUID, p Progress) error
	Complete(ctx context.Context, id uuid.UUID, p Progress, status string) error
}

// InstitutionResolver resolves an institution by identity, creating it when absent.
type InstitutionResolver interface {
	GetOrCreate(ctx context.Context, cmd institutions.CreateCommand) (*institutions.Institution, error)
}

// CutoffWriter stores a cutoff by composite key, overwriting ranks on conflict.
type CutoffWriter interface {
	Upsert(ctx context.Context, cmd cutoffs.UpsertCommand) (*cutoffs.Cutoff, error)
}

// Archive keeps a copy of the uploaded bytes.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Options tunes a Pipeline. Zero values select the defaults.
type Options struct {
	CheckpointInterval int
	ErrorSampleSize    int
}

// Pipeline runs uploads through parse, validate, normalize, and store.
// Rows are processed sequentially; a Pipeline is safe for concurrent Ingest
// calls because all shared state lives in its collaborators.
type Pipeline struct {
	runs         Runs
	institutions InstitutionResolver
	cutoffs      CutoffWriter
	archive      Archive
	metrics      *metrics.Metrics
	logger       *slog.Logger
	interval     int
	sample       int
}

// NewPipeline creates a Pipeline. archive and m may be nil.
func NewPipeline(
	runs Runs,
	insts InstitutionResolver,
	cuts CutoffWriter,
	archive Archive,
	m *metrics.Metrics,
	logger *slog.Logger,
	opts Options,
) *Pipeline {
	if opts.CheckpointInterval <= 0 {
		opts.CheckpointInterval = DefaultCheckpointInterval
	}
	if opts.ErrorSampleSize <= 0 {
		opts.ErrorSampleSize = DefaultErrorSampleSize
	}
	return &Pipeline{
		runs:         runs,
		institutions: insts,
		cutoffs:      cuts,
		archive:      archive,
		metrics:      m,
		logger:       logger.With("pipeline", "ingestion"),
		interval:     opts.CheckpointInterval,
		sample:       opts.ErrorSampleSize,
	}
}

// Ingest imports one uploaded file. Unreadable, empty, or header-incomplete
// files fail before a run is created. Past that point bad rows are recorded
// on the run and never abort it; only failures outside row handling (a
// cancelled context or a lost checkpoint write) mark the run failed and are
// returned.
func (p *Pipeline) Ingest(ctx context.Context, cmd IngestCommand) (*Summary, error) {
	table, err := p.parse(cmd)
	if err != nil {
		return nil, err
	}

	run, err := p.runs.Create(ctx, CreateRunCommand{
		Year:       nominalYear(table.Rows),
		FileName:   cmd.FileName,
		UploadedBy: cmd.UploadedBy,
		TotalRows:  len(table.Rows),
	})
	if err != nil {
		return nil, fmt.Errorf("create ingestion run: %w", err)
	}

	p.logger.Info("ingestion started",
		"run_id", run.ID,
		"file", cmd.FileName,
		"year", run.Year,
		"rows", run.TotalRows,
	)

	p.archiveSource(ctx, run.ID, cmd)

	var progress Progress

	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return nil, p.abort(ctx, run, progress, err)
		}

		num := rowNumber(i)

		obs, problems := parseRow(row, num)
		if len(problems) > 0 {
			progress.Failed++
			progress.Errors = append(progress.Errors, problems...)
			p.metrics.RowFailed()
			continue
		}

		if err := p.store(ctx, obs); err != nil {
			if ctx.Err() != nil {
				return nil, p.abort(ctx, run, progress, ctx.Err())
			}
			progress.Failed++
			progress.Errors = append(progress.Errors, fmt.Sprintf("Row %d: %v", num, err))
			p.metrics.RowFailed()
			p.logger.Warn("row failed", "run_id", run.ID, "row", num, "error", err)
			continue
		}

		progress.Processed++
		p.metrics.RowProcessed()

		if progress.Processed%p.interval == 0 {
			if err := p.runs.Checkpoint(ctx, run.ID, progress); err != nil {
				return nil, p.abort(ctx, run, progress, fmt.Errorf("checkpoint: %w", err))
			}
			p.logger.Debug("ingestion checkpoint",
				"run_id", run.ID,
				"processed", progress.Processed,
				"failed", progress.Failed,
			)
		}
	}

	status := StatusCompleted
	if progress.Failed == run.TotalRows {
		status = StatusFailed
	}

	if err := p.runs.Complete(ctx, run.ID, progress, status); err != nil {
		return nil, p.abort(ctx, run, progress, fmt.Errorf("complete: %w", err))
	}
	p.metrics.RunFinished(status)

	p.logger.Info("ingestion finished",
		"run_id", run.ID,
		"status", status,
		"processed", progress.Processed,
		"failed", progress.Failed,
	)

	return p.summarize(run, progress, status), nil
}

func (p *Pipeline) parse(cmd IngestCommand) (*tabular.Table, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrEmptyFile
	}

	table, err := tabular.Parse(cmd.FileName, cmd.Data)
	if err != nil {
		if errors.Is(err, tabular.ErrNoHeader) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	if len(table.Rows) == 0 {
		return nil, ErrEmptyFile
	}

	if missing := table.Missing(RequiredColumns); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	return table, nil
}

func (p *Pipeline) store(ctx context.Context, obs *observation) error {
	inst, err := p.institutions.GetOrCreate(ctx, institutions.CreateCommand{
		Name:     obs.Name,
		Location: obs.Location,
		Category: obs.InstitutionCategory,
		City:     obs.City,
		State:    obs.State,
	})
	if err != nil {
		return err
	}

	_, err = p.cutoffs.Upsert(ctx, cutoffs.UpsertCommand{
		Key: cutoffs.Key{
			InstitutionID: inst.ID,
			Branch:        obs.Branch,
			Year:          obs.Year,
			Category:      obs.Category,
			Quota:         obs.Quota,
		},
		InstitutionName:     inst.Name,
		InstitutionLocation: inst.Location,
		InstitutionCategory: inst.Category,
		OpeningRank:         obs.OpeningRank,
		ClosingRank:         obs.ClosingRank,
	})
	return err
}

// abort marks the run failed with cause appended to its error log. The
// write uses a context detached from cancellation so a cancelled request
// still leaves a terminal run behind.
func (p *Pipeline) abort(ctx context.Context, run *Run, progress Progress, cause error) error {
	progress.Errors = append(progress.Errors, cause.Error())

	if err := p.runs.Complete(context.WithoutCancel(ctx), run.ID, progress, StatusFailed); err != nil {
		p.logger.Error("failed to mark run failed", "run_id", run.ID, "error", err)
	}
	p.metrics.RunFinished(StatusFailed)

	p.logger.Error("ingestion aborted",
		"run_id", run.ID,
		"processed", progress.Processed,
		"failed", progress.Failed,
		"error", cause,
	)
	return fmt.Errorf("ingestion run %s aborted: %w", run.ID, cause)
}

func (p *Pipeline) archiveSource(ctx context.Context, id uuid.UUID, cmd IngestCommand) {
	if p.archive == nil {
		return
	}

	key := buildStorageKey(id, cmd.FileName)
	if err := p.archive.Put(ctx, key, cmd.Data, detectContentType(cmd)); err != nil {
		p.logger.Warn("source archive failed", "run_id", id, "key", key, "error", err)
		return
	}

	if err := p.runs.AttachSource(ctx, id, key); err != nil {
		p.logger.Warn("source attach failed", "run_id", id, "key", key, "error", err)
		if delErr := p.archive.Delete(ctx, key); delErr != nil {
			p.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
	}
}

func (p *Pipeline) summarize(run *Run, progress Progress, status string) *Summary {
	sample := progress.Errors
	if len(sample) > p.sample {
		sample = sample[:p.sample]
	}
	if sample == nil {
		sample = []string{}
	}

	return &Summary{
		RunID:         run.ID,
		TotalRows:     run.TotalRows,
		ProcessedRows: progress.Processed,
		FailedRows:    progress.Failed,
		Status:        status,
		Errors:        sample,
	}
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("ingestions/%s/%s", id, sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" || name == "/" {
		name = "upload"
	}
	return url.PathEscape(name)
}

func detectContentType(cmd IngestCommand) string {
	if tabular.DetectFormat(cmd.FileName, cmd.Data) == tabular.FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}
