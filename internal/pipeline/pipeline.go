// Package pipeline runs the daily compute job: load a day, evaluate the
// factor catalog, export the rows and persist them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/hffactors/internal/domain/models"
	"github.com/guttosm/hffactors/internal/export"
	"github.com/guttosm/hffactors/internal/factor"
	"github.com/guttosm/hffactors/internal/ingestion"
	"github.com/guttosm/hffactors/internal/logger"
	"github.com/guttosm/hffactors/internal/metrics"
	"github.com/guttosm/hffactors/internal/storage"
)

// DayLoader loads the input of one trading date. ingestion.Loader satisfies it.
type DayLoader interface {
	LoadDay(ctx context.Context, date int) (*ingestion.Day, error)
}

// Options controls one run.
type Options struct {
	Dates        []int    // trading dates, YYYYMMDD
	Factors      []string // factor ids; empty means the whole catalog
	Force        bool     // recompute days already in the run log
	Persist      bool     // write rows to the repository
	ParallelDays int      // days in flight; <= 0 means 1
}

// Report summarizes a run.
type Report struct {
	Computed int
	Skipped  int
	Rows     int
	Files    []string
}

// Pipeline wires the loader, the engine and the sinks together. repo may be
// nil when nothing is persisted; sink may be nil when nothing is exported.
type Pipeline struct {
	loader DayLoader
	engine *factor.Engine
	repo   storage.FactorRepository
	sink   export.Writer

	now      func() time.Time
	newRunID func() string
}

// New builds a pipeline.
func New(loader DayLoader, engine *factor.Engine, repo storage.FactorRepository, sink export.Writer) *Pipeline {
	return &Pipeline{
		loader:   loader,
		engine:   engine,
		repo:     repo,
		sink:     sink,
		now:      func() time.Time { return time.Now().UTC() },
		newRunID: func() string { return uuid.NewString() },
	}
}

// dayResult is what one processed day contributes to the Report.
type dayResult struct {
	skipped bool
	rows    int
	files   []string
}

// Run processes opts.Dates. Days run concurrently up to opts.ParallelDays;
// the first failing day cancels the others.
//
// Per day:
//   - skip when the run log already has the date, unless Force;
//   - load, compute, format, export;
//   - replace the stored values of the date and upsert its run log in one
//     transaction, so a failed day keeps its previous values.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	if len(opts.Dates) == 0 {
		return nil, errors.New("no trading dates to process")
	}
	if opts.Persist && p.repo == nil {
		return nil, errors.New("persist requested without a repository")
	}
	log := logger.Component("pipeline")

	parallel := opts.ParallelDays
	if parallel <= 0 {
		parallel = 1
	}
	if n := runtime.NumCPU(); parallel > n {
		parallel = n
	}
	log.Info().Int("days", len(opts.Dates)).Int("parallel_days", parallel).Bool("persist", opts.Persist).Bool("force", opts.Force).Msg("compute start")

	results := make([]dayResult, len(opts.Dates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, date := range opts.Dates {
		g.Go(func() error {
			start := time.Now()
			res, err := p.runDay(gctx, date, opts)
			if err != nil {
				metrics.DaysProcessed.WithLabelValues(metrics.DayFailed).Inc()
				log.Error().Int("date", date).Dur("elapsed", time.Since(start)).Err(err).Msg("day failed")
				return fmt.Errorf("date %d: %w", date, err)
			}
			results[i] = res
			if res.skipped {
				metrics.DaysProcessed.WithLabelValues(metrics.DaySkipped).Inc()
				log.Info().Int("idx", i+1).Int("total", len(opts.Dates)).Int("date", date).Bool("skipped", true).Msg("already computed")
				return nil
			}
			metrics.DaysProcessed.WithLabelValues(metrics.DayComputed).Inc()
			log.Info().Int("idx", i+1).Int("total", len(opts.Dates)).Int("date", date).Int("rows", res.rows).Dur("elapsed", time.Since(start)).Msg("day done")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{}
	for _, r := range results {
		if r.skipped {
			rep.Skipped++
			continue
		}
		rep.Computed++
		rep.Rows += r.rows
		rep.Files = append(rep.Files, r.files...)
	}
	log.Info().Int("computed", rep.Computed).Int("skipped", rep.Skipped).Int("rows", rep.Rows).Msg("compute done")
	return rep, nil
}

func (p *Pipeline) runDay(ctx context.Context, date int, opts Options) (dayResult, error) {
	day := storage.DateOf(date)
	if opts.Persist {
		exists, err := p.repo.HasRunForDate(ctx, day)
		if err != nil {
			return dayResult{}, fmt.Errorf("check run log: %w", err)
		}
		if exists && !opts.Force {
			return dayResult{skipped: true}, nil
		}
	}

	in, err := p.loader.LoadDay(ctx, date)
	if err != nil {
		return dayResult{}, fmt.Errorf("load: %w", err)
	}
	results, err := p.engine.Compute(ctx, in.Input(), opts.Factors...)
	if err != nil {
		return dayResult{}, fmt.Errorf("compute: %w", err)
	}

	rows := make([]models.FactorValue, 0, len(results)*in.Grid.Len())
	for _, res := range results {
		rows = append(rows, factor.Format(res, in.Grid)...)
	}

	out := dayResult{rows: len(rows)}
	if p.sink != nil {
		files, err := p.sink.WriteDay(ctx, date, rows)
		if err != nil {
			return dayResult{}, fmt.Errorf("export: %w", err)
		}
		out.files = files
		metrics.RowsWritten.WithLabelValues("file").Add(float64(len(rows)))
	}

	if opts.Persist {
		run := models.RunLog{
			TradeDate:   day,
			RunID:       p.newRunID(),
			FactorCount: len(results),
			RowCount:    len(rows),
			ComputedAt:  p.now(),
		}
		if err := p.repo.ReplaceDay(ctx, run, rows); err != nil {
			return dayResult{}, fmt.Errorf("persist: %w", err)
		}
		metrics.RowsWritten.WithLabelValues("postgres").Add(float64(len(rows)))
	}
	return out, nil
}
