package factor

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/hffactors/internal/logger"
)

// Observer is notified after every factor evaluation.
type Observer func(id string, elapsed time.Duration, err error)

// Result pairs a definition with its computed series.
type Result struct {
	Definition Definition
	Series     Series
}

// Engine evaluates definitions concurrently over a shared read-only input.
type Engine struct {
	defs     []Definition
	index    map[string]int
	params   Params
	observer Observer
}

// Option customizes an Engine.
type Option func(*Engine)

// WithObserver registers fn to receive per-factor timings.
func WithObserver(fn Observer) Option {
	return func(e *Engine) { e.observer = fn }
}

// NewEngine builds an engine over defs. A nil defs uses the full catalog.
func NewEngine(defs []Definition, params Params, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if defs == nil {
		defs = Catalog()
	}
	e := &Engine{defs: defs, index: make(map[string]int, len(defs)), params: params}
	for i, d := range defs {
		if _, dup := e.index[d.ID]; dup {
			return nil, fmt.Errorf("duplicate factor definition %q", d.ID)
		}
		e.index[d.ID] = i
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Definitions returns the engine's definitions in order.
func (e *Engine) Definitions() []Definition {
	return append([]Definition(nil), e.defs...)
}

// Compute evaluates the factors named by ids, or all of them when ids is
// empty. Results follow the engine's definition order regardless of the
// order of ids. The first failing factor cancels the rest.
func (e *Engine) Compute(ctx context.Context, in *Input, ids ...string) ([]Result, error) {
	if in == nil || in.Grid == nil {
		return nil, ErrEmptyGrid
	}
	selected, err := e.selectDefs(ids)
	if err != nil {
		return nil, err
	}

	log := logger.Component("engine")
	results := make([]Result, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	limit := e.params.Parallel
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	g.SetLimit(limit)

	for i, def := range selected {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			s, err := Evaluate(def, in, e.params)
			elapsed := time.Since(start)
			if e.observer != nil {
				e.observer(def.ID, elapsed, err)
			}
			if err != nil {
				log.Error().Err(err).Str("factor", def.ID).Msg("factor evaluation failed")
				return fmt.Errorf("factor %s: %w", def.ID, err)
			}
			log.Debug().Str("factor", def.ID).Dur("elapsed", elapsed).Msg("factor computed")
			results[i] = Result{Definition: def, Series: s}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) selectDefs(ids []string) ([]Definition, error) {
	if len(ids) == 0 {
		return e.defs, nil
	}
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		i, ok := e.index[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFactor, id)
		}
		want[i] = true
	}
	out := make([]Definition, 0, len(want))
	for i, d := range e.defs {
		if want[i] {
			out = append(out, d)
		}
	}
	return out, nil
}
