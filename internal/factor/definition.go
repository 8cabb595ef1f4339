package factor

import (
	"fmt"
	"math"

	"github.com/guttosm/hffactors/internal/domain/models"
)

// Mode selects how a definition turns its measures into a series.
type Mode int

const (
	// Windowed is a trailing sum over the previous Window rows.
	Windowed Mode = iota + 1
	// Running is the total of all earlier rows of the day.
	Running
	// WindowedRatio divides two trailing sums.
	WindowedRatio
	// RunningRatio divides two running totals.
	RunningRatio
	// PeriodicStat reduces per-second values in fixed buckets.
	PeriodicStat
	// PeriodicVWAP divides summed amount by summed volume in fixed buckets.
	PeriodicVWAP
	// RunningVWAP is the volume-weighted price of all earlier fills.
	RunningVWAP
)

var modeNames = map[Mode]string{
	Windowed:      "windowed",
	Running:       "running",
	WindowedRatio: "windowed-ratio",
	RunningRatio:  "running-ratio",
	PeriodicStat:  "periodic-stat",
	PeriodicVWAP:  "periodic-vwap",
	RunningVWAP:   "running-vwap",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Input is the read-only data a factor is computed from.
type Input struct {
	Orders []models.Order
	Trades []models.Trade
	Grid   *Grid
}

// Params carries tunables shared by all definitions.
type Params struct {
	Window        int    // trailing window in grid rows
	PeriodSeconds int    // periodic bucket width
	Parallel      int    // concurrent evaluations; <=0 means NumCPU
	FAKOrderKind  string // order kind code of fill-and-kill orders
}

// DefaultParams returns a 60-row window and 5-minute buckets.
func DefaultParams() Params {
	return Params{Window: 60, PeriodSeconds: 300}
}

// Validate rejects non-positive window or period sizes.
func (p Params) Validate() error {
	if p.Window < 1 {
		return fmt.Errorf("%w: window %d", ErrInvalidParams, p.Window)
	}
	if p.PeriodSeconds < 1 {
		return fmt.Errorf("%w: period %ds", ErrInvalidParams, p.PeriodSeconds)
	}
	return nil
}

// Measure produces raw per-second buckets from the input.
type Measure func(in *Input, p Params) Buckets

// FillsSource produces priced fills for running VWAP definitions.
type FillsSource func(in *Input) []PricedFill

// Definition declares one factor. Which fields are used depends on Mode:
// Numerator always (except RunningVWAP), Denominator for ratio and
// PeriodicVWAP modes, Reducer for PeriodicStat, Fills for RunningVWAP.
type Definition struct {
	ID          string
	Description string
	Mode        Mode
	Numerator   Measure
	Denominator Measure
	Reducer     Reducer
	Fills       FillsSource
}

// Evaluate computes def over in. The empty rule is applied per
// (instrument, date) group: rows of a group in which none of the
// definition's measures matched a single event are null.
func Evaluate(def Definition, in *Input, p Params) (Series, error) {
	if in == nil || in.Grid == nil {
		return nil, ErrEmptyGrid
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	g := in.Grid

	switch def.Mode {
	case Windowed, Running:
		b := def.Numerator(in, p)
		if len(b) == 0 {
			return NullSeries(g.Len()), nil
		}
		s, err := Align(b, g, ZeroFill)
		if err != nil {
			return nil, err
		}
		if def.Mode == Windowed {
			s = TrailingSum(s, g, p.Window)
		} else {
			s = RunningTotal(s, g)
		}
		return nullQuietGroups(s, g, b), nil

	case WindowedRatio, RunningRatio:
		num, den := def.Numerator(in, p), def.Denominator(in, p)
		if len(num) == 0 && len(den) == 0 {
			return NullSeries(g.Len()), nil
		}
		ns, err := Align(num, g, ZeroFill)
		if err != nil {
			return nil, err
		}
		ds, err := Align(den, g, ZeroFill)
		if err != nil {
			return nil, err
		}
		var s Series
		if def.Mode == WindowedRatio {
			s, err = Divide(TrailingSum(ns, g, p.Window), TrailingSum(ds, g, p.Window))
		} else {
			s, err = Divide(RunningTotal(ns, g), RunningTotal(ds, g))
		}
		if err != nil {
			return nil, err
		}
		return nullQuietGroups(s, g, num, den), nil

	case PeriodicStat:
		b := def.Numerator(in, p)
		if len(b) == 0 {
			return NullSeries(g.Len()), nil
		}
		return Align(Periodic(b, p.PeriodSeconds, def.Reducer), g, LeaveNull)

	case PeriodicVWAP:
		num, den := def.Numerator(in, p), def.Denominator(in, p)
		if len(num) == 0 && len(den) == 0 {
			return NullSeries(g.Len()), nil
		}
		return Align(PeriodicWeighted(num, den, p.PeriodSeconds), g, LeaveNull)

	case RunningVWAP:
		fills := def.Fills(in)
		if len(fills) == 0 {
			return NullSeries(g.Len()), nil
		}
		return CumulativeVWAP(fills, g)

	default:
		return nil, fmt.Errorf("factor %s: unsupported mode %v", def.ID, def.Mode)
	}
}

// nullQuietGroups nulls every grid group that has no bucket in any of bs.
// Periodic and VWAP modes need no such pass: they align without fill.
func nullQuietGroups(s Series, g *Grid, bs ...Buckets) Series {
	active := make(map[Group]bool)
	for _, b := range bs {
		for k := range b {
			active[k.Group()] = true
		}
	}
	for _, sp := range g.spans {
		if active[sp.group] {
			continue
		}
		for i := sp.start; i < sp.end; i++ {
			s[i] = math.NaN()
		}
	}
	return s
}
