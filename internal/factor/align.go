package factor

import (
	"fmt"
	"math"
)

// FillPolicy decides the value of grid rows that have no bucket.
type FillPolicy int

const (
	// LeaveNull keeps missing rows null.
	LeaveNull FillPolicy = iota
	// ZeroFill treats a missing row as zero activity.
	ZeroFill
	// ForwardFill repeats the last observed value of the group.
	ForwardFill
)

func (f FillPolicy) String() string {
	switch f {
	case LeaveNull:
		return "leave-null"
	case ZeroFill:
		return "zero-fill"
	case ForwardFill:
		return "forward-fill"
	default:
		return fmt.Sprintf("FillPolicy(%d)", int(f))
	}
}

// Series holds one value per grid row, in grid order. NaN is null.
type Series []float64

// NullSeries returns n null values.
func NullSeries(n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// IsNull reports whether v encodes a missing value.
func IsNull(v float64) bool { return math.IsNaN(v) }

// Align reindexes b onto g. Buckets at seconds that are not grid rows are
// dropped; buckets of a group the grid does not cover are an error.
func Align(b Buckets, g *Grid, fill FillPolicy) (Series, error) {
	if g == nil {
		return nil, ErrEmptyGrid
	}
	var missing *Key
	for k := range b {
		if !g.HasGroup(k.Group()) && (missing == nil || keyLess(k, *missing)) {
			missing = &k
		}
	}
	if missing != nil {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotInGrid, missing.Group())
	}
	out := make(Series, g.Len())
	for i, k := range g.keys {
		v, ok := b[k]
		switch {
		case ok:
			out[i] = v
		case fill == ZeroFill:
			out[i] = 0
		default:
			out[i] = math.NaN()
		}
	}
	if fill == ForwardFill {
		return FillForward(out, g), nil
	}
	return out, nil
}
