package factor

import "math"

// TrailingSum returns, for each row, the sum of the window rows strictly
// before it in the same group. Rows with fewer than window predecessors are
// null. A null inside the window makes the result null.
func TrailingSum(s Series, g *Grid, window int) Series {
	out := make(Series, len(s))
	g.eachSpan(func(start, end int) {
		for i := start; i < end; i++ {
			if i-start < window {
				out[i] = math.NaN()
				continue
			}
			var sum float64
			for _, v := range s[i-window : i] {
				sum += v
			}
			out[i] = sum
		}
	})
	return out
}

// RunningTotal returns the sum of all earlier rows of the same group. The
// first row of every group is null.
func RunningTotal(s Series, g *Grid) Series {
	out := make(Series, len(s))
	g.eachSpan(func(start, end int) {
		out[start] = math.NaN()
		var acc float64
		for i := start + 1; i < end; i++ {
			acc += s[i-1]
			out[i] = acc
		}
	})
	return out
}

// Shift moves values n rows later inside each group, leaving the first n
// rows of a group null.
func Shift(s Series, g *Grid, n int) Series {
	out := make(Series, len(s))
	g.eachSpan(func(start, end int) {
		for i := start; i < end; i++ {
			if i-n < start {
				out[i] = math.NaN()
				continue
			}
			out[i] = s[i-n]
		}
	})
	return out
}

// FillForward replaces nulls with the last non-null value of the group.
func FillForward(s Series, g *Grid) Series {
	out := make(Series, len(s))
	g.eachSpan(func(start, end int) {
		last := math.NaN()
		for i := start; i < end; i++ {
			if !math.IsNaN(s[i]) {
				last = s[i]
			}
			out[i] = last
		}
	})
	return out
}

// Divide divides a by b row by row. Division by zero follows IEEE 754:
// x/0 is ±Inf and 0/0 is null.
func Divide(a, b Series) (Series, error) {
	if len(a) != len(b) {
		return nil, ErrMisaligned
	}
	out := make(Series, len(a))
	for i := range a {
		out[i] = a[i] / b[i]
	}
	return out, nil
}
