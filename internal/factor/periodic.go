package factor

import "math"

// Reducer collapses the values of one periodic bucket. Values arrive in
// ascending second order.
type Reducer func(values []float64) float64

// Mean is the arithmetic mean.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStd is the standard deviation with denominator n-1. Fewer than two
// values give null.
func SampleStd(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	mean := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// periodLabel maps a second to the right edge of its right-closed bucket:
// with width 300, 09:30:01..09:35:00 all map to 09:35:00.
func periodLabel(second, width int) int {
	if second%width == 0 {
		return second
	}
	return (second/width + 1) * width
}

func labelKey(k Key, width int) Key {
	k.Second = periodLabel(k.Second, width)
	return k
}

// Periodic groups raw buckets into width-second buckets and reduces each.
// Only labels with at least one observation are present in the result.
func Periodic(b Buckets, width int, reduce Reducer) Buckets {
	values := make(map[Key][]float64)
	for _, k := range b.SortedKeys() {
		lk := labelKey(k, width)
		values[lk] = append(values[lk], b[k])
	}
	out := make(Buckets, len(values))
	for k, vs := range values {
		out[k] = reduce(vs)
	}
	return out
}

// PeriodicWeighted computes Σnum/Σden per width-second bucket, e.g. a VWAP
// from per-second traded amount and volume.
func PeriodicWeighted(num, den Buckets, width int) Buckets {
	nums := make(map[Key]float64)
	dens := make(map[Key]float64)
	for _, k := range num.SortedKeys() {
		nums[labelKey(k, width)] += num[k]
	}
	for _, k := range den.SortedKeys() {
		dens[labelKey(k, width)] += den[k]
	}
	out := make(Buckets, len(dens))
	for k, d := range dens {
		out[k] = nums[k] / d
	}
	// amount without volume is kept so the division yields ±Inf or NaN
	for k, n := range nums {
		if _, ok := out[k]; !ok {
			out[k] = n / dens[k]
		}
	}
	return out
}
