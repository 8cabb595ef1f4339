package factor

import "sort"

// Buckets holds one raw value per key. A missing key means no matching
// events in that second, which is different from a zero value.
type Buckets map[Key]float64

// SortedKeys returns the bucket keys ordered by instrument, date and second.
func (b Buckets) SortedKeys() []Key {
	keys := make([]Key, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys
}

// Predicate selects events.
type Predicate[E any] func(E) bool

// All keeps every event.
func All[E any]() Predicate[E] {
	return func(E) bool { return true }
}

// And keeps events accepted by every predicate.
func And[E any](ps ...Predicate[E]) Predicate[E] {
	return func(e E) bool {
		for _, p := range ps {
			if !p(e) {
				return false
			}
		}
		return true
	}
}

// Aggregation reduces the events of one bucket to a scalar.
type Aggregation[E any] struct {
	field func(E) float64 // nil means count
}

// Count counts events.
func Count[E any]() Aggregation[E] { return Aggregation[E]{} }

// Sum adds field over events.
func Sum[E any](field func(E) float64) Aggregation[E] { return Aggregation[E]{field: field} }

func (a Aggregation[E]) value(e E) float64 {
	if a.field == nil {
		return 1
	}
	return a.field(e)
}

// Bucketize filters events and aggregates the survivors per key. Events are
// visited in input order and the slice is never modified.
func Bucketize[E any](events []E, key func(E) Key, keep Predicate[E], agg Aggregation[E]) Buckets {
	out := make(Buckets)
	for _, e := range events {
		if keep != nil && !keep(e) {
			continue
		}
		out[key(e)] += agg.value(e)
	}
	return out
}
