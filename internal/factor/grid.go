package factor

import "fmt"

type span struct {
	group      Group
	start, end int // [start, end)
}

// Grid is the canonical ordered set of output keys. It is immutable once
// built and safe to share between goroutines.
type Grid struct {
	keys   []Key
	spans  []span
	index  map[Key]int
	groups map[Group]int
}

// NewGrid validates keys and builds a Grid. Keys must be strictly increasing
// by second inside each group and each group must form one contiguous run.
func NewGrid(keys []Key) (*Grid, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyGrid
	}
	g := &Grid{
		keys:   append([]Key(nil), keys...),
		index:  make(map[Key]int, len(keys)),
		groups: make(map[Group]int),
	}
	for i, k := range g.keys {
		grp := k.Group()
		if i == 0 || grp != g.keys[i-1].Group() {
			if _, seen := g.groups[grp]; seen {
				return nil, fmt.Errorf("%w: group %s appears in more than one run (row %d)", ErrGridOrder, grp, i)
			}
			if n := len(g.spans); n > 0 {
				g.spans[n-1].end = i
			}
			g.groups[grp] = len(g.spans)
			g.spans = append(g.spans, span{group: grp, start: i})
		} else if k.Second <= g.keys[i-1].Second {
			return nil, fmt.Errorf("%w: %s does not follow %s (row %d)", ErrGridOrder, k, g.keys[i-1], i)
		}
		g.index[k] = i
	}
	g.spans[len(g.spans)-1].end = len(g.keys)
	return g, nil
}

// Len returns the number of grid rows.
func (g *Grid) Len() int { return len(g.keys) }

// Key returns the key of row i.
func (g *Grid) Key(i int) Key { return g.keys[i] }

// Keys returns a copy of all grid keys in order.
func (g *Grid) Keys() []Key { return append([]Key(nil), g.keys...) }

// Groups lists the grid's groups in grid order.
func (g *Grid) Groups() []Group {
	out := make([]Group, len(g.spans))
	for i, s := range g.spans {
		out[i] = s.group
	}
	return out
}

// Position returns the row index of k.
func (g *Grid) Position(k Key) (int, bool) {
	i, ok := g.index[k]
	return i, ok
}

// HasGroup reports whether the grid covers grp.
func (g *Grid) HasGroup(grp Group) bool {
	_, ok := g.groups[grp]
	return ok
}

// eachSpan calls fn with the [start, end) row range of every group.
func (g *Grid) eachSpan(fn func(start, end int)) {
	for _, s := range g.spans {
		fn(s.start, s.end)
	}
}
