package factor

import (
	"fmt"
	"math"
	"sort"

	"github.com/guttosm/hffactors/internal/domain/models"
)

// PricedFill is a (price, volume) observation at a key, used for
// volume-weighted averages.
type PricedFill struct {
	Key    Key
	Price  float64
	Volume float64
}

type orderLink struct {
	group Group
	recNo int64
}

// JoinCancellations pairs each cancellation with the order it cancels and
// prices it at the order's limit price. side restricts the join to buy or
// sell cancellations; zero keeps both. Cancellations without a usable
// reference or without a matching order are dropped (inner join).
func JoinCancellations(trades []models.Trade, orders []models.Order, side models.Side) []PricedFill {
	prices := make(map[orderLink][]float64, len(orders))
	for _, o := range orders {
		l := orderLink{group: Group{Instrument: o.Instrument, Date: o.Date}, recNo: o.RecNo}
		prices[l] = append(prices[l], o.Price)
	}

	var out []PricedFill
	for _, t := range trades {
		if !t.IsCancel() {
			continue
		}
		ref, ok := t.CancelledOrder()
		if !ok || (side != 0 && ref.Side != side) {
			continue
		}
		l := orderLink{group: Group{Instrument: t.Instrument, Date: t.Date}, recNo: ref.RecNo}
		for _, p := range prices[l] {
			out = append(out, PricedFill{Key: tradeKey(t), Price: p, Volume: t.Volume})
		}
	}
	return out
}

// TradeFills returns the selected trades priced at their execution price.
func TradeFills(trades []models.Trade, keep Predicate[models.Trade]) []PricedFill {
	var out []PricedFill
	for _, t := range trades {
		if keep != nil && !keep(t) {
			continue
		}
		out = append(out, PricedFill{Key: tradeKey(t), Price: t.Price, Volume: t.Volume})
	}
	return out
}

// CumulativeVWAP returns, for every grid row, the volume-weighted average price
// of all fills strictly before that second in the same group, including
// fills at seconds that are not grid rows (auctions, breaks).
//
// Amount and volume are accumulated separately. A second's price is the
// cumulative ratio after its last fill; a second whose ratio is undefined
// keeps the previous price. Groups without fills stay null.
func CumulativeVWAP(fills []PricedFill, g *Grid) (Series, error) {
	if g == nil {
		return nil, ErrEmptyGrid
	}
	rows := append([]PricedFill(nil), fills...)
	sort.SliceStable(rows, func(i, j int) bool { return keyLess(rows[i].Key, rows[j].Key) })

	byGroup := make(map[Group][]PricedFill)
	for _, r := range rows {
		grp := r.Key.Group()
		if !g.HasGroup(grp) {
			return nil, fmt.Errorf("%w: %s", ErrGroupNotInGrid, grp)
		}
		byGroup[grp] = append(byGroup[grp], r)
	}

	out := NullSeries(g.Len())
	for _, sp := range g.spans {
		fs := byGroup[sp.group]
		var amount, vol float64
		price := math.NaN()
		j := 0
		for i := sp.start; i < sp.end; i++ {
			sec := g.keys[i].Second
			for j < len(fs) && fs[j].Key.Second < sec {
				amount += fs[j].Price * fs[j].Volume
				vol += fs[j].Volume
				j++
				if j == len(fs) || fs[j].Key.Second != fs[j-1].Key.Second {
					if v := amount / vol; !math.IsNaN(v) {
						price = v
					}
				}
			}
			out[i] = price
		}
	}
	return out, nil
}
