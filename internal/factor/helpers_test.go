package factor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guttosm/hffactors/internal/domain/models"
)

const testDate = 20230301

func hms(h, m, s int) int { return h*3600 + m*60 + s }

// secondsGrid builds a contiguous per-second grid for each instrument.
func secondsGrid(t *testing.T, from, to int, instruments ...string) *Grid {
	t.Helper()
	var keys []Key
	for _, inst := range instruments {
		for s := from; s <= to; s++ {
			keys = append(keys, Key{Instrument: inst, Date: testDate, Second: s})
		}
	}
	g, err := NewGrid(keys)
	require.NoError(t, err)
	return g
}

func valueAt(t *testing.T, g *Grid, s Series, inst string, second int) float64 {
	t.Helper()
	i, ok := g.Position(Key{Instrument: inst, Date: testDate, Second: second})
	require.True(t, ok, "second %d not on grid", second)
	return s[i]
}

func buyOrder(inst string, second int, recNo int64, price, vol float64) models.Order {
	return models.Order{
		Instrument: inst, Date: testDate, Second: second, RecNo: recNo,
		Price: price, Volume: vol, FunctionCode: models.OrderBuy,
	}
}

func sellOrder(inst string, second int, recNo int64, price, vol float64) models.Order {
	o := buyOrder(inst, second, recNo, price, vol)
	o.FunctionCode = models.OrderSell
	return o
}

func cancelBuy(inst string, second int, orderRecNo int64, vol float64) models.Trade {
	return models.Trade{
		Instrument: inst, Date: testDate, Second: second,
		BuyOrderRecNo: orderRecNo, Volume: vol, FunctionCode: models.TradeCancel,
	}
}

func cancelSell(inst string, second int, orderRecNo int64, vol float64) models.Trade {
	return models.Trade{
		Instrument: inst, Date: testDate, Second: second,
		SellOrderRecNo: orderRecNo, Volume: vol, FunctionCode: models.TradeCancel,
	}
}

func fill(inst string, second int, price, vol float64, dir string) models.Trade {
	return models.Trade{
		Instrument: inst, Date: testDate, Second: second,
		Price: price, Volume: vol, FunctionCode: models.TradeFill, Direction: dir,
	}
}

func mustLookup(t *testing.T, id string) Definition {
	t.Helper()
	d, err := Lookup(id)
	require.NoError(t, err)
	return d
}

func eval(t *testing.T, id string, in *Input) Series {
	t.Helper()
	s, err := Evaluate(mustLookup(t, id), in, DefaultParams())
	require.NoError(t, err)
	return s
}
