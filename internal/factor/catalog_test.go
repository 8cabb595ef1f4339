package factor

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/hffactors/internal/domain/models"
)

func TestCatalog_Complete(t *testing.T) {
	defs := Catalog()
	require.Len(t, defs, 39)
	for i, d := range defs {
		assert.Equal(t, fmt.Sprintf("A%d", i+1), d.ID)
		assert.NotEmpty(t, d.Description)
		switch d.Mode {
		case RunningVWAP:
			assert.NotNil(t, d.Fills, d.ID)
		case WindowedRatio, RunningRatio, PeriodicVWAP:
			assert.NotNil(t, d.Numerator, d.ID)
			assert.NotNil(t, d.Denominator, d.ID)
		case PeriodicStat:
			assert.NotNil(t, d.Numerator, d.ID)
			assert.NotNil(t, d.Reducer, d.ID)
		default:
			assert.NotNil(t, d.Numerator, d.ID)
		}
	}

	_, err := Lookup("A40")
	require.ErrorIs(t, err, ErrUnknownFactor)
}

func TestGridCompleteness_AllFactors(t *testing.T) {
	g := secondsGrid(t, hms(9, 30, 0), hms(9, 36, 0), "A", "B")
	in := &Input{
		Grid: g,
		Orders: []models.Order{
			buyOrder("A", hms(9, 30, 5), 1, 10, 100),
			sellOrder("B", hms(9, 31, 5), 2, 11, 50),
		},
		Trades: []models.Trade{
			fill("A", hms(9, 30, 6), 10, 40, models.DirectionBuyer),
			cancelBuy("A", hms(9, 30, 7), 1, 60),
		},
	}
	for _, d := range Catalog() {
		s, err := Evaluate(d, in, DefaultParams())
		require.NoError(t, err, d.ID)
		assert.Len(t, s, g.Len(), d.ID)
	}
}

func TestA1_SingleOrderScenario(t *testing.T) {
	g := secondsGrid(t, hms(9, 25, 0), hms(9, 35, 0), "000001.SZ")
	in := &Input{Grid: g, Orders: []models.Order{buyOrder("000001.SZ", hms(9, 30, 0), 1, 10, 100)}}

	a1 := eval(t, "A1", in)

	assert.Equal(t, 0.0, valueAt(t, g, a1, "000001.SZ", hms(9, 30, 0)))
	for s := hms(9, 30, 1); s <= hms(9, 31, 0); s++ {
		require.Equal(t, 1.0, valueAt(t, g, a1, "000001.SZ", s), "second %d", s)
	}
	for s := hms(9, 31, 1); s <= hms(9, 35, 0); s++ {
		require.Equal(t, 0.0, valueAt(t, g, a1, "000001.SZ", s), "second %d", s)
	}
	assert.True(t, IsNull(a1[0]), "fewer than 60 predecessors")
	assert.True(t, IsNull(a1[59]))
	assert.False(t, IsNull(a1[60]))
}

func TestA17_CancellationVWAPScenario(t *testing.T) {
	g := secondsGrid(t, hms(9, 30, 0), hms(9, 33, 0), "A")
	in := &Input{
		Grid:   g,
		Orders: []models.Order{buyOrder("A", hms(9, 29, 0), 42, 10.50, 500)},
		Trades: []models.Trade{cancelBuy("A", hms(9, 31, 0), 42, 200)},
	}

	a17 := eval(t, "A17", in)

	assert.True(t, IsNull(valueAt(t, g, a17, "A", hms(9, 31, 0))))
	for s := hms(9, 31, 1); s <= hms(9, 33, 0); s++ {
		require.Equal(t, 10.50, valueAt(t, g, a17, "A", s), "second %d", s)
	}

	a18 := eval(t, "A18", in)
	assert.Equal(t, 10.50, valueAt(t, g, a18, "A", hms(9, 32, 0)))
	a19 := eval(t, "A19", in)
	for _, v := range a19 {
		require.True(t, IsNull(v), "no sell cancellations")
	}
}

func TestRunningVWAP_AccumulatesAmountAndVolume(t *testing.T) {
	g := secondsGrid(t, hms(9, 30, 0), hms(9, 30, 5), "A")
	in := &Input{
		Grid: g,
		Trades: []models.Trade{
			fill("A", hms(9, 30, 1), 10, 100, models.DirectionBuyer),
			fill("A", hms(9, 30, 1), 12, 100, models.DirectionSeller),
			fill("A", hms(9, 30, 3), 20, 200, models.DirectionBuyer),
		},
	}

	a29 := eval(t, "A29", in)

	assert.True(t, IsNull(valueAt(t, g, a29, "A", hms(9, 30, 1))))
	assert.Equal(t, 11.0, valueAt(t, g, a29, "A", hms(9, 30, 2)))
	assert.Equal(t, 11.0, valueAt(t, g, a29, "A", hms(9, 30, 3)))
	assert.InDelta(t, (1000+1200+4000)/400.0, valueAt(t, g, a29, "A", hms(9, 30, 4)), 1e-12)
}

func TestZeroFillVersusForwardFill(t *testing.T) {
	g := secondsGrid(t, hms(9, 30, 0), hms(9, 32, 0), "A")
	in := &Input{
		Grid: g,
		Orders: []models.Order{
			buyOrder("A", hms(9, 30, 0), 1, 10, 100),
			buyOrder("A", hms(9, 31, 30), 2, 10, 100),
		},
		Trades: []models.Trade{fill("A", hms(9, 30, 0), 9.5, 10, models.DirectionBuyer)},
	}
	p := DefaultParams()
	p.Window = 1

	a1, err := Evaluate(mustLookup(t, "A1"), in, p)
	require.NoError(t, err)
	assert.Equal(t, 1.0, valueAt(t, g, a1, "A", hms(9, 30, 1)))
	assert.Equal(t, 0.0, valueAt(t, g, a1, "A", hms(9, 30, 2)), "quiet second contributes zero")

	a29 := eval(t, "A29", in)
	for s := hms(9, 30, 1); s <= hms(9, 32, 0); s++ {
		require.Equal(t, 9.5, valueAt(t, g, a29, "A", s), "price repeats at second %d", s)
	}
}

func TestNoLookAhead_RunningTotal(t *testing.T) {
	g := secondsGrid(t, hms(9, 30, 0), hms(9, 30, 30), "A")
	base := []models.Order{
		buyOrder("A", hms(9, 30, 2), 1, 10, 100),
		buyOrder("A", hms(9, 30, 9), 2, 10, 100),
	}
	cut := hms(9, 30, 10)
	later := append(append([]models.Order(nil), base...),
		buyOrder("A", cut, 3, 10, 5000),
		buyOrder("A", hms(9, 30, 20), 4, 10, 5000),
	)

	for _, id := range []string{"A2", "A4"} {
		before := eval(t, id, &Input{Grid: g, Orders: base})
		after := eval(t, id, &Input{Grid: g, Orders: later})
		last, _ := g.Position(Key{Instrument: "A", Date: testDate, Second: cut})
		for i := 0; i <= last; i++ {
			if IsNull(before[i]) {
				require.True(t, IsNull(after[i]), "%s row %d", id, i)
				continue
			}
			require.Equal(t, before[i], after[i], "%s row %d", id, i)
		}
	}
}

func TestGroupIsolation(t *testing.T) {
	orders := []models.Order{
		buyOrder("A", hms(9, 30, 1), 1, 10, 100),
		sellOrder("A", hms(9, 30, 40), 2, 10, 30),
	}
	trades := []models.Trade{
		fill("A", hms(9, 30, 3), 10, 10, models.DirectionBuyer),
		cancelBuy("A", hms(9, 30, 50), 1, 20),
	}
	alone := &Input{Grid: secondsGrid(t, hms(9, 30, 0), hms(9, 33, 0), "A"), Orders: orders, Trades: trades}

	both := &Input{
		Grid: secondsGrid(t, hms(9, 30, 0), hms(9, 33, 0), "A", "B"),
		Orders: append(append([]models.Order(nil), orders...),
			buyOrder("B", hms(9, 30, 0), 1, 99, 7000),
			buyOrder("B", hms(9, 31, 0), 9, 98, 7000),
		),
		Trades: append(append([]models.Trade(nil), trades...),
			fill("B", hms(9, 30, 2), 99, 100, models.DirectionBuyer),
			cancelBuy("B", hms(9, 30, 5), 1, 10),
		),
	}

	n := alone.Grid.Len()
	for _, d := range Catalog() {
		a, err := Evaluate(d, alone, DefaultParams())
		require.NoError(t, err)
		b, err := Evaluate(d, both, DefaultParams())
		require.NoError(t, err)
		for i := 0; i < n; i++ {
			if IsNull(a[i]) {
				require.True(t, IsNull(b[i]), "%s row %d", d.ID, i)
				continue
			}
			require.Equal(t, a[i], b[i], "%s row %d", d.ID, i)
		}
	}
}

func TestGroupIsolation_QuietGroupStaysNull(t *testing.T) {
	orders := []models.Order{buyOrder("A", hms(9, 30, 1), 1, 10, 100)}
	alone := &Input{Grid: secondsGrid(t, hms(9, 30, 0), hms(9, 33, 0), "A"), Orders: orders}

	g := secondsGrid(t, hms(9, 30, 0), hms(9, 33, 0), "A", "B")
	both := &Input{
		Grid: g,
		Orders: append(append([]models.Order(nil), orders...),
			buyOrder("B", hms(9, 30, 0), 7, 99, 7000),
		),
		Trades: []models.Trade{
			cancelBuy("B", hms(9, 30, 5), 7, 10),
			fill("B", hms(9, 30, 6), 99, 100, models.DirectionSeller),
		},
	}

	for _, id := range []string{"A10", "A16", "A35"} {
		s := eval(t, id, both)
		for sec := hms(9, 30, 0); sec <= hms(9, 33, 0); sec++ {
			require.True(t, IsNull(valueAt(t, g, s, "A", sec)), "%s A second %d", id, sec)
		}
		assert.False(t, IsNull(valueAt(t, g, s, "B", hms(9, 33, 0))), id)
	}

	n := alone.Grid.Len()
	for _, d := range Catalog() {
		a, err := Evaluate(d, alone, DefaultParams())
		require.NoError(t, err)
		b, err := Evaluate(d, both, DefaultParams())
		require.NoError(t, err)
		for i := 0; i < n; i++ {
			if IsNull(a[i]) {
				require.True(t, IsNull(b[i]), "%s row %d", d.ID, i)
				continue
			}
			require.Equal(t, a[i], b[i], "%s row %d", d.ID, i)
		}
	}
}

func TestRunningVWAP_FillsBeforeGridStart(t *testing.T) {
	g := secondsGrid(t, hms(9, 30, 0), hms(9, 30, 6), "A")
	in := &Input{
		Grid:   g,
		Trades: []models.Trade{fill("A", hms(9, 25, 0), 10, 100, models.DirectionBuyer)},
	}

	a29 := eval(t, "A29", in)
	for sec := hms(9, 30, 0); sec <= hms(9, 30, 6); sec++ {
		require.Equal(t, 10.0, valueAt(t, g, a29, "A", sec), "auction fill carried into second %d", sec)
	}

	in.Trades = append(in.Trades, fill("A", hms(9, 30, 5), 20, 100, models.DirectionSeller))
	a29 = eval(t, "A29", in)
	assert.Equal(t, 10.0, valueAt(t, g, a29, "A", hms(9, 30, 4)))
	assert.Equal(t, 10.0, valueAt(t, g, a29, "A", hms(9, 30, 5)))
	assert.Equal(t, 15.0, valueAt(t, g, a29, "A", hms(9, 30, 6)))
}

func TestRunningVWAP_FillsInsideGridGap(t *testing.T) {
	keys := []Key{
		{Instrument: "A", Date: testDate, Second: hms(11, 29, 59)},
		{Instrument: "A", Date: testDate, Second: hms(11, 30, 0)},
		{Instrument: "A", Date: testDate, Second: hms(13, 0, 0)},
		{Instrument: "A", Date: testDate, Second: hms(13, 0, 1)},
	}
	g, err := NewGrid(keys)
	require.NoError(t, err)
	in := &Input{
		Grid: g,
		Trades: []models.Trade{
			fill("A", hms(11, 29, 59), 10, 100, models.DirectionBuyer),
			fill("A", hms(12, 0, 0), 30, 100, models.DirectionBuyer),
		},
	}

	a29 := eval(t, "A29", in)
	assert.True(t, IsNull(a29[0]))
	assert.Equal(t, 10.0, a29[1])
	assert.Equal(t, 20.0, a29[2], "lunch-break fill counted")
	assert.Equal(t, 20.0, a29[3])
}

func TestA17_CancelBeforeGridStart(t *testing.T) {
	g := secondsGrid(t, hms(9, 30, 0), hms(9, 30, 10), "A")
	in := &Input{
		Grid:   g,
		Orders: []models.Order{buyOrder("A", hms(9, 20, 0), 42, 10.50, 500)},
		Trades: []models.Trade{cancelBuy("A", hms(9, 25, 0), 42, 200)},
	}

	a17 := eval(t, "A17", in)
	for sec := hms(9, 30, 0); sec <= hms(9, 30, 10); sec++ {
		require.Equal(t, 10.50, valueAt(t, g, a17, "A", sec), "second %d", sec)
	}
}

func TestA20_RatioIdentity(t *testing.T) {
	g := secondsGrid(t, hms(9, 30, 0), hms(9, 33, 0), "A")
	in := &Input{
		Grid: g,
		Orders: []models.Order{
			buyOrder("A", hms(9, 30, 0), 1, 10, 100),
			buyOrder("A", hms(9, 30, 10), 2, 10, 100),
		},
		Trades: []models.Trade{cancelBuy("A", hms(9, 30, 20), 1, 50), cancelSell("A", hms(9, 31, 40), 8, 5)},
	}
	a10, a1, a20 := eval(t, "A10", in), eval(t, "A1", in), eval(t, "A20", in)

	for i := range a20 {
		want := a10[i] / a1[i]
		switch {
		case math.IsNaN(want):
			require.True(t, IsNull(a20[i]), "row %d", i)
		default:
			require.Equal(t, want, a20[i], "row %d", i)
		}
	}
	assert.True(t, math.IsInf(valueAt(t, g, a20, "A", hms(9, 32, 30)), 1), "cancel without arrivals in window")
}

func TestEmptyInput_AllNull(t *testing.T) {
	g := secondsGrid(t, hms(9, 30, 0), hms(9, 31, 30), "A")
	in := &Input{Grid: g}
	for _, d := range Catalog() {
		s, err := Evaluate(d, in, DefaultParams())
		require.NoError(t, err)
		require.Len(t, s, g.Len())
		for i, v := range s {
			require.True(t, IsNull(v), "%s row %d", d.ID, i)
		}
	}
}

func TestA9_FAKOrderKind(t *testing.T) {
	g := secondsGrid(t, hms(9, 30, 0), hms(9, 30, 3), "A")
	o := buyOrder("A", hms(9, 30, 0), 1, 10, 100)
	o.Kind = "U"
	in := &Input{Grid: g, Orders: []models.Order{o}}
	p := DefaultParams()
	p.Window = 1

	s, err := Evaluate(mustLookup(t, "A9"), in, p)
	require.NoError(t, err)
	assert.True(t, IsNull(s[1]), "no kind configured")

	p.FAKOrderKind = "U"
	s, err = Evaluate(mustLookup(t, "A9"), in, p)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s[1])
}

func TestSideFiltersAndDirections(t *testing.T) {
	g := secondsGrid(t, hms(9, 30, 0), hms(9, 30, 3), "A")
	in := &Input{
		Grid: g,
		Trades: []models.Trade{
			cancelBuy("A", hms(9, 30, 0), 1, 10),
			cancelBuy("A", hms(9, 30, 0), 2, 20),
			cancelSell("A", hms(9, 30, 0), 3, 40),
			fill("A", hms(9, 30, 0), 10, 5, models.DirectionBuyer),
			fill("A", hms(9, 30, 0), 10, 7, models.DirectionSeller),
		},
	}
	p := DefaultParams()
	p.Window = 1

	cases := map[string]float64{
		"A10": 3, "A11": 70,
		"A12": 2, "A13": 1, "A14": 30, "A15": 40,
		"A32": 1, "A33": 1, "A34": 5, "A35": 7,
	}
	for id, want := range cases {
		s, err := Evaluate(mustLookup(t, id), in, p)
		require.NoError(t, err)
		assert.Equal(t, want, s[1], id)
	}
}

func TestIdempotence(t *testing.T) {
	g := secondsGrid(t, hms(9, 30, 0), hms(9, 36, 0), "A")
	in := &Input{
		Grid: g,
		Orders: []models.Order{
			buyOrder("A", hms(9, 30, 3), 1, 10.1, 100),
			sellOrder("A", hms(9, 31, 3), 2, 10.3, 130),
			buyOrder("A", hms(9, 32, 9), 3, 10.2, 70),
		},
		Trades: []models.Trade{
			fill("A", hms(9, 30, 4), 10.1, 33, models.DirectionBuyer),
			fill("A", hms(9, 33, 4), 10.7, 21, models.DirectionSeller),
			cancelBuy("A", hms(9, 34, 0), 1, 67),
		},
	}
	for _, d := range Catalog() {
		a, err := Evaluate(d, in, DefaultParams())
		require.NoError(t, err)
		b, err := Evaluate(d, in, DefaultParams())
		require.NoError(t, err)
		for i := range a {
			require.Equal(t, math.Float64bits(a[i]), math.Float64bits(b[i]), "%s row %d", d.ID, i)
		}
	}
}

func TestEvaluate_EventsOutsideGridGroup(t *testing.T) {
	g := secondsGrid(t, hms(9, 30, 0), hms(9, 31, 0), "A")
	in := &Input{Grid: g, Orders: []models.Order{buyOrder("Z", hms(9, 30, 0), 1, 10, 1)}}

	_, err := Evaluate(mustLookup(t, "A1"), in, DefaultParams())
	require.ErrorIs(t, err, ErrGroupNotInGrid)
}

func TestParams_Validate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
	require.ErrorIs(t, Params{Window: 0, PeriodSeconds: 300}.Validate(), ErrInvalidParams)
	require.ErrorIs(t, Params{Window: 60}.Validate(), ErrInvalidParams)
}
