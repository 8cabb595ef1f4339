package models

// Order function codes as they appear in the FunctionCode column.
const (
	OrderBuy  = "1"
	OrderSell = "2"
)

// Order represents one submitted order from the daily order log.
//
// Column mapping:
//   - Code_Mkt     → Instrument (e.g. "000001.SZ")
//   - Qdate        → Date (YYYYMMDD)
//   - Qtime        → Second (seconds since midnight)
//   - OrderRecNo   → RecNo
//   - OrderPr      → Price
//   - OrderVol     → Volume
//   - OrderKind    → Kind (optional column)
//   - FunctionCode → FunctionCode ("1" buy, "2" sell)
type Order struct {
	Instrument   string
	Date         int
	Second       int
	RecNo        int64
	Price        float64
	Volume       float64
	Kind         string
	FunctionCode string
}

// IsBuy reports whether the order was submitted on the buy side.
func (o Order) IsBuy() bool { return o.FunctionCode == OrderBuy }

// IsSell reports whether the order was submitted on the sell side.
func (o Order) IsSell() bool { return o.FunctionCode == OrderSell }
