package models

import "fmt"

// Trade function codes and aggressor directions.
const (
	TradeFill   = "F"
	TradeCancel = "C"

	DirectionBuyer  = "5"
	DirectionSeller = "1"
)

// Side identifies which order book side a linkage field refers to.
type Side int

const (
	SideBuy Side = iota + 1
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// OrderRef points a cancellation at the order record it cancels.
type OrderRef struct {
	Side  Side
	RecNo int64
}

// Trade represents a single row of the trade/cancellation log.
//
// Column mapping:
//   - Code_Mkt       → Instrument
//   - Qdate, Qtime   → Date, Second
//   - RecNo          → RecNo
//   - BuyOrderRecNo  → BuyOrderRecNo (0 when absent)
//   - SellOrderRecNo → SellOrderRecNo (0 when absent)
//   - Tprice         → Price
//   - Tvolume        → Volume
//   - FunctionCode   → FunctionCode ("F" trade, "C" cancel)
//   - Trdirec        → Direction ("5" buyer-initiated, "1" seller-initiated)
type Trade struct {
	Instrument     string
	Date           int
	Second         int
	RecNo          int64
	BuyOrderRecNo  int64
	SellOrderRecNo int64
	Price          float64
	Volume         float64
	FunctionCode   string
	Direction      string
}

// IsFill reports whether the row is an execution.
func (t Trade) IsFill() bool { return t.FunctionCode == TradeFill }

// IsCancel reports whether the row is a cancellation.
func (t Trade) IsCancel() bool { return t.FunctionCode == TradeCancel }

// BuyerInitiated reports whether the buy side crossed the spread.
func (t Trade) BuyerInitiated() bool { return t.Direction == DirectionBuyer }

// SellerInitiated reports whether the sell side crossed the spread.
func (t Trade) SellerInitiated() bool { return t.Direction == DirectionSeller }

// CancelledOrder returns the order a cancellation refers to. Exactly one of
// the two linkage fields must be set; otherwise ok is false.
func (t Trade) CancelledOrder() (OrderRef, bool) {
	switch {
	case t.BuyOrderRecNo != 0 && t.SellOrderRecNo == 0:
		return OrderRef{Side: SideBuy, RecNo: t.BuyOrderRecNo}, true
	case t.SellOrderRecNo != 0 && t.BuyOrderRecNo == 0:
		return OrderRef{Side: SideSell, RecNo: t.SellOrderRecNo}, true
	default:
		return OrderRef{}, false
	}
}

// Validate checks invariants a row must satisfy before it reaches the engine.
// A cancellation naming both a buy and a sell order is ambiguous.
func (t Trade) Validate() error {
	if t.IsCancel() && t.BuyOrderRecNo != 0 && t.SellOrderRecNo != 0 {
		return fmt.Errorf("cancellation %d references both buy order %d and sell order %d", t.RecNo, t.BuyOrderRecNo, t.SellOrderRecNo)
	}
	return nil
}
