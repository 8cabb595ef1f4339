package factor

import "github.com/guttosm/hffactors/internal/domain/models"

func orderKey(o models.Order) Key {
	return Key{Instrument: o.Instrument, Date: o.Date, Second: o.Second}
}

func tradeKey(t models.Trade) Key {
	return Key{Instrument: t.Instrument, Date: t.Date, Second: t.Second}
}

func orderVolume(o models.Order) float64 { return o.Volume }
func tradeVolume(t models.Trade) float64 { return t.Volume }
func tradeAmount(t models.Trade) float64 { return t.Price * t.Volume }

// Order predicates.

// OrderFunction keeps orders with the given function code.
func OrderFunction(code string) Predicate[models.Order] {
	return func(o models.Order) bool { return o.FunctionCode == code }
}

// OrderKind keeps orders of the given kind. An empty kind matches nothing.
func OrderKind(kind string) Predicate[models.Order] {
	return func(o models.Order) bool { return kind != "" && o.Kind == kind }
}

// Trade predicates.

// TradeFunction keeps trades with the given function code.
func TradeFunction(code string) Predicate[models.Trade] {
	return func(t models.Trade) bool { return t.FunctionCode == code }
}

// CancelSide keeps cancellations that reference an order on side.
func CancelSide(side models.Side) Predicate[models.Trade] {
	return func(t models.Trade) bool {
		ref, ok := t.CancelledOrder()
		return ok && ref.Side == side
	}
}

// TradeDirection keeps trades with the given initiator flag.
func TradeDirection(dir string) Predicate[models.Trade] {
	return func(t models.Trade) bool { return t.Direction == dir }
}

// Measure builders.

func orderCount(keep Predicate[models.Order]) Measure {
	return func(in *Input, _ Params) Buckets {
		return Bucketize(in.Orders, orderKey, keep, Count[models.Order]())
	}
}

func orderQty(keep Predicate[models.Order]) Measure {
	return func(in *Input, _ Params) Buckets {
		return Bucketize(in.Orders, orderKey, keep, Sum(orderVolume))
	}
}

func tradeCount(keep Predicate[models.Trade]) Measure {
	return func(in *Input, _ Params) Buckets {
		return Bucketize(in.Trades, tradeKey, keep, Count[models.Trade]())
	}
}

func tradeQty(keep Predicate[models.Trade]) Measure {
	return func(in *Input, _ Params) Buckets {
		return Bucketize(in.Trades, tradeKey, keep, Sum(tradeVolume))
	}
}

func tradeAmt(keep Predicate[models.Trade]) Measure {
	return func(in *Input, _ Params) Buckets {
		return Bucketize(in.Trades, tradeKey, keep, Sum(tradeAmount))
	}
}

// fakCount reads the fill-and-kill kind from Params, so it cannot be built
// once at catalog construction.
func fakCount(in *Input, p Params) Buckets {
	return Bucketize(in.Orders, orderKey, OrderKind(p.FAKOrderKind), Count[models.Order]())
}

func cancelFills(side models.Side) FillsSource {
	return func(in *Input) []PricedFill {
		return JoinCancellations(in.Trades, in.Orders, side)
	}
}

func tradeFills(keep Predicate[models.Trade]) FillsSource {
	return func(in *Input) []PricedFill {
		return TradeFills(in.Trades, keep)
	}
}
