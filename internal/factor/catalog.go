package factor

import (
	"fmt"

	"github.com/guttosm/hffactors/internal/domain/models"
)

var (
	buyOrders  = OrderFunction(models.OrderBuy)
	sellOrders = OrderFunction(models.OrderSell)

	fills       = TradeFunction(models.TradeFill)
	cancels     = TradeFunction(models.TradeCancel)
	buyCancels  = And(cancels, CancelSide(models.SideBuy))
	sellCancels = And(cancels, CancelSide(models.SideSell))

	buyerInit  = TradeDirection(models.DirectionBuyer)
	sellerInit = TradeDirection(models.DirectionSeller)
)

var catalog = []Definition{
	{ID: "A1", Description: "number of orders arriving in the last 60 s", Mode: Windowed, Numerator: orderCount(nil)},
	{ID: "A2", Description: "total number of arrived orders up to that time", Mode: Running, Numerator: orderCount(nil)},
	{ID: "A3", Description: "quantity of arrived orders in the last 60 s", Mode: Windowed, Numerator: orderQty(nil)},
	{ID: "A4", Description: "total quantity of arrived orders up to that time", Mode: Running, Numerator: orderQty(nil)},
	{ID: "A5", Description: "number of buy orders in the last 60 s", Mode: Windowed, Numerator: orderCount(buyOrders)},
	{ID: "A6", Description: "number of sell orders in the last 60 s", Mode: Windowed, Numerator: orderCount(sellOrders)},
	{ID: "A7", Description: "quantity of buy orders in the last 60 s", Mode: Windowed, Numerator: orderQty(buyOrders)},
	{ID: "A8", Description: "quantity of sell orders in the last 60 s", Mode: Windowed, Numerator: orderQty(sellOrders)},
	{ID: "A9", Description: "number of fill-and-kill orders in the last 60 s", Mode: Windowed, Numerator: fakCount},
	{ID: "A10", Description: "number of cancelled orders in the last 60 s", Mode: Windowed, Numerator: tradeCount(cancels)},
	{ID: "A11", Description: "quantity of cancelled orders in the last 60 s", Mode: Windowed, Numerator: tradeQty(cancels)},
	{ID: "A12", Description: "number of cancelled buy orders in the last 60 s", Mode: Windowed, Numerator: tradeCount(buyCancels)},
	{ID: "A13", Description: "number of cancelled sell orders in the last 60 s", Mode: Windowed, Numerator: tradeCount(sellCancels)},
	{ID: "A14", Description: "quantity of cancelled buy orders in the last 60 s", Mode: Windowed, Numerator: tradeQty(buyCancels)},
	{ID: "A15", Description: "quantity of cancelled sell orders in the last 60 s", Mode: Windowed, Numerator: tradeQty(sellCancels)},
	{ID: "A16", Description: "total number of cancelled orders up to that time", Mode: Running, Numerator: tradeCount(cancels)},
	{ID: "A17", Description: "VWAP of cancelled orders up to that time", Mode: RunningVWAP, Fills: cancelFills(0)},
	{ID: "A18", Description: "VWAP of cancelled buy orders up to that time", Mode: RunningVWAP, Fills: cancelFills(models.SideBuy)},
	{ID: "A19", Description: "VWAP of cancelled sell orders up to that time", Mode: RunningVWAP, Fills: cancelFills(models.SideSell)},
	{ID: "A20", Description: "ratio of cancelled to arrived order count in the last 60 s", Mode: WindowedRatio, Numerator: tradeCount(cancels), Denominator: orderCount(nil)},
	{ID: "A21", Description: "ratio of cancelled to arrived order quantity in the last 60 s", Mode: WindowedRatio, Numerator: tradeQty(cancels), Denominator: orderQty(nil)},
	{ID: "A22", Description: "ratio of cancelled to arrived order count up to that time", Mode: RunningRatio, Numerator: tradeCount(cancels), Denominator: orderCount(nil)},
	{ID: "A23", Description: "ratio of cancelled to arrived order quantity up to that time", Mode: RunningRatio, Numerator: tradeQty(cancels), Denominator: orderQty(nil)},
	{ID: "A24", Description: "average buy order quantity in the last 5 min", Mode: PeriodicStat, Numerator: orderQty(buyOrders), Reducer: Mean},
	{ID: "A25", Description: "average sell order quantity in the last 5 min", Mode: PeriodicStat, Numerator: orderQty(sellOrders), Reducer: Mean},
	{ID: "A26", Description: "volatility of buy order quantity in the last 5 min", Mode: PeriodicStat, Numerator: orderQty(buyOrders), Reducer: SampleStd},
	{ID: "A27", Description: "volatility of sell order quantity in the last 5 min", Mode: PeriodicStat, Numerator: orderQty(sellOrders), Reducer: SampleStd},
	{ID: "A28", Description: "VWAP of trades in the last 5 min", Mode: PeriodicVWAP, Numerator: tradeAmt(fills), Denominator: tradeQty(fills)},
	{ID: "A29", Description: "VWAP of trades up to that time", Mode: RunningVWAP, Fills: tradeFills(fills)},
	{ID: "A30", Description: "VWAP of buyer-initiated trades in the last 5 min", Mode: PeriodicVWAP, Numerator: tradeAmt(And(fills, buyerInit)), Denominator: tradeQty(And(fills, buyerInit))},
	{ID: "A31", Description: "VWAP of seller-initiated trades in the last 5 min", Mode: PeriodicVWAP, Numerator: tradeAmt(And(fills, sellerInit)), Denominator: tradeQty(And(fills, sellerInit))},
	{ID: "A32", Description: "number of buyer-initiated trades in the last 60 s", Mode: Windowed, Numerator: tradeCount(buyerInit)},
	{ID: "A33", Description: "number of seller-initiated trades in the last 60 s", Mode: Windowed, Numerator: tradeCount(sellerInit)},
	{ID: "A34", Description: "quantity of buyer-initiated trades in the last 60 s", Mode: Windowed, Numerator: tradeQty(buyerInit)},
	{ID: "A35", Description: "quantity of seller-initiated trades in the last 60 s", Mode: Windowed, Numerator: tradeQty(sellerInit)},
	{ID: "A36", Description: "ratio of buyer- to seller-initiated trade count in the last 60 s", Mode: WindowedRatio, Numerator: tradeCount(buyerInit), Denominator: tradeCount(sellerInit)},
	{ID: "A37", Description: "ratio of buyer- to seller-initiated trade quantity in the last 60 s", Mode: WindowedRatio, Numerator: tradeQty(buyerInit), Denominator: tradeQty(sellerInit)},
	{ID: "A38", Description: "ratio of buyer- to seller-initiated trade count up to that time", Mode: RunningRatio, Numerator: tradeCount(buyerInit), Denominator: tradeCount(sellerInit)},
	{ID: "A39", Description: "ratio of buyer- to seller-initiated trade quantity up to that time", Mode: RunningRatio, Numerator: tradeQty(buyerInit), Denominator: tradeQty(sellerInit)},
}

var catalogIndex = func() map[string]int {
	idx := make(map[string]int, len(catalog))
	for i, d := range catalog {
		idx[d.ID] = i
	}
	return idx
}()

// Catalog returns all factor definitions in A1..A39 order. The returned
// slice is a copy.
func Catalog() []Definition {
	return append([]Definition(nil), catalog...)
}

// Lookup returns the definition with the given identifier.
func Lookup(id string) (Definition, error) {
	i, ok := catalogIndex[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownFactor, id)
	}
	return catalog[i], nil
}
