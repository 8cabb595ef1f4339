package models

import "time"

// FactorValue is one formatted output row of a factor series.
//
// Fields:
//   - Factor: catalog identifier (e.g. "A17").
//   - Ticker: bare instrument code without market suffix ("000001").
//   - Date:   8-digit trading date, YYYYMMDD.
//   - Time:   6-digit clock time, HHMMSS.
//   - Value:  factor value; NaN means null, ±Inf is a legitimate ratio result.
type FactorValue struct {
	Factor string
	Ticker string
	Date   int
	Time   int
	Value  float64
}

// FactorSummary describes a factor over a ticker and date range. Min, Max
// and Mean are nil when no finite value exists.
//
// swagger:model FactorSummary
type FactorSummary struct {
	Factor  string   `json:"factor" example:"A1"`
	Ticker  string   `json:"ticker" example:"000001"`
	Rows    int64    `json:"rows" example:"14400"`
	NonNull int64    `json:"non_null" example:"14340"`
	Min     *float64 `json:"min,omitempty" example:"0"`
	Max     *float64 `json:"max,omitempty" example:"42"`
	Mean    *float64 `json:"mean,omitempty" example:"7.5"`
}

// RunLog records one computed trading day.
type RunLog struct {
	TradeDate   time.Time
	RunID       string
	FactorCount int
	RowCount    int
	ComputedAt  time.Time
}
