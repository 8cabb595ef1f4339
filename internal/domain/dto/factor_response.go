package dto

// FactorDefinitionResponse describes one catalog entry.
type FactorDefinitionResponse struct {
	ID          string `json:"id" example:"A1"`
	Description string `json:"description" example:"Number of orders arriving in the last 60 s"`
	Mode        string `json:"mode" example:"windowed"`
}

// FactorPoint is one row of a factor series. Value is null when the factor
// is undefined at that second or infinite; Infinite then carries "+Inf" or
// "-Inf" because JSON has no encoding for IEEE infinities.
type FactorPoint struct {
	Time     int      `json:"time" example:"93000"`
	Value    *float64 `json:"value" example:"12"`
	Infinite string   `json:"infinite,omitempty" example:"+Inf"`
}

// FactorSeriesResponse is returned by GET /api/v1/factors/{id}/series.
type FactorSeriesResponse struct {
	Factor string        `json:"factor" example:"A1"`
	Ticker string        `json:"ticker" example:"000001"`
	Date   int           `json:"date" example:"20230301"`
	Points []FactorPoint `json:"points"`
}
