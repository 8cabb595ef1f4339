package factor

import (
	"strings"

	"github.com/guttosm/hffactors/internal/domain/models"
)

// Ticker strips the market suffix: "000001.SZ" becomes "000001".
func Ticker(instrument string) string {
	if i := strings.IndexByte(instrument, '.'); i >= 0 {
		return instrument[:i]
	}
	return instrument
}

// ClockHHMMSS encodes seconds since midnight as an HHMMSS integer.
func ClockHHMMSS(second int) int {
	return second/3600*10000 + second%3600/60*100 + second%60
}

// Format emits one row per grid row for res.
func Format(res Result, g *Grid) []models.FactorValue {
	out := make([]models.FactorValue, g.Len())
	for i, k := range g.keys {
		out[i] = models.FactorValue{
			Factor: res.Definition.ID,
			Ticker: Ticker(k.Instrument),
			Date:   k.Date,
			Time:   ClockHHMMSS(k.Second),
			Value:  res.Series[i],
		}
	}
	return out
}
