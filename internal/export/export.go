// Package export writes computed factor values to files, one column layout
// for every format: ticker_str, info_date_ymd, info_time_hms, value.
package export

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/guttosm/hffactors/internal/domain/models"
)

// Supported output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Header is the column layout of every export.
var Header = []string{"ticker_str", "info_date_ymd", "info_time_hms", "value"}

// Writer persists the factor values of one trading day and returns the
// paths it wrote. Rows must be grouped by factor; group order is kept.
type Writer interface {
	WriteDay(ctx context.Context, date int, rows []models.FactorValue) ([]string, error)
}

// New returns the writer for format rooted at dir.
func New(format, dir string) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return &CSVWriter{Dir: dir}, nil
	case FormatXLSX:
		return &XLSXWriter{Dir: dir}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// Block is the contiguous run of rows of one factor.
type Block struct {
	Factor string
	Rows   []models.FactorValue
}

// SplitByFactor cuts rows into per-factor blocks in first-seen order.
func SplitByFactor(rows []models.FactorValue) []Block {
	var out []Block
	for i := 0; i < len(rows); {
		j := i
		for j < len(rows) && rows[j].Factor == rows[i].Factor {
			j++
		}
		out = append(out, Block{Factor: rows[i].Factor, Rows: rows[i:j]})
		i = j
	}
	return out
}

// FormatValue renders a value the way the CSV export spells it:
// null is empty, infinities are "inf" and "-inf".
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return nil
}
