package export

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/guttosm/hffactors/internal/domain/models"
)

// XLSXWriter writes one workbook per day, <Dir>/<YYYYMMDD>_factors.xlsx,
// with one sheet per factor. Sheets are streamed row by row.
type XLSXWriter struct {
	Dir string
}

func (w *XLSXWriter) WriteDay(ctx context.Context, date int, rows []models.FactorValue) ([]string, error) {
	if err := ensureDir(w.Dir); err != nil {
		return nil, err
	}
	blocks := SplitByFactor(rows)
	if len(blocks) == 0 {
		return nil, nil
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, b := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), b.Factor); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(b.Factor); err != nil {
			return nil, err
		}
		if err := writeSheet(f, b); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", b.Factor, err)
		}
	}

	path := filepath.Join(w.Dir, strconv.Itoa(date)+"_factors.xlsx")
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("save %s: %w", path, err)
	}
	return []string{path}, nil
}

func writeSheet(f *excelize.File, b Block) error {
	sw, err := f.NewStreamWriter(b.Factor)
	if err != nil {
		return err
	}
	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, r := range b.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, []interface{}{r.Ticker, r.Date, r.Time, cellValue(r.Value)}); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// cellValue leaves null cells empty. Spreadsheets have no infinity, so
// infinities are written as text.
func cellValue(v float64) interface{} {
	switch {
	case math.IsNaN(v):
		return nil
	case math.IsInf(v, 0):
		return FormatValue(v)
	default:
		return v
	}
}
