package export

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/guttosm/hffactors/internal/domain/models"
)

// CSVWriter writes <Dir>/<YYYYMMDD>/<factor>.csv per factor.
type CSVWriter struct {
	Dir string
}

func (w *CSVWriter) WriteDay(ctx context.Context, date int, rows []models.FactorValue) ([]string, error) {
	dayDir := filepath.Join(w.Dir, strconv.Itoa(date))
	if err := ensureDir(dayDir); err != nil {
		return nil, err
	}

	var paths []string
	for _, b := range SplitByFactor(rows) {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path := filepath.Join(dayDir, b.Factor+".csv")
		if err := writeCSV(path, b.Rows); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSV(path string, rows []models.FactorValue) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriterSize(f, 1<<16)
	cw := csv.NewWriter(bw)
	if err := cw.Write(Header); err != nil {
		return err
	}
	rec := make([]string, len(Header))
	for _, r := range rows {
		rec[0] = r.Ticker
		rec[1] = strconv.Itoa(r.Date)
		rec[2] = strconv.Itoa(r.Time)
		rec[3] = FormatValue(r.Value)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return bw.Flush()
}
