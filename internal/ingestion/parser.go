package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/guttosm/hffactors/internal/domain/models"
	"github.com/guttosm/hffactors/internal/factor"
)

// Column names shared by every input file.
const (
	colInstrument = "Code_Mkt"
	colDate       = "Qdate"
	colTime       = "Qtime"
)

// Required columns per file. Extra columns are ignored and order is free.
var (
	orderHeaders = []string{colInstrument, colDate, colTime, "OrderRecNo", "OrderPr", "OrderVol", "FunctionCode"}
	tradeHeaders = []string{colInstrument, colDate, colTime, "RecNo", "BuyOrderRecNo", "SellOrderRecNo", "Tprice", "Tvolume", "FunctionCode", "Trdirec"}
	gridHeaders  = []string{colInstrument, colDate, colTime}
)

// optional order column
const colOrderKind = "OrderKind"

// row gives name-based access to one CSV record.
type row struct {
	idx map[string]int
	rec []string
}

func (r row) str(col string) string {
	i, ok := r.idx[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

// float parses a numeric cell; empty cells become 0.
func (r row) float(col string) (float64, error) {
	s := r.str(col)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", col, err)
	}
	return v, nil
}

// int64 parses an identifier cell; empty cells become 0. Some exports write
// integer ids as "123.0", which is accepted.
func (r row) int64(col string) (int64, error) {
	s := r.str(col)
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("invalid %s: %q", col, s)
	}
	return int64(f), nil
}

func (r row) key() (factor.Key, error) {
	inst := r.str(colInstrument)
	if inst == "" {
		return factor.Key{}, fmt.Errorf("empty %s", colInstrument)
	}
	d, err := ParseDate(r.str(colDate))
	if err != nil {
		return factor.Key{}, err
	}
	s, err := ParseClock(r.str(colTime))
	if err != nil {
		return factor.Key{}, err
	}
	return factor.Key{Instrument: inst, Date: d, Second: s}, nil
}

// ParseDate accepts "2023-03-01" or "20230301" and returns 20230301.
func ParseDate(s string) (int, error) {
	digits := strings.ReplaceAll(s, "-", "")
	if len(digits) != 8 {
		return 0, fmt.Errorf("invalid %s: %q", colDate, s)
	}
	d, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", colDate, s)
	}
	if m, day := d/100%100, d%100; m < 1 || m > 12 || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid %s: %q", colDate, s)
	}
	return d, nil
}

// ParseClock accepts "09:30:00", "09:30:00.250" or "093000" and returns
// seconds since midnight. Sub-second digits are truncated.
func ParseClock(s string) (int, error) {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	digits := strings.ReplaceAll(s, ":", "")
	if len(digits) == 5 {
		digits = "0" + digits
	}
	if len(digits) != 6 {
		return 0, fmt.Errorf("invalid %s: %q", colTime, s)
	}
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", colTime, s)
	}
	h, m, sec := v/10000, v/100%100, v%100
	if h > 23 || m > 59 || sec > 59 {
		return 0, fmt.Errorf("invalid %s: %q", colTime, s)
	}
	return h*3600 + m*60 + sec, nil
}

// readCSV streams path through fn after checking that every required column
// is present in the header. Line numbers passed to errors are 1-based and
// count the header.
func readCSV(ctx context.Context, path string, required []string, fn func(r row) error) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("read header: empty file")
		}
		return 0, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return 0, fmt.Errorf("invalid header: missing columns %s", strings.Join(missing, ", "))
	}

	lineNumber := 1
	total := 0
	for {
		if total%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++
		if len(rec) < len(header) {
			return 0, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(header), len(rec))
		}
		if err := fn(row{idx: idx, rec: rec}); err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		total++
	}
	return total, nil
}

// LoadOrders reads an order file.
func LoadOrders(ctx context.Context, path string) ([]models.Order, error) {
	var out []models.Order
	_, err := readCSV(ctx, path, orderHeaders, func(r row) error {
		o, err := recordToOrder(r)
		if err != nil {
			return err
		}
		out = append(out, o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadTrades reads a trade and cancellation file. A cancellation that links
// to both a buy and a sell order is rejected.
func LoadTrades(ctx context.Context, path string) ([]models.Trade, error) {
	var out []models.Trade
	_, err := readCSV(ctx, path, tradeHeaders, func(r row) error {
		t, err := recordToTrade(r)
		if err != nil {
			return err
		}
		if err := t.Validate(); err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadGridKeys reads a canonical grid file in row order.
func LoadGridKeys(ctx context.Context, path string) ([]factor.Key, error) {
	var out []factor.Key
	_, err := readCSV(ctx, path, gridHeaders, func(r row) error {
		k, err := r.key()
		if err != nil {
			return err
		}
		out = append(out, k)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func recordToOrder(r row) (models.Order, error) {
	var o models.Order
	k, err := r.key()
	if err != nil {
		return o, err
	}
	o.Instrument, o.Date, o.Second = k.Instrument, k.Date, k.Second
	if o.RecNo, err = r.int64("OrderRecNo"); err != nil {
		return o, err
	}
	if o.Price, err = r.float("OrderPr"); err != nil {
		return o, err
	}
	if o.Volume, err = r.float("OrderVol"); err != nil {
		return o, err
	}
	o.Kind = r.str(colOrderKind)
	o.FunctionCode = r.str("FunctionCode")
	return o, nil
}

func recordToTrade(r row) (models.Trade, error) {
	var t models.Trade
	k, err := r.key()
	if err != nil {
		return t, err
	}
	t.Instrument, t.Date, t.Second = k.Instrument, k.Date, k.Second
	if t.RecNo, err = r.int64("RecNo"); err != nil {
		return t, err
	}
	if t.BuyOrderRecNo, err = r.int64("BuyOrderRecNo"); err != nil {
		return t, err
	}
	if t.SellOrderRecNo, err = r.int64("SellOrderRecNo"); err != nil {
		return t, err
	}
	if t.Price, err = r.float("Tprice"); err != nil {
		return t, err
	}
	if t.Volume, err = r.float("Tvolume"); err != nil {
		return t, err
	}
	t.FunctionCode = r.str("FunctionCode")
	t.Direction = r.str("Trdirec")
	return t, nil
}
