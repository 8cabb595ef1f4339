package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/hffactors/internal/domain/models"
	"github.com/guttosm/hffactors/internal/factor"
	"github.com/guttosm/hffactors/internal/logger"
)

const (
	ordersSuffix = "_orders.csv"
	tradesSuffix = "_trades.csv"
	gridSuffix   = "_grid.csv"
)

// GridSource selects where a day's canonical grid comes from.
type GridSource string

const (
	// GridFile requires a <date>_grid.csv file.
	GridFile GridSource = "file"
	// GridSessions synthesizes the grid from trading sessions.
	GridSessions GridSource = "session"
	// GridAuto uses the grid file when present and sessions otherwise.
	GridAuto GridSource = "auto"
)

// ParseGridSource validates a configured grid source.
func ParseGridSource(s string) (GridSource, error) {
	switch g := GridSource(strings.ToLower(strings.TrimSpace(s))); g {
	case GridFile, GridSessions, GridAuto:
		return g, nil
	case "":
		return GridAuto, nil
	default:
		return "", fmt.Errorf("invalid grid source %q (want file|session|auto)", s)
	}
}

// Day is everything the engine needs for one trading date.
type Day struct {
	Date   int
	Orders []models.Order
	Trades []models.Trade
	Grid   *factor.Grid
}

// Input exposes the day as engine input.
func (d *Day) Input() *factor.Input {
	return &factor.Input{Orders: d.Orders, Trades: d.Trades, Grid: d.Grid}
}

// Loader reads day files from a directory.
type Loader struct {
	Dir      string
	Source   GridSource
	Sessions []Session
}

// Paths returns the orders, trades and grid file paths for date.
func (l Loader) Paths(date int) (orders, trades, grid string) {
	prefix := filepath.Join(l.Dir, strconv.Itoa(date))
	return prefix + ordersSuffix, prefix + tradesSuffix, prefix + gridSuffix
}

// LoadDay reads the files of one date concurrently and builds its grid.
//
// Behavior:
//   - orders and trades files are required.
//   - the grid file is required for GridFile, ignored for GridSessions and
//     used when present for GridAuto.
//   - rows dated differently from the file name are rejected.
func (l Loader) LoadDay(ctx context.Context, date int) (*Day, error) {
	log := logger.Component("ingestion")
	start := time.Now()
	ordersPath, tradesPath, gridPath := l.Paths(date)

	useGridFile := l.Source == GridFile
	if l.Source == GridAuto || l.Source == "" {
		if _, err := os.Stat(gridPath); err == nil {
			useGridFile = true
		}
	}

	day := &Day{Date: date}
	var gridKeys []factor.Key

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		o, err := LoadOrders(gctx, ordersPath)
		if err != nil {
			return fmt.Errorf("file %s: %w", filepath.Base(ordersPath), err)
		}
		day.Orders = o
		return nil
	})
	g.Go(func() error {
		t, err := LoadTrades(gctx, tradesPath)
		if err != nil {
			return fmt.Errorf("file %s: %w", filepath.Base(tradesPath), err)
		}
		day.Trades = t
		return nil
	})
	if useGridFile {
		g.Go(func() error {
			k, err := LoadGridKeys(gctx, gridPath)
			if err != nil {
				return fmt.Errorf("file %s: %w", filepath.Base(gridPath), err)
			}
			gridKeys = k
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Int("date", date).Err(err).Msg("load day failed")
		return nil, err
	}

	if err := checkDates(date, day); err != nil {
		return nil, err
	}

	var err error
	if useGridFile {
		day.Grid, err = factor.NewGrid(gridKeys)
	} else {
		day.Grid, err = BuildGrid(day.instruments(), []int{date}, l.Sessions)
	}
	if err != nil {
		return nil, fmt.Errorf("date %d: grid: %w", date, err)
	}

	log.Info().
		Int("date", date).
		Int("orders", len(day.Orders)).
		Int("trades", len(day.Trades)).
		Int("grid_rows", day.Grid.Len()).
		Bool("grid_file", useGridFile).
		Dur("elapsed", time.Since(start)).
		Msg("day loaded")
	return day, nil
}

func checkDates(date int, day *Day) error {
	for i, o := range day.Orders {
		if o.Date != date {
			return fmt.Errorf("date %d: order row %d dated %d", date, i+1, o.Date)
		}
	}
	for i, t := range day.Trades {
		if t.Date != date {
			return fmt.Errorf("date %d: trade row %d dated %d", date, i+1, t.Date)
		}
	}
	return nil
}

func (d *Day) instruments() []string {
	var out []string
	for _, o := range d.Orders {
		out = append(out, o.Instrument)
	}
	for _, t := range d.Trades {
		out = append(out, t.Instrument)
	}
	return out
}

// DiscoverDates lists the dates in dir that have an orders file, oldest
// first. Weekend dates are skipped with a warning.
func DiscoverDates(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var dates []int
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ordersSuffix) {
			continue
		}
		d, err := ParseDate(strings.TrimSuffix(name, ordersSuffix))
		if err != nil {
			logger.L().Warn().Str("file", name).Err(err).Msg("skipping file with invalid date")
			continue
		}
		if !IsTradingDay(d) {
			logger.L().Warn().Str("file", name).Msg("skipping weekend file")
			continue
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return nil, errors.New("no day files found in " + dir)
	}
	sort.Ints(dates)
	return dates, nil
}
