package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/hffactors/internal/domain/models"
)

// FactorRepository defines contract for DB operations.
type FactorRepository interface {
	InsertFactorValues(ctx context.Context, rows []models.FactorValue) error
	HasRunForDate(ctx context.Context, date time.Time) (bool, error)
	UpsertRunLog(ctx context.Context, run models.RunLog) error
	DeleteFactorsByDate(ctx context.Context, date time.Time) error
	ReplaceDay(ctx context.Context, run models.RunLog, rows []models.FactorValue) error
	GetFactorSeries(ctx context.Context, factor, ticker string, date time.Time) ([]models.FactorValue, error)
	GetFactorSummary(ctx context.Context, factor, ticker string, startDate, endDate *time.Time) (*models.FactorSummary, error)
	Ping(ctx context.Context) error
}

type factorRepository struct {
	db *sql.DB
}

func NewFactorRepository(db *sql.DB) FactorRepository {
	return &factorRepository{db: db}
}

// DateOf converts a YYYYMMDD integer to a UTC date.
func DateOf(yyyymmdd int) time.Time {
	return time.Date(yyyymmdd/10000, time.Month(yyyymmdd/100%100), yyyymmdd%100, 0, 0, 0, 0, time.UTC)
}

// YMD converts a date to its YYYYMMDD integer.
func YMD(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// toNullFloat maps NaN to NULL and infinities to the Postgres spellings.
func toNullFloat(v float64) interface{} {
	switch {
	case math.IsNaN(v):
		return nil
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	default:
		return v
	}
}

// InsertFactorValues inserts rows in a single transaction using COPY.
func (r *factorRepository) InsertFactorValues(ctx context.Context, rows []models.FactorValue) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := copyFactorValues(ctx, tx, rows); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ReplaceDay swaps the stored values of run.TradeDate for rows and records
// the run, all in one transaction. Readers never see a half-written day and
// a failed load leaves the previous values and run log in place.
func (r *factorRepository) ReplaceDay(ctx context.Context, run models.RunLog, rows []models.FactorValue) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := replaceDay(ctx, tx, run, rows); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func replaceDay(ctx context.Context, tx *sql.Tx, run models.RunLog, rows []models.FactorValue) error {
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, deleteDaySQL, run.TradeDate); err != nil {
		return fmt.Errorf("delete existing: %w", err)
	}
	if len(rows) > 0 {
		if err := copyFactorValues(ctx, tx, rows); err != nil {
			return fmt.Errorf("copy rows: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, upsertRunSQL, run.TradeDate, run.RunID, run.FactorCount, run.RowCount); err != nil {
		return fmt.Errorf("upsert run log: %w", err)
	}
	return nil
}

// copyFactorValues streams rows into factor_values with COPY inside tx.
func copyFactorValues(ctx context.Context, tx *sql.Tx, rows []models.FactorValue) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"factor_values",
		"factor",
		"ticker",
		"trade_date",
		"trade_time",
		"value",
	))
	if err != nil {
		return err
	}

	for _, rec := range rows {
		if _, err := stmt.ExecContext(ctx,
			rec.Factor,
			rec.Ticker,
			DateOf(rec.Date),
			rec.Time,
			toNullFloat(rec.Value),
		); err != nil {
			_ = stmt.Close()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return err
	}
	return stmt.Close()
}

// HasRunForDate checks if factors were already computed for a trading day.
func (r *factorRepository) HasRunForDate(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM factor_run_log WHERE trade_date = $1)`, date).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

const (
	upsertRunSQL = `
		INSERT INTO factor_run_log (trade_date, run_id, factor_count, row_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (trade_date)
		DO UPDATE SET run_id = EXCLUDED.run_id,
					  factor_count = EXCLUDED.factor_count,
					  row_count = EXCLUDED.row_count,
					  computed_at = NOW()
	`
	deleteDaySQL = `DELETE FROM factor_values WHERE trade_date = $1`
)

// UpsertRunLog records (or updates) the run entry of a trading day.
func (r *factorRepository) UpsertRunLog(ctx context.Context, run models.RunLog) error {
	_, err := r.db.ExecContext(ctx, upsertRunSQL, run.TradeDate, run.RunID, run.FactorCount, run.RowCount)
	return err
}

// DeleteFactorsByDate removes all factor values of a trading day.
func (r *factorRepository) DeleteFactorsByDate(ctx context.Context, date time.Time) error {
	_, err := r.db.ExecContext(ctx, deleteDaySQL, date)
	return err
}

// GetFactorSeries returns one factor for one ticker and day, ordered by time.
func (r *factorRepository) GetFactorSeries(ctx context.Context, factor, ticker string, date time.Time) ([]models.FactorValue, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT trade_time, value
		FROM factor_values
		WHERE factor = $1 AND ticker = $2 AND trade_date = $3
		ORDER BY trade_time
	`, factor, ticker, date)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.FactorValue
	for rows.Next() {
		var (
			hhmmss int
			v      sql.NullFloat64
		)
		if err := rows.Scan(&hhmmss, &v); err != nil {
			return nil, err
		}
		fv := models.FactorValue{Factor: factor, Ticker: ticker, Date: YMD(date), Time: hhmmss, Value: math.NaN()}
		if v.Valid {
			fv.Value = v.Float64
		}
		out = append(out, fv)
	}
	return out, rows.Err()
}

// GetFactorSummary returns row counts and min/max/mean of a factor for a
// ticker, optionally bounded by trade date. It returns nil when no row
// matches.
func (r *factorRepository) GetFactorSummary(ctx context.Context, factor, ticker string, startDate, endDate *time.Time) (*models.FactorSummary, error) {
	// $1 and $2 are always factor and ticker. Subsequent placeholders depend on provided dates.
	conditions := "factor = $1 AND ticker = $2"
	args := []interface{}{factor, ticker}
	if startDate != nil {
		conditions += fmt.Sprintf(" AND trade_date >= $%d", len(args)+1)
		args = append(args, *startDate)
	}
	if endDate != nil {
		conditions += fmt.Sprintf(" AND trade_date <= $%d", len(args)+1)
		args = append(args, *endDate)
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*) AS rows, COUNT(value) AS non_null,
			MIN(value) FILTER (WHERE %[2]s) AS min_value,
			MAX(value) FILTER (WHERE %[2]s) AS max_value,
			AVG(value) FILTER (WHERE %[2]s) AS mean_value
		FROM factor_values
		WHERE %[1]s
	`, conditions, finiteValue)

	var (
		count, nonNull    int64
		minV, maxV, meanV sql.NullFloat64
	)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count, &nonNull, &minV, &maxV, &meanV); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	return &models.FactorSummary{
		Factor:  factor,
		Ticker:  ticker,
		Rows:    count,
		NonNull: nonNull,
		Min:     finite(minV),
		Max:     finite(maxV),
		Mean:    finite(meanV),
	}, nil
}

// Ping verifies the database connection.
func (r *factorRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// finiteValue excludes the infinities a ratio factor may store.
const finiteValue = `value NOT IN ('Infinity'::float8, '-Infinity'::float8)`

func finite(v sql.NullFloat64) *float64 {
	if !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
		return nil
	}
	f := v.Float64
	return &f
}
