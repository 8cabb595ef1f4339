package factor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/hffactors/internal/domain/models"
)

func engineInput(t *testing.T) *Input {
	t.Helper()
	return &Input{
		Grid: secondsGrid(t, hms(9, 30, 0), hms(9, 32, 0), "A"),
		Orders: []models.Order{
			buyOrder("A", hms(9, 30, 1), 1, 10, 100),
		},
		Trades: []models.Trade{
			fill("A", hms(9, 30, 2), 10, 100, models.DirectionBuyer),
		},
	}
}

func TestEngine_ComputeAll(t *testing.T) {
	var (
		mu   sync.Mutex
		seen = map[string]bool{}
	)
	e, err := NewEngine(nil, Params{Window: 60, PeriodSeconds: 300, Parallel: 4},
		WithObserver(func(id string, _ time.Duration, err error) {
			mu.Lock()
			defer mu.Unlock()
			assert.NoError(t, err)
			seen[id] = true
		}))
	require.NoError(t, err)

	in := engineInput(t)
	res, err := e.Compute(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, res, 39)
	for i, r := range res {
		assert.Equal(t, Catalog()[i].ID, r.Definition.ID)
		assert.Len(t, r.Series, in.Grid.Len())
	}
	assert.Len(t, seen, 39)
}

func TestEngine_SelectedIDsKeepCatalogOrder(t *testing.T) {
	e, err := NewEngine(nil, DefaultParams())
	require.NoError(t, err)

	res, err := e.Compute(context.Background(), engineInput(t), "A29", "A1", "A10")
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, []string{"A1", "A10", "A29"}, []string{res[0].Definition.ID, res[1].Definition.ID, res[2].Definition.ID})
}

func TestEngine_UnknownFactor(t *testing.T) {
	e, err := NewEngine(nil, DefaultParams())
	require.NoError(t, err)

	_, err = e.Compute(context.Background(), engineInput(t), "A1", "B7")
	require.ErrorIs(t, err, ErrUnknownFactor)
}

func TestEngine_PropagatesEvaluationError(t *testing.T) {
	e, err := NewEngine(nil, DefaultParams())
	require.NoError(t, err)
	in := engineInput(t)
	in.Orders = append(in.Orders, buyOrder("Z", hms(9, 30, 0), 9, 1, 1))

	_, err = e.Compute(context.Background(), in, "A1")
	require.ErrorIs(t, err, ErrGroupNotInGrid)
}

func TestEngine_CancelledContext(t *testing.T) {
	e, err := NewEngine(nil, DefaultParams())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = e.Compute(ctx, engineInput(t))
	require.True(t, errors.Is(err, context.Canceled))
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := NewEngine(nil, Params{})
	require.ErrorIs(t, err, ErrInvalidParams)

	d := mustLookup(t, "A1")
	_, err = NewEngine([]Definition{d, d}, DefaultParams())
	require.Error(t, err)
}
