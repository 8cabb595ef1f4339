package service

import (
	"context"
	"time"

	"github.com/guttosm/hffactors/internal/domain/models"
	"github.com/guttosm/hffactors/internal/factor"
	"github.com/guttosm/hffactors/internal/storage"
)

// FactorService exposes the factor catalog and persisted factor values.
// It keeps HTTP handlers away from data access and catalog details.
type FactorService interface {
	ListFactors() []factor.Definition
	GetSeries(ctx context.Context, id, ticker string, date time.Time) ([]models.FactorValue, error)
	GetSummary(ctx context.Context, id, ticker string, startDate, endDate *time.Time) (*models.FactorSummary, error)
}

type factorService struct {
	repo storage.FactorRepository
}

func NewFactorService(repo storage.FactorRepository) FactorService {
	return &factorService{repo: repo}
}

func (s *factorService) ListFactors() []factor.Definition {
	return factor.Catalog()
}

// GetSeries rejects identifiers missing from the catalog with
// factor.ErrUnknownFactor before touching the database.
func (s *factorService) GetSeries(ctx context.Context, id, ticker string, date time.Time) ([]models.FactorValue, error) {
	if _, err := factor.Lookup(id); err != nil {
		return nil, err
	}
	return s.repo.GetFactorSeries(ctx, id, factor.Ticker(ticker), date)
}

func (s *factorService) GetSummary(ctx context.Context, id, ticker string, startDate, endDate *time.Time) (*models.FactorSummary, error) {
	if _, err := factor.Lookup(id); err != nil {
		return nil, err
	}
	return s.repo.GetFactorSummary(ctx, id, factor.Ticker(ticker), startDate, endDate)
}
