package service

import (
	"context"
	"time"

	"pharmaflow/internal/alerts"
	"pharmaflow/internal/models"
	"pharmaflow/internal/redisclient"
	"pharmaflow/internal/store"
	"pharmaflow/internal/util"

	"go.uber.org/zap"
)

// CatalogService fronts the catalog store with an advisory Redis
// read-through cache on by-ref lookups. All write paths invalidate before
// returning. Cache failures degrade to plain database reads.
type CatalogService struct {
	store      *store.Store
	cache      *redisclient.Client
	thresholds alerts.Thresholds
	logger     *zap.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil when
// Redis is disabled.
func NewCatalogService(store *store.Store, cache *redisclient.Client, thresholds alerts.Thresholds) *CatalogService {
	return &CatalogService{
		store:      store,
		cache:      cache,
		thresholds: thresholds,
		logger:     util.GetLogger(),
	}
}

// GetMedicineByRef resolves a medicine, preferring the cache.
func (s *CatalogService) GetMedicineByRef(ctx context.Context, refNo string) (*models.Medicine, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetMedicineByRef")
	defer span.End()

	if s.cache != nil {
		if med, err := s.cache.GetMedicine(ctx, refNo); err == nil {
			util.CatalogCacheHits.Inc()
			return med, nil
		}
		util.CatalogCacheMisses.Inc()
	}

	med, err := s.store.GetMedicineByRef(ctx, refNo)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetMedicine(ctx, med); err != nil {
			s.logger.Warn("Failed to cache medicine",
				zap.String("ref_no", med.RefNo),
				zap.Error(err))
		}
	}
	return med, nil
}

// ListMedicines returns the whole catalog.
func (s *CatalogService) ListMedicines(ctx context.Context) ([]models.Medicine, error) {
	return s.store.ListMedicines(ctx)
}

// SearchMedicines runs an AND-combined filtered query. The low-stock
// filter uses the configured threshold.
func (s *CatalogService) SearchMedicines(ctx context.Context, c store.SearchCriteria) ([]models.Medicine, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.SearchMedicines")
	defer span.End()

	return s.store.SearchMedicines(ctx, c, time.Now(), s.thresholds.LowStockThreshold)
}

// ComputeAlerts evaluates the advisory flags for a medicine as of now.
func (s *CatalogService) ComputeAlerts(med *models.Medicine) []alerts.Flag {
	return alerts.Compute(med, time.Now(), s.thresholds)
}

// CreateMedicine adds a catalog entry.
func (s *CatalogService) CreateMedicine(ctx context.Context, med *models.Medicine) error {
	if err := validateMedicine(med); err != nil {
		return err
	}
	return s.store.CreateMedicine(ctx, med)
}

// UpdateMedicine rewrites a catalog entry, invalidating both the original
// and (on rename) the new ref in the cache.
func (s *CatalogService) UpdateMedicine(ctx context.Context, originalRefNo string, med *models.Medicine) error {
	if err := validateMedicine(med); err != nil {
		return err
	}
	if err := s.store.UpdateMedicine(ctx, originalRefNo, med); err != nil {
		return err
	}
	s.invalidate(ctx, originalRefNo, med.RefNo)
	return nil
}

// DeleteMedicine removes a catalog entry.
func (s *CatalogService) DeleteMedicine(ctx context.Context, refNo string) error {
	if err := s.store.DeleteMedicine(ctx, refNo); err != nil {
		return err
	}
	s.invalidate(ctx, refNo)
	return nil
}

// AdjustStock applies a restock delta, separate from the billing decrement
// path.
func (s *CatalogService) AdjustStock(ctx context.Context, refNo string, delta int) (int, error) {
	if delta == 0 {
		return 0, &models.ValidationError{Field: "delta", Reason: "must be non-zero"}
	}
	newQty, err := s.store.AdjustStock(ctx, refNo, delta)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, refNo)
	return newQty, nil
}

// InvalidateMedicine drops cache entries after an out-of-band stock
// change, such as a committed sale.
func (s *CatalogService) InvalidateMedicine(ctx context.Context, refNos ...string) {
	s.invalidate(ctx, refNos...)
}

func (s *CatalogService) invalidate(ctx context.Context, refNos ...string) {
	if s.cache == nil {
		return
	}
	for _, ref := range refNos {
		if err := s.cache.InvalidateMedicine(ctx, ref); err != nil {
			s.logger.Warn("Failed to invalidate medicine cache",
				zap.String("ref_no", ref),
				zap.Error(err))
		}
	}
}

func validateMedicine(med *models.Medicine) error {
	if med.RefNo == "" {
		return &models.ValidationError{Field: "ref_no", Reason: "must not be empty"}
	}
	if med.Name == "" {
		return &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if med.StockQty < 0 {
		return &models.ValidationError{Field: "stock_qty", Reason: "must not be negative"}
	}
	if med.Price.IsNegative() {
		return &models.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if med.IssueDate != nil && med.ExpiryDate != nil && med.ExpiryDate.Before(*med.IssueDate) {
		return &models.ValidationError{Field: "expiry_date", Reason: "must not precede issue date"}
	}
	return nil
}
