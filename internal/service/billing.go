package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pharmaflow/internal/cart"
	"pharmaflow/internal/models"
	"pharmaflow/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleStore is the slice of the catalog store the billing engine needs. The
// conditional decrements live inside CreateSale's unit of work; the engine
// never performs a read-then-write of stock itself.
type SaleStore interface {
	CreateSale(ctx context.Context, sale *models.SaleTransaction, items []models.SaleItem) error
	GetSaleByID(ctx context.Context, transactionID int64) (*models.SaleTransaction, error)
	GetSaleItems(ctx context.Context, transactionID int64) ([]models.SaleItem, error)
}

// SalePublisher emits post-commit notifications.
type SalePublisher interface {
	PublishSaleCommitted(ctx context.Context, event *models.SaleCommittedEvent) error
}

// BillingService converts a cart into a durable sale. It is stateless
// between calls; the caller owns the cart and clears it on success.
type BillingService struct {
	store     SaleStore
	publisher SalePublisher
	logger    *zap.Logger
}

// NewBillingService creates a new billing service. publisher may be nil
// when event publishing is disabled.
func NewBillingService(store SaleStore, publisher SalePublisher) *BillingService {
	return &BillingService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// Commit validates the cart and runs the sale as one atomic unit of work.
// On any failure inside that unit nothing is persisted, the cart is left
// untouched, and the error unwraps to the originating cause (notably
// ErrInsufficientStock with the failing ref on the BillingError).
func (s *BillingService) Commit(ctx context.Context, c *cart.Cart, patientName, employeeUsername string) (*models.SaleTransaction, []models.SaleItem, error) {
	ctx, span := util.StartSpan(ctx, "BillingService.Commit")
	defer span.End()

	start := time.Now()
	defer func() {
		util.SaleCommitLatency.Observe(time.Since(start).Seconds())
	}()

	if employeeUsername == "" {
		return nil, nil, &models.ValidationError{Field: "employee", Reason: "must be authenticated"}
	}
	if c.Len() == 0 {
		util.SalesFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, nil, models.ErrEmptyCart
	}

	lines := c.Lines()
	items := make([]models.SaleItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.SaleItem{
			MedicineRefNo: line.RefNo,
			MedicineName:  line.Name,
			QuantitySold:  line.Quantity,
			UnitPrice:     line.UnitPrice,
			ItemTotal:     line.Total(),
		})
	}

	var patient *string
	if patientName != "" {
		patient = &patientName
	}
	sale := &models.SaleTransaction{
		PatientName:      patient,
		EmployeeUsername: employeeUsername,
		TotalAmount:      c.GrandTotal(),
	}

	if err := s.store.CreateSale(ctx, sale, items); err != nil {
		billErr := &models.BillingError{Err: err}
		var stockErr *models.StockError
		if errors.As(err, &stockErr) {
			billErr.RefNo = stockErr.RefNo
			util.StockDecrementsFailedTotal.Inc()
			util.SalesFailedTotal.WithLabelValues("insufficient_stock").Inc()
		} else {
			util.SalesFailedTotal.WithLabelValues("store_error").Inc()
		}

		s.logger.Warn("Sale commit aborted",
			zap.String("employee", employeeUsername),
			zap.Int("lines", len(items)),
			zap.Error(err))
		return nil, nil, billErr
	}

	util.SalesCommittedTotal.Inc()
	s.logger.Info("Sale committed",
		zap.Int64("transaction_id", sale.TransactionID),
		zap.String("employee", employeeUsername),
		zap.String("total", sale.TotalAmount.StringFixed(2)))

	s.publishCommitted(ctx, sale, items)

	return sale, items, nil
}

// publishCommitted emits the post-commit event. The sale is already
// durable, so publish failures are logged and swallowed.
func (s *BillingService) publishCommitted(ctx context.Context, sale *models.SaleTransaction, items []models.SaleItem) {
	if s.publisher == nil {
		return
	}

	eventItems := make([]models.SaleItemData, 0, len(items))
	for _, item := range items {
		eventItems = append(eventItems, models.SaleItemData{
			MedicineRefNo: item.MedicineRefNo,
			MedicineName:  item.MedicineName,
			QuantitySold:  item.QuantitySold,
			UnitPrice:     item.UnitPrice,
			ItemTotal:     item.ItemTotal,
		})
	}

	patient := ""
	if sale.PatientName != nil {
		patient = *sale.PatientName
	}
	event := &models.SaleCommittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleCommitted,
			Timestamp: time.Now(),
		},
		TransactionID:    sale.TransactionID,
		EmployeeUsername: sale.EmployeeUsername,
		PatientName:      patient,
		TotalAmount:      sale.TotalAmount,
		Items:            eventItems,
	}

	if err := s.publisher.PublishSaleCommitted(ctx, event); err != nil {
		s.logger.Error("Failed to publish SaleCommitted event",
			zap.Int64("transaction_id", sale.TransactionID),
			zap.Error(err))
	}
}

// GetSale retrieves a committed sale with its items.
func (s *BillingService) GetSale(ctx context.Context, transactionID int64) (*models.SaleTransaction, []models.SaleItem, error) {
	sale, err := s.store.GetSaleByID(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.store.GetSaleItems(ctx, transactionID)
	if err != nil {
		return nil, nil, fmt.Errorf("load items for sale %d: %w", transactionID, err)
	}

	return sale, items, nil
}
