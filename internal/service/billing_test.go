package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"pharmaflow/internal/cart"
	"pharmaflow/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSaleStore mimics the store's atomic unit of work: either every line
// fits the fake stock levels and everything is recorded, or nothing is.
type fakeSaleStore struct {
	stock      map[string]int
	nextID     int64
	sales      map[int64]*models.SaleTransaction
	items      map[int64][]models.SaleItem
	createErr  error
	createCall int
}

func newFakeSaleStore(stock map[string]int) *fakeSaleStore {
	return &fakeSaleStore{
		stock:  stock,
		nextID: 1,
		sales:  make(map[int64]*models.SaleTransaction),
		items:  make(map[int64][]models.SaleItem),
	}
}

func (f *fakeSaleStore) CreateSale(ctx context.Context, sale *models.SaleTransaction, items []models.SaleItem) error {
	f.createCall++
	if f.createErr != nil {
		return f.createErr
	}

	for _, item := range items {
		if f.stock[item.MedicineRefNo] < item.QuantitySold {
			return &models.StockError{RefNo: item.MedicineRefNo, Name: item.MedicineName}
		}
	}
	for _, item := range items {
		f.stock[item.MedicineRefNo] -= item.QuantitySold
	}

	sale.TransactionID = f.nextID
	f.nextID++
	f.sales[sale.TransactionID] = sale
	f.items[sale.TransactionID] = items
	return nil
}

func (f *fakeSaleStore) GetSaleByID(ctx context.Context, id int64) (*models.SaleTransaction, error) {
	sale, ok := f.sales[id]
	if !ok {
		return nil, fmt.Errorf("sale %d: %w", id, models.ErrNotFound)
	}
	return sale, nil
}

func (f *fakeSaleStore) GetSaleItems(ctx context.Context, id int64) ([]models.SaleItem, error) {
	return f.items[id], nil
}

type fakePublisher struct {
	events []*models.SaleCommittedEvent
	err    error
}

func (f *fakePublisher) PublishSaleCommitted(ctx context.Context, event *models.SaleCommittedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type catalogStub struct {
	meds map[string]*models.Medicine
}

func (c *catalogStub) GetMedicineByRef(ctx context.Context, refNo string) (*models.Medicine, error) {
	med, ok := c.meds[strings.ToLower(refNo)]
	if !ok {
		return nil, fmt.Errorf("medicine %s: %w", refNo, models.ErrNotFound)
	}
	cp := *med
	return &cp, nil
}

func testCatalog() *catalogStub {
	return &catalogStub{meds: map[string]*models.Medicine{
		"asp1": {RefNo: "ASP1", Name: "Aspirin", StockQty: 10, Price: decimal.RequireFromString("5.00")},
		"ibu2": {RefNo: "IBU2", Name: "Ibuprofen", StockQty: 2, Price: decimal.RequireFromString("3.50")},
	}}
}

func buildCart(t *testing.T, lines map[string]int) *cart.Cart {
	t.Helper()
	c := cart.New(testCatalog())
	for ref, qty := range lines {
		require.NoError(t, c.Add(context.Background(), ref, qty, cart.MergeDuplicate))
	}
	return c
}

func TestCommitRecordsSaleAndDecrementsStock(t *testing.T) {
	store := newFakeSaleStore(map[string]int{"ASP1": 10})
	publisher := &fakePublisher{}
	svc := NewBillingService(store, publisher)

	c := buildCart(t, map[string]int{"ASP1": 4})

	sale, items, err := svc.Commit(context.Background(), c, "John Doe", "alice")
	require.NoError(t, err)

	assert.Equal(t, int64(1), sale.TransactionID)
	assert.Equal(t, "alice", sale.EmployeeUsername)
	assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("20.00")))

	require.Len(t, items, 1)
	assert.Equal(t, "ASP1", items[0].MedicineRefNo)
	assert.Equal(t, 4, items[0].QuantitySold)
	assert.True(t, items[0].ItemTotal.Equal(decimal.RequireFromString("20.00")))

	assert.Equal(t, 6, store.stock["ASP1"])

	// conservation: header total equals the sum of item totals
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.ItemTotal)
	}
	assert.True(t, sale.TotalAmount.Equal(sum))
}

func TestCommitEmptyCart(t *testing.T) {
	store := newFakeSaleStore(nil)
	svc := NewBillingService(store, nil)

	_, _, err := svc.Commit(context.Background(), cart.New(testCatalog()), "", "alice")
	assert.ErrorIs(t, err, models.ErrEmptyCart)
	assert.Zero(t, store.createCall)
}

func TestCommitRequiresEmployee(t *testing.T) {
	svc := NewBillingService(newFakeSaleStore(nil), nil)
	c := buildCart(t, map[string]int{"ASP1": 1})

	var validationErr *models.ValidationError
	_, _, err := svc.Commit(context.Background(), c, "", "")
	assert.ErrorAs(t, err, &validationErr)
}

func TestCommitInsufficientStockAbortsEverything(t *testing.T) {
	// Cart was staged when ASP1 showed 10; a concurrent sale has since
	// drained it to 2.
	store := newFakeSaleStore(map[string]int{"ASP1": 2})
	publisher := &fakePublisher{}
	svc := NewBillingService(store, publisher)

	c := buildCart(t, map[string]int{"ASP1": 4})

	_, _, err := svc.Commit(context.Background(), c, "", "alice")
	require.Error(t, err)

	var billErr *models.BillingError
	require.ErrorAs(t, err, &billErr)
	assert.Equal(t, "ASP1", billErr.RefNo)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	assert.Equal(t, 2, store.stock["ASP1"], "failed commit must not touch stock")
	assert.Empty(t, store.sales, "failed commit must not persist a transaction")
	assert.Empty(t, publisher.events, "failed commit must not publish")

	// The cart stays intact so the caller can adjust and resubmit.
	assert.Equal(t, 1, c.Len())
}

func TestCommitWrapsStoreErrors(t *testing.T) {
	store := newFakeSaleStore(map[string]int{"ASP1": 10})
	store.createErr = fmt.Errorf("dial tcp: %w", models.ErrStoreUnavailable)
	svc := NewBillingService(store, nil)

	c := buildCart(t, map[string]int{"ASP1": 1})

	_, _, err := svc.Commit(context.Background(), c, "", "alice")
	var billErr *models.BillingError
	require.ErrorAs(t, err, &billErr)
	assert.Empty(t, billErr.RefNo)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}

func TestCommitPublishesSaleCommitted(t *testing.T) {
	store := newFakeSaleStore(map[string]int{"ASP1": 10, "IBU2": 2})
	publisher := &fakePublisher{}
	svc := NewBillingService(store, publisher)

	c := buildCart(t, map[string]int{"ASP1": 2, "IBU2": 1})

	sale, _, err := svc.Commit(context.Background(), c, "Jane", "bob")
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, models.EventTypeSaleCommitted, event.EventType)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, sale.TransactionID, event.TransactionID)
	assert.Equal(t, "Jane", event.PatientName)
	assert.Len(t, event.Items, 2)
}

func TestCommitSurvivesPublishFailure(t *testing.T) {
	store := newFakeSaleStore(map[string]int{"ASP1": 10})
	publisher := &fakePublisher{err: fmt.Errorf("broker down")}
	svc := NewBillingService(store, publisher)

	c := buildCart(t, map[string]int{"ASP1": 1})

	sale, _, err := svc.Commit(context.Background(), c, "", "alice")
	require.NoError(t, err, "publish failure must not fail a durable sale")
	assert.NotZero(t, sale.TransactionID)
}

func TestGetSale(t *testing.T) {
	store := newFakeSaleStore(map[string]int{"ASP1": 10})
	svc := NewBillingService(store, nil)

	c := buildCart(t, map[string]int{"ASP1": 3})
	committed, _, err := svc.Commit(context.Background(), c, "", "alice")
	require.NoError(t, err)

	sale, items, err := svc.GetSale(context.Background(), committed.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, committed.TransactionID, sale.TransactionID)
	assert.Len(t, items, 1)

	_, _, err = svc.GetSale(context.Background(), 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
