package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pharmaflow/internal/models"
)

// CreateSale persists a sale as one atomic unit of work: header first (so a
// transaction_id exists to attach items to), then one conditional stock
// decrement plus item insert per line. A decrement that matches zero rows
// aborts everything; no header, items, or stock changes from the attempt
// survive.
func (s *Store) CreateSale(ctx context.Context, sale *models.SaleTransaction, items []models.SaleItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sale transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO sales_transactions (patient_name, employee_username, total_amount)
		VALUES ($1, $2, $3)
		RETURNING transaction_id, created_at`,
		sale.PatientName, sale.EmployeeUsername, sale.TotalAmount).
		Scan(&sale.TransactionID, &sale.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sale header: %w", err)
	}

	for i := range items {
		item := &items[i]
		item.TransactionID = sale.TransactionID

		if _, err := decrementStock(ctx, tx, item.MedicineRefNo, item.QuantitySold); err != nil {
			if errors.Is(err, models.ErrInsufficientStock) {
				return &models.StockError{RefNo: item.MedicineRefNo, Name: item.MedicineName}
			}
			return fmt.Errorf("reserve stock for %s: %w", item.MedicineRefNo, err)
		}

		err = tx.QueryRowxContext(ctx, `
			INSERT INTO sales_items (transaction_id, medicine_ref_no, medicine_name,
				quantity_sold, unit_price, item_total)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			item.TransactionID, item.MedicineRefNo, item.MedicineName,
			item.QuantitySold, item.UnitPrice, item.ItemTotal).
			Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert sale item for %s: %w", item.MedicineRefNo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sale: %w", err)
	}
	return nil
}

// GetSaleByID retrieves a sale header.
func (s *Store) GetSaleByID(ctx context.Context, transactionID int64) (*models.SaleTransaction, error) {
	var sale models.SaleTransaction
	err := s.db.GetContext(ctx, &sale,
		"SELECT * FROM sales_transactions WHERE transaction_id = $1", transactionID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sale %d: %w", transactionID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// GetSaleItems retrieves all items of a sale.
func (s *Store) GetSaleItems(ctx context.Context, transactionID int64) ([]models.SaleItem, error) {
	var items []models.SaleItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM sales_items WHERE transaction_id = $1 ORDER BY id", transactionID)
	return items, err
}

// InsertAuditEntry appends a row to the sales audit log.
func (s *Store) InsertAuditEntry(ctx context.Context, entry *models.AuditEntry) error {
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO sales_audit_log (transaction_id, employee_username, total_amount, item_count)
		VALUES ($1, $2, $3, $4)
		RETURNING id, recorded_at`,
		entry.TransactionID, entry.EmployeeUsername, entry.TotalAmount, entry.ItemCount).
		Scan(&entry.ID, &entry.RecordedAt)
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
