package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pharmaflow/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const medicineColumns = `ref_no, medicine_name, issue_date, expiry_date, stock_qty,
	age_gap, uses, storage, price, dose, created_at, updated_at`

// GetMedicineByRef retrieves a medicine by its ref no, case-insensitively.
func (s *Store) GetMedicineByRef(ctx context.Context, refNo string) (*models.Medicine, error) {
	var med models.Medicine
	err := s.db.GetContext(ctx, &med,
		"SELECT "+medicineColumns+" FROM medicines WHERE LOWER(ref_no) = LOWER($1)", refNo)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("medicine %s: %w", refNo, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &med, nil
}

// ListMedicines retrieves the whole catalog ordered by name.
func (s *Store) ListMedicines(ctx context.Context) ([]models.Medicine, error) {
	var meds []models.Medicine
	err := s.db.SelectContext(ctx, &meds,
		"SELECT "+medicineColumns+" FROM medicines ORDER BY medicine_name")
	return meds, err
}

// refExists reports whether any catalog row claims refNo, compared
// case-insensitively.
func (s *Store) refExists(ctx context.Context, refNo string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM medicines WHERE LOWER(ref_no) = LOWER($1))", refNo)
	return exists, err
}

// CreateMedicine inserts a new catalog entry. Fails with ErrDuplicateRef if
// the ref no is already taken.
func (s *Store) CreateMedicine(ctx context.Context, med *models.Medicine) error {
	exists, err := s.refExists(ctx, med.RefNo)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("medicine %s: %w", med.RefNo, models.ErrDuplicateRef)
	}

	query := `
		INSERT INTO medicines (ref_no, medicine_name, issue_date, expiry_date, stock_qty,
			age_gap, uses, storage, price, dose)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	row := s.db.QueryRowxContext(ctx, query,
		med.RefNo, med.Name, med.IssueDate, med.ExpiryDate, med.StockQty,
		med.AgeGap, med.Uses, med.Storage, med.Price, med.Dose)
	return row.Scan(&med.CreatedAt, &med.UpdatedAt)
}

// UpdateMedicine rewrites the row identified by originalRefNo. A changed
// ref no is a rename of the same identity; the new ref must not collide
// with another row.
func (s *Store) UpdateMedicine(ctx context.Context, originalRefNo string, med *models.Medicine) error {
	if !strings.EqualFold(originalRefNo, med.RefNo) {
		exists, err := s.refExists(ctx, med.RefNo)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("medicine %s: %w", med.RefNo, models.ErrDuplicateRef)
		}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE medicines
		SET ref_no = $1, medicine_name = $2, issue_date = $3, expiry_date = $4,
			stock_qty = $5, age_gap = $6, uses = $7, storage = $8, price = $9,
			dose = $10, updated_at = NOW()
		WHERE LOWER(ref_no) = LOWER($11)`,
		med.RefNo, med.Name, med.IssueDate, med.ExpiryDate, med.StockQty,
		med.AgeGap, med.Uses, med.Storage, med.Price, med.Dose, originalRefNo)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("medicine %s: %w", originalRefNo, models.ErrNotFound)
	}
	return nil
}

// DeleteMedicine removes a catalog entry. Committed sale items keep their
// snapshots and are unaffected.
func (s *Store) DeleteMedicine(ctx context.Context, refNo string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM medicines WHERE LOWER(ref_no) = LOWER($1)", refNo)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("medicine %s: %w", refNo, models.ErrNotFound)
	}
	return nil
}

// AdjustStock applies a restock (or manual correction) delta. The WHERE
// clause keeps the resulting quantity non-negative in the same statement.
func (s *Store) AdjustStock(ctx context.Context, refNo string, delta int) (int, error) {
	var newQty int
	err := s.db.GetContext(ctx, &newQty, `
		UPDATE medicines
		SET stock_qty = stock_qty + $1, updated_at = NOW()
		WHERE LOWER(ref_no) = LOWER($2) AND stock_qty + $1 >= 0
		RETURNING stock_qty`,
		delta, refNo)
	if err == sql.ErrNoRows {
		exists, exErr := s.refExists(ctx, refNo)
		if exErr != nil {
			return 0, exErr
		}
		if !exists {
			return 0, fmt.Errorf("medicine %s: %w", refNo, models.ErrNotFound)
		}
		return 0, fmt.Errorf("adjust by %d on %s: %w", delta, refNo, models.ErrInsufficientStock)
	}
	if err != nil {
		return 0, err
	}
	return newQty, nil
}

// DecrementStock applies the conditional decrement outside any enclosing
// sale. The comparison and the write are one statement: the row is only
// touched when stock_qty >= amount at the moment of the write.
func (s *Store) DecrementStock(ctx context.Context, refNo string, amount int) (int, error) {
	return decrementStock(ctx, s.db, refNo, amount)
}

// decrementStock is the single-statement compare-and-write shared by
// DecrementStock and the sale unit of work. Zero rows matched means the
// stock was insufficient or the ref vanished; either way the caller must
// treat it as a hard failure, never retry with an adjusted quantity.
func decrementStock(ctx context.Context, q sqlx.QueryerContext, refNo string, amount int) (int, error) {
	var newQty int
	err := sqlx.GetContext(ctx, q, &newQty, `
		UPDATE medicines
		SET stock_qty = stock_qty - $1, updated_at = NOW()
		WHERE LOWER(ref_no) = LOWER($2) AND stock_qty >= $1
		RETURNING stock_qty`,
		amount, refNo)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("decrement %d on %s: %w", amount, refNo, models.ErrInsufficientStock)
	}
	if err != nil {
		return 0, err
	}
	return newQty, nil
}

// SearchCriteria is the fixed, enumerated filter set for catalog search.
// Supplied criteria are AND-combined.
type SearchCriteria struct {
	RefNo              string
	NameLike           string
	UsesLike           string
	AgeGap             string
	ExactStock         *int
	ExactPrice         *decimal.Decimal
	ExpiringWithinDays *int
	LowStock           bool
}

// buildSearchWhere translates criteria into a WHERE clause with positional
// args. lowStockThreshold backs the LowStock filter; today anchors the
// expiring-within window.
func buildSearchWhere(c SearchCriteria, today time.Time, lowStockThreshold int) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	next := func() string { return fmt.Sprintf("$%d", len(args)) }

	if c.RefNo != "" {
		args = append(args, "%"+strings.ToLower(c.RefNo)+"%")
		clauses = append(clauses, "LOWER(ref_no) LIKE "+next())
	}
	if c.NameLike != "" {
		args = append(args, "%"+strings.ToLower(c.NameLike)+"%")
		clauses = append(clauses, "LOWER(medicine_name) LIKE "+next())
	}
	if c.UsesLike != "" {
		args = append(args, "%"+strings.ToLower(c.UsesLike)+"%")
		clauses = append(clauses, "LOWER(uses) LIKE "+next())
	}
	if c.AgeGap != "" {
		args = append(args, "%"+strings.ToLower(c.AgeGap)+"%")
		clauses = append(clauses, "LOWER(age_gap) LIKE "+next())
	}
	if c.ExactStock != nil {
		args = append(args, *c.ExactStock)
		clauses = append(clauses, "stock_qty = "+next())
	}
	if c.ExactPrice != nil {
		args = append(args, *c.ExactPrice)
		clauses = append(clauses, "price = "+next())
	}
	if c.ExpiringWithinDays != nil {
		cutoff := today.AddDate(0, 0, *c.ExpiringWithinDays)
		args = append(args, today)
		from := next()
		args = append(args, cutoff)
		clauses = append(clauses, "expiry_date >= "+from+" AND expiry_date <= "+next())
	}
	if c.LowStock {
		args = append(args, lowStockThreshold)
		clauses = append(clauses, "stock_qty <= "+next())
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// SearchMedicines runs an AND-combined filtered catalog query.
func (s *Store) SearchMedicines(ctx context.Context, c SearchCriteria, today time.Time, lowStockThreshold int) ([]models.Medicine, error) {
	where, args := buildSearchWhere(c, today, lowStockThreshold)
	query := "SELECT " + medicineColumns + " FROM medicines" + where + " ORDER BY medicine_name"

	var meds []models.Medicine
	err := s.db.SelectContext(ctx, &meds, query, args...)
	return meds, err
}
