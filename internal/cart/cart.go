// Package cart holds a session-local staging area for a prospective sale.
// A cart is never persisted; snapshots taken at add-time may go stale and
// are re-validated only by the commit's conditional decrements.
package cart

import (
	"context"
	"fmt"

	"pharmaflow/internal/models"

	"github.com/shopspring/decimal"
)

// CatalogReader resolves medicine snapshots at add-time.
type CatalogReader interface {
	GetMedicineByRef(ctx context.Context, refNo string) (*models.Medicine, error)
}

// Line is one staged item. Name, price, and dose are snapshots from the
// catalog at the time the line was added.
type Line struct {
	RefNo     string          `json:"ref_no"`
	Name      string          `json:"name"`
	Dose      string          `json:"dose"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Total is the line total, always recomputed from quantity and unit price.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// DuplicatePolicy decides what Add does when the ref is already staged.
// The interactive merge-or-append confirmation lives outside this package;
// the caller passes its decision in.
type DuplicatePolicy int

const (
	// MergeDuplicate adds the quantity onto the existing line.
	MergeDuplicate DuplicatePolicy = iota
	// AppendDuplicate stages an independent second line for the same ref.
	AppendDuplicate
)

// Cart accumulates lines for a single session.
type Cart struct {
	catalog CatalogReader
	lines   []Line
}

func New(catalog CatalogReader) *Cart {
	return &Cart{catalog: catalog}
}

// resolve snapshots the medicine and validates the requested quantity
// against the stock visible right now. The stock check is advisory; the
// authoritative check happens at commit.
func (c *Cart) resolve(ctx context.Context, refNo string, quantity int) (Line, error) {
	if quantity <= 0 {
		return Line{}, &models.ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	med, err := c.catalog.GetMedicineByRef(ctx, refNo)
	if err != nil {
		return Line{}, err
	}

	staged := c.quantityOf(med.RefNo)
	if staged+quantity > med.StockQty {
		return Line{}, fmt.Errorf("requested %d of %s with %d in stock: %w",
			staged+quantity, med.RefNo, med.StockQty, models.ErrInsufficientStock)
	}

	dose := ""
	if med.Dose != nil {
		dose = *med.Dose
	}
	return Line{
		RefNo:     med.RefNo,
		Name:      med.Name,
		Dose:      dose,
		Quantity:  quantity,
		UnitPrice: med.Price,
	}, nil
}

// Add stages quantity units of a medicine. When the ref is already present
// the policy decides between merging into the existing line and appending
// an independent one.
func (c *Cart) Add(ctx context.Context, refNo string, quantity int, policy DuplicatePolicy) error {
	line, err := c.resolve(ctx, refNo, quantity)
	if err != nil {
		return err
	}

	if policy == MergeDuplicate {
		if i, ok := c.indexOf(line.RefNo); ok {
			c.lines[i].Quantity += quantity
			return nil
		}
	}
	c.lines = append(c.lines, line)
	return nil
}

// Contains reports whether any line stages the given ref.
func (c *Cart) Contains(refNo string) bool {
	_, ok := c.indexOf(refNo)
	return ok
}

// Remove drops the line at index.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.lines) {
		return &models.ValidationError{Field: "line_index", Reason: "out of range"}
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// Clear drops all lines.
func (c *Cart) Clear() {
	c.lines = nil
}

// Len returns the number of staged lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a copy of the staged lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// GrandTotal sums all line totals. Always recomputed from the lines so the
// total can never drift from them.
func (c *Cart) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

func (c *Cart) indexOf(refNo string) (int, bool) {
	for i, l := range c.lines {
		if l.RefNo == refNo {
			return i, true
		}
	}
	return 0, false
}

// quantityOf sums staged quantity across all lines for a ref, so the
// advisory stock check sees the whole cart.
func (c *Cart) quantityOf(refNo string) int {
	total := 0
	for _, l := range c.lines {
		if l.RefNo == refNo {
			total += l.Quantity
		}
	}
	return total
}
