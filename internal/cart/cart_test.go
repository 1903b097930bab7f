package cart

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"pharmaflow/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	meds map[string]*models.Medicine
}

func (f *fakeCatalog) GetMedicineByRef(ctx context.Context, refNo string) (*models.Medicine, error) {
	med, ok := f.meds[strings.ToLower(refNo)]
	if !ok {
		return nil, fmt.Errorf("medicine %s: %w", refNo, models.ErrNotFound)
	}
	cp := *med
	return &cp, nil
}

func newTestCatalog() *fakeCatalog {
	dose := "After meals"
	return &fakeCatalog{meds: map[string]*models.Medicine{
		"asp1": {
			RefNo:    "ASP1",
			Name:     "Aspirin",
			StockQty: 10,
			Price:    decimal.RequireFromString("5.00"),
			Dose:     &dose,
		},
		"ibu2": {
			RefNo:    "IBU2",
			Name:     "Ibuprofen",
			StockQty: 4,
			Price:    decimal.RequireFromString("3.50"),
		},
	}}
}

func TestAddSnapshotsCatalogState(t *testing.T) {
	c := New(newTestCatalog())
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "asp1", 2, MergeDuplicate))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "ASP1", lines[0].RefNo)
	assert.Equal(t, "Aspirin", lines[0].Name)
	assert.Equal(t, "After meals", lines[0].Dose)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, lines[0].Total().Equal(decimal.RequireFromString("10.00")))
}

func TestAddMergeCombinesQuantities(t *testing.T) {
	c := New(newTestCatalog())
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "ASP1", 2, MergeDuplicate))
	require.NoError(t, c.Add(ctx, "ASP1", 3, MergeDuplicate))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.True(t, lines[0].Total().Equal(decimal.RequireFromString("25.00")))
}

func TestAddAppendKeepsIndependentLines(t *testing.T) {
	c := New(newTestCatalog())
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "ASP1", 2, MergeDuplicate))
	require.NoError(t, c.Add(ctx, "ASP1", 3, AppendDuplicate))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 3, lines[1].Quantity)
	assert.True(t, c.GrandTotal().Equal(decimal.RequireFromString("25.00")))
}

func TestAddUnknownRef(t *testing.T) {
	c := New(newTestCatalog())

	err := c.Add(context.Background(), "NOPE", 1, MergeDuplicate)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Zero(t, c.Len())
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	c := New(newTestCatalog())

	var validationErr *models.ValidationError
	err := c.Add(context.Background(), "ASP1", 0, MergeDuplicate)
	assert.ErrorAs(t, err, &validationErr)

	err = c.Add(context.Background(), "ASP1", -3, MergeDuplicate)
	assert.ErrorAs(t, err, &validationErr)
}

func TestAddChecksVisibleStock(t *testing.T) {
	c := New(newTestCatalog())
	ctx := context.Background()

	err := c.Add(ctx, "IBU2", 5, MergeDuplicate)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	// Staged quantity counts toward the check across the whole cart.
	require.NoError(t, c.Add(ctx, "IBU2", 3, MergeDuplicate))
	err = c.Add(ctx, "IBU2", 2, AppendDuplicate)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	require.NoError(t, c.Add(ctx, "IBU2", 1, AppendDuplicate))
}

func TestRemoveAndClear(t *testing.T) {
	c := New(newTestCatalog())
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "ASP1", 1, MergeDuplicate))
	require.NoError(t, c.Add(ctx, "IBU2", 1, MergeDuplicate))

	assert.Error(t, c.Remove(5))
	require.NoError(t, c.Remove(0))
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, "IBU2", c.Lines()[0].RefNo)

	c.Clear()
	assert.Zero(t, c.Len())
	assert.True(t, c.GrandTotal().IsZero())
}

func TestGrandTotalRecomputedFromLines(t *testing.T) {
	c := New(newTestCatalog())
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "ASP1", 2, MergeDuplicate))
	require.NoError(t, c.Add(ctx, "IBU2", 1, MergeDuplicate))
	assert.True(t, c.GrandTotal().Equal(decimal.RequireFromString("13.50")))

	require.NoError(t, c.Remove(1))
	assert.True(t, c.GrandTotal().Equal(decimal.RequireFromString("10.00")))
}
