package alerts

import (
	"testing"
	"time"

	"pharmaflow/internal/models"

	"github.com/stretchr/testify/assert"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestComputeExpiryBoundaries(t *testing.T) {
	today := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	thresholds := DefaultThresholds()

	tests := []struct {
		name   string
		expiry time.Time
		want   []Flag
	}{
		{
			name:   "expired yesterday",
			expiry: today.AddDate(0, 0, -1),
			want:   []Flag{FlagExpired},
		},
		{
			name:   "expires today counts as expired",
			expiry: today,
			want:   []Flag{FlagExpired},
		},
		{
			name:   "expires tomorrow",
			expiry: today.AddDate(0, 0, 1),
			want:   []Flag{FlagExpiringSoon},
		},
		{
			name:   "expires exactly at window edge",
			expiry: today.AddDate(0, 0, thresholds.ExpiringSoonDays),
			want:   []Flag{FlagExpiringSoon},
		},
		{
			name:   "expires one day past window",
			expiry: today.AddDate(0, 0, thresholds.ExpiringSoonDays+1),
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			med := &models.Medicine{
				RefNo:      "ASP1",
				Name:       "Aspirin",
				StockQty:   100,
				ExpiryDate: datePtr(tt.expiry),
			}
			assert.Equal(t, tt.want, Compute(med, today, thresholds))
		})
	}
}

func TestComputeLowStock(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	thresholds := Thresholds{ExpiringSoonDays: 30, LowStockThreshold: 10}

	med := &models.Medicine{RefNo: "ASP1", Name: "Aspirin", StockQty: 10}
	assert.Equal(t, []Flag{FlagLowStock}, Compute(med, today, thresholds))

	med.StockQty = 11
	assert.Empty(t, Compute(med, today, thresholds))

	med.StockQty = 0
	assert.Equal(t, []Flag{FlagLowStock}, Compute(med, today, thresholds))
}

func TestComputeFlagsAreAdditive(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	med := &models.Medicine{
		RefNo:      "ASP1",
		Name:       "Aspirin",
		StockQty:   3,
		ExpiryDate: datePtr(today.AddDate(0, 0, -5)),
	}

	flags := Compute(med, today, DefaultThresholds())
	assert.Equal(t, []Flag{FlagExpired, FlagLowStock}, flags)
}

func TestComputeNoExpiryDate(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	med := &models.Medicine{RefNo: "ASP1", Name: "Aspirin", StockQty: 50}

	assert.Empty(t, Compute(med, today, DefaultThresholds()))
}

func TestComputeIgnoresTimeOfDay(t *testing.T) {
	// Expiry stored at midnight must not be "before" a today carrying a
	// wall-clock time.
	today := time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC)
	med := &models.Medicine{
		RefNo:      "ASP1",
		Name:       "Aspirin",
		StockQty:   50,
		ExpiryDate: datePtr(time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)),
	}

	assert.Equal(t, []Flag{FlagExpiringSoon}, Compute(med, today, DefaultThresholds()))
}
