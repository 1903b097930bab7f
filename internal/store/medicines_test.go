package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildSearchWhereEmpty(t *testing.T) {
	where, args := buildSearchWhere(SearchCriteria{}, time.Now(), 10)
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildSearchWhereSingleCriterion(t *testing.T) {
	where, args := buildSearchWhere(SearchCriteria{NameLike: "Asp"}, time.Now(), 10)
	assert.Equal(t, " WHERE LOWER(medicine_name) LIKE $1", where)
	assert.Equal(t, []interface{}{"%asp%"}, args)
}

func TestBuildSearchWhereCombinesWithAnd(t *testing.T) {
	stock := 5
	where, args := buildSearchWhere(SearchCriteria{
		UsesLike:   "pain",
		ExactStock: &stock,
		LowStock:   true,
	}, time.Now(), 10)

	assert.Equal(t,
		" WHERE LOWER(uses) LIKE $1 AND stock_qty = $2 AND stock_qty <= $3",
		where)
	assert.Equal(t, []interface{}{"%pain%", 5, 10}, args)
}

func TestBuildSearchWhereExpiringWindow(t *testing.T) {
	days := 7
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	where, args := buildSearchWhere(SearchCriteria{ExpiringWithinDays: &days}, today, 10)

	assert.Equal(t, " WHERE expiry_date >= $1 AND expiry_date <= $2", where)
	assert.Equal(t, []interface{}{today, today.AddDate(0, 0, 7)}, args)
}

func TestBuildSearchWhereExactPrice(t *testing.T) {
	price := decimal.RequireFromString("5.00")
	where, args := buildSearchWhere(SearchCriteria{ExactPrice: &price}, time.Now(), 10)

	assert.Equal(t, " WHERE price = $1", where)
	assert.Equal(t, []interface{}{price}, args)
}

func TestBuildSearchWhereLowStockUsesThreshold(t *testing.T) {
	where, args := buildSearchWhere(SearchCriteria{LowStock: true}, time.Now(), 25)

	assert.Equal(t, " WHERE stock_qty <= $1", where)
	assert.Equal(t, []interface{}{25}, args)
}
