package service

import (
	"strings"
	"testing"
	"time"

	"pharmaflow/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatReceipt(t *testing.T) {
	patient := "John Doe"
	sale := &models.SaleTransaction{
		TransactionID:    42,
		PatientName:      &patient,
		EmployeeUsername: "alice",
		TotalAmount:      decimal.RequireFromString("23.50"),
		CreatedAt:        time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC),
	}
	items := []models.SaleItem{
		{
			MedicineRefNo: "ASP1",
			MedicineName:  "Aspirin",
			QuantitySold:  4,
			UnitPrice:     decimal.RequireFromString("5.00"),
			ItemTotal:     decimal.RequireFromString("20.00"),
		},
		{
			MedicineRefNo: "IBU2",
			MedicineName:  "Ibuprofen",
			QuantitySold:  1,
			UnitPrice:     decimal.RequireFromString("3.50"),
			ItemTotal:     decimal.RequireFromString("3.50"),
		},
	}

	receipt := FormatReceipt(sale, items)

	assert.Contains(t, receipt, "Bill No: 42")
	assert.Contains(t, receipt, "Patient: John Doe")
	assert.Contains(t, receipt, "Pharmacist: alice")
	assert.Contains(t, receipt, "Aspirin")
	assert.Contains(t, receipt, "Ibuprofen")
	assert.Contains(t, receipt, "23.50")
	assert.Contains(t, receipt, "2024-06-15 14:30:00")
}

func TestFormatReceiptAnonymousPatient(t *testing.T) {
	sale := &models.SaleTransaction{
		TransactionID:    7,
		EmployeeUsername: "bob",
		TotalAmount:      decimal.RequireFromString("5.00"),
		CreatedAt:        time.Now(),
	}

	receipt := FormatReceipt(sale, nil)
	assert.Contains(t, receipt, "Patient: N/A")
}

func TestFormatReceiptTruncatesLongNames(t *testing.T) {
	sale := &models.SaleTransaction{
		TransactionID:    7,
		EmployeeUsername: "bob",
		TotalAmount:      decimal.RequireFromString("1.00"),
		CreatedAt:        time.Now(),
	}
	items := []models.SaleItem{{
		MedicineRefNo: "LNG1",
		MedicineName:  strings.Repeat("x", 40),
		QuantitySold:  1,
		UnitPrice:     decimal.RequireFromString("1.00"),
		ItemTotal:     decimal.RequireFromString("1.00"),
	}}

	receipt := FormatReceipt(sale, items)
	assert.NotContains(t, receipt, strings.Repeat("x", 26))
	assert.Contains(t, receipt, strings.Repeat("x", 25))
}
