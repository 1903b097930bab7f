package service

import (
	"fmt"
	"strings"

	"pharmaflow/internal/models"
)

// FormatReceipt renders a committed sale as receipt text for printing or
// display.
func FormatReceipt(sale *models.SaleTransaction, items []models.SaleItem) string {
	patient := "N/A"
	if sale.PatientName != nil && *sale.PatientName != "" {
		patient = *sale.PatientName
	}

	sep := strings.Repeat("-", 60)
	lines := []string{
		"-- PharmaFlow --",
		"    Prescription Bill",
		fmt.Sprintf("Bill No: %d", sale.TransactionID),
		fmt.Sprintf("Date: %s", sale.CreatedAt.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Patient: %s", patient),
		fmt.Sprintf("Pharmacist: %s", sale.EmployeeUsername),
		sep,
		fmt.Sprintf("%-3s %-25s %-4s %10s %10s", "Sr", "Medicine", "Qty", "Price", "Total"),
		sep,
	}

	for i, item := range items {
		name := item.MedicineName
		if len(name) > 25 {
			name = name[:25]
		}
		lines = append(lines, fmt.Sprintf("%-3d %-25s %-4d %10s %10s",
			i+1, name, item.QuantitySold,
			item.UnitPrice.StringFixed(2), item.ItemTotal.StringFixed(2)))
	}

	lines = append(lines,
		strings.Repeat("=", 60),
		fmt.Sprintf("%-48s %11s", "Grand Total:", sale.TotalAmount.StringFixed(2)),
		sep,
		"Thank you! Follow instructions carefully.",
	)

	return strings.Join(lines, "\n")
}
