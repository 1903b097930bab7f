package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeSaleCommitted = "SaleCommitted"
)

// BaseEvent contains fields common to all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleItemData is the event-payload form of a committed sale line
type SaleItemData struct {
	MedicineRefNo string          `json:"medicine_ref_no"`
	MedicineName  string          `json:"medicine_name"`
	QuantitySold  int             `json:"quantity_sold"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	ItemTotal     decimal.Decimal `json:"item_total"`
}

// SaleCommittedEvent is published after a sale's unit of work has durably
// committed. Consumers must treat it as best-effort notification: the sale
// exists whether or not the event was delivered.
type SaleCommittedEvent struct {
	BaseEvent
	TransactionID    int64           `json:"transaction_id"`
	EmployeeUsername string          `json:"employee_username"`
	PatientName      string          `json:"patient_name,omitempty"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Items            []SaleItemData  `json:"items"`
}
