package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medicine represents a catalog entry. RefNo is the unique identity,
// compared case-insensitively.
type Medicine struct {
	RefNo      string          `db:"ref_no" json:"ref_no"`
	Name       string          `db:"medicine_name" json:"name"`
	IssueDate  *time.Time      `db:"issue_date" json:"issue_date,omitempty"`
	ExpiryDate *time.Time      `db:"expiry_date" json:"expiry_date,omitempty"`
	StockQty   int             `db:"stock_qty" json:"stock_qty"`
	AgeGap     *string         `db:"age_gap" json:"age_gap,omitempty"`
	Uses       *string         `db:"uses" json:"uses,omitempty"`
	Storage    *string         `db:"storage" json:"storage,omitempty"`
	Price      decimal.Decimal `db:"price" json:"price"`
	Dose       *string         `db:"dose" json:"dose,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// SaleTransaction is the durable header of a completed sale. Immutable
// once created.
type SaleTransaction struct {
	TransactionID    int64           `db:"transaction_id" json:"transaction_id"`
	PatientName      *string         `db:"patient_name" json:"patient_name,omitempty"`
	EmployeeUsername string          `db:"employee_username" json:"employee_username"`
	TotalAmount      decimal.Decimal `db:"total_amount" json:"total_amount"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// SaleItem is one committed line of a sale. Name and price are frozen at
// sale time and survive later catalog edits or deletes.
type SaleItem struct {
	ID            int64           `db:"id" json:"id"`
	TransactionID int64           `db:"transaction_id" json:"transaction_id"`
	MedicineRefNo string          `db:"medicine_ref_no" json:"medicine_ref_no"`
	MedicineName  string          `db:"medicine_name" json:"medicine_name"`
	QuantitySold  int             `db:"quantity_sold" json:"quantity_sold"`
	UnitPrice     decimal.Decimal `db:"unit_price" json:"unit_price"`
	ItemTotal     decimal.Decimal `db:"item_total" json:"item_total"`
}

// Employee is an authenticated actor. PasswordHash is a bcrypt hash.
type Employee struct {
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Employee roles
const (
	RoleAdmin      = "admin"
	RolePharmacist = "pharmacist"
)

// Patient holds contact details attached to prescriptions.
type Patient struct {
	ID             int64      `db:"id" json:"id"`
	FullName       string     `db:"full_name" json:"full_name"`
	DateOfBirth    *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender         *string    `db:"gender" json:"gender,omitempty"`
	PhoneNumber    *string    `db:"phone_number" json:"phone_number,omitempty"`
	Email          *string    `db:"email" json:"email,omitempty"`
	Address        *string    `db:"address" json:"address,omitempty"`
	AllergiesNotes *string    `db:"allergies_notes" json:"allergies_notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// Supplier is a medicine supplier contact record.
type Supplier struct {
	ID            int64     `db:"id" json:"id"`
	SupplierName  string    `db:"supplier_name" json:"supplier_name"`
	ContactPerson *string   `db:"contact_person" json:"contact_person,omitempty"`
	PhoneNumber   *string   `db:"phone_number" json:"phone_number,omitempty"`
	Email         *string   `db:"email" json:"email,omitempty"`
	Address       *string   `db:"address" json:"address,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// AuditEntry is one row of the append-only sales audit log, written by the
// background worker from SaleCommitted events.
type AuditEntry struct {
	ID               int64           `db:"id" json:"id"`
	TransactionID    int64           `db:"transaction_id" json:"transaction_id"`
	EmployeeUsername string          `db:"employee_username" json:"employee_username"`
	TotalAmount      decimal.Decimal `db:"total_amount" json:"total_amount"`
	ItemCount        int             `db:"item_count" json:"item_count"`
	RecordedAt       time.Time       `db:"recorded_at" json:"recorded_at"`
}

// ProcessedEvent for consumer idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
