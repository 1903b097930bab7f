package store

import "fmt"

// Migrate creates the schema required by the service. Statements are
// idempotent so startup can run them unconditionally.
func (s *Store) Migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS medicines (
			ref_no        TEXT PRIMARY KEY,
			medicine_name TEXT NOT NULL,
			issue_date    DATE,
			expiry_date   DATE,
			stock_qty     INTEGER NOT NULL DEFAULT 0 CHECK (stock_qty >= 0),
			age_gap       TEXT,
			uses          TEXT,
			storage       TEXT,
			price         NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
			dose          TEXT,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS medicines_ref_no_lower_idx
			ON medicines (LOWER(ref_no));`,
		`CREATE TABLE IF NOT EXISTS employees (
			username      TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'pharmacist',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS patients (
			id              BIGSERIAL PRIMARY KEY,
			full_name       TEXT NOT NULL,
			date_of_birth   DATE,
			gender          TEXT,
			phone_number    TEXT,
			email           TEXT,
			address         TEXT,
			allergies_notes TEXT,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS suppliers (
			id             BIGSERIAL PRIMARY KEY,
			supplier_name  TEXT NOT NULL,
			contact_person TEXT,
			phone_number   TEXT,
			email          TEXT,
			address        TEXT,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS sales_transactions (
			transaction_id    BIGSERIAL PRIMARY KEY,
			patient_name      TEXT,
			employee_username TEXT NOT NULL,
			total_amount      NUMERIC(10,2) NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS sales_items (
			id              BIGSERIAL PRIMARY KEY,
			transaction_id  BIGINT NOT NULL REFERENCES sales_transactions(transaction_id),
			medicine_ref_no TEXT NOT NULL,
			medicine_name   TEXT NOT NULL,
			quantity_sold   INTEGER NOT NULL CHECK (quantity_sold > 0),
			unit_price      NUMERIC(10,2) NOT NULL,
			item_total      NUMERIC(10,2) NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sales_audit_log (
			id                BIGSERIAL PRIMARY KEY,
			transaction_id    BIGINT NOT NULL,
			employee_username TEXT NOT NULL,
			total_amount      NUMERIC(10,2) NOT NULL,
			item_count        INTEGER NOT NULL,
			recorded_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS processed_events (
			event_id     TEXT PRIMARY KEY,
			event_type   TEXT NOT NULL,
			processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
