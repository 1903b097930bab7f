package store

import (
	"context"
	"database/sql"
	"fmt"

	"pharmaflow/internal/models"
)

// GetEmployeeByUsername retrieves an employee for login.
func (s *Store) GetEmployeeByUsername(ctx context.Context, username string) (*models.Employee, error) {
	var emp models.Employee
	err := s.db.GetContext(ctx, &emp,
		"SELECT * FROM employees WHERE username = $1", username)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("employee %s: %w", username, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// CreateEmployee inserts a new employee with a pre-hashed password.
func (s *Store) CreateEmployee(ctx context.Context, emp *models.Employee) error {
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO employees (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		emp.Username, emp.PasswordHash, emp.Role).Scan(&emp.CreatedAt)
}

// CreatePatient inserts a new patient record.
func (s *Store) CreatePatient(ctx context.Context, p *models.Patient) error {
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO patients (full_name, date_of_birth, gender, phone_number, email, address, allergies_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		p.FullName, p.DateOfBirth, p.Gender, p.PhoneNumber, p.Email, p.Address, p.AllergiesNotes).
		Scan(&p.ID, &p.CreatedAt)
}

// GetPatientByID retrieves a patient by ID.
func (s *Store) GetPatientByID(ctx context.Context, id int64) (*models.Patient, error) {
	var p models.Patient
	err := s.db.GetContext(ctx, &p, "SELECT * FROM patients WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("patient %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPatients retrieves all patients ordered by name.
func (s *Store) ListPatients(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	err := s.db.SelectContext(ctx, &patients, "SELECT * FROM patients ORDER BY full_name")
	return patients, err
}

// UpdatePatient rewrites a patient record.
func (s *Store) UpdatePatient(ctx context.Context, p *models.Patient) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE patients
		SET full_name = $1, date_of_birth = $2, gender = $3, phone_number = $4,
			email = $5, address = $6, allergies_notes = $7
		WHERE id = $8`,
		p.FullName, p.DateOfBirth, p.Gender, p.PhoneNumber, p.Email, p.Address,
		p.AllergiesNotes, p.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("patient %d: %w", p.ID, models.ErrNotFound)
	}
	return nil
}

// DeletePatient removes a patient record.
func (s *Store) DeletePatient(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM patients WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("patient %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// CreateSupplier inserts a new supplier record.
func (s *Store) CreateSupplier(ctx context.Context, sup *models.Supplier) error {
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO suppliers (supplier_name, contact_person, phone_number, email, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		sup.SupplierName, sup.ContactPerson, sup.PhoneNumber, sup.Email, sup.Address).
		Scan(&sup.ID, &sup.CreatedAt)
}

// GetSupplierByID retrieves a supplier by ID.
func (s *Store) GetSupplierByID(ctx context.Context, id int64) (*models.Supplier, error) {
	var sup models.Supplier
	err := s.db.GetContext(ctx, &sup, "SELECT * FROM suppliers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("supplier %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &sup, nil
}

// ListSuppliers retrieves all suppliers ordered by name.
func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := s.db.SelectContext(ctx, &suppliers, "SELECT * FROM suppliers ORDER BY supplier_name")
	return suppliers, err
}

// UpdateSupplier rewrites a supplier record.
func (s *Store) UpdateSupplier(ctx context.Context, sup *models.Supplier) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE suppliers
		SET supplier_name = $1, contact_person = $2, phone_number = $3, email = $4, address = $5
		WHERE id = $6`,
		sup.SupplierName, sup.ContactPerson, sup.PhoneNumber, sup.Email, sup.Address, sup.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("supplier %d: %w", sup.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteSupplier removes a supplier record.
func (s *Store) DeleteSupplier(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM suppliers WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("supplier %d: %w", id, models.ErrNotFound)
	}
	return nil
}
