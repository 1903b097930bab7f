package service

import (
	"context"

	"pharmaflow/internal/models"
	"pharmaflow/internal/store"
)

// PeopleService owns the patient and supplier records that surround a
// sale but carry no consistency hazard of their own.
type PeopleService struct {
	store *store.Store
}

// NewPeopleService creates a new people service
func NewPeopleService(store *store.Store) *PeopleService {
	return &PeopleService{store: store}
}

func (s *PeopleService) CreatePatient(ctx context.Context, p *models.Patient) error {
	if p.FullName == "" {
		return &models.ValidationError{Field: "full_name", Reason: "must not be empty"}
	}
	return s.store.CreatePatient(ctx, p)
}

func (s *PeopleService) GetPatient(ctx context.Context, id int64) (*models.Patient, error) {
	return s.store.GetPatientByID(ctx, id)
}

func (s *PeopleService) ListPatients(ctx context.Context) ([]models.Patient, error) {
	return s.store.ListPatients(ctx)
}

func (s *PeopleService) UpdatePatient(ctx context.Context, p *models.Patient) error {
	if p.FullName == "" {
		return &models.ValidationError{Field: "full_name", Reason: "must not be empty"}
	}
	return s.store.UpdatePatient(ctx, p)
}

func (s *PeopleService) DeletePatient(ctx context.Context, id int64) error {
	return s.store.DeletePatient(ctx, id)
}

func (s *PeopleService) CreateSupplier(ctx context.Context, sup *models.Supplier) error {
	if sup.SupplierName == "" {
		return &models.ValidationError{Field: "supplier_name", Reason: "must not be empty"}
	}
	return s.store.CreateSupplier(ctx, sup)
}

func (s *PeopleService) GetSupplier(ctx context.Context, id int64) (*models.Supplier, error) {
	return s.store.GetSupplierByID(ctx, id)
}

func (s *PeopleService) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.store.ListSuppliers(ctx)
}

func (s *PeopleService) UpdateSupplier(ctx context.Context, sup *models.Supplier) error {
	if sup.SupplierName == "" {
		return &models.ValidationError{Field: "supplier_name", Reason: "must not be empty"}
	}
	return s.store.UpdateSupplier(ctx, sup)
}

func (s *PeopleService) DeleteSupplier(ctx context.Context, id int64) error {
	return s.store.DeleteSupplier(ctx, id)
}
