package ports

import (
	"context"

	"github.com/homecare/nursing-api/internal/core/domain"
)

// PatientRepository persists patients owned by clients.
type PatientRepository interface {
	Create(ctx context.Context, p *domain.Patient) error
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Patient, error)
	// OwnedBy returns the ids of every patient owned by clientID.
	OwnedBy(ctx context.Context, clientID string) ([]string, error)
}

// CreatePatientInput carries the fields for a new patient.
type CreatePatientInput struct {
	Name      string
	BirthDate string
	Notes     string
}

type PatientService interface {
	Create(ctx context.Context, owner domain.Principal, input CreatePatientInput) (*domain.Patient, error)
	List(ctx context.Context, owner domain.Principal) ([]*domain.Patient, error)
}
