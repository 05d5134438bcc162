package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/homecare/nursing-api/internal/core/domain"
	"github.com/homecare/nursing-api/internal/core/ports"
)

const birthDateLayout = "2006-01-02"

// PatientService manages the patients a client cares for.
type PatientService struct {
	repo   ports.PatientRepository
	logger zerolog.Logger
}

func NewPatientService(repo ports.PatientRepository, logger zerolog.Logger) *PatientService {
	return &PatientService{repo: repo, logger: logger}
}

func (s *PatientService) Create(ctx context.Context, owner domain.Principal, in ports.CreatePatientInput) (*domain.Patient, error) {
	if owner.Role != domain.RoleClient {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("create patient: %w: name is required", domain.ErrInvalid)
	}

	p := &domain.Patient{
		ID:        uuid.NewString(),
		OwnerID:   owner.ID,
		Name:      name,
		Notes:     in.Notes,
		CreatedAt: time.Now().UTC(),
	}
	if in.BirthDate != "" {
		bd, err := time.Parse(birthDateLayout, in.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("create patient: %w: birth_date must be YYYY-MM-DD", domain.ErrInvalid)
		}
		p.BirthDate = bd
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	s.logger.Info().Str("patient_id", p.ID).Str("client_id", owner.ID).Msg("patient created")
	return p, nil
}

func (s *PatientService) List(ctx context.Context, owner domain.Principal) ([]*domain.Patient, error) {
	if owner.Role != domain.RoleClient {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListByOwner(ctx, owner.ID)
}
