package ports

import (
	"context"

	"github.com/homecare/nursing-api/internal/core/domain"
)

// IdentityRepository is the credential store for clients and nurses.
type IdentityRepository interface {
	// FindByLogin returns domain.ErrIdentityNotFound when no identity matches.
	FindByLogin(ctx context.Context, login string) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	// Create returns domain.ErrIdentityExists on a duplicate login.
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
}
