package ports

import (
	"context"

	"github.com/homecare/nursing-api/internal/core/domain"
)

// RegisterInput carries the fields needed to create an identity.
type RegisterInput struct {
	Login    string
	Password string
	Name     string
	Role     domain.Role
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Token    string
	Identity *domain.Identity
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, login, password string) (*AuthResult, error)
}

// TokenIssuer signs identity assertions.
type TokenIssuer interface {
	Issue(subjectID string, role domain.Role) (string, error)
}

// TokenVerifier checks identity assertions. Errors wrap
// domain.ErrTokenMalformed or domain.ErrTokenExpired.
type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}
