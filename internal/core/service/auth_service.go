package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/homecare/nursing-api/internal/core/domain"
	"github.com/homecare/nursing-api/internal/core/ports"
)

// maxSecretBytes is the longest input bcrypt accepts.
const maxSecretBytes = 72

// AuthService implements registration and login for clients and nurses.
type AuthService struct {
	repo   ports.IdentityRepository
	tokens ports.TokenIssuer
}

func NewAuthService(repo ports.IdentityRepository, tokens ports.TokenIssuer) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	login := normalizeLogin(in.Login)
	if login == "" || in.Password == "" {
		return nil, fmt.Errorf("register: %w: login and password are required", domain.ErrInvalid)
	}
	if len(in.Password) > maxSecretBytes {
		return nil, fmt.Errorf("register: %w: password must be at most %d bytes", domain.ErrInvalid, maxSecretBytes)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("register: %w: unknown role %q", domain.ErrInvalid, in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash secret: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.Identity{
		Login:      login,
		Name:       strings.TrimSpace(in.Name),
		SecretHash: string(hash),
		Role:       in.Role,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	return s.authenticated(created)
}

func (s *AuthService) Login(ctx context.Context, login, password string) (*ports.AuthResult, error) {
	login = normalizeLogin(login)
	if login == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		// unknown logins and wrong secrets are indistinguishable to callers
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.SecretHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.authenticated(identity)
}

func (s *AuthService) authenticated(identity *domain.Identity) (*ports.AuthResult, error) {
	token, err := s.tokens.Issue(identity.ID, identity.Role)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, Identity: identity}, nil
}

func normalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}
