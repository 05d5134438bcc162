package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/homecare/nursing-api/internal/core/domain"
	"github.com/homecare/nursing-api/internal/core/ports"
)

type stubIdentityRepo struct {
	byLogin map[string]*domain.Identity
	findErr error
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{byLogin: make(map[string]*domain.Identity)}
}

func cloneIdentity(u *domain.Identity) *domain.Identity {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubIdentityRepo) Create(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	if _, exists := r.byLogin[identity.Login]; exists {
		return nil, domain.ErrIdentityExists
	}
	copy := cloneIdentity(identity)
	if copy.ID == "" {
		copy.ID = "id-" + identity.Login
	}
	r.byLogin[copy.Login] = cloneIdentity(copy)
	return cloneIdentity(copy), nil
}

func (r *stubIdentityRepo) FindByLogin(_ context.Context, login string) (*domain.Identity, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byLogin[login]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return cloneIdentity(u), nil
}

func (r *stubIdentityRepo) FindByID(_ context.Context, id string) (*domain.Identity, error) {
	for _, u := range r.byLogin {
		if u.ID == id {
			return cloneIdentity(u), nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func newTestAuthService(t *testing.T, repo ports.IdentityRepository) (*AuthService, *TokenService) {
	t.Helper()
	tokens, err := NewTokenService("secret", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return NewAuthService(repo, tokens), tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubIdentityRepo()
	svc, tokens := newTestAuthService(t, repo)

	res, err := svc.Register(context.Background(), ports.RegisterInput{
		Login: " Alice@Example.com ", Password: "pass123", Name: "Alice", Role: domain.RoleClient,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Identity.Login != "alice@example.com" {
		t.Fatalf("login not normalised: %q", res.Identity.Login)
	}
	if res.Identity.SecretHash == "pass123" {
		t.Fatalf("expected secret to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(res.Identity.SecretHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	p, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if p.ID != res.Identity.ID || p.Role != domain.RoleClient {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubIdentityRepo())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Password: "pass", Role: domain.RoleClient}); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Login: "bob", Password: "pass", Role: "admin"}); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for bad role, got %v", err)
	}
}

func TestAuthService_Register_RejectsSecretOverBcryptLimit(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubIdentityRepo())

	// 36 runes, 72 bytes: accepted
	ok := strings.Repeat("é", 36)
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Login: "ana", Password: ok, Role: domain.RoleNurse}); err != nil {
		t.Fatalf("72-byte password rejected: %v", err)
	}

	// 40 runes, 80 bytes
	long := strings.Repeat("é", 40)
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Login: "bea", Password: long, Role: domain.RoleNurse}); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubIdentityRepo())
	in := ports.RegisterInput{Login: "bob", Password: "pass", Role: domain.RoleNurse}

	_, _ = svc.Register(context.Background(), in)
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrIdentityExists) {
		t.Fatalf("expected ErrIdentityExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, tokens := newTestAuthService(t, newStubIdentityRepo())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Login: "carol", Password: "s3cret", Role: domain.RoleNurse}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "CAROL", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	p, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if p.Role != domain.RoleNurse {
		t.Fatalf("expected role %s, got %s", domain.RoleNurse, p.Role)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubIdentityRepo())

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Login: "dave", Password: "goodpass", Role: domain.RoleClient})
	if _, err := svc.Login(context.Background(), "dave", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownLoginLooksLikeBadPassword(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubIdentityRepo())

	if _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	repo := newStubIdentityRepo()
	repo.findErr = errors.New("connection reset")
	svc, _ := newTestAuthService(t, repo)

	_, err := svc.Login(context.Background(), "erin", "pass")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected raw store error, got %v", err)
	}
}
