package usecase

import (
	"context"
	"errors"
	"strings"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/identity"
	"skill-swap/internal/pkg/jwt"
	ucauth "skill-swap/internal/usecase/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDevTokenDisabled  = errors.New("dev tokens are disabled")
	ErrBootstrapDisabled = errors.New("admin bootstrap is disabled")
	ErrInvalidSetupKey   = errors.New("invalid setup key")
)

type AuthUsecase interface {
	Sync(ctx context.Context, claims identity.Claims) (user.User, bool, error)
	IssueDevToken(ctx context.Context, subject string, profile jwt.Profile) (string, error)
	BootstrapAdmin(ctx context.Context, userID uuid.UUID, setupKey string) error
}

type AuthOptions struct {
	// Tokens is nil when sessions come from an external OIDC issuer.
	Tokens         jwt.Service
	DevTokens      bool
	AdminSetupHash string
}

type Auth struct {
	authSvc *ucauth.Service
	users   user.Repository
	opts    AuthOptions
}

func NewAuthUsecase(authSvc *ucauth.Service, users user.Repository, opts AuthOptions) *Auth {
	return &Auth{authSvc: authSvc, users: users, opts: opts}
}

func (u *Auth) Sync(ctx context.Context, claims identity.Claims) (user.User, bool, error) {
	if !claims.Caller().Authenticated() {
		return user.User{}, false, ErrUnauthorized
	}
	return u.authSvc.EnsureUser(ctx, claims)
}

func (u *Auth) IssueDevToken(_ context.Context, subject string, profile jwt.Profile) (string, error) {
	if !u.opts.DevTokens || u.opts.Tokens == nil {
		return "", ErrDevTokenDisabled
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", ErrInvalidInput
	}
	tok, err := u.opts.Tokens.GenerateToken(subject, profile)
	if err != nil {
		return "", ErrInternal
	}
	return tok, nil
}

// BootstrapAdmin promotes the caller when the presented key matches the
// configured bcrypt hash.
func (u *Auth) BootstrapAdmin(ctx context.Context, userID uuid.UUID, setupKey string) error {
	hash := strings.TrimSpace(u.opts.AdminSetupHash)
	if hash == "" {
		return ErrBootstrapDisabled
	}
	if setupKey == "" {
		return ErrInvalidSetupKey
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(setupKey)); err != nil {
		return ErrInvalidSetupKey
	}
	if err := u.users.SetAdmin(ctx, userID, true); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}
