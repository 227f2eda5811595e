package middleware

import (
	"context"
	"errors"
	"strings"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/identity"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxClaimsKey = "claims"
	CtxUserIDKey = "user_id"
	CtxUserKey   = "user"
)

type AuthMiddleware struct {
	verifier identity.Verifier
}

func NewAuthMiddleware(verifier identity.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return m.handler(false)
}

// QueryTokenMiddleware also accepts ?access_token= for clients that cannot set
// headers, such as browser websockets.
func (m *AuthMiddleware) QueryTokenMiddleware() fiber.Handler {
	return m.handler(true)
}

func (m *AuthMiddleware) handler(allowQuery bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok && allowQuery {
			token = strings.TrimSpace(c.Query("access_token"))
			ok = token != ""
		}
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.verifier.Verify(c.Context(), token)
		if err != nil {
			if errors.Is(err, identity.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}
		if !claims.Caller().Authenticated() {
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, nil)
		}

		c.Locals(CtxClaimsKey, claims)
		return c.Next()
	}
}

// ClaimsFrom returns the verified token claims, or zero claims on public routes.
func ClaimsFrom(c fiber.Ctx) identity.Claims {
	claims, _ := c.Locals(CtxClaimsKey).(identity.Claims)
	return claims
}

func CallerFrom(c fiber.Ctx) identity.Caller {
	return ClaimsFrom(c).Caller()
}

type UserResolver interface {
	GetByExternalID(ctx context.Context, externalID string) (user.User, error)
}

// RequireUser loads the local user for the caller. Routes behind it can rely
// on UserIDFrom.
func RequireUser(users UserResolver) fiber.Handler {
	return func(c fiber.Ctx) error {
		caller := CallerFrom(c)
		if !caller.Authenticated() {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		u, err := users.GetByExternalID(c.Context(), caller.ExternalID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return NewAppError(fiber.StatusNotFound, "User not found", nil, err)
			}
			return NewAppError(fiber.StatusInternalServerError, "Internal server error", nil, err)
		}
		c.Locals(CtxUserIDKey, u.ID)
		c.Locals(CtxUserKey, u)
		return c.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		u, ok := UserFrom(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		if !u.IsAdmin {
			return NewAppError(fiber.StatusForbidden, "Admin access required", nil, nil)
		}
		return c.Next()
	}
}

func UserIDFrom(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func UserFrom(c fiber.Ctx) (user.User, bool) {
	u, ok := c.Locals(CtxUserKey).(user.User)
	return u, ok
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
