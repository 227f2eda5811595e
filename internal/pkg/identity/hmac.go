package identity

import (
	"context"
	"errors"

	"skill-swap/internal/pkg/jwt"
)

// HMACVerifier accepts session tokens minted by jwt.HMACService. Used when no
// OIDC issuer is configured.
type HMACVerifier struct {
	tokens jwt.Service
}

func NewHMACVerifier(tokens jwt.Service) *HMACVerifier {
	return &HMACVerifier{tokens: tokens}
}

func (v *HMACVerifier) Verify(_ context.Context, rawToken string) (Claims, error) {
	c, err := v.tokens.ValidateToken(rawToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidToken
	}
	return Claims{
		Subject:   c.Subject,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		ImageURL:  c.ImageURL,
	}, nil
}
