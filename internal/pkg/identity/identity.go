// Package identity verifies bearer tokens issued by the identity provider and
// exposes the caller's stable external id.
package identity

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Caller is the authenticated principal as seen by the domain layer.
type Caller struct {
	ExternalID string
}

func (c Caller) Authenticated() bool {
	return strings.TrimSpace(c.ExternalID) != ""
}

type Claims struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
	ImageURL  string
}

func (c Claims) Caller() Caller {
	return Caller{ExternalID: strings.TrimSpace(c.Subject)}
}

type Verifier interface {
	Verify(ctx context.Context, rawToken string) (Claims, error)
}
