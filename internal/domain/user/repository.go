package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrExternalIDTaken = errors.New("external id already registered")
)

type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByExternalID(ctx context.Context, externalID string) (User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (User, error)
	SetBanned(ctx context.Context, id uuid.UUID, banned bool, reason *string) error
	SetAdmin(ctx context.Context, id uuid.UUID, admin bool) error
}
