package usecase

import (
	"context"

	ucuser "skill-swap/internal/usecase/user"

	"github.com/google/uuid"
)

type UserUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (ucuser.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ucuser.UpdateProfileInput) (ucuser.Profile, error)
	Ban(ctx context.Context, userID uuid.UUID, reason string) error
	Unban(ctx context.Context, userID uuid.UUID) error
}

type User struct {
	svc *ucuser.Service
}

func NewUserUsecase(svc *ucuser.Service) *User {
	return &User{svc: svc}
}

// BrowseInvalidator adapts the browse cache to the profile service hook.
func BrowseInvalidator(cache BrowseCache) func(ctx context.Context) {
	return func(ctx context.Context) { invalidateBrowse(ctx, cache) }
}

func (u *User) GetProfile(ctx context.Context, userID uuid.UUID) (ucuser.Profile, error) {
	return u.svc.GetProfile(ctx, userID)
}

func (u *User) UpdateProfile(ctx context.Context, userID uuid.UUID, in ucuser.UpdateProfileInput) (ucuser.Profile, error) {
	return u.svc.UpdateProfile(ctx, userID, in)
}

func (u *User) Ban(ctx context.Context, userID uuid.UUID, reason string) error {
	return u.svc.SetBanned(ctx, userID, true, reason)
}

func (u *User) Unban(ctx context.Context, userID uuid.UUID) error {
	return u.svc.SetBanned(ctx, userID, false, "")
}
