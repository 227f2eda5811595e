package swap

import (
	"context"

	"skill-swap/internal/domain/skill"
	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
)

// Repository persists swap requests. Implementations return ErrNotFound for
// missing or non-visible rows and ErrConflict when a conditional write or a
// uniqueness constraint rejects the change.
type Repository interface {
	Create(ctx context.Context, r Request) (Request, error)
	FindForParticipant(ctx context.Context, id, userID uuid.UUID) (Request, error)
	ApplyTransition(ctx context.Context, t Transition) error
	DeletePending(ctx context.Context, id, requesterID uuid.UUID) (Request, bool, error)
	FindForRequester(ctx context.Context, id, requesterID uuid.UUID) (Request, error)
	GetDetail(ctx context.Context, id uuid.UUID) (Detail, error)
	ListDetailsForUser(ctx context.Context, userID uuid.UUID) ([]Detail, error)
	CreateFeedback(ctx context.Context, f Feedback) (Feedback, error)
}

type UserLookup interface {
	GetByExternalID(ctx context.Context, externalID string) (user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

type ListingLookup interface {
	GetListing(ctx context.Context, id uuid.UUID) (skill.UserSkill, error)
}
