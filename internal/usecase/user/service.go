package user

import (
	"context"
	"errors"
	"log"
	"strings"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/security"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("user not found")
	ErrInternal     = errors.New("internal error")
)

const (
	maxBioLength      = 1000
	maxLocationLength = 100
	maxNameLength     = 100
	maxBanReason      = 500
)

type Profile struct {
	user.User
	Level int
}

type UpdateProfileInput struct {
	FirstName    *string
	LastName     *string
	Bio          *string
	Location     *string
	Availability *string
	IsPublic     *bool
}

// Service manages profiles. onChange runs after any write that can alter the
// public directory.
type Service struct {
	users    user.Repository
	text     security.TextSanitizer
	onChange func(ctx context.Context)
	log      *log.Logger
}

func NewService(users user.Repository, text security.TextSanitizer, onChange func(ctx context.Context), logger *log.Logger) *Service {
	if text == nil {
		text = security.NewSanitizer()
	}
	if onChange == nil {
		onChange = func(context.Context) {}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{users: users, text: text, onChange: onChange, log: logger}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (Profile, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, ErrInternal
	}
	return toProfile(usr), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (Profile, error) {
	var upd user.ProfileUpdate

	var err error
	if upd.FirstName, err = s.cleanField(in.FirstName, maxNameLength); err != nil {
		return Profile{}, err
	}
	if upd.LastName, err = s.cleanField(in.LastName, maxNameLength); err != nil {
		return Profile{}, err
	}
	if upd.Bio, err = s.cleanField(in.Bio, maxBioLength); err != nil {
		return Profile{}, err
	}
	if upd.Location, err = s.cleanField(in.Location, maxLocationLength); err != nil {
		return Profile{}, err
	}
	if in.Availability != nil {
		a := user.Availability(strings.ToLower(strings.TrimSpace(*in.Availability)))
		if !a.Valid() {
			return Profile{}, ErrInvalidInput
		}
		upd.Availability = &a
	}
	upd.IsPublic = in.IsPublic

	if upd.Empty() {
		return s.GetProfile(ctx, userID)
	}

	updated, err := s.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, ErrInternal
	}
	s.onChange(ctx)
	return toProfile(updated), nil
}

// SetBanned hides a user from the directory and blocks new swap requests.
// The reason is cleared on unban.
func (s *Service) SetBanned(ctx context.Context, userID uuid.UUID, banned bool, reason string) error {
	var r *string
	if banned {
		clean := s.text.Text(reason)
		if security.RuneLen(clean) > maxBanReason {
			return ErrInvalidInput
		}
		if clean != "" {
			r = &clean
		}
	}
	if err := s.users.SetBanned(ctx, userID, banned, r); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	s.log.Printf("User ban updated | user_id=%s banned=%t", userID, banned)
	s.onChange(ctx)
	return nil
}

func (s *Service) cleanField(raw *string, max int) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	v := s.text.Text(*raw)
	if security.RuneLen(v) > max {
		return nil, ErrInvalidInput
	}
	return &v, nil
}

func toProfile(u user.User) Profile {
	return Profile{User: u, Level: u.Level()}
}
