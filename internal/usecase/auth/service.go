package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/identity"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// Cache is the subset of the Redis cache used to memoize external id lookups.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Service maps identity provider subjects onto local users. It satisfies
// swap.UserLookup so the swap manager resolves callers through the cache.
type Service struct {
	users user.Repository
	cache Cache
	ttl   time.Duration
	log   *log.Logger
}

func NewService(users user.Repository, cache Cache, ttl time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{users: users, cache: cache, ttl: ttl, log: logger}
}

func identityCacheKey(externalID string) string {
	return "identity:" + externalID
}

// GetByExternalID returns user.ErrNotFound until the subject has been synced.
func (s *Service) GetByExternalID(ctx context.Context, externalID string) (user.User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return user.User{}, user.ErrNotFound
	}

	if s.cache != nil {
		var cached uuid.UUID
		if ok, err := s.cache.GetJSON(ctx, identityCacheKey(externalID), &cached); err == nil && ok && cached != uuid.Nil {
			u, err := s.users.GetByID(ctx, cached)
			if err == nil {
				return u, nil
			}
			if !errors.Is(err, user.ErrNotFound) {
				return user.User{}, err
			}
			_ = s.cache.Delete(ctx, identityCacheKey(externalID))
		}
	}

	u, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		return user.User{}, err
	}
	s.remember(ctx, u)
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return s.users.GetByID(ctx, id)
}

// EnsureUser returns the local user for the token subject, creating it with
// public defaults on first sign-in. Two concurrent first sign-ins converge on
// the same row.
func (s *Service) EnsureUser(ctx context.Context, claims identity.Claims) (user.User, bool, error) {
	externalID := strings.TrimSpace(claims.Subject)
	if externalID == "" {
		return user.User{}, false, ErrInvalidInput
	}

	existing, err := s.GetByExternalID(ctx, externalID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		s.log.Printf("Auth lookup failed | external_id=%s err=%v", externalID, err)
		return user.User{}, false, ErrInternal
	}

	u := user.User{
		ID:           uuid.New(),
		ExternalID:   externalID,
		Email:        strings.ToLower(strings.TrimSpace(claims.Email)),
		FirstName:    strings.TrimSpace(claims.FirstName),
		LastName:     strings.TrimSpace(claims.LastName),
		IsPublic:     true,
		Availability: user.AvailabilityAvailable,
	}
	if img := strings.TrimSpace(claims.ImageURL); img != "" {
		u.ImageURL = &img
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, user.ErrExternalIDTaken) {
			again, getErr := s.users.GetByExternalID(ctx, externalID)
			if getErr != nil {
				return user.User{}, false, ErrInternal
			}
			s.remember(ctx, again)
			return again, false, nil
		}
		s.log.Printf("Auth provisioning failed | external_id=%s err=%v", externalID, err)
		return user.User{}, false, ErrInternal
	}

	s.log.Printf("Auth user provisioned | user_id=%s external_id=%s", created.ID, externalID)
	s.remember(ctx, created)
	return created, true, nil
}

func (s *Service) remember(ctx context.Context, u user.User) {
	if s.cache == nil || u.ExternalID == "" {
		return
	}
	if err := s.cache.SetJSON(ctx, identityCacheKey(u.ExternalID), u.ID, s.ttl); err != nil {
		s.log.Printf("Auth cache set failed | external_id=%s err=%v", u.ExternalID, err)
	}
}
