// Package swap implements the swap request lifecycle: creation, status
// transitions, withdrawal, and the participant-scoped read model.
package swap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"skill-swap/internal/domain/skill"
	"skill-swap/internal/domain/swap"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/identity"
	"skill-swap/internal/security"

	"github.com/google/uuid"
)

type Options struct {
	StrictRoles  bool
	CompletionXP int
	Events       swap.Publisher
	Sanitizer    security.TextSanitizer
	Logger       *log.Logger
	Now          func() time.Time
}

type Manager struct {
	repo     swap.Repository
	users    swap.UserLookup
	listings swap.ListingLookup

	policy       swap.Policy
	completionXP int
	events       swap.Publisher
	text         security.TextSanitizer
	logger       *log.Logger
	now          func() time.Time
}

func NewManager(repo swap.Repository, users swap.UserLookup, listings swap.ListingLookup, opts Options) *Manager {
	m := &Manager{
		repo:         repo,
		users:        users,
		listings:     listings,
		policy:       swap.Policy{StrictRoles: opts.StrictRoles},
		completionXP: opts.CompletionXP,
		events:       opts.Events,
		text:         opts.Sanitizer,
		logger:       opts.Logger,
		now:          opts.Now,
	}
	if m.events == nil {
		m.events = swap.NopPublisher{}
	}
	if m.text == nil {
		m.text = security.NewSanitizer()
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.completionXP < 0 {
		m.completionXP = 0
	}
	return m
}

type CreateInput struct {
	ProviderID       uuid.UUID
	RequesterSkillID uuid.UUID
	ProviderSkillID  uuid.UUID
	Message          *string
	ProposedTime     *time.Time
	DurationHours    *float64
}

func (m *Manager) CreateSwapRequest(ctx context.Context, caller identity.Caller, in CreateInput) (swap.Detail, error) {
	me, err := m.resolve(ctx, caller)
	if err != nil {
		return swap.Detail{}, err
	}
	if me.IsBanned {
		return swap.Detail{}, fmt.Errorf("%w: account is banned", swap.ErrForbidden)
	}

	if in.ProviderID == uuid.Nil || in.RequesterSkillID == uuid.Nil || in.ProviderSkillID == uuid.Nil {
		return swap.Detail{}, fmt.Errorf("%w: provider_id, requester_skill_id and provider_skill_id are required", swap.ErrInvalidArgument)
	}
	if in.ProviderID == me.ID {
		return swap.Detail{}, fmt.Errorf("%w: cannot request a swap with yourself", swap.ErrInvalidArgument)
	}

	message, err := m.normalizeMessage(in.Message)
	if err != nil {
		return swap.Detail{}, err
	}
	duration, err := normalizeDuration(in.DurationHours)
	if err != nil {
		return swap.Detail{}, err
	}

	provider, err := m.users.GetByID(ctx, in.ProviderID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return swap.Detail{}, fmt.Errorf("%w: provider", swap.ErrNotFound)
		}
		return swap.Detail{}, fmt.Errorf("load provider: %w", err)
	}
	if !provider.IsPublic || provider.IsBanned {
		return swap.Detail{}, fmt.Errorf("%w: provider", swap.ErrNotFound)
	}

	offered, err := m.listing(ctx, in.RequesterSkillID)
	if err != nil {
		return swap.Detail{}, err
	}
	if offered.UserID != me.ID || offered.Type != skill.ListingOffered {
		return swap.Detail{}, fmt.Errorf("%w: requester_skill_id must be one of your offered skills", swap.ErrInvalidArgument)
	}

	target, err := m.listing(ctx, in.ProviderSkillID)
	if err != nil {
		return swap.Detail{}, err
	}
	if target.UserID != provider.ID {
		return swap.Detail{}, fmt.Errorf("%w: provider_skill_id does not belong to the provider", swap.ErrInvalidArgument)
	}

	now := m.now().UTC()
	created, err := m.repo.Create(ctx, swap.Request{
		ID:               uuid.New(),
		RequesterID:      me.ID,
		ProviderID:       provider.ID,
		RequesterSkillID: offered.ID,
		ProviderSkillID:  target.ID,
		Status:           swap.StatusPending,
		Message:          message,
		ProposedTime:     in.ProposedTime,
		DurationHours:    duration,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return swap.Detail{}, passBusiness(err, "create swap request")
	}

	detail, err := m.repo.GetDetail(ctx, created.ID)
	if err != nil {
		return swap.Detail{}, passBusiness(err, "load swap request")
	}

	m.publish(ctx, swap.EventCreated, created, "", me.ID)
	m.logger.Printf("Swap created | id=%s requester=%s provider=%s", created.ID, me.ID, provider.ID)
	return detail, nil
}

func (m *Manager) TransitionSwapRequest(ctx context.Context, caller identity.Caller, requestID uuid.UUID, to swap.Status) (swap.Detail, error) {
	if !caller.Authenticated() {
		return swap.Detail{}, swap.ErrUnauthenticated
	}
	if !to.Valid() {
		return swap.Detail{}, fmt.Errorf("%w: unknown status %q", swap.ErrInvalidArgument, to)
	}

	me, err := m.resolve(ctx, caller)
	if err != nil {
		return swap.Detail{}, err
	}

	current, err := m.repo.FindForParticipant(ctx, requestID, me.ID)
	if err != nil {
		return swap.Detail{}, passBusiness(err, "load swap request")
	}

	if !swap.CanTransition(current.Status, to) {
		return swap.Detail{}, fmt.Errorf("%w: %s -> %s", swap.ErrInvalidTransition, current.Status, to)
	}

	role, ok := current.RoleOf(me.ID)
	if !ok {
		return swap.Detail{}, swap.ErrNotFound
	}
	if err := m.policy.Authorize(role, current.Status, to); err != nil {
		return swap.Detail{}, err
	}

	t := swap.Transition{
		ID:      current.ID,
		ActorID: me.ID,
		From:    current.Status,
		To:      to,
		At:      m.now().UTC(),
	}
	if to == swap.StatusCompleted {
		t.CompletionXP = m.completionXP
	}
	if err := m.repo.ApplyTransition(ctx, t); err != nil {
		return swap.Detail{}, passBusiness(err, "apply transition")
	}

	detail, err := m.repo.GetDetail(ctx, current.ID)
	if err != nil {
		return swap.Detail{}, passBusiness(err, "load swap request")
	}

	updated := current
	updated.Status = to
	updated.UpdatedAt = t.At
	m.publish(ctx, swap.EventStatusChanged, updated, current.Status, me.ID)
	m.logger.Printf("Swap transition | id=%s from=%s to=%s actor=%s", current.ID, current.Status, to, me.ID)
	return detail, nil
}

// DeleteSwapRequest withdraws a pending request. Anyone other than the
// requester sees NotFound.
func (m *Manager) DeleteSwapRequest(ctx context.Context, caller identity.Caller, requestID uuid.UUID) error {
	me, err := m.resolve(ctx, caller)
	if err != nil {
		return err
	}

	deleted, ok, err := m.repo.DeletePending(ctx, requestID, me.ID)
	if err != nil {
		return passBusiness(err, "delete swap request")
	}
	if !ok {
		existing, err := m.repo.FindForRequester(ctx, requestID, me.ID)
		if err != nil {
			return passBusiness(err, "load swap request")
		}
		return fmt.Errorf("%w: only pending requests can be withdrawn (status %s)", swap.ErrInvalidTransition, existing.Status)
	}

	m.publish(ctx, swap.EventDeleted, deleted, deleted.Status, me.ID)
	m.logger.Printf("Swap deleted | id=%s requester=%s", requestID, me.ID)
	return nil
}

// ListSwapRequestsForUser returns every request the caller takes part in,
// newest first. A caller without a user record simply has none.
func (m *Manager) ListSwapRequestsForUser(ctx context.Context, caller identity.Caller) ([]swap.Detail, error) {
	me, err := m.resolve(ctx, caller)
	if err != nil {
		if errors.Is(err, swap.ErrNotFound) {
			return []swap.Detail{}, nil
		}
		return nil, err
	}

	items, err := m.repo.ListDetailsForUser(ctx, me.ID)
	if err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	if items == nil {
		items = []swap.Detail{}
	}
	return items, nil
}

func (m *Manager) GetSwapRequest(ctx context.Context, caller identity.Caller, requestID uuid.UUID) (swap.Detail, error) {
	me, err := m.resolve(ctx, caller)
	if err != nil {
		return swap.Detail{}, err
	}
	if _, err := m.repo.FindForParticipant(ctx, requestID, me.ID); err != nil {
		return swap.Detail{}, passBusiness(err, "load swap request")
	}
	detail, err := m.repo.GetDetail(ctx, requestID)
	if err != nil {
		return swap.Detail{}, passBusiness(err, "load swap request")
	}
	return detail, nil
}

type FeedbackInput struct {
	Rating   int
	Comment  *string
	IsPublic bool
}

func (m *Manager) LeaveFeedback(ctx context.Context, caller identity.Caller, requestID uuid.UUID, in FeedbackInput) (swap.Feedback, error) {
	me, err := m.resolve(ctx, caller)
	if err != nil {
		return swap.Feedback{}, err
	}
	if in.Rating < 1 || in.Rating > 5 {
		return swap.Feedback{}, fmt.Errorf("%w: rating must be between 1 and 5", swap.ErrInvalidArgument)
	}
	comment, err := m.normalizeMessage(in.Comment)
	if err != nil {
		return swap.Feedback{}, err
	}

	req, err := m.repo.FindForParticipant(ctx, requestID, me.ID)
	if err != nil {
		return swap.Feedback{}, passBusiness(err, "load swap request")
	}
	if req.Status != swap.StatusCompleted {
		return swap.Feedback{}, fmt.Errorf("%w: feedback requires a completed swap", swap.ErrInvalidTransition)
	}

	fb, err := m.repo.CreateFeedback(ctx, swap.Feedback{
		ID:            uuid.New(),
		SwapRequestID: req.ID,
		ReviewerID:    me.ID,
		RevieweeID:    req.Counterpart(me.ID),
		Rating:        in.Rating,
		Comment:       comment,
		IsPublic:      in.IsPublic,
		CreatedAt:     m.now().UTC(),
	})
	if err != nil {
		return swap.Feedback{}, passBusiness(err, "create feedback")
	}

	m.publish(ctx, swap.EventFeedback, req, "", me.ID)
	return fb, nil
}

func (m *Manager) resolve(ctx context.Context, caller identity.Caller) (user.User, error) {
	if !caller.Authenticated() {
		return user.User{}, swap.ErrUnauthenticated
	}
	u, err := m.users.GetByExternalID(ctx, caller.ExternalID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, fmt.Errorf("%w: caller has no user record", swap.ErrNotFound)
		}
		return user.User{}, fmt.Errorf("resolve caller: %w", err)
	}
	return u, nil
}

func (m *Manager) listing(ctx context.Context, id uuid.UUID) (skill.UserSkill, error) {
	l, err := m.listings.GetListing(ctx, id)
	if err != nil {
		if errors.Is(err, skill.ErrListingNotFound) {
			return skill.UserSkill{}, fmt.Errorf("%w: listing %s", swap.ErrNotFound, id)
		}
		return skill.UserSkill{}, fmt.Errorf("load listing: %w", err)
	}
	return l, nil
}

func (m *Manager) normalizeMessage(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	clean := m.text.Text(*raw)
	if security.RuneLen(clean) > swap.MaxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", swap.ErrInvalidArgument, swap.MaxMessageLength)
	}
	if clean == "" {
		return nil, nil
	}
	return &clean, nil
}

func normalizeDuration(raw *float64) (float64, error) {
	if raw == nil {
		return swap.DefaultDurationHours, nil
	}
	d := *raw
	if d < swap.MinDurationHours || d > swap.MaxDurationHours {
		return 0, fmt.Errorf("%w: duration_hours must be between %.1f and %.1f", swap.ErrInvalidArgument, swap.MinDurationHours, swap.MaxDurationHours)
	}
	return d, nil
}

func (m *Manager) publish(ctx context.Context, typ swap.EventType, r swap.Request, previous swap.Status, actor uuid.UUID) {
	m.events.Publish(ctx, swap.Event{
		Type:           typ,
		RequestID:      r.ID,
		RequesterID:    r.RequesterID,
		ProviderID:     r.ProviderID,
		Status:         r.Status,
		PreviousStatus: previous,
		ActorID:        actor,
		OccurredAt:     m.now().UTC(),
	})
}

var businessErrors = []error{
	swap.ErrUnauthenticated,
	swap.ErrNotFound,
	swap.ErrForbidden,
	swap.ErrInvalidArgument,
	swap.ErrInvalidTransition,
	swap.ErrConflict,
}

// passBusiness returns taxonomy errors untouched and wraps anything else as an
// infrastructure failure.
func passBusiness(err error, op string) error {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
