package swap

import (
	"context"
	"sort"
	"sync"
	"time"

	"skill-swap/internal/domain/skill"
	"skill-swap/internal/domain/swap"
	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the relational store. Transitions are
// applied under the lock as a compare-and-set on status, like the conditional
// UPDATE in the postgres repository.
type memStore struct {
	mu sync.Mutex

	users      map[uuid.UUID]user.User
	byExternal map[string]uuid.UUID
	listings   map[uuid.UUID]skill.UserSkill
	requests   map[uuid.UUID]swap.Request
	feedback   map[[2]uuid.UUID]swap.Feedback

	err error
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[uuid.UUID]user.User{},
		byExternal: map[string]uuid.UUID{},
		listings:   map[uuid.UUID]skill.UserSkill{},
		requests:   map[uuid.UUID]swap.Request{},
		feedback:   map[[2]uuid.UUID]swap.Feedback{},
	}
}

func (s *memStore) addUser(u user.User) user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.users[u.ID] = u
	s.byExternal[u.ExternalID] = u.ID
	return u
}

func (s *memStore) addListing(owner uuid.UUID, name string, typ skill.ListingType) skill.UserSkill {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := skill.UserSkill{
		ID:               uuid.New(),
		UserID:           owner,
		SkillID:          uuid.New(),
		SkillName:        name,
		SkillCategory:    "Test",
		Type:             typ,
		ProficiencyLevel: 3,
	}
	s.listings[l.ID] = l
	return l
}

func (s *memStore) status(id uuid.UUID) (swap.Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	return r.Status, ok
}

func (s *memStore) user(id uuid.UUID) user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *memStore) GetByExternalID(_ context.Context, externalID string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return user.User{}, s.err
	}
	id, ok := s.byExternal[externalID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return s.users[id], nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (s *memStore) GetListing(_ context.Context, id uuid.UUID) (skill.UserSkill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return skill.UserSkill{}, skill.ErrListingNotFound
	}
	return l, nil
}

func (s *memStore) Create(_ context.Context, r swap.Request) (swap.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.requests {
		if existing.Status == swap.StatusPending &&
			existing.RequesterID == r.RequesterID &&
			existing.RequesterSkillID == r.RequesterSkillID &&
			existing.ProviderSkillID == r.ProviderSkillID {
			return swap.Request{}, swap.ErrConflict
		}
	}
	s.requests[r.ID] = r
	return r, nil
}

func (s *memStore) FindForParticipant(_ context.Context, id, userID uuid.UUID) (swap.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok || (r.RequesterID != userID && r.ProviderID != userID) {
		return swap.Request{}, swap.ErrNotFound
	}
	return r, nil
}

func (s *memStore) FindForRequester(_ context.Context, id, requesterID uuid.UUID) (swap.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok || r.RequesterID != requesterID {
		return swap.Request{}, swap.ErrNotFound
	}
	return r, nil
}

func (s *memStore) ApplyTransition(_ context.Context, t swap.Transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[t.ID]
	if !ok || r.Status != t.From || (r.RequesterID != t.ActorID && r.ProviderID != t.ActorID) {
		return swap.ErrConflict
	}
	r.Status = t.To
	r.UpdatedAt = t.At
	s.requests[t.ID] = r

	if t.To == swap.StatusCompleted {
		for _, id := range []uuid.UUID{r.RequesterID, r.ProviderID} {
			u := s.users[id]
			u.TotalSwapsCompleted++
			u.XPPoints += t.CompletionXP
			s.users[id] = u
		}
	}
	return nil
}

func (s *memStore) DeletePending(_ context.Context, id, requesterID uuid.UUID) (swap.Request, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok || r.RequesterID != requesterID || r.Status != swap.StatusPending {
		return swap.Request{}, false, nil
	}
	delete(s.requests, id)
	return r, true, nil
}

func (s *memStore) GetDetail(_ context.Context, id uuid.UUID) (swap.Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return swap.Detail{}, swap.ErrNotFound
	}
	return s.detailLocked(r), nil
}

func (s *memStore) ListDetailsForUser(_ context.Context, userID uuid.UUID) ([]swap.Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]swap.Detail, 0)
	for _, r := range s.requests {
		if r.RequesterID == userID || r.ProviderID == userID {
			out = append(out, s.detailLocked(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) CreateFeedback(_ context.Context, f swap.Feedback) (swap.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]uuid.UUID{f.SwapRequestID, f.ReviewerID}
	if _, dup := s.feedback[key]; dup {
		return swap.Feedback{}, swap.ErrConflict
	}
	s.feedback[key] = f

	total, n := 0, 0
	for _, fb := range s.feedback {
		if fb.RevieweeID == f.RevieweeID {
			total += fb.Rating
			n++
		}
	}
	u := s.users[f.RevieweeID]
	u.AverageRating = float64(total) / float64(n)
	s.users[f.RevieweeID] = u
	return f, nil
}

func (s *memStore) detailLocked(r swap.Request) swap.Detail {
	party := func(id uuid.UUID) swap.Party {
		u := s.users[id]
		return swap.Party{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
	}
	ref := func(id uuid.UUID) swap.ListingRef {
		l := s.listings[id]
		return swap.ListingRef{ID: l.ID, SkillID: l.SkillID, SkillName: l.SkillName, SkillCategory: l.SkillCategory, ProficiencyLevel: l.ProficiencyLevel}
	}
	return swap.Detail{
		Request:        r,
		Requester:      party(r.RequesterID),
		Provider:       party(r.ProviderID),
		RequesterSkill: ref(r.RequesterSkillID),
		ProviderSkill:  ref(r.ProviderSkillID),
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []swap.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt swap.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) types() []swap.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]swap.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// stepClock advances one second per reading so consecutive writes always
// carry distinct timestamps.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}
