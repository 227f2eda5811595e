package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"skill-swap/internal/domain/skill"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

type fakeCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	patterns []string
	locked   map[string]bool
	setCalls int
	getErr   error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}, locked: map[string]bool{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	c.setCalls++
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	delete(c.locked, key)
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *fakeCache) SetIfNotExists(_ context.Context, key string, _ string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locked[key] {
		return false, nil
	}
	c.locked[key] = true
	return true, nil
}

type mockUserQueryRepo struct {
	items []repository.BrowseUser
	total int
	err   error
	calls int
	last  repository.BrowseFilter
}

func (m *mockUserQueryRepo) BrowsePublic(_ context.Context, f repository.BrowseFilter) ([]repository.BrowseUser, int, error) {
	m.calls++
	m.last = f
	return m.items, m.total, m.err
}

type mockSkillRepo struct {
	byID    map[uuid.UUID]skill.Skill
	created []skill.Skill
	err     error
}

func newMockSkillRepo(skills ...skill.Skill) *mockSkillRepo {
	m := &mockSkillRepo{byID: map[uuid.UUID]skill.Skill{}}
	for _, s := range skills {
		m.byID[s.ID] = s
	}
	return m
}

func (m *mockSkillRepo) ListApproved(context.Context, string) ([]skill.Skill, error) {
	out := make([]skill.Skill, 0)
	for _, s := range m.byID {
		if s.IsApproved {
			out = append(out, s)
		}
	}
	return out, m.err
}

func (m *mockSkillRepo) ListPending(context.Context) ([]skill.Skill, error) { return nil, m.err }

func (m *mockSkillRepo) GetByID(_ context.Context, id uuid.UUID) (skill.Skill, error) {
	if m.err != nil {
		return skill.Skill{}, m.err
	}
	s, ok := m.byID[id]
	if !ok {
		return skill.Skill{}, skill.ErrNotFound
	}
	return s, nil
}

func (m *mockSkillRepo) FindByName(_ context.Context, name string) (skill.Skill, error) {
	if m.err != nil {
		return skill.Skill{}, m.err
	}
	for _, s := range m.byID {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return skill.Skill{}, skill.ErrNotFound
}

func (m *mockSkillRepo) Create(_ context.Context, s skill.Skill) (skill.Skill, error) {
	if m.err != nil {
		return skill.Skill{}, m.err
	}
	for _, existing := range m.byID {
		if strings.EqualFold(existing.Name, s.Name) {
			return skill.Skill{}, repository.ErrSkillNameTaken
		}
	}
	s.ID = uuid.New()
	if s.Category == "" {
		s.Category = "Other"
	}
	m.byID[s.ID] = s
	m.created = append(m.created, s)
	return s, nil
}

func (m *mockSkillRepo) Approve(_ context.Context, id uuid.UUID) (skill.Skill, error) {
	s, ok := m.byID[id]
	if !ok {
		return skill.Skill{}, skill.ErrNotFound
	}
	s.IsApproved = true
	m.byID[id] = s
	return s, nil
}

type mockUserSkillRepo struct {
	skills   *mockSkillRepo
	listings map[uuid.UUID]skill.UserSkill
}

func (m *mockUserSkillRepo) FindByUserID(_ context.Context, userID uuid.UUID, typ skill.ListingType) ([]skill.UserSkill, error) {
	out := make([]skill.UserSkill, 0)
	for _, l := range m.listings {
		if l.UserID == userID && (typ == "" || l.Type == typ) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockUserSkillRepo) GetListing(_ context.Context, id uuid.UUID) (skill.UserSkill, error) {
	l, ok := m.listings[id]
	if !ok {
		return skill.UserSkill{}, skill.ErrListingNotFound
	}
	return l, nil
}

func (m *mockUserSkillRepo) ExistsForUser(_ context.Context, userID, skillID uuid.UUID, typ skill.ListingType) (bool, error) {
	for _, l := range m.listings {
		if l.UserID == userID && l.SkillID == skillID && l.Type == typ {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserSkillRepo) Create(ctx context.Context, us skill.UserSkill) (skill.UserSkill, error) {
	if ok, _ := m.ExistsForUser(ctx, us.UserID, us.SkillID, us.Type); ok {
		return skill.UserSkill{}, repository.ErrUserSkillDuplicate
	}
	s, ok := m.skills.byID[us.SkillID]
	if !ok {
		return skill.UserSkill{}, skill.ErrNotFound
	}
	us.SkillName = s.Name
	us.SkillCategory = s.Category
	m.listings[us.ID] = us
	return us, nil
}

func (m *mockUserSkillRepo) Update(_ context.Context, us skill.UserSkill) (skill.UserSkill, error) {
	l, ok := m.listings[us.ID]
	if !ok || l.UserID != us.UserID {
		return skill.UserSkill{}, repository.ErrUserSkillNotFound
	}
	l.ProficiencyLevel = us.ProficiencyLevel
	l.YearsExperience = us.YearsExperience
	l.Description = us.Description
	m.listings[us.ID] = l
	return l, nil
}

func (m *mockUserSkillRepo) Delete(_ context.Context, id uuid.UUID, userID uuid.UUID) error {
	l, ok := m.listings[id]
	if !ok {
		return repository.ErrUserSkillNotFound
	}
	if l.UserID != userID {
		return repository.ErrUserSkillForbidden
	}
	delete(m.listings, id)
	return nil
}

type mockUserRepo struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]user.User
	admins map[uuid.UUID]bool
	err    error
}

func newMockUserRepo(users ...user.User) *mockUserRepo {
	m := &mockUserRepo{byID: map[uuid.UUID]user.User{}, admins: map[uuid.UUID]bool{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.ExternalID == u.ExternalID {
			return user.User{}, user.ErrExternalIDTaken
		}
	}
	m.byID[u.ID] = u
	return u, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return user.User{}, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByExternalID(_ context.Context, externalID string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return user.User{}, m.err
	}
	for _, u := range m.byID {
		if u.ExternalID == externalID {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, in user.ProfileUpdate) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if in.Bio != nil {
		u.Bio = in.Bio
	}
	if in.Availability != nil {
		u.Availability = *in.Availability
	}
	if in.IsPublic != nil {
		u.IsPublic = *in.IsPublic
	}
	m.byID[id] = u
	return u, nil
}

func (m *mockUserRepo) SetBanned(_ context.Context, id uuid.UUID, banned bool, reason *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	u.IsBanned = banned
	u.BanReason = reason
	m.byID[id] = u
	return nil
}

func (m *mockUserRepo) SetAdmin(_ context.Context, id uuid.UUID, admin bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	u.IsAdmin = admin
	m.byID[id] = u
	m.admins[id] = admin
	return nil
}
