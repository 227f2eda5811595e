package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"skill-swap/internal/domain/skill"

	"github.com/google/uuid"
)

func newListingFixture() (*UserSkill, *mockSkillRepo, *mockUserSkillRepo, *fakeCache, skill.Skill) {
	goSkill := skill.Skill{ID: uuid.New(), Name: "Go", Category: "Programming", IsApproved: true}
	skills := newMockSkillRepo(goSkill)
	listings := &mockUserSkillRepo{skills: skills, listings: map[uuid.UUID]skill.UserSkill{}}
	cache := newFakeCache()
	return NewUserSkillUsecase(listings, skills, cache, nil), skills, listings, cache, goSkill
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestUserSkillUsecase_AddValidation(t *testing.T) {
	uc, _, _, _, goSkill := newListingFixture()
	userID := uuid.New()

	cases := []struct {
		name string
		in   AddUserSkillInput
		want error
	}{
		{"bad type", AddUserSkillInput{SkillID: goSkill.ID, Type: "lent", ProficiencyLevel: 3}, ErrInvalidListingType},
		{"proficiency low", AddUserSkillInput{SkillID: goSkill.ID, Type: "offered", ProficiencyLevel: 0}, ErrInvalidProficiencyLevel},
		{"proficiency high", AddUserSkillInput{SkillID: goSkill.ID, Type: "offered", ProficiencyLevel: 6}, ErrInvalidProficiencyLevel},
		{"years negative", AddUserSkillInput{SkillID: goSkill.ID, Type: "offered", ProficiencyLevel: 3, YearsExperience: intPtr(-1)}, ErrInvalidInput},
		{"years too many", AddUserSkillInput{SkillID: goSkill.ID, Type: "offered", ProficiencyLevel: 3, YearsExperience: intPtr(51)}, ErrInvalidInput},
		{"description too long", AddUserSkillInput{SkillID: goSkill.ID, Type: "offered", ProficiencyLevel: 3, Description: strPtr(strings.Repeat("x", 301))}, ErrInvalidInput},
		{"unknown skill id", AddUserSkillInput{SkillID: uuid.New(), Type: "offered", ProficiencyLevel: 3}, ErrSkillNotFound},
		{"no skill reference", AddUserSkillInput{Type: "wanted", ProficiencyLevel: 1}, ErrInvalidInput},
	}
	for _, tc := range cases {
		if _, err := uc.AddUserSkill(context.Background(), userID, tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestUserSkillUsecase_AddByIDAndDuplicate(t *testing.T) {
	uc, _, _, cache, goSkill := newListingFixture()
	userID := uuid.New()
	in := AddUserSkillInput{SkillID: goSkill.ID, Type: "Offered", ProficiencyLevel: 4, YearsExperience: intPtr(3), Description: strPtr("<b>Backend</b> services")}

	created, err := uc.AddUserSkill(context.Background(), userID, in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created.Type != skill.ListingOffered || created.SkillName != "Go" {
		t.Fatalf("unexpected listing: %+v", created)
	}
	if created.Description == nil || *created.Description != "Backend services" {
		t.Fatalf("expected sanitized description, got %v", created.Description)
	}
	if len(cache.patterns) != 1 || cache.patterns[0] != "users:browse:*" {
		t.Fatalf("expected browse invalidation, got %v", cache.patterns)
	}

	if _, err := uc.AddUserSkill(context.Background(), userID, in); !errors.Is(err, ErrSkillAlreadyExists) {
		t.Fatalf("expected ErrSkillAlreadyExists, got %v", err)
	}

	in.Type = "wanted"
	if _, err := uc.AddUserSkill(context.Background(), userID, in); err != nil {
		t.Fatalf("same skill with other type should be allowed: %v", err)
	}
}

func TestUserSkillUsecase_AddByNameCreatesUnapprovedSkill(t *testing.T) {
	uc, skills, _, _, _ := newListingFixture()
	userID := uuid.New()

	created, err := uc.AddUserSkill(context.Background(), userID, AddUserSkillInput{SkillName: "  Sourdough   Baking ", Type: "wanted", ProficiencyLevel: 1})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(skills.created) != 1 {
		t.Fatalf("expected one skill created, got %d", len(skills.created))
	}
	if skills.created[0].IsApproved {
		t.Fatalf("auto-created skill must not be approved")
	}
	if created.SkillName != "Sourdough Baking" {
		t.Fatalf("unexpected skill name %q", created.SkillName)
	}

	if _, err := uc.AddUserSkill(context.Background(), uuid.New(), AddUserSkillInput{SkillName: "sourdough baking", Type: "offered", ProficiencyLevel: 5}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(skills.created) != 1 {
		t.Fatalf("expected existing skill reused, created=%d", len(skills.created))
	}
}

func TestUserSkillUsecase_UpdateAndDeleteOwnership(t *testing.T) {
	uc, _, _, _, goSkill := newListingFixture()
	owner := uuid.New()
	other := uuid.New()

	created, err := uc.AddUserSkill(context.Background(), owner, AddUserSkillInput{SkillID: goSkill.ID, Type: "offered", ProficiencyLevel: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := uc.UpdateUserSkill(context.Background(), other, created.ID, UpdateUserSkillInput{ProficiencyLevel: 3}); !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound for non-owner update, got %v", err)
	}
	updated, err := uc.UpdateUserSkill(context.Background(), owner, created.ID, UpdateUserSkillInput{ProficiencyLevel: 5})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.ProficiencyLevel != 5 {
		t.Fatalf("expected proficiency 5, got %d", updated.ProficiencyLevel)
	}

	if err := uc.DeleteUserSkill(context.Background(), other, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := uc.DeleteUserSkill(context.Background(), owner, created.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := uc.DeleteUserSkill(context.Background(), owner, created.ID); !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound after delete, got %v", err)
	}
}

func TestUserSkillUsecase_ListFiltersByType(t *testing.T) {
	uc, _, _, _, goSkill := newListingFixture()
	userID := uuid.New()
	for _, typ := range []string{"offered", "wanted"} {
		if _, err := uc.AddUserSkill(context.Background(), userID, AddUserSkillInput{SkillID: goSkill.ID, Type: typ, ProficiencyLevel: 3}); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	all, err := uc.ListUserSkills(context.Background(), userID, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 listings, got %d err=%v", len(all), err)
	}
	wanted, err := uc.ListUserSkills(context.Background(), userID, "wanted")
	if err != nil || len(wanted) != 1 || wanted[0].Type != skill.ListingWanted {
		t.Fatalf("unexpected wanted listings: %+v err=%v", wanted, err)
	}
	if _, err := uc.ListUserSkills(context.Background(), userID, "borrowed"); !errors.Is(err, ErrInvalidListingType) {
		t.Fatalf("expected ErrInvalidListingType, got %v", err)
	}
}

func TestSkillUsecase_SubmitAndApprove(t *testing.T) {
	repo := newMockSkillRepo(skill.Skill{ID: uuid.New(), Name: "Go", Category: "Programming", IsApproved: true})
	uc := NewSkillUsecase(repo, nil)

	if _, err := uc.SubmitSkill(context.Background(), SubmitSkillInput{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := uc.SubmitSkill(context.Background(), SubmitSkillInput{Name: "go"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	submitted, err := uc.SubmitSkill(context.Background(), SubmitSkillInput{Name: "Pottery", Category: "Crafts"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if submitted.IsApproved {
		t.Fatalf("submitted skill must start unapproved")
	}

	approved, err := uc.ApproveSkill(context.Background(), submitted.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !approved.IsApproved {
		t.Fatalf("expected approved skill")
	}
	if _, err := uc.ApproveSkill(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
