package usecase

import (
	"context"
	"errors"
	"strings"

	"skill-swap/internal/domain/skill"
	"skill-swap/internal/repository"
	"skill-swap/internal/security"

	"github.com/google/uuid"
)

const maxSkillNameLength = 100

type SkillItem struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Description *string
	IsApproved  bool
}

type SubmitSkillInput struct {
	Name        string
	Category    string
	Description *string
}

type SkillUsecase interface {
	ListSkills(ctx context.Context, category string) ([]SkillItem, error)
	ListPendingSkills(ctx context.Context) ([]SkillItem, error)
	SubmitSkill(ctx context.Context, in SubmitSkillInput) (SkillItem, error)
	ApproveSkill(ctx context.Context, id uuid.UUID) (SkillItem, error)
}

type Skill struct {
	repo repository.SkillRepository
	text security.TextSanitizer
}

func NewSkillUsecase(repo repository.SkillRepository, text security.TextSanitizer) *Skill {
	if text == nil {
		text = security.NewSanitizer()
	}
	return &Skill{repo: repo, text: text}
}

func (u *Skill) ListSkills(ctx context.Context, category string) ([]SkillItem, error) {
	items, err := u.repo.ListApproved(ctx, category)
	if err != nil {
		return nil, ErrInternal
	}
	return toSkillItems(items), nil
}

func (u *Skill) ListPendingSkills(ctx context.Context) ([]SkillItem, error) {
	items, err := u.repo.ListPending(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return toSkillItems(items), nil
}

// SubmitSkill proposes a new taxonomy entry. It stays hidden from listings
// until an admin approves it.
func (u *Skill) SubmitSkill(ctx context.Context, in SubmitSkillInput) (SkillItem, error) {
	name := u.text.Text(in.Name)
	if name == "" || security.RuneLen(name) > maxSkillNameLength {
		return SkillItem{}, ErrInvalidInput
	}
	s := skill.Skill{Name: name, Category: u.text.Text(in.Category)}
	if in.Description != nil {
		d := u.text.Text(*in.Description)
		if d != "" {
			s.Description = &d
		}
	}

	created, err := u.repo.Create(ctx, s)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNameTaken) {
			return SkillItem{}, ErrConflict
		}
		return SkillItem{}, ErrInternal
	}
	return toSkillItem(created), nil
}

func (u *Skill) ApproveSkill(ctx context.Context, id uuid.UUID) (SkillItem, error) {
	if id == uuid.Nil {
		return SkillItem{}, ErrInvalidInput
	}
	approved, err := u.repo.Approve(ctx, id)
	if err != nil {
		if errors.Is(err, skill.ErrNotFound) {
			return SkillItem{}, ErrNotFound
		}
		return SkillItem{}, ErrInternal
	}
	return toSkillItem(approved), nil
}

func toSkillItems(items []skill.Skill) []SkillItem {
	out := make([]SkillItem, 0, len(items))
	for _, it := range items {
		out = append(out, toSkillItem(it))
	}
	return out
}

func toSkillItem(s skill.Skill) SkillItem {
	return SkillItem{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Description: s.Description,
		IsApproved:  s.IsApproved,
	}
}

// normalizeSkillName is used when listings reference skills by name.
func normalizeSkillName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
