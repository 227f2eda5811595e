package usecase

import (
	"context"
	"errors"

	"skill-swap/internal/domain/skill"
	"skill-swap/internal/repository"
	"skill-swap/internal/security"

	"github.com/google/uuid"
)

var (
	ErrSkillAlreadyExists      = errors.New("skill already exists")
	ErrSkillNotFound           = errors.New("skill not found")
	ErrInvalidProficiencyLevel = errors.New("invalid proficiency level")
	ErrInvalidListingType      = errors.New("invalid listing type")
)

const (
	maxListingDescriptionLength = 300
	maxYearsExperience          = 50
)

// AddUserSkillInput references the skill either by id or by name. Unknown
// names are added to the taxonomy as unapproved skills.
type AddUserSkillInput struct {
	SkillID          uuid.UUID
	SkillName        string
	Type             string
	ProficiencyLevel int
	YearsExperience  *int
	Description      *string
}

type UpdateUserSkillInput struct {
	ProficiencyLevel int
	YearsExperience  *int
	Description      *string
}

type UserSkillItem struct {
	ID               uuid.UUID
	SkillID          uuid.UUID
	SkillName        string
	SkillCategory    string
	Type             skill.ListingType
	ProficiencyLevel int
	YearsExperience  *int
	Description      *string
}

type UserSkillUsecase interface {
	ListUserSkills(ctx context.Context, userID uuid.UUID, typ string) ([]UserSkillItem, error)
	AddUserSkill(ctx context.Context, userID uuid.UUID, in AddUserSkillInput) (UserSkillItem, error)
	UpdateUserSkill(ctx context.Context, userID uuid.UUID, listingID uuid.UUID, in UpdateUserSkillInput) (UserSkillItem, error)
	DeleteUserSkill(ctx context.Context, userID uuid.UUID, listingID uuid.UUID) error
}

type UserSkill struct {
	repo   repository.UserSkillRepository
	skills repository.SkillRepository
	cache  BrowseCache
	text   security.TextSanitizer
}

func NewUserSkillUsecase(repo repository.UserSkillRepository, skills repository.SkillRepository, cache BrowseCache, text security.TextSanitizer) *UserSkill {
	if text == nil {
		text = security.NewSanitizer()
	}
	return &UserSkill{repo: repo, skills: skills, cache: cache, text: text}
}

func (u *UserSkill) ListUserSkills(ctx context.Context, userID uuid.UUID, typ string) ([]UserSkillItem, error) {
	var filter skill.ListingType
	if typ != "" {
		t, ok := skill.ParseListingType(typ)
		if !ok {
			return nil, ErrInvalidListingType
		}
		filter = t
	}

	items, err := u.repo.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, ErrInternal
	}
	out := make([]UserSkillItem, 0, len(items))
	for _, it := range items {
		out = append(out, toUserSkillItem(it))
	}
	return out, nil
}

func (u *UserSkill) AddUserSkill(ctx context.Context, userID uuid.UUID, in AddUserSkillInput) (UserSkillItem, error) {
	typ, ok := skill.ParseListingType(in.Type)
	if !ok {
		return UserSkillItem{}, ErrInvalidListingType
	}
	if !isValidProficiency(in.ProficiencyLevel) {
		return UserSkillItem{}, ErrInvalidProficiencyLevel
	}
	if !isValidYears(in.YearsExperience) {
		return UserSkillItem{}, ErrInvalidInput
	}
	desc, err := u.cleanDescription(in.Description)
	if err != nil {
		return UserSkillItem{}, err
	}

	sk, err := u.resolveSkill(ctx, in.SkillID, in.SkillName)
	if err != nil {
		return UserSkillItem{}, err
	}

	created, err := u.repo.Create(ctx, skill.UserSkill{
		ID:               uuid.New(),
		UserID:           userID,
		SkillID:          sk.ID,
		Type:             typ,
		ProficiencyLevel: in.ProficiencyLevel,
		YearsExperience:  in.YearsExperience,
		Description:      desc,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserSkillDuplicate):
			return UserSkillItem{}, ErrSkillAlreadyExists
		case errors.Is(err, skill.ErrNotFound):
			return UserSkillItem{}, ErrSkillNotFound
		}
		return UserSkillItem{}, ErrInternal
	}

	invalidateBrowse(ctx, u.cache)
	return toUserSkillItem(created), nil
}

func (u *UserSkill) UpdateUserSkill(ctx context.Context, userID uuid.UUID, listingID uuid.UUID, in UpdateUserSkillInput) (UserSkillItem, error) {
	if listingID == uuid.Nil {
		return UserSkillItem{}, ErrInvalidInput
	}
	if !isValidProficiency(in.ProficiencyLevel) {
		return UserSkillItem{}, ErrInvalidProficiencyLevel
	}
	if !isValidYears(in.YearsExperience) {
		return UserSkillItem{}, ErrInvalidInput
	}
	desc, err := u.cleanDescription(in.Description)
	if err != nil {
		return UserSkillItem{}, err
	}

	updated, err := u.repo.Update(ctx, skill.UserSkill{
		ID:               listingID,
		UserID:           userID,
		ProficiencyLevel: in.ProficiencyLevel,
		YearsExperience:  in.YearsExperience,
		Description:      desc,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserSkillNotFound) {
			return UserSkillItem{}, ErrSkillNotFound
		}
		return UserSkillItem{}, ErrInternal
	}

	invalidateBrowse(ctx, u.cache)
	return toUserSkillItem(updated), nil
}

func (u *UserSkill) DeleteUserSkill(ctx context.Context, userID uuid.UUID, listingID uuid.UUID) error {
	if listingID == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.repo.Delete(ctx, listingID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserSkillNotFound):
			return ErrSkillNotFound
		case errors.Is(err, repository.ErrUserSkillForbidden):
			return ErrForbidden
		default:
			return ErrInternal
		}
	}
	invalidateBrowse(ctx, u.cache)
	return nil
}

func (u *UserSkill) resolveSkill(ctx context.Context, id uuid.UUID, name string) (skill.Skill, error) {
	if id != uuid.Nil {
		s, err := u.skills.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, skill.ErrNotFound) {
				return skill.Skill{}, ErrSkillNotFound
			}
			return skill.Skill{}, ErrInternal
		}
		return s, nil
	}

	name = normalizeSkillName(u.text.Text(name))
	if name == "" || security.RuneLen(name) > maxSkillNameLength {
		return skill.Skill{}, ErrInvalidInput
	}
	s, err := u.skills.FindByName(ctx, name)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, skill.ErrNotFound) {
		return skill.Skill{}, ErrInternal
	}

	created, err := u.skills.Create(ctx, skill.Skill{Name: name})
	if err == nil {
		return created, nil
	}
	if errors.Is(err, repository.ErrSkillNameTaken) {
		if s, err := u.skills.FindByName(ctx, name); err == nil {
			return s, nil
		}
	}
	return skill.Skill{}, ErrInternal
}

func (u *UserSkill) cleanDescription(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	d := u.text.Text(*raw)
	if d == "" {
		return nil, nil
	}
	if security.RuneLen(d) > maxListingDescriptionLength {
		return nil, ErrInvalidInput
	}
	return &d, nil
}

func toUserSkillItem(it skill.UserSkill) UserSkillItem {
	return UserSkillItem{
		ID:               it.ID,
		SkillID:          it.SkillID,
		SkillName:        it.SkillName,
		SkillCategory:    it.SkillCategory,
		Type:             it.Type,
		ProficiencyLevel: it.ProficiencyLevel,
		YearsExperience:  it.YearsExperience,
		Description:      it.Description,
	}
}

func isValidProficiency(v int) bool {
	return v >= 1 && v <= 5
}

func isValidYears(v *int) bool {
	return v == nil || (*v >= 0 && *v <= maxYearsExperience)
}
