package skill

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("skill not found")
	ErrListingNotFound = errors.New("listing not found")
)

type Skill struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Description *string
	IsApproved  bool
	CreatedAt   time.Time
}

// ListingType says whether a user offers a skill or wants to learn it.
type ListingType string

const (
	ListingOffered ListingType = "offered"
	ListingWanted  ListingType = "wanted"
)

func ParseListingType(raw string) (ListingType, bool) {
	t := ListingType(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case ListingOffered, ListingWanted:
		return t, true
	default:
		return "", false
	}
}

// UserSkill is a listing: one user's declaration about one skill.
type UserSkill struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	SkillID          uuid.UUID
	SkillName        string
	SkillCategory    string
	Type             ListingType
	ProficiencyLevel int
	YearsExperience  *int
	Description      *string
	CreatedAt        time.Time
}
