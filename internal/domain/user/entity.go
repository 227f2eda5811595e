package user

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityBusy      Availability = "busy"
	AvailabilityOffline   Availability = "offline"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityBusy, AvailabilityOffline:
		return true
	default:
		return false
	}
}

// User is a marketplace member. ExternalID is the subject issued by the
// identity provider and never changes once stored.
type User struct {
	ID         uuid.UUID
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
	Bio        *string
	Location   *string
	ImageURL   *string

	IsPublic     bool
	Availability Availability

	AverageRating       float64
	TotalSwapsCompleted int
	XPPoints            int

	IsAdmin   bool
	IsBanned  bool
	BanReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) Level() int {
	return Level(u.XPPoints)
}

// Level derives the user level from accumulated experience points.
func Level(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
}

type ProfileUpdate struct {
	FirstName    *string
	LastName     *string
	Bio          *string
	Location     *string
	ImageURL     *string
	IsPublic     *bool
	Availability *Availability
}

func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Bio == nil && p.Location == nil &&
		p.ImageURL == nil && p.IsPublic == nil && p.Availability == nil
}
