package swap

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxMessageLength     = 500
	MinDurationHours     = 0.5
	MaxDurationHours     = 8.0
	DefaultDurationHours = 1.0
)

// Request is the persisted swap request row.
type Request struct {
	ID               uuid.UUID
	RequesterID      uuid.UUID
	ProviderID       uuid.UUID
	RequesterSkillID uuid.UUID
	ProviderSkillID  uuid.UUID
	Status           Status
	Message          *string
	ProposedTime     *time.Time
	DurationHours    float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RoleOf returns the caller's role, or false when userID is not a participant.
func (r Request) RoleOf(userID uuid.UUID) (Role, bool) {
	switch userID {
	case r.RequesterID:
		return RoleRequester, true
	case r.ProviderID:
		return RoleProvider, true
	default:
		return "", false
	}
}

func (r Request) Counterpart(userID uuid.UUID) uuid.UUID {
	if userID == r.RequesterID {
		return r.ProviderID
	}
	return r.RequesterID
}

type Party struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	ImageURL  *string
}

type ListingRef struct {
	ID               uuid.UUID
	SkillID          uuid.UUID
	SkillName        string
	SkillCategory    string
	ProficiencyLevel int
}

// Detail is the joined projection returned to clients.
type Detail struct {
	Request

	Requester      Party
	Provider       Party
	RequesterSkill ListingRef
	ProviderSkill  ListingRef
}

// Transition is a conditional status change. It applies only while the row is
// still in From and ActorID is a participant.
type Transition struct {
	ID           uuid.UUID
	ActorID      uuid.UUID
	From         Status
	To           Status
	At           time.Time
	CompletionXP int
}

type Feedback struct {
	ID            uuid.UUID
	SwapRequestID uuid.UUID
	ReviewerID    uuid.UUID
	RevieweeID    uuid.UUID
	Rating        int
	Comment       *string
	IsPublic      bool
	CreatedAt     time.Time
}
