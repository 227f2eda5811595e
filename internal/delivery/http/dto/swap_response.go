package dto

import (
	"time"

	"github.com/google/uuid"
)

type SwapPartyResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	ImageURL  *string   `json:"image_url"`
}

type SwapSkillResponse struct {
	ID               uuid.UUID `json:"id"`
	SkillID          uuid.UUID `json:"skill_id"`
	SkillName        string    `json:"skill_name"`
	SkillCategory    string    `json:"skill_category"`
	ProficiencyLevel int       `json:"proficiency_level"`
}

type SwapRequestResponse struct {
	ID             uuid.UUID         `json:"id"`
	Status         string            `json:"status"`
	Message        *string           `json:"message"`
	ProposedTime   *time.Time        `json:"proposed_time"`
	DurationHours  float64           `json:"duration_hours"`
	Requester      SwapPartyResponse `json:"requester"`
	Provider       SwapPartyResponse `json:"provider"`
	RequesterSkill SwapSkillResponse `json:"requester_skill"`
	ProviderSkill  SwapSkillResponse `json:"provider_skill"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type SwapFeedbackResponse struct {
	ID            uuid.UUID `json:"id"`
	SwapRequestID uuid.UUID `json:"swap_request_id"`
	ReviewerID    uuid.UUID `json:"reviewer_id"`
	RevieweeID    uuid.UUID `json:"reviewee_id"`
	Rating        int       `json:"rating"`
	Comment       *string   `json:"comment"`
	IsPublic      bool      `json:"is_public"`
	CreatedAt     time.Time `json:"created_at"`
}
