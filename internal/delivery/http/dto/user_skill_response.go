package dto

import "github.com/google/uuid"

type UserSkillResponse struct {
	ID               uuid.UUID `json:"id"`
	SkillID          uuid.UUID `json:"skill_id"`
	SkillName        string    `json:"skill_name"`
	SkillCategory    string    `json:"skill_category"`
	Type             string    `json:"type"`
	ProficiencyLevel int       `json:"proficiency_level"`
	YearsExperience  *int      `json:"years_experience"`
	Description      *string   `json:"description"`
}

type SkillResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description *string   `json:"description"`
	IsApproved  bool      `json:"is_approved"`
}
