package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	ID                  uuid.UUID `json:"id"`
	Email               string    `json:"email"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	Bio                 *string   `json:"bio"`
	Location            *string   `json:"location"`
	ImageURL            *string   `json:"image_url"`
	IsPublic            bool      `json:"is_public"`
	Availability        string    `json:"availability_status"`
	AverageRating       float64   `json:"average_rating"`
	TotalSwapsCompleted int       `json:"total_swaps_completed"`
	XPPoints            int       `json:"xp_points"`
	Level               int       `json:"level"`
	IsAdmin             bool      `json:"is_admin"`
	CreatedAt           time.Time `json:"created_at"`
}

type AuthSyncResponse struct {
	User    UserProfileResponse `json:"user"`
	Created bool                `json:"created"`
}
