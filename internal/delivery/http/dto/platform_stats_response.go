package dto

import "time"

type PlatformStatsResponseData struct {
	Users         PlatformUserStats      `json:"users"`
	Swaps         PlatformSwapStats      `json:"swaps"`
	Feedback      PlatformFeedbackStats  `json:"feedback"`
	PopularSkills []PlatformPopularSkill `json:"popular_skills"`
	Health        PlatformHealthStatus   `json:"health"`
	LastUpdated   time.Time              `json:"last_updated"`
}

type PlatformUserStats struct {
	Total  int `json:"total"`
	Public int `json:"public"`
	Banned int `json:"banned"`
	Admins int `json:"admins"`
}

type PlatformSwapStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

type PlatformFeedbackStats struct {
	Total         int     `json:"total"`
	AverageRating float64 `json:"average_rating"`
}

type PlatformPopularSkill struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Offered  int    `json:"offered"`
	Wanted   int    `json:"wanted"`
}

type PlatformHealthStatus struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}
