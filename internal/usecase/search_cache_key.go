package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

type browseCacheKeyInput struct {
	Skill        string `json:"skill"`
	Availability string `json:"availability"`
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

func BrowseCacheKey(params BrowseParams) string {
	in := browseCacheKeyInput{
		Skill:        normalizeSearchValue(params.Skill),
		Availability: normalizeSearchValue(params.Availability),
		Page:         params.Page,
		Limit:        params.Limit,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "users:browse:" + hex.EncodeToString(sum[:])
}

func BrowseLockKey(browseKey string) string {
	browseKey = strings.TrimSpace(browseKey)
	if strings.HasPrefix(browseKey, "users:browse:") {
		return "users:lock:" + strings.TrimPrefix(browseKey, "users:browse:")
	}
	return "users:lock:" + browseKey
}
