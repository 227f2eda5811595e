package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

type BrowseParams struct {
	Skill        string
	Availability string
	Page         int
	Limit        int
}

type BrowseItem struct {
	UserID              uuid.UUID `json:"user_id"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	Bio                 *string   `json:"bio,omitempty"`
	Location            *string   `json:"location,omitempty"`
	ImageURL            *string   `json:"image_url,omitempty"`
	Availability        string    `json:"availability"`
	AverageRating       float64   `json:"average_rating"`
	TotalSwapsCompleted int       `json:"total_swaps_completed"`
	Level               int       `json:"level"`
	SkillsOffered       []string  `json:"skills_offered"`
	SkillsWanted        []string  `json:"skills_wanted"`
}

type BrowsePage struct {
	Items []BrowseItem `json:"items"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

type BrowseUsecase interface {
	Browse(ctx context.Context, params BrowseParams) (BrowsePage, error)
}

type Browse struct {
	repo   repository.UserQueryRepository
	cache  BrowseCache
	ttl    time.Duration
	logger *log.Logger
}

func NewBrowseUsecase(repo repository.UserQueryRepository, cache BrowseCache, ttl time.Duration, logger *log.Logger) *Browse {
	if logger == nil {
		logger = log.Default()
	}
	return &Browse{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func (u *Browse) Browse(ctx context.Context, params BrowseParams) (BrowsePage, error) {
	if params.Page == 0 {
		params.Page = 1
	}
	if params.Limit == 0 {
		params.Limit = 20
	}
	if params.Page < 0 || params.Limit < 0 || params.Limit > 50 {
		return BrowsePage{}, ErrInvalidInput
	}
	params.Skill = strings.TrimSpace(params.Skill)
	params.Availability = strings.ToLower(strings.TrimSpace(params.Availability))
	if params.Availability != "" && !user.Availability(params.Availability).Valid() {
		return BrowsePage{}, ErrInvalidInput
	}

	cacheKey := BrowseCacheKey(params)
	lockKey := BrowseLockKey(cacheKey)

	if u.cache != nil {
		var cached BrowsePage
		hit, err := u.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && hit {
			u.logger.Printf("[Browse] Cache HIT: %s", cacheKey)
			return cached, nil
		}
		u.logger.Printf("[Browse] Cache MISS: %s", cacheKey)
	}

	lockAcquired := false
	if u.cache != nil {
		ok, err := u.cache.SetIfNotExists(ctx, lockKey, "1", 30*time.Second)
		if err == nil && ok {
			lockAcquired = true
		} else if err == nil && !ok {
			jitterMs := time.Duration(time.Now().UnixNano()%201) * time.Millisecond
			select {
			case <-ctx.Done():
				return BrowsePage{}, ctx.Err()
			case <-time.After(300*time.Millisecond + jitterMs):
			}
			var cached BrowsePage
			if hit, err2 := u.cache.GetJSON(ctx, cacheKey, &cached); err2 == nil && hit {
				u.logger.Printf("[Browse] Cache HIT: %s", cacheKey)
				return cached, nil
			}
			u.logger.Printf("[Browse] Lock wait fallback: %s", lockKey)
		}
	}

	rows, total, err := u.repo.BrowsePublic(ctx, repository.BrowseFilter{
		Skill:        params.Skill,
		Availability: params.Availability,
		Limit:        params.Limit,
		Offset:       (params.Page - 1) * params.Limit,
	})
	if err != nil {
		u.logger.Printf("[Browse] Query failed: %v", err)
		return BrowsePage{}, ErrInternal
	}

	out := BrowsePage{Items: make([]BrowseItem, 0, len(rows)), Total: total, Page: params.Page, Limit: params.Limit}
	for _, r := range rows {
		out.Items = append(out.Items, BrowseItem{
			UserID:              r.ID,
			FirstName:           r.FirstName,
			LastName:            r.LastName,
			Bio:                 r.Bio,
			Location:            r.Location,
			ImageURL:            r.ImageURL,
			Availability:        r.Availability,
			AverageRating:       r.AverageRating,
			TotalSwapsCompleted: r.TotalSwapsCompleted,
			Level:               user.Level(r.XPPoints),
			SkillsOffered:       r.SkillsOffered,
			SkillsWanted:        r.SkillsWanted,
		})
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, cacheKey, out, u.ttl)
		u.logger.Printf("[Browse] Cache SET: %s", cacheKey)
		if lockAcquired {
			_ = u.cache.Delete(ctx, lockKey)
		}
	}
	return out, nil
}
