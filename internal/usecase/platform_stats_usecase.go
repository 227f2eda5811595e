package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/domain/swap"
	"skill-swap/internal/repository"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type PlatformStatsUsecase interface {
	GetStats(ctx context.Context) (dto.PlatformStatsResponseData, error)
}

type PlatformStats struct {
	repo  repository.PlatformStatsRepository
	db    Pinger
	cache Pinger
	log   *log.Logger
	now   func() time.Time
}

func NewPlatformStatsUsecase(repo repository.PlatformStatsRepository, db Pinger, cache Pinger, logger *log.Logger) *PlatformStats {
	if logger == nil {
		logger = log.Default()
	}
	return &PlatformStats{repo: repo, db: db, cache: cache, log: logger, now: time.Now}
}

// GetStats runs every query concurrently. A failing section is logged and
// reported as zero values rather than failing the whole response.
func (u *PlatformStats) GetStats(ctx context.Context) (dto.PlatformStatsResponseData, error) {
	if u == nil || u.repo == nil {
		return dto.PlatformStatsResponseData{LastUpdated: time.Now().UTC()}, nil
	}

	var (
		users     repository.PlatformUserSummary
		byStatus  []repository.PlatformSwapStatusCount
		fbCount   int
		fbAverage float64
		popular   []repository.PlatformSkillPopularity
		dbErr     error
		cacheErr  error

		errUsers, errSwaps, errFeedback, errPopular error
	)

	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		users, errUsers = u.repo.GetUserSummary(ctx)
		if errUsers != nil {
			u.log.Printf("platform_stats step=users status=error err=%v", errUsers)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		byStatus, errSwaps = u.repo.CountSwapsByStatus(ctx)
		if errSwaps != nil {
			u.log.Printf("platform_stats step=swaps status=error err=%v", errSwaps)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		fbCount, fbAverage, errFeedback = u.repo.GetFeedbackSummary(ctx)
		if errFeedback != nil {
			u.log.Printf("platform_stats step=feedback status=error err=%v", errFeedback)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		popular, errPopular = u.repo.ListPopularSkills(ctx, 10)
		if errPopular != nil {
			u.log.Printf("platform_stats step=popular_skills status=error err=%v", errPopular)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		dbErr = ping(ctx, u.db)
		cacheErr = ping(ctx, u.cache)
	}()

	wg.Wait()

	data := dto.PlatformStatsResponseData{
		Users: dto.PlatformUserStats{
			Total:  users.Total,
			Public: users.Public,
			Banned: users.Banned,
			Admins: users.Admins,
		},
		Swaps:         dto.PlatformSwapStats{ByStatus: make(map[string]int, len(swap.AllStatuses))},
		Feedback:      dto.PlatformFeedbackStats{Total: fbCount, AverageRating: fbAverage},
		PopularSkills: make([]dto.PlatformPopularSkill, 0, len(popular)),
		Health: dto.PlatformHealthStatus{
			Database: healthLabel(dbErr),
			Cache:    healthLabel(cacheErr),
		},
		LastUpdated: u.now().UTC(),
	}

	for _, st := range swap.AllStatuses {
		data.Swaps.ByStatus[string(st)] = 0
	}
	for _, it := range byStatus {
		data.Swaps.ByStatus[it.Status] = it.Count
		data.Swaps.Total += it.Count
	}
	for _, it := range popular {
		data.PopularSkills = append(data.PopularSkills, dto.PlatformPopularSkill{
			Name:     it.Name,
			Category: it.Category,
			Offered:  it.OfferedCount,
			Wanted:   it.WantedCount,
		})
	}

	return data, nil
}

func ping(ctx context.Context, p Pinger) error {
	if p == nil {
		return errNotConfigured
	}
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.Ping(pctx)
}

func healthLabel(err error) string {
	switch {
	case err == nil:
		return "up"
	case err == errNotConfigured:
		return "disabled"
	default:
		return "down"
	}
}
