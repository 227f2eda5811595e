package usecase

import (
	"context"
	"errors"
	"testing"

	"skill-swap/internal/repository"
)

type mockStatsRepo struct {
	usersErr error
}

func (m mockStatsRepo) GetUserSummary(context.Context) (repository.PlatformUserSummary, error) {
	if m.usersErr != nil {
		return repository.PlatformUserSummary{}, m.usersErr
	}
	return repository.PlatformUserSummary{Total: 5, Public: 4, Banned: 1, Admins: 1}, nil
}

func (m mockStatsRepo) CountSwapsByStatus(context.Context) ([]repository.PlatformSwapStatusCount, error) {
	return []repository.PlatformSwapStatusCount{{Status: "pending", Count: 2}, {Status: "completed", Count: 3}}, nil
}

func (m mockStatsRepo) GetFeedbackSummary(context.Context) (int, float64, error) {
	return 3, 4.5, nil
}

func (m mockStatsRepo) ListPopularSkills(context.Context, int) ([]repository.PlatformSkillPopularity, error) {
	return []repository.PlatformSkillPopularity{{Name: "Go", Category: "Programming", OfferedCount: 3, WantedCount: 1}}, nil
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestPlatformStatsUsecase_GetStats(t *testing.T) {
	up := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("refused") })

	uc := NewPlatformStatsUsecase(mockStatsRepo{}, up, down, nil)
	data, err := uc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if data.Users.Total != 5 || data.Users.Banned != 1 {
		t.Fatalf("unexpected users: %+v", data.Users)
	}
	if data.Swaps.Total != 5 {
		t.Fatalf("expected 5 swaps, got %d", data.Swaps.Total)
	}
	if len(data.Swaps.ByStatus) != 5 || data.Swaps.ByStatus["rejected"] != 0 || data.Swaps.ByStatus["completed"] != 3 {
		t.Fatalf("unexpected by_status: %v", data.Swaps.ByStatus)
	}
	if data.Health.Database != "up" || data.Health.Cache != "down" {
		t.Fatalf("unexpected health: %+v", data.Health)
	}
	if len(data.PopularSkills) != 1 || data.PopularSkills[0].Offered != 3 {
		t.Fatalf("unexpected popular skills: %+v", data.PopularSkills)
	}
}

func TestPlatformStatsUsecase_PartialFailure(t *testing.T) {
	uc := NewPlatformStatsUsecase(mockStatsRepo{usersErr: errors.New("boom")}, nil, nil, nil)
	data, err := uc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("section failure must not fail the response: %v", err)
	}
	if data.Users.Total != 0 {
		t.Fatalf("expected zero users on failure")
	}
	if data.Health.Database != "disabled" || data.Health.Cache != "disabled" {
		t.Fatalf("unexpected health: %+v", data.Health)
	}
}
