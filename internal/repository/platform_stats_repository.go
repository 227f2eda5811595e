package repository

import (
	"context"

	"skill-swap/internal/database"
)

type PlatformUserSummary struct {
	Total  int
	Public int
	Banned int
	Admins int
}

type PlatformSwapStatusCount struct {
	Status string
	Count  int
}

type PlatformSkillPopularity struct {
	Name         string
	Category     string
	OfferedCount int
	WantedCount  int
}

type PlatformStatsRepository interface {
	GetUserSummary(ctx context.Context) (PlatformUserSummary, error)
	CountSwapsByStatus(ctx context.Context) ([]PlatformSwapStatusCount, error)
	GetFeedbackSummary(ctx context.Context) (count int, average float64, err error)
	ListPopularSkills(ctx context.Context, limit int) ([]PlatformSkillPopularity, error)
}

type PostgresPlatformStatsRepository struct {
	db database.DB
}

func NewPostgresPlatformStatsRepository(db database.DB) *PostgresPlatformStatsRepository {
	return &PostgresPlatformStatsRepository{db: db}
}

func (r *PostgresPlatformStatsRepository) GetUserSummary(ctx context.Context) (PlatformUserSummary, error) {
	var out PlatformUserSummary
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(1),
			COUNT(1) FILTER (WHERE is_public),
			COUNT(1) FILTER (WHERE is_banned),
			COUNT(1) FILTER (WHERE is_admin)
		 FROM users`,
	)
	if err := row.Scan(&out.Total, &out.Public, &out.Banned, &out.Admins); err != nil {
		return PlatformUserSummary{}, err
	}
	return out, nil
}

func (r *PostgresPlatformStatsRepository) CountSwapsByStatus(ctx context.Context) ([]PlatformSwapStatusCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(1)
		 FROM swap_requests
		 GROUP BY status
		 ORDER BY status`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PlatformSwapStatusCount, 0)
	for rows.Next() {
		var it PlatformSwapStatusCount
		if err := rows.Scan(&it.Status, &it.Count); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresPlatformStatsRepository) GetFeedbackSummary(ctx context.Context) (int, float64, error) {
	var count int
	var avg float64
	row := r.db.QueryRow(ctx, `SELECT COUNT(1), COALESCE(AVG(rating), 0)::float8 FROM swap_feedback`)
	if err := row.Scan(&count, &avg); err != nil {
		return 0, 0, err
	}
	return count, avg, nil
}

func (r *PostgresPlatformStatsRepository) ListPopularSkills(ctx context.Context, limit int) ([]PlatformSkillPopularity, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT s.name, s.category,
			COUNT(1) FILTER (WHERE us.type = 'offered') AS offered,
			COUNT(1) FILTER (WHERE us.type = 'wanted') AS wanted
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 GROUP BY s.id, s.name, s.category
		 ORDER BY COUNT(1) DESC, s.name ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PlatformSkillPopularity, 0)
	for rows.Next() {
		var it PlatformSkillPopularity
		if err := rows.Scan(&it.Name, &it.Category, &it.OfferedCount, &it.WantedCount); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
