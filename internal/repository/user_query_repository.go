package repository

import (
	"context"
	"fmt"
	"strings"

	"skill-swap/internal/database"

	"github.com/google/uuid"
)

type BrowseFilter struct {
	Skill        string
	Availability string
	Limit        int
	Offset       int
}

type BrowseUser struct {
	ID                  uuid.UUID
	FirstName           string
	LastName            string
	Bio                 *string
	Location            *string
	ImageURL            *string
	Availability        string
	AverageRating       float64
	TotalSwapsCompleted int
	XPPoints            int
	SkillsOffered       []string
	SkillsWanted        []string
}

type UserQueryRepository interface {
	BrowsePublic(ctx context.Context, f BrowseFilter) ([]BrowseUser, int, error)
}

type PostgresUserQueryRepository struct {
	db database.DB
}

func NewPostgresUserQueryRepository(db database.DB) *PostgresUserQueryRepository {
	return &PostgresUserQueryRepository{db: db}
}

// BrowsePublic lists public, non-banned users newest first together with
// the names of the skills they offer and want. The total ignores paging.
func (r *PostgresUserQueryRepository) BrowsePublic(ctx context.Context, f BrowseFilter) ([]BrowseUser, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 50 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := []string{"u.is_public = true", "u.is_banned = false"}
	args := make([]any, 0, 4)
	if v := strings.TrimSpace(f.Availability); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("u.availability_status = $%d", len(args)))
	}
	if v := strings.TrimSpace(f.Skill); v != "" {
		args = append(args, "%"+strings.ToLower(v)+"%")
		where = append(where, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM user_skills fus
			JOIN skills fs ON fs.id = fus.skill_id
			WHERE fus.user_id = u.id AND lower(fs.name) LIKE $%d)`, len(args)))
	}
	whereSQL := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM users u WHERE `+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageArgs := append(append([]any{}, args...), f.Limit, f.Offset)
	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`SELECT u.id, u.first_name, u.last_name, u.bio, u.location, u.image_url,
			u.availability_status, u.average_rating::float8, u.total_swaps_completed, u.xp_points,
			COALESCE(array_agg(DISTINCT s.name) FILTER (WHERE us.type = 'offered'), '{}'),
			COALESCE(array_agg(DISTINCT s.name) FILTER (WHERE us.type = 'wanted'), '{}')
		 FROM users u
		 LEFT JOIN user_skills us ON us.user_id = u.id
		 LEFT JOIN skills s ON s.id = us.skill_id
		 WHERE %s
		 GROUP BY u.id
		 ORDER BY u.created_at DESC, u.id
		 LIMIT $%d OFFSET $%d`, whereSQL, len(args)+1, len(args)+2),
		pageArgs...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]BrowseUser, 0)
	for rows.Next() {
		var it BrowseUser
		if err := rows.Scan(
			&it.ID, &it.FirstName, &it.LastName, &it.Bio, &it.Location, &it.ImageURL,
			&it.Availability, &it.AverageRating, &it.TotalSwapsCompleted, &it.XPPoints,
			&it.SkillsOffered, &it.SkillsWanted,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
