package repository

import (
	"context"
	"fmt"
	"strings"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
)

const userColumns = `id, external_id, email, first_name, last_name, bio, location, image_url,
	is_public, availability_status, average_rating::float8, total_swaps_completed, xp_points,
	is_admin, is_banned, ban_reason, created_at, updated_at`

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Availability == "" {
		u.Availability = user.AvailabilityAvailable
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO users (id, external_id, email, first_name, last_name, image_url, is_public, availability_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+userColumns,
		u.ID, u.ExternalID, u.Email, u.FirstName, u.LastName, u.ImageURL, u.IsPublic, string(u.Availability),
	)
	created, err := scanUser(row)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.User{}, user.ErrExternalIDTaken
		}
		return user.User{}, err
	}
	return created, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUserOrNotFound(row)
}

func (r *PostgresUserRepository) GetByExternalID(ctx context.Context, externalID string) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE external_id = $1`, externalID)
	return scanUserOrNotFound(row)
}

func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, in user.ProfileUpdate) (user.User, error) {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 8)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if in.FirstName != nil {
		add("first_name", *in.FirstName)
	}
	if in.LastName != nil {
		add("last_name", *in.LastName)
	}
	if in.Bio != nil {
		add("bio", *in.Bio)
	}
	if in.Location != nil {
		add("location", *in.Location)
	}
	if in.ImageURL != nil {
		add("image_url", *in.ImageURL)
	}
	if in.IsPublic != nil {
		add("is_public", *in.IsPublic)
	}
	if in.Availability != nil {
		add("availability_status", string(*in.Availability))
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	row := r.db.QueryRow(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+fmt.Sprintf(` WHERE id = $%d RETURNING `, len(args))+userColumns,
		args...,
	)
	return scanUserOrNotFound(row)
}

func (r *PostgresUserRepository) SetBanned(ctx context.Context, id uuid.UUID, banned bool, reason *string) error {
	if !banned {
		reason = nil
	}
	n, err := r.db.Exec(ctx,
		`UPDATE users SET is_banned = $1, ban_reason = $2, updated_at = now() WHERE id = $3`,
		banned, reason, id,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) SetAdmin(ctx context.Context, id uuid.UUID, admin bool) error {
	n, err := r.db.Exec(ctx, `UPDATE users SET is_admin = $1, updated_at = now() WHERE id = $2`, admin, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUserOrNotFound(row database.Row) (user.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if database.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	var availability string
	err := row.Scan(
		&u.ID, &u.ExternalID, &u.Email, &u.FirstName, &u.LastName, &u.Bio, &u.Location, &u.ImageURL,
		&u.IsPublic, &availability, &u.AverageRating, &u.TotalSwapsCompleted, &u.XPPoints,
		&u.IsAdmin, &u.IsBanned, &u.BanReason, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return user.User{}, err
	}
	u.Availability = user.Availability(availability)
	return u, nil
}
