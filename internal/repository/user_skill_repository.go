package repository

import (
	"context"
	"errors"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/skill"

	"github.com/google/uuid"
)

var (
	ErrUserSkillNotFound  = errors.New("listing not found")
	ErrUserSkillForbidden = errors.New("forbidden")
	ErrUserSkillDuplicate = errors.New("listing already exists")
)

type UserSkillRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID, typ skill.ListingType) ([]skill.UserSkill, error)
	GetListing(ctx context.Context, id uuid.UUID) (skill.UserSkill, error)
	ExistsForUser(ctx context.Context, userID, skillID uuid.UUID, typ skill.ListingType) (bool, error)
	Create(ctx context.Context, us skill.UserSkill) (skill.UserSkill, error)
	Update(ctx context.Context, us skill.UserSkill) (skill.UserSkill, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type PostgresUserSkillRepository struct {
	db database.DB
}

func NewPostgresUserSkillRepository(db database.DB) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

const userSkillSelect = `SELECT us.id, us.user_id, us.skill_id, s.name, s.category, us.type,
		us.proficiency_level, us.years_experience, us.description, us.created_at
	 FROM user_skills us
	 JOIN skills s ON s.id = us.skill_id`

func (r *PostgresUserSkillRepository) FindByUserID(ctx context.Context, userID uuid.UUID, typ skill.ListingType) ([]skill.UserSkill, error) {
	rows, err := r.db.Query(ctx,
		userSkillSelect+`
		 WHERE us.user_id = $1 AND ($2 = '' OR us.type = $2)
		 ORDER BY us.type ASC, s.name ASC`,
		userID, string(typ),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.UserSkill, 0)
	for rows.Next() {
		us, err := scanUserSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, us)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetListing is the owner/type lookup used when validating swap requests.
func (r *PostgresUserSkillRepository) GetListing(ctx context.Context, id uuid.UUID) (skill.UserSkill, error) {
	row := r.db.QueryRow(ctx, userSkillSelect+` WHERE us.id = $1`, id)
	us, err := scanUserSkill(row)
	if err != nil {
		if database.IsNoRows(err) {
			return skill.UserSkill{}, skill.ErrListingNotFound
		}
		return skill.UserSkill{}, err
	}
	return us, nil
}

func (r *PostgresUserSkillRepository) ExistsForUser(ctx context.Context, userID, skillID uuid.UUID, typ skill.ListingType) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_skills WHERE user_id = $1 AND skill_id = $2 AND type = $3)`,
		userID, skillID, string(typ),
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserSkillRepository) Create(ctx context.Context, us skill.UserSkill) (skill.UserSkill, error) {
	if us.ID == uuid.Nil {
		us.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_skills (id, user_id, skill_id, type, proficiency_level, years_experience, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		us.ID, us.UserID, us.SkillID, string(us.Type), us.ProficiencyLevel, us.YearsExperience, us.Description,
	)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return skill.UserSkill{}, ErrUserSkillDuplicate
		case database.IsForeignKeyViolation(err):
			return skill.UserSkill{}, skill.ErrNotFound
		}
		return skill.UserSkill{}, err
	}
	return r.GetListing(ctx, us.ID)
}

func (r *PostgresUserSkillRepository) Update(ctx context.Context, us skill.UserSkill) (skill.UserSkill, error) {
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE user_skills
		 SET proficiency_level = $1, years_experience = $2, description = $3
		 WHERE id = $4 AND user_id = $5`,
		us.ProficiencyLevel, us.YearsExperience, us.Description, us.ID, us.UserID,
	)
	if err != nil {
		return skill.UserSkill{}, err
	}
	if rowsAffected == 0 {
		return skill.UserSkill{}, ErrUserSkillNotFound
	}

	updated, err := r.GetListing(ctx, us.ID)
	if err != nil {
		if errors.Is(err, skill.ErrListingNotFound) {
			return skill.UserSkill{}, ErrUserSkillNotFound
		}
		return skill.UserSkill{}, err
	}
	return updated, nil
}

// Delete removes a listing owned by userID. Listings still referenced by swap
// requests are kept and reported as forbidden.
func (r *PostgresUserSkillRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	var owner uuid.UUID
	row := r.db.QueryRow(ctx, `SELECT user_id FROM user_skills WHERE id = $1`, id)
	if err := row.Scan(&owner); err != nil {
		if database.IsNoRows(err) {
			return ErrUserSkillNotFound
		}
		return err
	}
	if owner != userID {
		return ErrUserSkillForbidden
	}

	_, err := r.db.Exec(ctx, `DELETE FROM user_skills WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrUserSkillForbidden
		}
		return err
	}
	return nil
}

func scanUserSkill(row database.Row) (skill.UserSkill, error) {
	var us skill.UserSkill
	var typ string
	var years *int16
	var prof int16
	if err := row.Scan(&us.ID, &us.UserID, &us.SkillID, &us.SkillName, &us.SkillCategory, &typ,
		&prof, &years, &us.Description, &us.CreatedAt); err != nil {
		return skill.UserSkill{}, err
	}
	us.Type = skill.ListingType(typ)
	us.ProficiencyLevel = int(prof)
	if years != nil {
		y := int(*years)
		us.YearsExperience = &y
	}
	return us, nil
}
