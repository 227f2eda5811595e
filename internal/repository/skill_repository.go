package repository

import (
	"context"
	"errors"
	"strings"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/skill"

	"github.com/google/uuid"
)

var ErrSkillNameTaken = errors.New("skill name already exists")

type SkillRepository interface {
	ListApproved(ctx context.Context, category string) ([]skill.Skill, error)
	ListPending(ctx context.Context) ([]skill.Skill, error)
	GetByID(ctx context.Context, id uuid.UUID) (skill.Skill, error)
	FindByName(ctx context.Context, name string) (skill.Skill, error)
	Create(ctx context.Context, s skill.Skill) (skill.Skill, error)
	Approve(ctx context.Context, id uuid.UUID) (skill.Skill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

const skillColumns = `id, name, category, description, is_approved, created_at`

func (r *PostgresSkillRepository) ListApproved(ctx context.Context, category string) ([]skill.Skill, error) {
	category = strings.TrimSpace(category)
	rows, err := r.db.Query(ctx,
		`SELECT `+skillColumns+`
		 FROM skills
		 WHERE is_approved = true
		   AND ($1 = '' OR lower(category) = lower($1))
		 ORDER BY category ASC, name ASC`,
		category,
	)
	if err != nil {
		return nil, err
	}
	return collectSkills(rows)
}

func (r *PostgresSkillRepository) ListPending(ctx context.Context) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+skillColumns+` FROM skills WHERE is_approved = false ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	return collectSkills(rows)
}

func (r *PostgresSkillRepository) GetByID(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	row := r.db.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id)
	return scanSkillOrNotFound(row)
}

func (r *PostgresSkillRepository) FindByName(ctx context.Context, name string) (skill.Skill, error) {
	row := r.db.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE lower(name) = lower($1)`, strings.TrimSpace(name))
	return scanSkillOrNotFound(row)
}

func (r *PostgresSkillRepository) Create(ctx context.Context, s skill.Skill) (skill.Skill, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if strings.TrimSpace(s.Category) == "" {
		s.Category = "Other"
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO skills (id, name, category, description, is_approved)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+skillColumns,
		s.ID, s.Name, s.Category, s.Description, s.IsApproved,
	)
	created, err := scanSkill(row)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return skill.Skill{}, ErrSkillNameTaken
		}
		return skill.Skill{}, err
	}
	return created, nil
}

func (r *PostgresSkillRepository) Approve(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE skills SET is_approved = true, updated_at = now() WHERE id = $1 RETURNING `+skillColumns,
		id,
	)
	return scanSkillOrNotFound(row)
}

func collectSkills(rows database.Rows) ([]skill.Skill, error) {
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanSkillOrNotFound(row database.Row) (skill.Skill, error) {
	s, err := scanSkill(row)
	if err != nil {
		if database.IsNoRows(err) {
			return skill.Skill{}, skill.ErrNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}

func scanSkill(row database.Row) (skill.Skill, error) {
	var s skill.Skill
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.IsApproved, &s.CreatedAt); err != nil {
		return skill.Skill{}, err
	}
	return s, nil
}
