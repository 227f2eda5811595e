package repository

import (
	"context"
	"fmt"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/swap"

	"github.com/google/uuid"
)

type PostgresSwapRepository struct {
	db database.DB
}

func NewPostgresSwapRepository(db database.DB) *PostgresSwapRepository {
	return &PostgresSwapRepository{db: db}
}

const swapColumns = `id, requester_id, provider_id, requester_skill_id, provider_skill_id, status,
	message, proposed_time, duration_hours::float8, created_at, updated_at`

const swapDetailSelect = `SELECT sr.id, sr.requester_id, sr.provider_id, sr.requester_skill_id, sr.provider_skill_id,
		sr.status, sr.message, sr.proposed_time, sr.duration_hours::float8, sr.created_at, sr.updated_at,
		ru.id, ru.first_name, ru.last_name, ru.email, ru.image_url,
		pu.id, pu.first_name, pu.last_name, pu.email, pu.image_url,
		rus.id, rus.skill_id, rs.name, rs.category, rus.proficiency_level,
		pus.id, pus.skill_id, ps.name, ps.category, pus.proficiency_level
	 FROM swap_requests sr
	 JOIN users ru ON ru.id = sr.requester_id
	 JOIN users pu ON pu.id = sr.provider_id
	 JOIN user_skills rus ON rus.id = sr.requester_skill_id
	 JOIN skills rs ON rs.id = rus.skill_id
	 JOIN user_skills pus ON pus.id = sr.provider_skill_id
	 JOIN skills ps ON ps.id = pus.skill_id`

func (r *PostgresSwapRepository) Create(ctx context.Context, req swap.Request) (swap.Request, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO swap_requests
			(id, requester_id, provider_id, requester_skill_id, provider_skill_id, status,
			 message, proposed_time, duration_hours, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+swapColumns,
		req.ID, req.RequesterID, req.ProviderID, req.RequesterSkillID, req.ProviderSkillID, string(req.Status),
		req.Message, req.ProposedTime, req.DurationHours, req.CreatedAt, req.UpdatedAt,
	)
	created, err := scanSwap(row)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return swap.Request{}, fmt.Errorf("%w: an identical request is already pending", swap.ErrConflict)
		case database.IsForeignKeyViolation(err):
			return swap.Request{}, fmt.Errorf("%w: referenced user or listing vanished", swap.ErrNotFound)
		case database.IsCheckViolation(err):
			return swap.Request{}, fmt.Errorf("%w: %v", swap.ErrInvalidArgument, err)
		}
		return swap.Request{}, err
	}
	return created, nil
}

func (r *PostgresSwapRepository) FindForParticipant(ctx context.Context, id, userID uuid.UUID) (swap.Request, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+swapColumns+` FROM swap_requests
		 WHERE id = $1 AND (requester_id = $2 OR provider_id = $2)`,
		id, userID,
	)
	return scanSwapOrNotFound(row)
}

func (r *PostgresSwapRepository) FindForRequester(ctx context.Context, id, requesterID uuid.UUID) (swap.Request, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+swapColumns+` FROM swap_requests WHERE id = $1 AND requester_id = $2`,
		id, requesterID,
	)
	return scanSwapOrNotFound(row)
}

// ApplyTransition updates the row only while it is still in t.From. A
// concurrent writer that got there first leaves zero rows matched, which is
// reported as ErrConflict. Completion credits both participants in the same
// transaction.
func (r *PostgresSwapRepository) ApplyTransition(ctx context.Context, t swap.Transition) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		var requesterID, providerID uuid.UUID
		row := tx.QueryRow(ctx,
			`UPDATE swap_requests
			 SET status = $1, updated_at = $2
			 WHERE id = $3 AND status = $4 AND (requester_id = $5 OR provider_id = $5)
			 RETURNING requester_id, provider_id`,
			string(t.To), t.At, t.ID, string(t.From), t.ActorID,
		)
		if err := row.Scan(&requesterID, &providerID); err != nil {
			if database.IsNoRows(err) {
				return fmt.Errorf("%w: request is no longer %s", swap.ErrConflict, t.From)
			}
			return err
		}

		if t.To != swap.StatusCompleted {
			return nil
		}
		_, err := tx.Exec(ctx,
			`UPDATE users
			 SET total_swaps_completed = total_swaps_completed + 1,
			     xp_points = xp_points + $1,
			     updated_at = now()
			 WHERE id IN ($2, $3)`,
			t.CompletionXP, requesterID, providerID,
		)
		return err
	})
}

func (r *PostgresSwapRepository) DeletePending(ctx context.Context, id, requesterID uuid.UUID) (swap.Request, bool, error) {
	row := r.db.QueryRow(ctx,
		`DELETE FROM swap_requests
		 WHERE id = $1 AND requester_id = $2 AND status = 'pending'
		 RETURNING `+swapColumns,
		id, requesterID,
	)
	deleted, err := scanSwap(row)
	if err != nil {
		if database.IsNoRows(err) {
			return swap.Request{}, false, nil
		}
		return swap.Request{}, false, err
	}
	return deleted, true, nil
}

func (r *PostgresSwapRepository) GetDetail(ctx context.Context, id uuid.UUID) (swap.Detail, error) {
	row := r.db.QueryRow(ctx, swapDetailSelect+` WHERE sr.id = $1`, id)
	d, err := scanSwapDetail(row)
	if err != nil {
		if database.IsNoRows(err) {
			return swap.Detail{}, swap.ErrNotFound
		}
		return swap.Detail{}, err
	}
	return d, nil
}

func (r *PostgresSwapRepository) ListDetailsForUser(ctx context.Context, userID uuid.UUID) ([]swap.Detail, error) {
	rows, err := r.db.Query(ctx,
		swapDetailSelect+`
		 WHERE sr.requester_id = $1 OR sr.provider_id = $1
		 ORDER BY sr.created_at DESC, sr.id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]swap.Detail, 0)
	for rows.Next() {
		d, err := scanSwapDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFeedback stores the review and refreshes the reviewee's average
// rating atomically.
func (r *PostgresSwapRepository) CreateFeedback(ctx context.Context, f swap.Feedback) (swap.Feedback, error) {
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO swap_feedback (id, swap_request_id, reviewer_id, reviewee_id, rating, comment, is_public, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			f.ID, f.SwapRequestID, f.ReviewerID, f.RevieweeID, f.Rating, f.Comment, f.IsPublic, f.CreatedAt,
		)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("%w: feedback already submitted", swap.ErrConflict)
			}
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE users
			 SET average_rating = (SELECT COALESCE(AVG(rating), 0) FROM swap_feedback WHERE reviewee_id = $1),
			     updated_at = now()
			 WHERE id = $1`,
			f.RevieweeID,
		)
		return err
	})
	if err != nil {
		return swap.Feedback{}, err
	}
	return f, nil
}

func scanSwapOrNotFound(row database.Row) (swap.Request, error) {
	req, err := scanSwap(row)
	if err != nil {
		if database.IsNoRows(err) {
			return swap.Request{}, swap.ErrNotFound
		}
		return swap.Request{}, err
	}
	return req, nil
}

func scanSwap(row database.Row) (swap.Request, error) {
	var req swap.Request
	var status string
	err := row.Scan(
		&req.ID, &req.RequesterID, &req.ProviderID, &req.RequesterSkillID, &req.ProviderSkillID, &status,
		&req.Message, &req.ProposedTime, &req.DurationHours, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return swap.Request{}, err
	}
	req.Status = swap.Status(status)
	return req, nil
}

func scanSwapDetail(row database.Row) (swap.Detail, error) {
	var d swap.Detail
	var status string
	err := row.Scan(
		&d.ID, &d.RequesterID, &d.ProviderID, &d.RequesterSkillID, &d.ProviderSkillID,
		&status, &d.Message, &d.ProposedTime, &d.DurationHours, &d.CreatedAt, &d.UpdatedAt,
		&d.Requester.ID, &d.Requester.FirstName, &d.Requester.LastName, &d.Requester.Email, &d.Requester.ImageURL,
		&d.Provider.ID, &d.Provider.FirstName, &d.Provider.LastName, &d.Provider.Email, &d.Provider.ImageURL,
		&d.RequesterSkill.ID, &d.RequesterSkill.SkillID, &d.RequesterSkill.SkillName, &d.RequesterSkill.SkillCategory, &d.RequesterSkill.ProficiencyLevel,
		&d.ProviderSkill.ID, &d.ProviderSkill.SkillID, &d.ProviderSkill.SkillName, &d.ProviderSkill.SkillCategory, &d.ProviderSkill.ProficiencyLevel,
	)
	if err != nil {
		return swap.Detail{}, err
	}
	d.Status = swap.Status(status)
	return d, nil
}
