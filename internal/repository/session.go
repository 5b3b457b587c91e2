package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/infra"
)

type sessionRepo struct{}

// NewSessionRepository returns a pgx-backed SessionRepository.
func NewSessionRepository() SessionRepository {
	return &sessionRepo{}
}

func (r *sessionRepo) Create(ctx context.Context, db DBTX, s *domain.Session) error {
	err := db.QueryRow(ctx, `
		INSERT INTO sessions (trainer_id, team_id, date, start_time, end_time, hours, note, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, approved, created_at`,
		s.TrainerID, s.TeamID, s.Date, s.StartTime, s.EndTime,
		infra.Float64ToNumeric(s.Hours), s.Note, s.Location,
	).Scan(&s.ID, &s.Approved, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *sessionRepo) ListInRange(ctx context.Context, db DBTX, trainerID *uuid.UUID, from, to time.Time) ([]domain.SessionDetail, error) {
	rows, err := db.Query(ctx, `
		SELECT s.id, s.trainer_id, s.team_id, s.date, s.start_time, s.end_time, s.hours,
		       s.note, s.location, s.approved, s.created_at,
		       tm.name, tr.name, tr.rate_per_hour
		FROM sessions s
		JOIN teams tm ON tm.id = s.team_id
		JOIN trainers tr ON tr.id = s.trainer_id
		WHERE s.date >= $1 AND s.date < $2
		  AND ($3::uuid IS NULL OR s.trainer_id = $3)
		ORDER BY s.date ASC, s.created_at ASC`,
		from, to, trainerID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.SessionDetail
	for rows.Next() {
		var d domain.SessionDetail
		var hours, rate pgtype.Numeric
		err := rows.Scan(&d.ID, &d.TrainerID, &d.TeamID, &d.Date, &d.StartTime, &d.EndTime, &hours,
			&d.Note, &d.Location, &d.Approved, &d.CreatedAt,
			&d.TeamName, &d.TrainerName, &rate)
		if err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		if d.Hours, err = infra.NumericToFloat64(hours); err != nil {
			return nil, fmt.Errorf("session hours: %w", err)
		}
		if d.TrainerRate, err = infra.NumericToFloat64(rate); err != nil {
			return nil, fmt.Errorf("trainer rate: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *sessionRepo) SetApproval(ctx context.Context, db DBTX, id uuid.UUID, approved bool) (*domain.Session, error) {
	s := &domain.Session{}
	var hours pgtype.Numeric
	err := db.QueryRow(ctx, `
		UPDATE sessions SET approved = $1 WHERE id = $2
		RETURNING id, trainer_id, team_id, date, start_time, end_time, hours, note, location, approved, created_at`,
		approved, id,
	).Scan(&s.ID, &s.TrainerID, &s.TeamID, &s.Date, &s.StartTime, &s.EndTime, &hours,
		&s.Note, &s.Location, &s.Approved, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set session approval: %w", err)
	}
	if s.Hours, err = infra.NumericToFloat64(hours); err != nil {
		return nil, fmt.Errorf("session hours: %w", err)
	}
	return s, nil
}
