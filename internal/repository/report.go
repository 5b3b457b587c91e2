package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
)

type reportRepo struct{}

// NewReportRepository returns a pgx-backed ReportRepository.
func NewReportRepository() ReportRepository {
	return &reportRepo{}
}

func (r *reportRepo) FindByTrainerMonth(ctx context.Context, db DBTX, trainerID uuid.UUID, month string) (*domain.MonthlyReport, error) {
	rep := &domain.MonthlyReport{}
	err := db.QueryRow(ctx, `
		SELECT id, trainer_id, month, data, created_at, updated_at
		FROM monthly_reports WHERE trainer_id = $1 AND month = $2`,
		trainerID, month,
	).Scan(&rep.ID, &rep.TrainerID, &rep.Month, &rep.Data, &rep.CreatedAt, &rep.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find report: %w", err)
	}
	return rep, nil
}

// Upsert relies on UNIQUE (trainer_id, month). An insert leaves
// created_at == updated_at; an overwrite bumps updated_at.
func (r *reportRepo) Upsert(ctx context.Context, db DBTX, trainerID uuid.UUID, month string, data []byte) (*domain.MonthlyReport, error) {
	rep := &domain.MonthlyReport{}
	err := db.QueryRow(ctx, `
		INSERT INTO monthly_reports (trainer_id, month, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (trainer_id, month) DO UPDATE
		  SET data = EXCLUDED.data, updated_at = now()
		RETURNING id, trainer_id, month, data, created_at, updated_at`,
		trainerID, month, data,
	).Scan(&rep.ID, &rep.TrainerID, &rep.Month, &rep.Data, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert report: %w", err)
	}
	return rep, nil
}

func (r *reportRepo) ListRecent(ctx context.Context, db DBTX, trainerID uuid.UUID, limit int) ([]domain.ReportSummary, error) {
	rows, err := db.Query(ctx, `
		SELECT id, month, created_at
		FROM monthly_reports
		WHERE trainer_id = $1
		ORDER BY month DESC
		LIMIT $2`, trainerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []domain.ReportSummary
	for rows.Next() {
		var s domain.ReportSummary
		if err := rows.Scan(&s.ID, &s.Month, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *reportRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.OwnedReport, error) {
	rep := &domain.OwnedReport{}
	err := db.QueryRow(ctx, `
		SELECT r.id, r.trainer_id, r.month, r.data, r.created_at, r.updated_at, t.name
		FROM monthly_reports r
		JOIN trainers t ON t.id = r.trainer_id
		WHERE r.id = $1`, id,
	).Scan(&rep.ID, &rep.TrainerID, &rep.Month, &rep.Data, &rep.CreatedAt, &rep.UpdatedAt, &rep.TrainerName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find report by id: %w", err)
	}
	return rep, nil
}
