package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// TrainerRepository provides access to trainers.
type TrainerRepository interface {
	// FindByID returns a trainer by ID, or nil if not found.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Trainer, error)

	// FindByEmail returns a trainer by lowercased email, or nil if not found.
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.Trainer, error)

	// Create inserts a new trainer and fills ID and timestamps from the row.
	Create(ctx context.Context, db DBTX, t *domain.Trainer) error

	// UpsertByEmail inserts or refreshes a trainer keyed by email.
	UpsertByEmail(ctx context.Context, db DBTX, t *domain.Trainer) (*domain.Trainer, error)

	// ListByName returns all trainers ordered by name.
	ListByName(ctx context.Context, db DBTX) ([]domain.Trainer, error)

	// Update applies the non-nil fields of u. Returns nil if the trainer does not exist.
	Update(ctx context.Context, db DBTX, id uuid.UUID, u domain.TrainerUpdate) (*domain.Trainer, error)
}

// TeamRepository provides access to teams.
type TeamRepository interface {
	// FindByID returns a team by ID, or nil if not found.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Team, error)

	// List returns all teams ordered by name.
	List(ctx context.Context, db DBTX) ([]domain.Team, error)

	// UpsertByName inserts or refreshes a team keyed by name.
	UpsertByName(ctx context.Context, db DBTX, team *domain.Team) (*domain.Team, error)
}

// SessionRepository provides access to sessions.
type SessionRepository interface {
	// Create inserts a session and fills ID, Approved and CreatedAt from the row.
	Create(ctx context.Context, db DBTX, s *domain.Session) error

	// ListInRange returns sessions with from <= date < to joined with team and
	// trainer names, ordered by date ascending. A nil trainerID returns every trainer's sessions.
	ListInRange(ctx context.Context, db DBTX, trainerID *uuid.UUID, from, to time.Time) ([]domain.SessionDetail, error)

	// SetApproval updates the approval flag. Returns nil if the session does not exist.
	SetApproval(ctx context.Context, db DBTX, id uuid.UUID, approved bool) (*domain.Session, error)
}

// ReportRepository provides access to monthly_reports, the per trainer-month
// spreadsheet cache.
type ReportRepository interface {
	// FindByTrainerMonth returns the cached report, or nil on a miss.
	FindByTrainerMonth(ctx context.Context, db DBTX, trainerID uuid.UUID, month string) (*domain.MonthlyReport, error)

	// Upsert inserts or overwrites the report for (trainerID, month) in a
	// single statement and returns the stored row.
	Upsert(ctx context.Context, db DBTX, trainerID uuid.UUID, month string, data []byte) (*domain.MonthlyReport, error)

	// ListRecent returns up to limit summaries for a trainer, newest month first.
	ListRecent(ctx context.Context, db DBTX, trainerID uuid.UUID, limit int) ([]domain.ReportSummary, error)

	// FindByID returns a report with its owner's name, or nil if not found.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.OwnedReport, error)
}
