package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/report"
	"github.com/sgkaarstdave/AbrechnungApp/internal/repository"
)

// sheetBuilder loads a trainer-month and renders it. Shared by the export
// and batch paths so both produce the same artifact.
type sheetBuilder struct {
	db       repository.DBTX
	sessions repository.SessionRepository
	renderer *report.Renderer
}

// monthSessions returns the trainer's sessions in [first day, first day of next month).
func (b *sheetBuilder) monthSessions(ctx context.Context, trainerID uuid.UUID, m domain.Month) ([]domain.SessionDetail, error) {
	from, to := m.Bounds()
	sessions, err := b.sessions.ListInRange(ctx, b.db, &trainerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	return sessions, nil
}

func (b *sheetBuilder) render(t *domain.Trainer, m domain.Month, sessions []domain.SessionDetail) ([]byte, error) {
	in := report.Input{
		Trainer: report.Trainer{
			Name:        t.Name,
			Email:       t.Email,
			RatePerHour: t.RatePerHour,
			IBAN:        t.IBAN,
		},
		Sessions: make([]report.Session, 0, len(sessions)),
		Month:    m.String(),
	}
	for _, s := range sessions {
		in.Sessions = append(in.Sessions, report.Session{
			Date:     s.Date,
			TeamName: s.TeamName,
			Hours:    s.Hours,
			Note:     s.Note,
			Location: s.Location,
			Approved: s.Approved,
		})
	}
	data, err := b.renderer.Render(in)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return data, nil
}

// reportKey identifies one cached trainer-month.
type reportKey struct {
	TrainerID uuid.UUID
	Month     string
}

func (k reportKey) String() string {
	return k.TrainerID.String() + ":" + k.Month
}

// reportStore adapts ReportRepository to guard.Backend. Every store
// publishes a report event.
type reportStore struct {
	db      repository.DBTX
	reports repository.ReportRepository
	events  Publisher
	logger  *slog.Logger
}

func (s *reportStore) Load(ctx context.Context, key reportKey) (*domain.MonthlyReport, bool, error) {
	r, err := s.reports.FindByTrainerMonth(ctx, s.db, key.TrainerID, key.Month)
	if err != nil {
		return nil, false, err
	}
	return r, r != nil, nil
}

func (s *reportStore) Store(ctx context.Context, key reportKey, r *domain.MonthlyReport) (*domain.MonthlyReport, error) {
	stored, err := s.reports.Upsert(ctx, s.db, key.TrainerID, key.Month, r.Data)
	if err != nil {
		return nil, err
	}
	publishGenerated(ctx, s.events, s.logger, stored, domain.SourceExport)
	return stored, nil
}
