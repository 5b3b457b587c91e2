package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/report"
	"github.com/sgkaarstdave/AbrechnungApp/internal/repository"
)

// BatchTrainerResult is the outcome for one generated trainer.
type BatchTrainerResult struct {
	TrainerID uuid.UUID `json:"trainerId"`
	Created   bool      `json:"created"`
}

// BatchFailure records a trainer whose report could not be generated.
type BatchFailure struct {
	TrainerID uuid.UUID `json:"trainerId"`
	Error     string    `json:"error"`
}

// BatchSummary is the result of one batch run.
type BatchSummary struct {
	Month     string               `json:"month"`
	Generated int                  `json:"generated"`
	Trainers  []BatchTrainerResult `json:"trainers"`
	Failed    []BatchFailure       `json:"failed"`
}

// BatchService regenerates every trainer's report for a month.
type BatchService struct {
	db       repository.DBTX
	trainers repository.TrainerRepository
	reports  repository.ReportRepository
	builder  *sheetBuilder
	events   Publisher
	logger   *slog.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewBatchService creates a new BatchService. loc selects the default
// month; events may be nil.
func NewBatchService(
	db repository.DBTX,
	trainers repository.TrainerRepository,
	sessions repository.SessionRepository,
	reports repository.ReportRepository,
	renderer *report.Renderer,
	events Publisher,
	loc *time.Location,
	logger *slog.Logger,
) *BatchService {
	if loc == nil {
		loc = time.UTC
	}
	return &BatchService{
		db:       db,
		trainers: trainers,
		reports:  reports,
		builder:  &sheetBuilder{db: db, sessions: sessions, renderer: renderer},
		events:   publisherOrNoop(events),
		logger:   logger,
		loc:      loc,
		now:      time.Now,
	}
}

// Generate renders and stores the report of every trainer with at least one
// session in month, overwriting existing reports. An empty month selects the
// previous calendar month. A failing trainer is recorded and skipped.
func (s *BatchService) Generate(ctx context.Context, month string) (*BatchSummary, error) {
	var m domain.Month
	if month == "" {
		m = domain.PreviousMonth(s.now().In(s.loc))
	} else {
		var err error
		if m, err = domain.ParseMonth(month); err != nil {
			return nil, domain.ErrInvalidInput("Ungültiger Monat", err)
		}
	}

	trainers, err := s.trainers.ListByName(ctx, s.db)
	if err != nil {
		return nil, domain.ErrInternal("Cron-Job fehlgeschlagen", err)
	}

	summary := &BatchSummary{
		Month:    m.String(),
		Trainers: []BatchTrainerResult{},
		Failed:   []BatchFailure{},
	}
	for i := range trainers {
		if err := ctx.Err(); err != nil {
			return nil, domain.ErrInternal("Cron-Job fehlgeschlagen", err)
		}

		t := &trainers[i]
		stored, err := s.generateOne(ctx, t, m)
		if err != nil {
			s.logger.Error("batch report failed", "trainer_id", t.ID, "month", summary.Month, "error", err)
			summary.Failed = append(summary.Failed, BatchFailure{TrainerID: t.ID, Error: err.Error()})
			continue
		}
		if stored == nil {
			continue
		}

		created := stored.Created()
		s.logger.Info("batch report stored", "trainer_id", t.ID, "month", summary.Month, "created", created)
		summary.Trainers = append(summary.Trainers, BatchTrainerResult{TrainerID: stored.TrainerID, Created: created})
		publishGenerated(ctx, s.events, s.logger, stored, domain.SourceBatch)
	}
	summary.Generated = len(summary.Trainers)

	s.logger.Info("batch finished",
		"month", summary.Month, "generated", summary.Generated, "failed", len(summary.Failed), "trainers", len(trainers))
	return summary, nil
}

// generateOne returns nil, nil for a trainer without sessions.
func (s *BatchService) generateOne(ctx context.Context, t *domain.Trainer, m domain.Month) (*domain.MonthlyReport, error) {
	sessions, err := s.builder.monthSessions(ctx, t.ID, m)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	data, err := s.builder.render(t, m, sessions)
	if err != nil {
		return nil, err
	}
	return s.reports.Upsert(ctx, s.db, t.ID, m.String(), data)
}
