package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/guard"
	"github.com/sgkaarstdave/AbrechnungApp/internal/report"
	"github.com/sgkaarstdave/AbrechnungApp/internal/repository"
)

// ExportFile is a downloadable spreadsheet.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Cached      bool
}

// ExportService returns a trainer's monthly spreadsheet, generating and
// caching it on first request.
type ExportService struct {
	db       repository.DBTX
	trainers repository.TrainerRepository
	builder  *sheetBuilder
	memo     *guard.Memo[reportKey, *domain.MonthlyReport]
	logger   *slog.Logger
}

// NewExportService creates a new ExportService. events may be nil.
func NewExportService(
	db repository.DBTX,
	trainers repository.TrainerRepository,
	sessions repository.SessionRepository,
	reports repository.ReportRepository,
	renderer *report.Renderer,
	events Publisher,
	logger *slog.Logger,
) *ExportService {
	store := &reportStore{db: db, reports: reports, events: publisherOrNoop(events), logger: logger}
	return &ExportService{
		db:       db,
		trainers: trainers,
		builder:  &sheetBuilder{db: db, sessions: sessions, renderer: renderer},
		memo:     guard.NewMemo[reportKey, *domain.MonthlyReport](store),
		logger:   logger,
	}
}

// Export returns the spreadsheet of target (or the caller when target is
// nil) for month. An existing report is returned unchanged; otherwise the
// month is rendered and stored before returning.
func (s *ExportService) Export(ctx context.Context, id *domain.Identity, month string, target *uuid.UUID) (*ExportFile, error) {
	if id == nil {
		return nil, domain.ErrUnauthenticated()
	}
	if month == "" {
		return nil, domain.ErrValidation("month Parameter erforderlich")
	}
	m, err := domain.ParseMonth(month)
	if err != nil {
		return nil, domain.ErrInvalidInput("Ungültiger Monat", err)
	}

	actor, err := loadActor(ctx, s.db, s.trainers, id, "Export fehlgeschlagen")
	if err != nil {
		return nil, err
	}
	targetID, err := resolveTarget(actor, target)
	if err != nil {
		return nil, err
	}

	trainer := actor
	if targetID != actor.ID {
		trainer, err = s.trainers.FindByID(ctx, s.db, targetID)
		if err != nil {
			return nil, domain.ErrInternal("Export fehlgeschlagen", err)
		}
		if trainer == nil {
			return nil, domain.ErrNotFound("Trainer für Export nicht gefunden")
		}
	}

	key := reportKey{TrainerID: trainer.ID, Month: m.String()}
	stored, hit, err := s.memo.FetchOrCompute(ctx, key, func(ctx context.Context) (*domain.MonthlyReport, error) {
		sessions, err := s.builder.monthSessions(ctx, trainer.ID, m)
		if err != nil {
			return nil, err
		}
		data, err := s.builder.render(trainer, m, sessions)
		if err != nil {
			return nil, err
		}
		return &domain.MonthlyReport{TrainerID: trainer.ID, Month: key.Month, Data: data}, nil
	})
	if err != nil {
		return nil, domain.ErrInternal("Export fehlgeschlagen", err)
	}

	s.logger.Info("report exported",
		"trainer_id", trainer.ID, "month", key.Month, "cached", hit, "bytes", len(stored.Data))

	return &ExportFile{
		Filename:    report.Filename(trainer.Name, key.Month),
		ContentType: report.ContentType,
		Data:        stored.Data,
		Cached:      hit,
	}, nil
}
