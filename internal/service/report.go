package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/report"
	"github.com/sgkaarstdave/AbrechnungApp/internal/repository"
)

const (
	DefaultReportLimit = 12
	MaxReportLimit     = 100
)

// ReportService lists and downloads stored reports.
type ReportService struct {
	db       repository.DBTX
	trainers repository.TrainerRepository
	reports  repository.ReportRepository
}

// NewReportService creates a new ReportService.
func NewReportService(db repository.DBTX, trainers repository.TrainerRepository, reports repository.ReportRepository) *ReportService {
	return &ReportService{db: db, trainers: trainers, reports: reports}
}

// ListRecent returns the newest stored reports of target (or the caller).
// A limit outside 1..MaxReportLimit falls back to DefaultReportLimit or the cap.
func (s *ReportService) ListRecent(ctx context.Context, id *domain.Identity, target *uuid.UUID, limit int) ([]domain.ReportSummary, error) {
	actor, err := loadActor(ctx, s.db, s.trainers, id, "Reports konnten nicht geladen werden")
	if err != nil {
		return nil, err
	}
	targetID, err := resolveTarget(actor, target)
	if err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = DefaultReportLimit
	case limit > MaxReportLimit:
		limit = MaxReportLimit
	}

	list, err := s.reports.ListRecent(ctx, s.db, targetID, limit)
	if err != nil {
		return nil, domain.ErrInternal("Reports konnten nicht geladen werden", err)
	}
	if list == nil {
		list = []domain.ReportSummary{}
	}
	return list, nil
}

// Download returns a stored report by ID. Only its owner or an admin may read it.
func (s *ReportService) Download(ctx context.Context, id *domain.Identity, reportID uuid.UUID) (*ExportFile, error) {
	if id == nil {
		return nil, domain.ErrUnauthenticated()
	}

	r, err := s.reports.FindByID(ctx, s.db, reportID)
	if err != nil {
		return nil, domain.ErrInternal("Download fehlgeschlagen", err)
	}
	if r == nil {
		return nil, domain.ErrNotFound("Report nicht gefunden")
	}
	if !id.CanActFor(r.TrainerID) {
		return nil, domain.ErrForbidden("Keine Berechtigung")
	}

	return &ExportFile{
		Filename:    report.Filename(r.TrainerName, r.Month),
		ContentType: report.ContentType,
		Data:        r.Data,
		Cached:      true,
	}, nil
}
