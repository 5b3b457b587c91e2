package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sgkaarstdave/AbrechnungApp/internal/auth"
	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/service"
)

// Exporter is implemented by service.ExportService.
type Exporter interface {
	Export(ctx context.Context, id *domain.Identity, month string, target *uuid.UUID) (*service.ExportFile, error)
}

// ReportReader is implemented by service.ReportService.
type ReportReader interface {
	ListRecent(ctx context.Context, id *domain.Identity, target *uuid.UUID, limit int) ([]domain.ReportSummary, error)
	Download(ctx context.Context, id *domain.Identity, reportID uuid.UUID) (*service.ExportFile, error)
}

// BatchRunner is implemented by service.BatchService.
type BatchRunner interface {
	Generate(ctx context.Context, month string) (*service.BatchSummary, error)
}

// ReportHandler serves spreadsheet exports, stored reports and the batch trigger.
type ReportHandler struct {
	exporter Exporter
	reports  ReportReader
	batch    BatchRunner
	logger   *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(exporter Exporter, reports ReportReader, batch BatchRunner, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{exporter: exporter, reports: reports, batch: batch, logger: logger}
}

// Export handles GET /export?month=YYYY-MM&trainerId=.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	target, err := optionalTrainerID(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	file, err := h.exporter.Export(r.Context(), auth.IdentityFromContext(r.Context()), r.URL.Query().Get("month"), target)
	if err != nil {
		RespondErrorLogged(w, r, h.logger, err)
		return
	}
	RespondFile(w, file.Filename, file.ContentType, file.Data, file.Cached)
}

// List handles GET /reports?limit=&trainerId=.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	target, err := optionalTrainerID(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			RespondError(w, domain.ErrValidation("Ungültiges Limit"))
			return
		}
	}

	list, err := h.reports.ListRecent(r.Context(), auth.IdentityFromContext(r.Context()), target, limit)
	if err != nil {
		RespondErrorLogged(w, r, h.logger, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"reports": list})
}

// Download handles GET /reports/{reportId}.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	reportID, err := uuid.Parse(chi.URLParam(r, "reportId"))
	if err != nil {
		RespondError(w, domain.ErrNotFound("Report nicht gefunden"))
		return
	}

	file, err := h.reports.Download(r.Context(), auth.IdentityFromContext(r.Context()), reportID)
	if err != nil {
		RespondErrorLogged(w, r, h.logger, err)
		return
	}
	RespondFile(w, file.Filename, file.ContentType, file.Data, file.Cached)
}

// Cron handles POST /reports/cron?month=. Callers are authenticated by
// auth.RequireSharedSecret.
func (h *ReportHandler) Cron(w http.ResponseWriter, r *http.Request) {
	summary, err := h.batch.Generate(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		RespondErrorLogged(w, r, h.logger, err)
		return
	}
	RespondJSON(w, http.StatusOK, summary)
}

func optionalTrainerID(r *http.Request) (*uuid.UUID, error) {
	raw := r.URL.Query().Get("trainerId")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.ErrValidation("Ungültige Trainer-ID")
	}
	return &id, nil
}
