package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sgkaarstdave/AbrechnungApp/internal/auth"
	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/service"
)

const sessionDateLayout = "2006-01-02"

// SessionRecorder is implemented by service.SessionService.
type SessionRecorder interface {
	Create(ctx context.Context, id *domain.Identity, input service.CreateSessionInput) (*domain.Session, error)
	Overview(ctx context.Context, id *domain.Identity, month string) (*service.MonthOverview, error)
	SetApproval(ctx context.Context, id *domain.Identity, sessionID uuid.UUID, approved bool) (*domain.Session, error)
}

// SessionHandler handles session endpoints.
type SessionHandler struct {
	sessions SessionRecorder
	logger   *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions SessionRecorder, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// createSessionRequest is the wire shape of POST /sessions.
type createSessionRequest struct {
	Mode      string   `json:"mode"`
	TrainerID *string  `json:"trainerId"`
	TeamID    string   `json:"teamId"`
	Date      string   `json:"date"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Hours     *float64 `json:"hours"`
	Location  *string  `json:"location"`
	Note      *string  `json:"note"`
}

func (req createSessionRequest) toInput() (service.CreateSessionInput, error) {
	var in service.CreateSessionInput

	mode, err := service.ParseSessionMode(req.Mode)
	if err != nil {
		return in, domain.ErrValidation(err.Error())
	}
	teamID, err := uuid.Parse(req.TeamID)
	if err != nil {
		return in, domain.ErrValidation("Team auswählen")
	}
	if req.Date == "" {
		return in, domain.ErrValidation("Datum erforderlich")
	}
	date, err := time.Parse(sessionDateLayout, req.Date)
	if err != nil {
		return in, domain.ErrValidation("Ungültiges Datum")
	}
	if req.TrainerID != nil && *req.TrainerID != "" {
		id, err := uuid.Parse(*req.TrainerID)
		if err != nil {
			return in, domain.ErrValidation("Ungültige Trainer-ID")
		}
		in.TrainerID = &id
	}

	in.Mode = mode
	in.TeamID = teamID
	in.Date = date
	in.StartTime = req.StartTime
	in.EndTime = req.EndTime
	in.Hours = req.Hours
	in.Location = req.Location
	in.Note = req.Note
	return in, nil
}

// Create handles POST /sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := DecodeJSON(r, &req); err != nil {
		badBody(w)
		return
	}
	input, err := req.toInput()
	if err != nil {
		RespondError(w, err)
		return
	}

	sess, err := h.sessions.Create(r.Context(), auth.IdentityFromContext(r.Context()), input)
	if err != nil {
		RespondErrorLogged(w, r, h.logger, err)
		return
	}
	RespondJSON(w, http.StatusCreated, map[string]interface{}{"id": sess.ID, "hours": sess.Hours})
}

// Overview handles GET /sessions?month=YYYY-MM.
func (h *SessionHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.sessions.Overview(r.Context(), auth.IdentityFromContext(r.Context()), r.URL.Query().Get("month"))
	if err != nil {
		RespondErrorLogged(w, r, h.logger, err)
		return
	}
	RespondJSON(w, http.StatusOK, ov)
}

// SetApproval handles PATCH /sessions/{id}/approval.
func (h *SessionHandler) SetApproval(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrNotFound("Session nicht gefunden"))
		return
	}
	var body struct {
		Approved *bool `json:"approved"`
	}
	if err := DecodeJSON(r, &body); err != nil || body.Approved == nil {
		badBody(w)
		return
	}

	sess, err := h.sessions.SetApproval(r.Context(), auth.IdentityFromContext(r.Context()), sessionID, *body.Approved)
	if err != nil {
		RespondErrorLogged(w, r, h.logger, err)
		return
	}
	RespondJSON(w, http.StatusOK, sess)
}
