package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sgkaarstdave/AbrechnungApp/internal/auth"
	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/service"
)

// TrainerReader is implemented by service.TrainerService.
type TrainerReader interface {
	List(ctx context.Context, id *domain.Identity) ([]domain.Trainer, error)
	Me(ctx context.Context, id *domain.Identity) (*domain.Trainer, error)
	Update(ctx context.Context, id *domain.Identity, trainerID uuid.UUID, input service.UpdateTrainerInput) (*domain.Trainer, error)
}

// TeamLister is implemented by service.TeamService.
type TeamLister interface {
	List(ctx context.Context, id *domain.Identity) ([]domain.Team, error)
}

// TrainerHandler serves trainer profiles and the team list.
type TrainerHandler struct {
	trainers TrainerReader
	teams    TeamLister
	logger   *slog.Logger
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(trainers TrainerReader, teams TeamLister, logger *slog.Logger) *TrainerHandler {
	return &TrainerHandler{trainers: trainers, teams: teams, logger: logger}
}

// List handles GET /trainers.
func (h *TrainerHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.trainers.List(r.Context(), auth.IdentityFromContext(r.Context()))
	if err != nil {
		RespondErrorLogged(w, r, h.logger, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"trainers": list})
}

// Me handles GET /trainers/me.
func (h *TrainerHandler) Me(w http.ResponseWriter, r *http.Request) {
	t, err := h.trainers.Me(r.Context(), auth.IdentityFromContext(r.Context()))
	if err != nil {
		RespondErrorLogged(w, r, h.logger, err)
		return
	}
	RespondJSON(w, http.StatusOK, t)
}

// Update handles PATCH /trainers/{id}.
func (h *TrainerHandler) Update(w http.ResponseWriter, r *http.Request) {
	trainerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrNotFound("Trainer nicht gefunden"))
		return
	}
	var input service.UpdateTrainerInput
	if err := DecodeJSON(r, &input); err != nil {
		badBody(w)
		return
	}

	t, err := h.trainers.Update(r.Context(), auth.IdentityFromContext(r.Context()), trainerID, input)
	if err != nil {
		RespondErrorLogged(w, r, h.logger, err)
		return
	}
	RespondJSON(w, http.StatusOK, t)
}

// Teams handles GET /teams.
func (h *TrainerHandler) Teams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.List(r.Context(), auth.IdentityFromContext(r.Context()))
	if err != nil {
		RespondErrorLogged(w, r, h.logger, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}
