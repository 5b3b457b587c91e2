package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/repository"
)

// Publisher emits report events. Implemented by infra.ReportEventPublisher.
type Publisher interface {
	PublishReportGenerated(ctx context.Context, ev domain.ReportGeneratedEvent) error
}

type noopPublisher struct{}

func (noopPublisher) PublishReportGenerated(context.Context, domain.ReportGeneratedEvent) error {
	return nil
}

func publisherOrNoop(p Publisher) Publisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

// publishGenerated sends the event for a freshly written report. Failures
// are logged; the stored report stays authoritative.
func publishGenerated(ctx context.Context, p Publisher, logger *slog.Logger, r *domain.MonthlyReport, source domain.ReportSource) {
	if err := p.PublishReportGenerated(ctx, domain.NewReportGeneratedEvent(r, source)); err != nil {
		logger.Warn("publish report event failed",
			"trainer_id", r.TrainerID, "month", r.Month, "source", source, "error", err)
	}
}

// loadActor resolves the calling trainer. A nil identity is unauthenticated;
// a verified identity without a trainer row is forbidden.
func loadActor(ctx context.Context, db repository.DBTX, trainers repository.TrainerRepository, id *domain.Identity, failMsg string) (*domain.Trainer, error) {
	if id == nil {
		return nil, domain.ErrUnauthenticated()
	}
	actor, err := trainers.FindByID(ctx, db, id.TrainerID)
	if err != nil {
		return nil, domain.ErrInternal(failMsg, err)
	}
	if actor == nil {
		return nil, domain.ErrForbidden("Trainer nicht gefunden")
	}
	return actor, nil
}

// resolveTarget picks the trainer an operation acts on: the explicit target
// when the actor is an admin, otherwise the actor. A non-admin naming
// another trainer is forbidden.
func resolveTarget(actor *domain.Trainer, target *uuid.UUID) (uuid.UUID, error) {
	if target == nil || *target == actor.ID {
		return actor.ID, nil
	}
	if actor.Role != domain.RoleAdmin {
		return uuid.Nil, domain.ErrForbidden("Keine Berechtigung")
	}
	return *target, nil
}
