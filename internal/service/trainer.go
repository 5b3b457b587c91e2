package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/repository"
)

// TrainerService reads and updates trainer profiles.
type TrainerService struct {
	db       repository.DBTX
	trainers repository.TrainerRepository
}

// NewTrainerService creates a new TrainerService.
func NewTrainerService(db repository.DBTX, trainers repository.TrainerRepository) *TrainerService {
	return &TrainerService{db: db, trainers: trainers}
}

// List returns every trainer ordered by name. Admin only.
func (s *TrainerService) List(ctx context.Context, id *domain.Identity) ([]domain.Trainer, error) {
	if id == nil {
		return nil, domain.ErrUnauthenticated()
	}
	if !id.IsAdmin() {
		return nil, domain.ErrForbidden("Keine Berechtigung")
	}
	trainers, err := s.trainers.ListByName(ctx, s.db)
	if err != nil {
		return nil, domain.ErrInternal("Trainer konnten nicht geladen werden", err)
	}
	if trainers == nil {
		trainers = []domain.Trainer{}
	}
	return trainers, nil
}

// Me returns the caller's own profile.
func (s *TrainerService) Me(ctx context.Context, id *domain.Identity) (*domain.Trainer, error) {
	return loadActor(ctx, s.db, s.trainers, id, "Trainer konnte nicht geladen werden")
}

// UpdateTrainerInput holds the editable profile fields. An empty IBAN clears it.
type UpdateTrainerInput struct {
	RatePerHour *float64 `json:"ratePerHour"`
	IBAN        *string  `json:"iban"`
}

// Update changes rate and IBAN of trainerID. Trainers may edit only themselves.
func (s *TrainerService) Update(ctx context.Context, id *domain.Identity, trainerID uuid.UUID, input UpdateTrainerInput) (*domain.Trainer, error) {
	if id == nil {
		return nil, domain.ErrUnauthenticated()
	}
	if !id.CanActFor(trainerID) {
		return nil, domain.ErrForbidden("Keine Berechtigung")
	}

	var u domain.TrainerUpdate
	if input.RatePerHour != nil {
		if err := domain.ValidateRate(*input.RatePerHour); err != nil {
			return nil, domain.ErrValidation(err.Error())
		}
		u.RatePerHour = input.RatePerHour
	}
	if input.IBAN != nil {
		iban, err := domain.NormalizeIBAN(*input.IBAN)
		if err != nil {
			return nil, domain.ErrValidation(err.Error())
		}
		u.IBAN = iban
		u.ClearIBAN = iban == nil
	}

	t, err := s.trainers.Update(ctx, s.db, trainerID, u)
	if err != nil {
		return nil, domain.ErrInternal("Trainer konnte nicht gespeichert werden", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound("Trainer nicht gefunden")
	}
	return t, nil
}

// TeamService lists teams.
type TeamService struct {
	db    repository.DBTX
	teams repository.TeamRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(db repository.DBTX, teams repository.TeamRepository) *TeamService {
	return &TeamService{db: db, teams: teams}
}

// List returns all teams ordered by name.
func (s *TeamService) List(ctx context.Context, id *domain.Identity) ([]domain.Team, error) {
	if id == nil {
		return nil, domain.ErrUnauthenticated()
	}
	teams, err := s.teams.List(ctx, s.db)
	if err != nil {
		return nil, domain.ErrInternal("Teams konnten nicht geladen werden", err)
	}
	if teams == nil {
		teams = []domain.Team{}
	}
	return teams, nil
}
