package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/hours"
	"github.com/sgkaarstdave/AbrechnungApp/internal/report"
	"github.com/sgkaarstdave/AbrechnungApp/internal/repository"
)

// SessionMode selects how session hours are supplied.
type SessionMode string

const (
	// ModeRange derives hours from start and end clock times.
	ModeRange SessionMode = "range"
	// ModeHours takes the hours directly.
	ModeHours SessionMode = "hours"
)

// CreateSessionInput is a validated session creation request.
// TrainerID nil records the session for the caller.
type CreateSessionInput struct {
	Mode      SessionMode
	TrainerID *uuid.UUID
	TeamID    uuid.UUID
	Date      time.Time
	StartTime string
	EndTime   string
	Hours     *float64
	Note      *string
	Location  *string
}

// MonthOverview lists a month's sessions with totals.
type MonthOverview struct {
	Month       string                 `json:"month"`
	Sessions    []domain.SessionDetail `json:"sessions"`
	TotalHours  float64                `json:"total_hours"`
	TotalAmount float64                `json:"total_amount"`
}

// SessionService records and lists training sessions.
type SessionService struct {
	db       repository.DBTX
	trainers repository.TrainerRepository
	teams    repository.TeamRepository
	sessions repository.SessionRepository
	now      func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	db repository.DBTX,
	trainers repository.TrainerRepository,
	teams repository.TeamRepository,
	sessions repository.SessionRepository,
) *SessionService {
	return &SessionService{db: db, trainers: trainers, teams: teams, sessions: sessions, now: time.Now}
}

// Create records a session. Hours are rounded to quarter hours and must be positive.
func (s *SessionService) Create(ctx context.Context, id *domain.Identity, input CreateSessionInput) (*domain.Session, error) {
	actor, err := loadActor(ctx, s.db, s.trainers, id, "Speichern fehlgeschlagen")
	if err != nil {
		return nil, err
	}
	trainerID, err := resolveTarget(actor, input.TrainerID)
	if err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		return nil, domain.ErrValidation("Datum erforderlich")
	}

	sess := &domain.Session{
		TrainerID: trainerID,
		TeamID:    input.TeamID,
		Date:      input.Date,
		Note:      trimmedOrNil(input.Note),
		Location:  trimmedOrNil(input.Location),
	}

	switch input.Mode {
	case ModeRange:
		if input.StartTime == "" || input.EndTime == "" {
			return nil, domain.ErrValidation("Start- und Endzeit erforderlich")
		}
		h, err := hours.FromTimes(input.StartTime, input.EndTime)
		if err != nil {
			return nil, domain.ErrInvalidInput(err.Error(), err)
		}
		start, _ := hours.ClockOnReferenceDate(input.StartTime)
		end, _ := hours.ClockOnReferenceDate(input.EndTime)
		sess.StartTime, sess.EndTime, sess.Hours = &start, &end, h
	case ModeHours:
		if input.Hours == nil {
			return nil, domain.ErrValidation("Stunden erforderlich")
		}
		if *input.Hours < 0 {
			return nil, domain.ErrValidation("Stunden dürfen nicht negativ sein")
		}
		sess.Hours = hours.RoundToQuarterHours(*input.Hours)
	default:
		return nil, domain.ErrValidation("Ungültiger Modus")
	}
	if sess.Hours <= 0 {
		return nil, domain.ErrValidation("Dauer muss mindestens eine Viertelstunde betragen")
	}

	if trainerID != actor.ID {
		target, err := s.trainers.FindByID(ctx, s.db, trainerID)
		if err != nil {
			return nil, domain.ErrInternal("Speichern fehlgeschlagen", err)
		}
		if target == nil {
			return nil, domain.ErrNotFound("Trainer nicht gefunden")
		}
	}
	team, err := s.teams.FindByID(ctx, s.db, input.TeamID)
	if err != nil {
		return nil, domain.ErrInternal("Speichern fehlgeschlagen", err)
	}
	if team == nil {
		return nil, domain.ErrNotFound("Team nicht gefunden")
	}

	if err := s.sessions.Create(ctx, s.db, sess); err != nil {
		return nil, domain.ErrInternal("Speichern fehlgeschlagen", err)
	}
	return sess, nil
}

// Overview returns the sessions of month, or of the current month when
// month is empty. Trainers see their own sessions
// valued at their rate; admins see everyone's, each valued at its trainer's rate.
func (s *SessionService) Overview(ctx context.Context, id *domain.Identity, month string) (*MonthOverview, error) {
	if id == nil {
		return nil, domain.ErrUnauthenticated()
	}
	m, err := domain.CurrentOrParse(month, s.now())
	if err != nil {
		return nil, domain.ErrInvalidInput("Ungültiger Monat", err)
	}
	actor, err := loadActor(ctx, s.db, s.trainers, id, "Sessions konnten nicht geladen werden")
	if err != nil {
		return nil, err
	}

	var filter *uuid.UUID
	if actor.Role != domain.RoleAdmin {
		filter = &actor.ID
	}
	from, to := m.Bounds()
	sessions, err := s.sessions.ListInRange(ctx, s.db, filter, from, to)
	if err != nil {
		return nil, domain.ErrInternal("Sessions konnten nicht geladen werden", err)
	}
	if sessions == nil {
		sessions = []domain.SessionDetail{}
	}

	out := &MonthOverview{Month: m.String(), Sessions: sessions}
	if filter != nil {
		rows := make([]report.Session, len(sessions))
		for i, sd := range sessions {
			rows[i] = report.Session{Hours: sd.Hours}
		}
		out.TotalHours, out.TotalAmount = report.Totals(rows, actor.RatePerHour)
		return out, nil
	}
	for _, sd := range sessions {
		out.TotalHours += sd.Hours
		out.TotalAmount += sd.Hours * sd.TrainerRate
	}
	return out, nil
}

// SetApproval marks a session approved or open. Admin only. The stored
// report of the month is not regenerated.
func (s *SessionService) SetApproval(ctx context.Context, id *domain.Identity, sessionID uuid.UUID, approved bool) (*domain.Session, error) {
	if id == nil {
		return nil, domain.ErrUnauthenticated()
	}
	if !id.IsAdmin() {
		return nil, domain.ErrForbidden("Keine Berechtigung")
	}
	sess, err := s.sessions.SetApproval(ctx, s.db, sessionID, approved)
	if err != nil {
		return nil, domain.ErrInternal("Speichern fehlgeschlagen", err)
	}
	if sess == nil {
		return nil, domain.ErrNotFound("Session nicht gefunden")
	}
	return sess, nil
}

// ParseSessionMode validates a wire mode value.
func ParseSessionMode(s string) (SessionMode, error) {
	switch SessionMode(s) {
	case ModeRange, ModeHours:
		return SessionMode(s), nil
	}
	return "", errors.New("Ungültiger Modus")
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
