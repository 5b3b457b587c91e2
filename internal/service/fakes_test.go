package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// store is an in-memory backing for every fake repository.
type store struct {
	mu       sync.Mutex
	trainers map[uuid.UUID]*domain.Trainer
	teams    map[uuid.UUID]*domain.Team
	sessions []*domain.Session
	reports  map[string]*domain.MonthlyReport

	upserts     int
	failUpsert  map[uuid.UUID]error
	failSession error
	clock       time.Time
}

func newStore() *store {
	return &store{
		trainers:   map[uuid.UUID]*domain.Trainer{},
		teams:      map[uuid.UUID]*domain.Team{},
		reports:    map[string]*domain.MonthlyReport{},
		failUpsert: map[uuid.UUID]error{},
		clock:      time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (s *store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *store) addTrainer(name string, role domain.Role, rate float64) *domain.Trainer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &domain.Trainer{ID: uuid.New(), Name: name, Email: uuid.NewString() + "@verein.de", RatePerHour: rate, Role: role}
	s.trainers[t.ID] = t
	return t
}

func (s *store) addTeam(name string) *domain.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &domain.Team{ID: uuid.New(), Name: name}
	s.teams[t.ID] = t
	return t
}

func (s *store) addSession(trainerID, teamID uuid.UUID, date time.Time, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, &domain.Session{ID: uuid.New(), TrainerID: trainerID, TeamID: teamID, Date: date, Hours: h, CreatedAt: s.tick()})
}

func reportMapKey(trainerID uuid.UUID, month string) string {
	return trainerID.String() + "|" + month
}

// --- trainers ---

type fakeTrainers struct{ s *store }

func (f fakeTrainers) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.Trainer, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if t, ok := f.s.trainers[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (f fakeTrainers) FindByEmail(_ context.Context, _ repository.DBTX, email string) (*domain.Trainer, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, t := range f.s.trainers {
		if t.Email == email {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeTrainers) Create(_ context.Context, _ repository.DBTX, t *domain.Trainer) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	t.ID = uuid.New()
	t.CreatedAt = f.s.tick()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	f.s.trainers[t.ID] = &cp
	return nil
}

func (f fakeTrainers) UpsertByEmail(ctx context.Context, db repository.DBTX, t *domain.Trainer) (*domain.Trainer, error) {
	return nil, errors.New("not implemented")
}

func (f fakeTrainers) ListByName(_ context.Context, _ repository.DBTX) ([]domain.Trainer, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make([]domain.Trainer, 0, len(f.s.trainers))
	for _, t := range f.s.trainers {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeTrainers) Update(_ context.Context, _ repository.DBTX, id uuid.UUID, u domain.TrainerUpdate) (*domain.Trainer, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	t, ok := f.s.trainers[id]
	if !ok {
		return nil, nil
	}
	if u.RatePerHour != nil {
		t.RatePerHour = *u.RatePerHour
	}
	if u.ClearIBAN {
		t.IBAN = nil
	} else if u.IBAN != nil {
		v := *u.IBAN
		t.IBAN = &v
	}
	cp := *t
	return &cp, nil
}

// --- teams ---

type fakeTeams struct{ s *store }

func (f fakeTeams) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.Team, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if t, ok := f.s.teams[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (f fakeTeams) List(_ context.Context, _ repository.DBTX) ([]domain.Team, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []domain.Team
	for _, t := range f.s.teams {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeTeams) UpsertByName(context.Context, repository.DBTX, *domain.Team) (*domain.Team, error) {
	return nil, errors.New("not implemented")
}

// --- sessions ---

type fakeSessions struct{ s *store }

func (f fakeSessions) Create(_ context.Context, _ repository.DBTX, sess *domain.Session) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	sess.ID = uuid.New()
	sess.CreatedAt = f.s.tick()
	cp := *sess
	f.s.sessions = append(f.s.sessions, &cp)
	return nil
}

func (f fakeSessions) ListInRange(_ context.Context, _ repository.DBTX, trainerID *uuid.UUID, from, to time.Time) ([]domain.SessionDetail, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failSession != nil {
		return nil, f.s.failSession
	}
	var out []domain.SessionDetail
	for _, sess := range f.s.sessions {
		if trainerID != nil && sess.TrainerID != *trainerID {
			continue
		}
		if sess.Date.Before(from) || !sess.Date.Before(to) {
			continue
		}
		tr := f.s.trainers[sess.TrainerID]
		out = append(out, domain.SessionDetail{
			Session:     *sess,
			TeamName:    f.s.teams[sess.TeamID].Name,
			TrainerName: tr.Name,
			TrainerRate: tr.RatePerHour,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f fakeSessions) SetApproval(_ context.Context, _ repository.DBTX, id uuid.UUID, approved bool) (*domain.Session, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, sess := range f.s.sessions {
		if sess.ID == id {
			sess.Approved = approved
			cp := *sess
			return &cp, nil
		}
	}
	return nil, nil
}

// --- reports ---

type fakeReports struct{ s *store }

func (f fakeReports) FindByTrainerMonth(_ context.Context, _ repository.DBTX, trainerID uuid.UUID, month string) (*domain.MonthlyReport, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if r, ok := f.s.reports[reportMapKey(trainerID, month)]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (f fakeReports) Upsert(_ context.Context, _ repository.DBTX, trainerID uuid.UUID, month string, data []byte) (*domain.MonthlyReport, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failUpsert[trainerID]; err != nil {
		return nil, err
	}
	f.s.upserts++
	key := reportMapKey(trainerID, month)
	now := f.s.tick()
	r, ok := f.s.reports[key]
	if !ok {
		r = &domain.MonthlyReport{ID: uuid.New(), TrainerID: trainerID, Month: month, CreatedAt: now}
		f.s.reports[key] = r
	}
	r.Data = data
	r.UpdatedAt = now
	cp := *r
	return &cp, nil
}

func (f fakeReports) ListRecent(_ context.Context, _ repository.DBTX, trainerID uuid.UUID, limit int) ([]domain.ReportSummary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []domain.ReportSummary
	for _, r := range f.s.reports {
		if r.TrainerID == trainerID {
			out = append(out, domain.ReportSummary{ID: r.ID, Month: r.Month, CreatedAt: r.CreatedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakeReports) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.OwnedReport, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, r := range f.s.reports {
		if r.ID == id {
			return &domain.OwnedReport{MonthlyReport: *r, TrainerName: f.s.trainers[r.TrainerID].Name}, nil
		}
	}
	return nil, nil
}

// --- collaborators ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ReportGeneratedEvent
	err    error
}

func (p *recordingPublisher) PublishReportGenerated(_ context.Context, ev domain.ReportGeneratedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type fakeLockout struct {
	locked   bool
	attempts []bool
}

func (l *fakeLockout) CheckLocked(context.Context, string) error {
	if l.locked {
		return domain.ErrAccountLocked("Zu viele fehlgeschlagene Anmeldeversuche")
	}
	return nil
}

func (l *fakeLockout) Record(_ context.Context, _, _ string, success bool) error {
	l.attempts = append(l.attempts, success)
	return nil
}

func identityOf(t *domain.Trainer) *domain.Identity {
	return &domain.Identity{TrainerID: t.ID, Role: t.Role}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func requireAppError(err error) *domain.AppError {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
