package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sgkaarstdave/AbrechnungApp/internal/auth"
	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/repository"
)

// PasswordCost is the bcrypt cost for stored password hashes.
const PasswordCost = 12

// LoginGuard throttles repeated failed logins. Implemented by guard.Lockout.
type LoginGuard interface {
	CheckLocked(ctx context.Context, email string) error
	Record(ctx context.Context, email, ip string, success bool) error
}

// AuthService handles trainer registration and login.
type AuthService struct {
	db       repository.DBTX
	trainers repository.TrainerRepository
	jwtMgr   *auth.JWTManager
	lockout  LoginGuard
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	db repository.DBTX,
	trainers repository.TrainerRepository,
	jwtMgr *auth.JWTManager,
	lockout LoginGuard,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		db:       db,
		trainers: trainers,
		jwtMgr:   jwtMgr,
		lockout:  lockout,
		logger:   logger,
	}
}

// RegisterInput holds the registration request fields.
type RegisterInput struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	RatePerHour     float64 `json:"ratePerHour"`
	IBAN            string  `json:"iban"`
}

// Validate checks input and returns the first violation.
func (in RegisterInput) Validate() error {
	if err := domain.ValidateName(in.Name); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateEmail(domain.NormalizeEmail(in.Email)); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if len(in.Password) < domain.MinPasswordLen {
		return domain.ErrValidation("Mindestens 8 Zeichen")
	}
	if len(in.Password) > domain.MaxPasswordLen {
		return domain.ErrValidation("Passwort darf höchstens 72 Bytes lang sein")
	}
	if in.Password != in.ConfirmPassword {
		return domain.ErrValidation("Passwörter stimmen nicht überein")
	}
	if err := domain.ValidateRate(in.RatePerHour); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if _, err := domain.NormalizeIBAN(in.IBAN); err != nil {
		return domain.ErrValidation(err.Error())
	}
	return nil
}

// Register creates a trainer account with the trainer role.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Trainer, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(input.Email)
	iban, _ := domain.NormalizeIBAN(input.IBAN)

	existing, err := s.trainers.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, domain.ErrInternal("Registrierung fehlgeschlagen", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict("E-Mail bereits registriert")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), PasswordCost)
	if err != nil {
		return nil, domain.ErrInternal("Registrierung fehlgeschlagen", err)
	}

	t := &domain.Trainer{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		RatePerHour:  input.RatePerHour,
		IBAN:         iban,
		Role:         domain.RoleTrainer,
		PasswordHash: string(hash),
	}
	if err := s.trainers.Create(ctx, s.db, t); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, domain.ErrConflict("E-Mail bereits registriert")
		}
		return nil, domain.ErrInternal("Registrierung fehlgeschlagen", err)
	}

	s.logger.Info("trainer registered", "trainer_id", t.ID)
	return t, nil
}

// LoginInput holds the login request fields.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IP       string `json:"-"`
}

// AuthResult is returned on successful login.
type AuthResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Trainer   *domain.Trainer `json:"trainer"`
}

// Login verifies credentials and returns a JWT.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domain.ErrValidation("E-Mail und Passwort erforderlich")
	}

	if err := s.lockout.CheckLocked(ctx, email); err != nil {
		return nil, err
	}

	t, err := s.trainers.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, domain.ErrInternal("Anmeldung fehlgeschlagen", err)
	}
	if t == nil || bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(input.Password)) != nil {
		s.recordAttempt(ctx, email, input.IP, false)
		return nil, domain.ErrUnauthorized("E-Mail oder Passwort falsch")
	}
	s.recordAttempt(ctx, email, input.IP, true)

	token, expiresAt, err := s.jwtMgr.GenerateToken(t.ID, t.Email, t.Role)
	if err != nil {
		return nil, domain.ErrInternal("Anmeldung fehlgeschlagen", err)
	}

	return &AuthResult{Token: token, ExpiresAt: expiresAt, Trainer: t}, nil
}

func (s *AuthService) recordAttempt(ctx context.Context, email, ip string, success bool) {
	if err := s.lockout.Record(ctx, email, ip, success); err != nil {
		s.logger.Warn("login attempt not recorded", "error", err)
	}
}
