package guard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/repository"
)

const (
	MaxAttempts   = 5
	LockoutWindow = 15 * time.Minute
)

// Lockout tracks login attempts in login_attempts and locks an email after
// MaxAttempts failures within LockoutWindow.
type Lockout struct {
	db     repository.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewLockout creates a Lockout over db.
func NewLockout(db repository.DBTX, logger *slog.Logger) *Lockout {
	return &Lockout{db: db, logger: logger, now: time.Now}
}

// Record inserts a login attempt row.
func (l *Lockout) Record(ctx context.Context, email, ip string, success bool) error {
	_, err := l.db.Exec(ctx, `
		INSERT INTO login_attempts (email, ip_address, success)
		VALUES ($1, $2, $3)`,
		email, ip, success)
	if err != nil {
		return fmt.Errorf("record login attempt: %w", err)
	}
	return nil
}

// CheckLocked returns ErrAccountLocked if the email has >= MaxAttempts failed
// logins within the lockout window. A store error fails open.
func (l *Lockout) CheckLocked(ctx context.Context, email string) error {
	var count int
	err := l.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM login_attempts
		WHERE email = $1 AND success = false AND created_at > $2`,
		email, l.now().Add(-LockoutWindow)).Scan(&count)
	if err != nil {
		l.logger.Warn("lockout check failed, allowing login", "email", email, "error", err)
		return nil
	}
	if count >= MaxAttempts {
		return domain.ErrAccountLocked("Zu viele fehlgeschlagene Anmeldeversuche, bitte später erneut versuchen")
	}
	return nil
}
