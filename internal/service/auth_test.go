package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sgkaarstdave/AbrechnungApp/internal/auth"
	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
)

func newAuthFixture() (*store, *AuthService, *fakeLockout, *auth.JWTManager) {
	s := newStore()
	lock := &fakeLockout{}
	jwtMgr := auth.NewJWTManager("service-test-secret", time.Hour)
	return s, NewAuthService(nil, fakeTrainers{s}, jwtMgr, lock, discardLogger()), lock, jwtMgr
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Name:            "Anna Beispiel",
		Email:           " Anna@Verein.DE ",
		Password:        "geheim123",
		ConfirmPassword: "geheim123",
		RatePerHour:     22.5,
		IBAN:            " DE02120300000000202051 ",
	}
}

func TestRegister_CreatesTrainer(t *testing.T) {
	s, svc, _, _ := newAuthFixture()

	tr, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "anna@verein.de", tr.Email)
	assert.Equal(t, domain.RoleTrainer, tr.Role)
	require.NotNil(t, tr.IBAN)
	assert.Equal(t, "DE02120300000000202051", *tr.IBAN)

	stored := s.trainers[tr.ID]
	cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
}

func TestRegister_Validation(t *testing.T) {
	_, svc, _, _ := newAuthFixture()

	tests := []struct {
		name    string
		mutate  func(*RegisterInput)
		wantMsg string
	}{
		{"short name", func(in *RegisterInput) { in.Name = "A" }, "Name angeben"},
		{"bad email", func(in *RegisterInput) { in.Email = "anna" }, "Gültige E-Mail"},
		{"short password", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "kurz", "kurz" }, "Mindestens 8 Zeichen"},
		{"password over bcrypt limit", func(in *RegisterInput) {
			in.Password = strings.Repeat("a", 80)
			in.ConfirmPassword = in.Password
		}, "Passwort darf höchstens 72 Bytes lang sein"},
		{"multibyte password over limit", func(in *RegisterInput) {
			in.Password = strings.Repeat("ä", 37)
			in.ConfirmPassword = in.Password
		}, "Passwort darf höchstens 72 Bytes lang sein"},
		{"mismatch", func(in *RegisterInput) { in.ConfirmPassword = "anders123" }, "Passwörter stimmen nicht überein"},
		{"rate too high", func(in *RegisterInput) { in.RatePerHour = 501 }, "Unrealistischer Stundensatz"},
		{"iban too long", func(in *RegisterInput) { in.IBAN = "DE0212030000000020205123456789012345" }, "IBAN zu lang"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			tt.mutate(&in)
			_, err := svc.Register(context.Background(), in)
			appErr := requireAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, 400, appErr.Status)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	_, err = svc.Register(ctx, validRegistration())
	appErr := requireAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "E-Mail bereits registriert", appErr.Message)
}

func TestRegister_EmptyIBANStoredAsNil(t *testing.T) {
	_, svc, _, _ := newAuthFixture()
	in := validRegistration()
	in.IBAN = "   "
	tr, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Nil(t, tr.IBAN)
}

func TestLogin(t *testing.T) {
	_, svc, lock, jwtMgr := newAuthFixture()
	ctx := context.Background()
	tr, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "anna@verein.de", Password: "falsch!!"})
		appErr := requireAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, 401, appErr.Status)
		assert.Equal(t, []bool{false}, lock.attempts)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "nobody@verein.de", Password: "geheim123"})
		assert.Equal(t, 401, requireAppError(err).Status)
	})

	t.Run("success", func(t *testing.T) {
		res, err := svc.Login(ctx, LoginInput{Email: "ANNA@verein.de", Password: "geheim123"})
		require.NoError(t, err)
		assert.Equal(t, tr.ID, res.Trainer.ID)

		claims, err := jwtMgr.ValidateToken(res.Token)
		require.NoError(t, err)
		assert.Equal(t, tr.ID.String(), claims.Subject)
		assert.Equal(t, domain.RoleTrainer, claims.Role)
		assert.True(t, lock.attempts[len(lock.attempts)-1])
	})

	t.Run("locked", func(t *testing.T) {
		lock.locked = true
		defer func() { lock.locked = false }()
		_, err := svc.Login(ctx, LoginInput{Email: "anna@verein.de", Password: "geheim123"})
		assert.Equal(t, 429, requireAppError(err).Status)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "anna@verein.de"})
		assert.Equal(t, 400, requireAppError(err).Status)
	})
}
