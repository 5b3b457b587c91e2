package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/infra"
)

const trainerColumns = `id, name, email, rate_per_hour, iban, role, password_hash, created_at, updated_at`

type trainerRepo struct{}

// NewTrainerRepository returns a pgx-backed TrainerRepository.
func NewTrainerRepository() TrainerRepository {
	return &trainerRepo{}
}

func (r *trainerRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Trainer, error) {
	row := db.QueryRow(ctx, `SELECT `+trainerColumns+` FROM trainers WHERE id = $1`, id)
	return scanTrainer(row)
}

func (r *trainerRepo) FindByEmail(ctx context.Context, db DBTX, email string) (*domain.Trainer, error) {
	row := db.QueryRow(ctx, `SELECT `+trainerColumns+` FROM trainers WHERE email = $1`, email)
	return scanTrainer(row)
}

func (r *trainerRepo) Create(ctx context.Context, db DBTX, t *domain.Trainer) error {
	err := db.QueryRow(ctx, `
		INSERT INTO trainers (name, email, rate_per_hour, iban, role, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		t.Name, t.Email, infra.Float64ToNumeric(t.RatePerHour), t.IBAN, string(t.Role), t.PasswordHash,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert trainer: %w", err)
	}
	return nil
}

func (r *trainerRepo) UpsertByEmail(ctx context.Context, db DBTX, t *domain.Trainer) (*domain.Trainer, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO trainers (name, email, rate_per_hour, iban, role, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET
		  name = EXCLUDED.name,
		  rate_per_hour = EXCLUDED.rate_per_hour,
		  role = EXCLUDED.role,
		  password_hash = EXCLUDED.password_hash,
		  updated_at = now()
		RETURNING `+trainerColumns,
		t.Name, t.Email, infra.Float64ToNumeric(t.RatePerHour), t.IBAN, string(t.Role), t.PasswordHash)
	out, err := scanTrainer(row)
	if err != nil {
		return nil, fmt.Errorf("upsert trainer: %w", err)
	}
	return out, nil
}

func (r *trainerRepo) ListByName(ctx context.Context, db DBTX) ([]domain.Trainer, error) {
	rows, err := db.Query(ctx, `SELECT `+trainerColumns+` FROM trainers ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list trainers: %w", err)
	}
	defer rows.Close()

	var trainers []domain.Trainer
	for rows.Next() {
		t, err := scanTrainer(rows)
		if err != nil {
			return nil, err
		}
		trainers = append(trainers, *t)
	}
	return trainers, rows.Err()
}

// Update uses dynamic SET clauses so omitted fields stay untouched.
func (r *trainerRepo) Update(ctx context.Context, db DBTX, id uuid.UUID, u domain.TrainerUpdate) (*domain.Trainer, error) {
	setClauses := []string{"updated_at = now()"}
	args := []interface{}{}
	argIdx := 1

	if u.RatePerHour != nil {
		setClauses = append(setClauses, fmt.Sprintf("rate_per_hour = $%d", argIdx))
		args = append(args, infra.Float64ToNumeric(*u.RatePerHour))
		argIdx++
	}
	switch {
	case u.ClearIBAN:
		setClauses = append(setClauses, "iban = NULL")
	case u.IBAN != nil:
		setClauses = append(setClauses, fmt.Sprintf("iban = $%d", argIdx))
		args = append(args, *u.IBAN)
		argIdx++
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE trainers SET %s
		WHERE id = $%d
		RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, trainerColumns)

	t, err := scanTrainer(db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("update trainer: %w", err)
	}
	return t, nil
}

// scanTrainer returns nil, nil when the row does not exist.
func scanTrainer(row pgx.Row) (*domain.Trainer, error) {
	t := &domain.Trainer{}
	var rate pgtype.Numeric
	var role string
	err := row.Scan(&t.ID, &t.Name, &t.Email, &rate, &t.IBAN, &role, &t.PasswordHash, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan trainer: %w", err)
	}
	if t.RatePerHour, err = infra.NumericToFloat64(rate); err != nil {
		return nil, fmt.Errorf("trainer rate: %w", err)
	}
	t.Role = domain.Role(role)
	return t, nil
}
