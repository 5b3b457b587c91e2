package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
)

type teamRepo struct{}

// NewTeamRepository returns a pgx-backed TeamRepository.
func NewTeamRepository() TeamRepository {
	return &teamRepo{}
}

func (r *teamRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Team, error) {
	t := &domain.Team{}
	err := db.QueryRow(ctx, `SELECT id, name, league, is_youth FROM teams WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.League, &t.IsYouth)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find team: %w", err)
	}
	return t, nil
}

func (r *teamRepo) List(ctx context.Context, db DBTX) ([]domain.Team, error) {
	rows, err := db.Query(ctx, `SELECT id, name, league, is_youth FROM teams ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.League, &t.IsYouth); err != nil {
			return nil, fmt.Errorf("scan team row: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *teamRepo) UpsertByName(ctx context.Context, db DBTX, team *domain.Team) (*domain.Team, error) {
	out := &domain.Team{}
	err := db.QueryRow(ctx, `
		INSERT INTO teams (name, league, is_youth) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET league = EXCLUDED.league, is_youth = EXCLUDED.is_youth
		RETURNING id, name, league, is_youth`,
		team.Name, team.League, team.IsYouth,
	).Scan(&out.ID, &out.Name, &out.League, &out.IsYouth)
	if err != nil {
		return nil, fmt.Errorf("upsert team: %w", err)
	}
	return out, nil
}
