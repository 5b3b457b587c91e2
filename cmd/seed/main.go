// Command seed creates the default admin account and teams. It is safe to
// run repeatedly.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/infra"
	"github.com/sgkaarstdave/AbrechnungApp/internal/repository"
	"github.com/sgkaarstdave/AbrechnungApp/internal/service"
)

var seedTeams = []domain.Team{
	{Name: "Volleys Herren", League: "Bezirksliga"},
	{Name: "Volleys U18", League: "Jugend Oberliga", IsYouth: true},
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(context.Background(), logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.SeedAdminPassword == "" {
		return errors.New("SEED_ADMIN_PASSWORD is required")
	}

	if cfg.RunMigrations {
		if err := infra.RunMigrations(cfg.DSN(), cfg.MigrationsDir, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), service.PasswordCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin, err := repository.NewTrainerRepository().UpsertByEmail(ctx, pool, &domain.Trainer{
		Name:         "Alex Admin",
		Email:        "admin@volley.local",
		RatePerHour:  35,
		Role:         domain.RoleAdmin,
		PasswordHash: string(hash),
	})
	if err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}
	logger.Info("admin ready", "trainer_id", admin.ID, "email", admin.Email)

	teams := repository.NewTeamRepository()
	for i := range seedTeams {
		team, err := teams.UpsertByName(ctx, pool, &seedTeams[i])
		if err != nil {
			return fmt.Errorf("upsert team %q: %w", seedTeams[i].Name, err)
		}
		logger.Info("team ready", "team_id", team.ID, "name", team.Name)
	}
	return nil
}
