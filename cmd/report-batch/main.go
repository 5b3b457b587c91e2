// Command report-batch regenerates every trainer's monthly report once and
// exits. BATCH_MONTH selects the month; it defaults to the previous month.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sgkaarstdave/AbrechnungApp/internal/app"
	"github.com/sgkaarstdave/AbrechnungApp/internal/auth"
	"github.com/sgkaarstdave/AbrechnungApp/internal/infra"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("report batch failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()

	svcs := app.NewServices(pool, auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry),
		infra.NewReportEventPublisher(producer, cfg.KafkaReportTopic), loc, logger)

	summary, err := svcs.Batch.Generate(ctx, cfg.BatchMonth)
	if err != nil {
		return err
	}

	logger.Info("report batch finished",
		"month", summary.Month,
		"generated", summary.Generated,
		"failed", len(summary.Failed),
	)
	for _, f := range summary.Failed {
		logger.Warn("report failed", "trainer_id", f.TrainerID, "error", f.Error)
	}
	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d of %d reports failed", len(summary.Failed), summary.Generated+len(summary.Failed))
	}
	return nil
}
