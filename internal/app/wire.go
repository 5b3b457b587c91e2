package app

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sgkaarstdave/AbrechnungApp/internal/auth"
	"github.com/sgkaarstdave/AbrechnungApp/internal/guard"
	"github.com/sgkaarstdave/AbrechnungApp/internal/handler"
	"github.com/sgkaarstdave/AbrechnungApp/internal/report"
	"github.com/sgkaarstdave/AbrechnungApp/internal/repository"
	"github.com/sgkaarstdave/AbrechnungApp/internal/service"
)

// Auth endpoints allow this many requests per client IP and window.
const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool               *pgxpool.Pool
	JWTMgr             *auth.JWTManager
	Logger             *slog.Logger
	CronSecret         string
	CORSAllowedOrigins string
	// Publisher receives report events; nil disables them.
	Publisher service.Publisher
	// Location selects the default batch month.
	Location *time.Location
}

// Services bundles the services shared by the HTTP API and the batch binary.
type Services struct {
	Auth     *service.AuthService
	Trainers *service.TrainerService
	Teams    *service.TeamService
	Sessions *service.SessionService
	Export   *service.ExportService
	Reports  *service.ReportService
	Batch    *service.BatchService
}

// NewServices wires repositories into services.
func NewServices(pool *pgxpool.Pool, jwtMgr *auth.JWTManager, events service.Publisher, loc *time.Location, logger *slog.Logger) *Services {
	trainerRepo := repository.NewTrainerRepository()
	teamRepo := repository.NewTeamRepository()
	sessionRepo := repository.NewSessionRepository()
	reportRepo := repository.NewReportRepository()
	renderer := report.NewRenderer()

	return &Services{
		Auth:     service.NewAuthService(pool, trainerRepo, jwtMgr, guard.NewLockout(pool, logger), logger),
		Trainers: service.NewTrainerService(pool, trainerRepo),
		Teams:    service.NewTeamService(pool, teamRepo),
		Sessions: service.NewSessionService(pool, trainerRepo, teamRepo, sessionRepo),
		Export:   service.NewExportService(pool, trainerRepo, sessionRepo, reportRepo, renderer, events, logger),
		Reports:  service.NewReportService(pool, trainerRepo, reportRepo),
		Batch:    service.NewBatchService(pool, trainerRepo, sessionRepo, reportRepo, renderer, events, loc, logger),
	}
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	svcs := NewServices(deps.Pool, deps.JWTMgr, deps.Publisher, deps.Location, logger)

	authHandler := handler.NewAuthHandler(svcs.Auth, logger)
	trainerHandler := handler.NewTrainerHandler(svcs.Trainers, svcs.Teams, logger)
	sessionHandler := handler.NewSessionHandler(svcs.Sessions, logger)
	reportHandler := handler.NewReportHandler(svcs.Export, svcs.Reports, svcs.Batch, logger)

	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORSWithOrigins(deps.CORSAllowedOrigins))
	r.Use(handler.JSONContentType)

	r.Get("/health", handler.HealthHandler(deps.Pool))

	r.Route("/auth", func(r chi.Router) {
		r.Use(handler.RateLimit(guard.NewRateLimiter(authRateLimit, authRateWindow)))
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Scheduler trigger, authenticated by shared secret instead of JWT.
	r.With(auth.RequireSharedSecret(deps.CronSecret)).Post("/reports/cron", reportHandler.Cron)

	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(deps.JWTMgr))

		r.Route("/trainers", func(r chi.Router) {
			r.With(auth.RequireAdmin).Get("/", trainerHandler.List)
			r.Get("/me", trainerHandler.Me)
			r.Patch("/{id}", trainerHandler.Update)
		})
		r.Get("/teams", trainerHandler.Teams)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", sessionHandler.Overview)
			r.Post("/", sessionHandler.Create)
			r.With(auth.RequireAdmin).Patch("/{id}/approval", sessionHandler.SetApproval)
		})

		r.Get("/export", reportHandler.Export)
		r.Get("/reports", reportHandler.List)
		r.Get("/reports/{reportId}", reportHandler.Download)
	})

	return r
}
