package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"skill-swap/internal/config"
	"skill-swap/internal/database/migration"
	"skill-swap/internal/database/seeder"
	"skill-swap/internal/delivery/http/handler"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/delivery/http/routes"
	v1 "skill-swap/internal/delivery/http/routes/v1"
	"skill-swap/internal/events"
	infraevents "skill-swap/internal/infrastructure/events"
	"skill-swap/internal/metrics"
	"skill-swap/internal/pkg/workerpool"
	"skill-swap/internal/repository"
	"skill-swap/internal/security"
	"skill-swap/internal/usecase"
	ucauth "skill-swap/internal/usecase/auth"
	ucswap "skill-swap/internal/usecase/swap"
	useruc "skill-swap/internal/usecase/user"
	"skill-swap/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	eventWorkers     = 4
	eventQueueBuffer = 256
)

type App struct {
	Fiber *fiber.App
}

// Bootstrap connects every dependency, applies migrations, starts the
// background workers and returns the HTTP app. cleanup stops the workers and
// closes connections in reverse order.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger := c.Logger

	if err := migrate(c, cfg.App.RunSeeders); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	hub := ws.NewHub(logger)
	go hub.Run(bgCtx)

	sinks := []events.Sink{ws.NewNotifier(hub)}
	if c.NATS != nil {
		sinks = append(sinks, infraevents.NewNATSPublisher(c.NATS, cfg.NATS.SubjectPrefix))
	}
	dispatcher := events.NewDispatcher(workerpool.New(eventWorkers, eventQueueBuffer), collector, logger, sinks...)
	dispatcher.Start(bgCtx)

	sanitizer := security.NewSanitizer()

	userRepo := repository.NewPostgresUserRepository(c.DB)
	skillRepo := repository.NewPostgresSkillRepository(c.DB)
	userSkillRepo := repository.NewPostgresUserSkillRepository(c.DB)
	swapRepo := repository.NewPostgresSwapRepository(c.DB)
	browseRepo := repository.NewPostgresUserQueryRepository(c.DB)
	statsRepo := repository.NewPostgresPlatformStatsRepository(c.DB)

	identitySvc := ucauth.NewService(userRepo, c.Cache, c.Cache.DefaultTTL(), logger)

	manager := ucswap.NewManager(swapRepo, identitySvc, userSkillRepo, ucswap.Options{
		StrictRoles:  cfg.Swap.StrictRoles,
		CompletionXP: cfg.Swap.CompletionXP,
		Events:       dispatcher,
		Sanitizer:    sanitizer,
		Logger:       logger,
	})

	authUC := usecase.NewAuthUsecase(identitySvc, userRepo, usecase.AuthOptions{
		Tokens:         c.Tokens,
		DevTokens:      cfg.IsDevelopment(),
		AdminSetupHash: cfg.Admin.SetupKeyHash,
	})
	userUC := usecase.NewUserUsecase(useruc.NewService(userRepo, sanitizer, usecase.BrowseInvalidator(c.Cache), logger))
	browseUC := usecase.NewBrowseUsecase(browseRepo, c.Cache, c.Cache.DefaultTTL(), logger)
	skillUC := usecase.NewSkillUsecase(skillRepo, sanitizer)
	userSkillUC := usecase.NewUserSkillUsecase(userSkillRepo, skillRepo, c.Cache, sanitizer)
	statsUC := usecase.NewPlatformStatsUsecase(statsRepo, c.DB, c.Cache, logger)

	limiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimit.GeneralPerMinute, cfg.RateLimit.SwapCreatePerMinute),
		collector,
	)
	authMw := middleware.NewAuthMiddleware(c.Verifier)

	handlers := v1.Handlers{
		Auth:       handler.NewAuthHandler(authUC),
		User:       handler.NewUserHandler(userUC, browseUC),
		UserSkill:  handler.NewUserSkillHandler(userSkillUC),
		Skill:      handler.NewSkillHandler(skillUC),
		Swap:       handler.NewSwapHandler(manager, collector, limiter.SwapCreateMiddleware()),
		AdminStats: handler.NewAdminStatsHandler(statsUC, logger),
		WS:         ws.NewHandler(hub, logger, middleware.UserIDFrom),
	}
	mws := v1.Middlewares{
		Auth:        authMw,
		RequireUser: middleware.RequireUser(identitySvc),
		RateLimiter: limiter,
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	registerGlobalMiddleware(f, logger, collector)
	routes.NewRegistry(
		handler.NewHealthHandler(c.DB, c.Cache),
		metrics.Handler(reg),
		handlers,
		mws,
	).Register(f)

	cleanup := func() error {
		limiter.Stop()
		dispatcher.Close()
		stopBackground()
		return c.Close()
	}
	return &App{Fiber: f}, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger, rec metrics.Recorder) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware(logger)
	app.Use(errMw.Middleware())
	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.Metrics(rec))
}

func migrate(c *Container, runSeeders bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	r := migration.Runner{Dir: c.Config.App.MigrationsDir, Logger: c.Logger}
	if err := r.Run(ctx, c.DB.SQLDB()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if !runSeeders {
		return nil
	}
	s := seeder.Runner{Seeders: seeder.Defaults(), Logger: c.Logger}
	if err := s.Run(ctx, c.DB); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	return nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
