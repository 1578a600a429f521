package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/billing-portal/internal/api/http"
	"github.com/spec-kit/billing-portal/internal/api/http/handlers"
	"github.com/spec-kit/billing-portal/internal/auth"
	"github.com/spec-kit/billing-portal/internal/config"
	"github.com/spec-kit/billing-portal/internal/events"
	"github.com/spec-kit/billing-portal/internal/observability"
	"github.com/spec-kit/billing-portal/internal/persistence"
	"github.com/spec-kit/billing-portal/internal/repository"
	"github.com/spec-kit/billing-portal/internal/service"
	"github.com/spec-kit/billing-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)
	receiptRepo := repository.NewReceiptRepository(pool)
	ticketRepo := repository.NewSupportTicketRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger.Named("notifications"), cfg.Notification))

	var throttle service.LoginThrottle
	if redis.Enabled() {
		throttle = service.NewRedisLoginThrottle(redis.Client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow())
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Throttle:   throttle,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	billingService := service.NewBillingService(service.BillingDependencies{
		StatsRepo:   statsRepo,
		ReceiptRepo: receiptRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	supportService := service.NewSupportService(service.SupportDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	adminService := service.NewAdminService(service.AdminDependencies{
		UserRepo:      userRepo,
		DashboardRepo: dashboardRepo,
		Billing:       billingService,
	})

	created, err := authService.EnsureAdmin(ctx, cfg.Admin)
	if err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}
	if created {
		logger.Info("admin account created", zap.String("email", cfg.Admin.Email))
	}

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: !cfg.App.IsDevelopment()})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:      cfg.App.RequestTimeout(),
		Development:  cfg.App.IsDevelopment(),
		AllowOrigins: cfg.App.FrontendURL,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Users:   handlers.NewUsersHandler(authService),
		Account: handlers.NewAccountHandler(billingService, supportService),
		Admin: handlers.NewAdminHandler(handlers.AdminHandlerDeps{
			Auth:    authService,
			Billing: billingService,
			Support: supportService,
			Admin:   adminService,
		}),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
