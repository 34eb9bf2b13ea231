package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/satyamkumarjha2002/help-desk-portal/internal/api/http"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/api/http/handlers"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/auth"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/classifier"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/config"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/events"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/observability"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/persistence"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/repository"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/service"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	resetStore := repository.NewResetTokenStore(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, userRepo, resetStore)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		CommentRepo:    commentRepo,
		AttachmentRepo: attachmentRepo,
		DepartmentRepo: departmentRepo,
		CategoryRepo:   categoryRepo,
		UserRepo:       userRepo,
		Dispatcher:     dispatcher,
		Classifier:     classifier.NewHTTPClassifier(cfg.Classifier),
		Logger:         logger,
	})
	adminService := service.NewAdminService(ticketRepo, commentRepo, departmentRepo, userRepo, dispatcher, logger)
	orgService := service.NewOrgService(departmentRepo, categoryRepo, userRepo, ticketRepo)
	userService := service.NewUserService(userRepo, departmentRepo, cfg.Auth.BcryptCost)
	notificationService := service.NewNotificationService(notificationRepo, redis.Client, logger)

	worker.StartNotificationWorker(dispatcher, notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Admin:          handlers.NewAdminHandler(adminService),
		Org:            handlers.NewOrgHandler(orgService),
		Users:          handlers.NewUsersHandler(userService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
