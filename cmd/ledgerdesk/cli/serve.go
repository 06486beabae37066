package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/ledgerdesk/ledgerdesk/internal/access"
	"github.com/ledgerdesk/ledgerdesk/internal/analytics"
	"github.com/ledgerdesk/ledgerdesk/internal/app"
	"github.com/ledgerdesk/ledgerdesk/internal/auth"
	"github.com/ledgerdesk/ledgerdesk/internal/business"
	"github.com/ledgerdesk/ledgerdesk/internal/directory"
	"github.com/ledgerdesk/ledgerdesk/internal/documents"
	"github.com/ledgerdesk/ledgerdesk/internal/goals"
	"github.com/ledgerdesk/ledgerdesk/internal/observability"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/cache"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/db"
	"github.com/ledgerdesk/ledgerdesk/internal/reports"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/tasks"
	"github.com/ledgerdesk/ledgerdesk/internal/transactions"
	"github.com/ledgerdesk/ledgerdesk/internal/users"
	"github.com/ledgerdesk/ledgerdesk/jobs"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return nil
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		return err
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "ledgerdesk_session",
		cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	auditLogger := shared.NewAuditLogger(pool, logger)
	guard := access.Guard{Logger: logger, Audit: auditLogger}

	directoryService := directory.NewService(directory.NewRepository(pool))
	directoryMW := directory.Middleware{
		Service: directoryService,
		Tokens:  auth.NewTokenVerifier(cfg.AuthTokenSecret),
		Logger:  logger,
	}

	authService := auth.NewService(auth.NewRepository(pool))
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	businessService := business.NewService(business.NewRepository(pool))
	businessHandler := business.NewHandler(logger, businessService, guard)

	txnService := transactions.NewService(transactions.NewRepository(pool))
	txnHandler := transactions.NewHandler(logger, txnService, guard)

	goalService := goals.NewService(goals.NewRepository(pool))
	goalHandler := goals.NewHandler(logger, goalService, guard)

	docService := documents.NewService(documents.NewRepository(pool))
	docHandler := documents.NewHandler(logger, docService, guard)

	taskService := tasks.NewService(tasks.NewRepository(pool))
	taskHandler := tasks.NewHandler(logger, taskService, guard)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		return err
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	reportService := reports.NewService(
		reports.NewRepository(pool),
		txnService,
		reports.NewGotenbergClient(cfg.GotenbergURL),
		reports.NewRedisArtifactStore(redisClient, 24*time.Hour),
		jobClient,
	)
	reportHandler := reports.NewHandler(logger, reportService, guard)

	userService := users.NewService(users.NewRepository(pool))
	userHandler := users.NewHandler(logger, userService, guard)

	analyticsCache := analytics.NewCache(redisClient, 10*time.Minute)
	analyticsService := analytics.NewService(analytics.NewRepository(pool), analyticsCache)
	analyticsHandler := analytics.NewHandler(logger, analyticsService, guard)
	if err := analyticsCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("analytics invalidation listener", slog.Any("error", err))
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		SessionManager:      sessionManager,
		Directory:           directoryMW,
		AuthHandler:         authHandler,
		BusinessHandler:     businessHandler,
		TransactionsHandler: txnHandler,
		GoalsHandler:        goalHandler,
		DocumentsHandler:    docHandler,
		TasksHandler:        taskHandler,
		ReportsHandler:      reportHandler,
		UsersHandler:        userHandler,
		AnalyticsHandler:    analyticsHandler,
		JobHandler:          jobHandler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
