package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mituwo-320/asket-entry/config"
	"github.com/mituwo-320/asket-entry/db"
	"github.com/mituwo-320/asket-entry/handlers"
	"github.com/mituwo-320/asket-entry/live"
	"github.com/mituwo-320/asket-entry/repositories"
	api "github.com/mituwo-320/asket-entry/routes"
	"github.com/mituwo-320/asket-entry/schedule"
	"github.com/mituwo-320/asket-entry/services"
	"github.com/mituwo-320/asket-entry/storage"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("log_level", cfg.LogLevel.String()))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(ctx, dbConn); err != nil {
		logger.Error("failed to apply schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Публикация снапшотов расписания в Cloudflare R2 (опционально)
	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2.BucketName))
	} else {
		logger.Info("R2 is not configured, schedule snapshots are disabled")
	}
	publisher := storage.NewSnapshotPublisher(uploader)

	// Инициализация WebSocket Hub
	wsHub := live.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	entryRepo := repositories.NewPostgresEntryRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	txManager := repositories.NewTxManager(dbConn)

	// Инициализация сервисов
	allocateDefaults := schedule.AllocateOptions{
		DayStart:      cfg.Schedule.DayStart,
		MatchDuration: cfg.Schedule.MatchMinutes,
		Interval:      cfg.Schedule.IntervalMinutes,
		Courts:        cfg.Schedule.Courts,
	}
	if err := allocateDefaults.Validate(); err != nil {
		logger.Error("invalid schedule defaults", slog.Any("error", err))
		os.Exit(1)
	}

	authService := services.NewAuthService(cfg.AdminPasswordHash, []byte(cfg.JWTSecretKey), logger)
	// взносы из конфигурации подставляются только в новые турниры
	tournamentService := services.NewTournamentService(tournamentRepo, services.FeeSchedule{
		Participation: cfg.Fees.Participation,
		Insurance:     cfg.Fees.Insurance,
	}, logger)
	entryService := services.NewEntryService(entryRepo, tournamentRepo, txManager, logger)
	groupService := services.NewGroupService(entryRepo, txManager, logger)
	scheduleService := services.NewScheduleService(entryRepo, matchRepo, eventRepo, txManager, wsHub, publisher, allocateDefaults, logger)
	eventService := services.NewEventService(eventRepo, txManager, logger)
	lotteryService := services.NewLotteryService(entryRepo)
	dashboardService := services.NewDashboardService(tournamentRepo, entryRepo, matchRepo, eventRepo)
	logger.Info("Services initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSOrigins,
		RequestTimeout: 30 * time.Second,
	}, api.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Entry:      handlers.NewEntryHandler(entryService),
		Schedule:   handlers.NewScheduleHandler(scheduleService),
		Event:      handlers.NewEventHandler(eventService),
		Admin:      handlers.NewAdminHandler(dashboardService, lotteryService, groupService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, cfg.CORSOrigins, logger),
		Health:     handlers.NewHealthHandler(dbConn),
	})
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}

	// останавливаем hub после HTTP-сервера, чтобы закрыть оставшиеся websocket-клиенты
	stop()
	logger.Info("application exited")
}
