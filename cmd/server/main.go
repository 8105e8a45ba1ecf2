package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/realty-backend/internal/config"
	"github.com/ignatzorin/realty-backend/internal/db"
	httpHandlers "github.com/ignatzorin/realty-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/realty-backend/internal/http/router"
	"github.com/ignatzorin/realty-backend/internal/logger"
	"github.com/ignatzorin/realty-backend/internal/payments"
	"github.com/ignatzorin/realty-backend/internal/repository"
	"github.com/ignatzorin/realty-backend/internal/service"
	"github.com/ignatzorin/realty-backend/internal/storage"
	"github.com/ignatzorin/realty-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	docStorage, err := storage.NewDocumentStorage(cfg.DocsStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	referralRepo := repository.NewReferralRepository(dbConn)
	engagementRepo := repository.NewEngagementRepository(dbConn, referralRepo)
	commissionRepo := repository.NewCommissionRepository(dbConn)
	offerRepo := repository.NewOfferRepository(dbConn)
	crowdfundingRepo := repository.NewCrowdfundingRepository(dbConn)
	messageRepo := repository.NewMessageRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)
	documentRepo := repository.NewDocumentRepository(dbConn)

	// Платёжный шлюз подключаем только если он настроен.
	var gateway service.PaymentGateway
	if cfg.PaymentGatewayURL != "" {
		gateway = payments.NewClient(cfg.PaymentGatewayURL, cfg.PaymentGatewayKey)
	}

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	referralService := service.NewReferralService(referralRepo, userRepo)
	engagementService := service.NewEngagementService(engagementRepo, userRepo, referralRepo, cfg.CommissionAmountCents)
	commissionService := service.NewCommissionService(commissionRepo, referralRepo)
	offerService := service.NewOfferService(offerRepo, userRepo, commissionRepo, gateway, logger.Log)
	crowdfundingService := service.NewCrowdfundingService(crowdfundingRepo)
	messageService := service.NewMessageService(messageRepo, userRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	seedService := service.NewSeedService(userRepo, messageRepo, crowdfundingRepo)

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	hub.SetNotificationSaver(ws.NewNotificationServiceAdapter(notificationService))
	go hub.Run()

	// Подключаем hub к сервисам, рассылающим события пользователям.
	referralService.SetNotifier(hub)
	engagementService.SetNotifier(hub)
	offerService.SetNotifier(hub)
	messageService.SetNotifier(hub)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(userRepo)
	referralHandler := httpHandlers.NewReferralHandler(referralService)
	engagementHandler := httpHandlers.NewEngagementHandler(engagementService)
	commissionHandler := httpHandlers.NewCommissionHandler(commissionService)
	offerHandler := httpHandlers.NewOfferHandler(offerService)
	crowdfundingHandler := httpHandlers.NewCrowdfundingHandler(crowdfundingService)
	messageHandler := httpHandlers.NewMessageHandler(messageService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	documentHandler := httpHandlers.NewDocumentHandler(documentRepo, docStorage)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)
	seedHandler := httpHandlers.NewSeedHandler(seedService)

	// Роутер.
	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		profileHandler,
		referralHandler,
		engagementHandler,
		commissionHandler,
		offerHandler,
		crowdfundingHandler,
		messageHandler,
		notificationHandler,
		documentHandler,
		wsHandler,
		healthHandler,
		seedHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
