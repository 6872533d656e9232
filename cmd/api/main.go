package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"usedmarket/internal/adapter/api"
	"usedmarket/internal/adapter/api/handler"
	apimiddleware "usedmarket/internal/adapter/api/middleware"
	"usedmarket/internal/adapter/api/router"
	"usedmarket/internal/adapter/repository"
	"usedmarket/internal/infrastructure/cache"
	"usedmarket/internal/infrastructure/events"
	"usedmarket/internal/infrastructure/firebase"
	"usedmarket/internal/infrastructure/lock"
	"usedmarket/internal/infrastructure/storage"
	"usedmarket/internal/infrastructure/websocket"
	"usedmarket/internal/usecase"
	"usedmarket/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	opt, serviceAccountPath := credentialOption()

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:   cfg.FirebaseProject,
		DatabaseURL: cfg.DatabaseURL,
	}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	dbClient, err := firebaseApp.Database(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Realtime Database client: %v", err)
	}

	imageHost, err := storage.NewImageHost(ctx, cfg.StorageBucket, serviceAccountPath)
	if err != nil {
		log.Fatalf("Failed to initialize image host: %v", err)
	}
	defer imageHost.Close()

	store := repository.NewRTDBProjectionStore(dbClient)

	locks := lock.NewKeyedMutex(cfg.StrictSerialization)
	locks.StartCleanupRoutine()
	log.Printf("Strict per-entity serialization: %v", cfg.StrictSerialization)

	var publisher usecase.EventPublisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	listCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, 30*time.Second)
	defer listCache.Close()

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)
	counterNotifier := websocket.NewCounterNotifier(wsManager)

	userUseCase := usecase.NewUserUseCase(store, firebase.NewFirebaseAuthClient(authClient))
	catalogUseCase := usecase.NewCatalogUseCase(store, locks, publisher, listCache, counterNotifier)
	messagingUseCase := usecase.NewMessagingUseCase(store, locks, wsManager, counterNotifier)
	salesUseCase := usecase.NewSalesUseCase(store, locks, publisher, listCache, counterNotifier)
	commentUseCase := usecase.NewCommentUseCase(store)
	queryUseCase := usecase.NewQueryUseCase(store, listCache)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(store)

	userHandler := handler.NewUserHandler(userUseCase)
	catalogHandler := handler.NewCatalogHandler(catalogUseCase)
	messagingHandler := handler.NewMessagingHandler(messagingUseCase)
	salesHandler := handler.NewSalesHandler(salesUseCase)
	commentHandler := handler.NewCommentHandler(commentUseCase)
	queryHandler := handler.NewQueryHandler(queryUseCase)
	fileHandler := handler.NewFileHandler(imageHost)
	wsHandler := handler.NewWebSocketHandler(wsManager, authClient)

	router.Setup(e)
	router.SetupUserRouter(e, userHandler, authMiddleware)
	router.SetupProductRouter(e, queryHandler, catalogHandler, commentHandler, authMiddleware, adminMiddleware)
	router.SetupSalesRouter(e, salesHandler, queryHandler, authMiddleware)
	router.SetupMessageRouter(e, messagingHandler, authMiddleware)
	router.SetupFileRouter(e, fileHandler, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}

// credentialOption resolves service account credentials from the
// environment: inline JSON for deployed environments, a file path for
// local development.
func credentialOption() (option.ClientOption, string) {
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(serviceAccountJSON)), ""
	}

	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if serviceAccountPath == "" {
		serviceAccountPath = "./service-account.json"
	}
	if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
		log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
	}

	log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
	return option.WithCredentialsFile(serviceAccountPath), serviceAccountPath
}
