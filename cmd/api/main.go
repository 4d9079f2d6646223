package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"bazaarflow/internal/adapter/api"
	"bazaarflow/internal/adapter/api/handler"
	apimiddleware "bazaarflow/internal/adapter/api/middleware"
	"bazaarflow/internal/adapter/api/router"
	"bazaarflow/internal/adapter/repository"
	"bazaarflow/internal/infrastructure/ratelimit"
	"bazaarflow/internal/infrastructure/storage"
	"bazaarflow/internal/infrastructure/websocket"
	"bazaarflow/internal/usecase"
	"bazaarflow/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	credentialsPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")

	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
		credentialsPath = ""
	} else if credentialsPath != "" {
		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", credentialsPath)
		}
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	bidRepo := repository.NewFirestoreBidRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	conversationRepo := repository.NewFirestoreConversationRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)
	wishlistRepo := repository.NewFirestoreWishlistRepository(firestoreClient)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, wsManager)
	listingUseCase := usecase.NewListingUseCase(listingRepo, bidRepo)
	biddingUseCase := usecase.NewBiddingUseCase(bidRepo, listingRepo, orderRepo, notificationUseCase, rateLimiter)
	orderUseCase := usecase.NewOrderUseCase(orderRepo)
	conversationUseCase := usecase.NewConversationUseCase(conversationRepo, listingRepo, userRepo, notificationUseCase, wsManager, rateLimiter)
	dashboardUseCase := usecase.NewDashboardUseCase(listingRepo, bidRepo, orderRepo)
	wishlistUseCase := usecase.NewWishlistUseCase(wishlistRepo, listingRepo)

	handler.Setup(listingUseCase, biddingUseCase, orderUseCase, conversationUseCase, notificationUseCase, dashboardUseCase, wishlistUseCase)
	handler.SetupFileHandler(storageClient, cfg.MaxUploadBytes)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient, userRepo)
	adminMiddleware := apimiddleware.NewAdminMiddleware(cfg.AdminEmails)

	wsHandler := handler.NewWebSocketHandler(wsManager, authClient)

	router.Setup(e, authMiddleware, adminMiddleware)
	router.SetupListingDetailRouter(e, authClient)
	router.SetupFileRouter(e, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
