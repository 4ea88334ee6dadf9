package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"campusrent/internal/adapter/api"
	"campusrent/internal/adapter/api/handler"
	apimiddleware "campusrent/internal/adapter/api/middleware"
	"campusrent/internal/adapter/api/router"
	"campusrent/internal/adapter/repository"
	"campusrent/internal/infrastructure/firebase"
	"campusrent/internal/infrastructure/ocr"
	"campusrent/internal/infrastructure/storage"
	"campusrent/internal/infrastructure/websocket"
	"campusrent/internal/usecase"
	"campusrent/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	serviceAccountPath := ""

	// Try to get service account from environment variable (for production)
	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		// Fallback to file path (for local development)
		serviceAccountPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./service-account.json"
		}

		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}

		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(
		ctx,
		cfg.StorageBucket,
		cfg.FirebaseProject,
		serviceAccountPath,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	visionClient, err := ocr.NewVisionClient(ctx, serviceAccountPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Vision: %v", err)
	}

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	rentalRepo := repository.NewFirestoreRentalRepository(firestoreClient)
	reportRepo := repository.NewFirestoreReportRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient)
	verificationUseCase := usecase.NewVerificationUseCase(userRepo, storageClient, visionClient, firebaseAuthClient)
	rentalUseCase := usecase.NewRentalUseCase(
		rentalRepo,
		userRepo,
		wsManager,
		time.Duration(cfg.RentalDeadlineHours)*time.Hour,
		time.Duration(cfg.OverdueSweepMinutes)*time.Minute,
	)
	trustUseCase := usecase.NewTrustUseCase(reportRepo, rentalRepo, userRepo, wsManager, int(cfg.StrikeThreshold))
	chatUseCase := usecase.NewChatUseCase(chatRepo, rentalRepo, userRepo, wsManager)

	handler.Setup(authUseCase, verificationUseCase, rentalUseCase, trustUseCase, chatUseCase, storageClient)
	handler.SetupHealthHandler(firebaseAuthClient)
	handler.SetupDevTokenHandler(firebaseAuthClient, cfg.DevTokenSecret)

	// Approved rentals past their deadline flip to overdue in the background
	go rentalUseCase.StartOverdueSweep(ctx)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient, cfg.DevTokenSecret, cfg.Environment)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware)

	router.Setup(e, authMiddleware, adminMiddleware)
	router.SetupDevRouter(e, cfg.Environment)
	router.SetupWebSocketRouter(e, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
