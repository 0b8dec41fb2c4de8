package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"portal-backend-go/internal/api"
	"portal-backend-go/internal/config"
	"portal-backend-go/internal/core"
	"portal-backend-go/internal/db"
	"portal-backend-go/internal/events"
	"portal-backend-go/internal/firebase"
	"portal-backend-go/internal/identity"
	"portal-backend-go/internal/mailer"
	"portal-backend-go/internal/middleware"
	"portal-backend-go/internal/ratelimit"
	"portal-backend-go/internal/timestamp"
)

func main() {
	// Load .env file. In production, environment variables should be set directly.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}

	// --- 1. Configuration and logger ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	var zapLogger *zap.Logger
	if appConfig.IsRelease() {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	timestamp.SetLogger(zapLogger)

	// --- 2. Firebase Admin SDK ---
	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()

	fbApp, err := firebase.NewApp(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	authClient, err := fbApp.Auth(initCtx)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to get Firebase Auth client", zap.Error(err))
	}
	firestoreClient, err := fbApp.Firestore(initCtx)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to get Firestore client", zap.Error(err))
	}
	defer firestoreClient.Close()

	store, err := db.NewFirestoreStore(firestoreClient)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to create document store", zap.Error(err))
	}

	// --- 3. Outbound adapters ---
	blobs := newBlobStore(initCtx, fbApp, appConfig, zapLogger)

	var sender mailer.Sender
	if appConfig.ResendAPIKey != "" {
		sender = mailer.NewResendMailer(appConfig.ResendAPIKey)
	} else {
		zapLogger.Warn("RESEND_API_KEY is not set; email endpoints will fail and ticket notifications are skipped")
	}

	var limiter ratelimit.Limiter
	if appConfig.RedisURL != "" {
		redisLimiter, err := ratelimit.NewRedisLimiter(appConfig.RedisURL, appConfig.ResetRateLimit, appConfig.ResetRateWindow)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to Redis", zap.Error(err))
		}
		defer redisLimiter.Close()
		limiter = redisLimiter
		zapLogger.Info("Using Redis rate limiter")
	} else {
		limiter = ratelimit.NewMemoryLimiter(appConfig.ResetRateLimit, appConfig.ResetRateWindow)
		zapLogger.Info("Using in-process rate limiter")
	}

	var publisher events.Publisher
	if appConfig.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(appConfig.AMQPURL, appConfig.AMQPQueue)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		zapLogger.Info("Publishing ticket events", zap.String("queue", appConfig.AMQPQueue))
	}

	// --- 4. Repositories and services ---
	userRepo := db.NewUserRepository(store)
	projectRepo := db.NewProjectRepository(store)
	invoiceRepo := db.NewInvoiceRepository(store)
	documentRepo := db.NewDocumentRepository(store)
	requestRepo := db.NewRequestRepository(store)

	files := core.NewFileGateway(blobs, appConfig.MaxFileBytes, zapLogger)
	provider := identity.NewFirebaseProvider(authClient)
	notifyTo := appConfig.NotifyEmail
	if notifyTo == "" {
		notifyTo = appConfig.FromEmail
	}

	svc := api.Services{
		Identity:  provider,
		Admins:    core.NewAdminList(appConfig.AdminEmailList()),
		Limiter:   limiter,
		Users:     core.NewUserService(userRepo, invoiceRepo, zapLogger),
		Projects:  core.NewProjectService(projectRepo, userRepo, zapLogger),
		Invoices:  core.NewInvoiceService(invoiceRepo, userRepo, files, zapLogger),
		Documents: core.NewDocumentService(documentRepo, userRepo, files, zapLogger),
		Requests: core.NewRequestService(requestRepo, userRepo, sender,
			core.NotifyOptions{From: appConfig.FromEmail, To: notifyTo, Events: publisher}, zapLogger),
		Accounts: core.NewAccountService(provider, userRepo, sender, limiter, core.AccountOptions{
			FromEmail:        appConfig.FromEmail,
			ResetContinueURL: appConfig.PasswordResetContinueURL,
		}, zapLogger),
		Files: files,
	}

	// --- 5. HTTP engine ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig.ClientURL))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured")
	}

	api.SetupRoutes(router, appConfig, zapLogger, svc)

	// --- 6. Serve with graceful shutdown ---
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", appConfig.Port),
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		zapLogger.Info("Starting HTTP server", zap.String("address", httpServer.Addr), zap.String("ginMode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully.")
}
