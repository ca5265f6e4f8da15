package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mbilawisdom/Beer-Me-Up/internal/api"
	"github.com/mbilawisdom/Beer-Me-Up/internal/catalog"
	"github.com/mbilawisdom/Beer-Me-Up/internal/config"
	"github.com/mbilawisdom/Beer-Me-Up/internal/core"
	"github.com/mbilawisdom/Beer-Me-Up/internal/db"
	"github.com/mbilawisdom/Beer-Me-Up/internal/middleware"
)

func main() {
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// A local .env is a development convenience; its absence is fine.
	if err := godotenv.Load(); err == nil {
		zapLogger.Info("Loaded environment from .env file")
	}

	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded")

	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()
	clients, err := db.InitFirebase(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer clients.Close()

	userDataRepo, err := db.NewFirestoreUserDataRepository(clients.Firestore, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize user data repository", zap.Error(err))
	}
	userDataManager := core.NewUserDataManager(userDataRepo, zapLogger)
	beerSearch := catalog.NewClient(appConfig.BreweryDBAPIURL, appConfig.BreweryDBAPIKey, nil, zapLogger)
	zapLogger.Info("Repositories and services initialized")

	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// gin.New() keeps the middleware stack under our control: zap request
	// logging instead of gin's default logger.
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig.ClientURL))
		zapLogger.Info("CORS middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS middleware skipped: CLIENT_URL is not configured")
	}

	api.SetupRoutes(router, zapLogger, clients.Auth, userDataManager, beerSearch)

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server",
		zap.String("address", serverAddr),
		zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully")
}
