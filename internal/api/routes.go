package api

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbilawisdom/Beer-Me-Up/internal/core"
	"github.com/mbilawisdom/Beer-Me-Up/internal/middleware"
)

// SetupRoutes configures the application routes. Global middleware (logging,
// recovery, CORS) is expected to be applied to router before this is called.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	authClient *auth.Client,
	manager *core.UserDataManager,
	beerSearch core.BeerSearch,
) {
	authMW := middleware.NewAuthMiddleware(authClient, logger)

	userDataHandler := NewUserDataHandler(manager, logger)
	catalogHandler := NewCatalogHandler(beerSearch, logger)

	apiV1 := router.Group("/api/v1", authMW.VerifyToken())
	{
		// Called once after client-side Firebase sign-in; every other
		// endpoint initializes lazily anyway through the manager.
		apiV1.POST("/users/initialize", userDataHandler.InitializeUser)

		checkins := apiV1.Group("/checkins")
		{
			checkins.GET("", userDataHandler.GetCheckInHistory)
			checkins.POST("", userDataHandler.SaveCheckIn)
			checkins.GET("/live", userDataHandler.LiveCheckIns)
		}

		apiV1.GET("/beers/search", catalogHandler.SearchBeers)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured under /api/v1 and /health")
}
