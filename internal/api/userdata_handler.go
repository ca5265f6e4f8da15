package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbilawisdom/Beer-Me-Up/internal/core"
	"github.com/mbilawisdom/Beer-Me-Up/internal/middleware"
	"github.com/mbilawisdom/Beer-Me-Up/internal/models"
)

// UserDataHandler serves the per-user check-in endpoints. Each request
// resolves the caller's UserData service through the manager, which
// guarantees the service is initialized before any operation runs.
type UserDataHandler struct {
	manager *core.UserDataManager
	logger  *zap.Logger
}

// NewUserDataHandler creates a UserDataHandler.
func NewUserDataHandler(manager *core.UserDataManager, logger *zap.Logger) *UserDataHandler {
	return &UserDataHandler{manager: manager, logger: logger}
}

func (h *UserDataHandler) userData(c *gin.Context) (core.UserData, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return nil, false
	}
	service, err := h.manager.ForUser(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("Failed to initialize user data service",
			zap.String("userID", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to initialize user data"})
		return nil, false
	}
	return service, true
}

// InitializeUser handles POST /api/v1/users/initialize. The mobile client
// calls it right after sign-in so the user's root document exists before any
// other request.
func (h *UserDataHandler) InitializeUser(c *gin.Context) {
	if _, ok := h.userData(c); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User data initialized"})
}

// GetCheckInHistory handles GET /api/v1/checkins. The optional startAfter
// query parameter is the RFC 3339 date of the last check-in the client has;
// the returned page continues strictly after it.
func (h *UserDataHandler) GetCheckInHistory(c *gin.Context) {
	service, ok := h.userData(c)
	if !ok {
		return
	}

	var startAfter *models.CheckIn
	if raw := c.Query("startAfter"); raw != "" {
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid startAfter parameter",
				Details: "startAfter must be an RFC 3339 timestamp",
			})
			return
		}
		startAfter = &models.CheckIn{Date: date}
	}

	page, err := service.FetchCheckInHistory(c.Request.Context(), startAfter)
	if err != nil {
		h.logger.Error("Failed to fetch check-in history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch check-in history"})
		return
	}
	if page.CheckIns == nil {
		page.CheckIns = []*models.CheckIn{}
	}
	c.JSON(http.StatusOK, page)
}

// SaveCheckIn handles POST /api/v1/checkins.
func (h *UserDataHandler) SaveCheckIn(c *gin.Context) {
	var req SaveCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}
	if req.Beer.ID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "beer.id is required"})
		return
	}

	service, ok := h.userData(c)
	if !ok {
		return
	}
	if err := service.SaveBeerCheckIn(c.Request.Context(), req.Beer); err != nil {
		// No rollback exists: earlier steps of the save sequence may have
		// committed even though the request failed.
		h.logger.Error("Failed to save check-in",
			zap.String("beerID", req.Beer.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save check-in"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Check-in saved"})
}

// LiveCheckIns handles GET /api/v1/checkins/live as a Server-Sent Events
// stream. One "checkin" event is emitted per history entry added after the
// subscription started; the stream ends when the client disconnects or the
// upstream listener terminates.
func (h *UserDataHandler) LiveCheckIns(c *gin.Context) {
	service, ok := h.userData(c)
	if !ok {
		return
	}

	subscription, err := service.ListenForCheckIn(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to open live check-in stream", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to open live check-in stream"})
		return
	}
	defer subscription.Cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case checkIn, open := <-subscription.Updates():
			if !open {
				return false
			}
			c.SSEvent("checkin", checkIn)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
