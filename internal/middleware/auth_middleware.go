package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbilawisdom/Beer-Me-Up/internal/models"
)

// currentUserKey is the gin context key under which the authenticated user is
// stored by VerifyToken.
const currentUserKey = "currentUser"

// errorResponse mirrors api.ErrorResponse; defined locally to avoid an import
// cycle with internal/api.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware verifies Firebase ID tokens on incoming requests.
type AuthMiddleware struct {
	authClient *auth.Client
	logger     *zap.Logger
}

// NewAuthMiddleware creates an AuthMiddleware. A nil auth client is a setup
// programmer error, so it panics rather than returning an error.
func NewAuthMiddleware(authClient *auth.Client, logger *zap.Logger) *AuthMiddleware {
	if authClient == nil {
		panic("Firebase Auth client is not initialized for AuthMiddleware")
	}
	return &AuthMiddleware{authClient: authClient, logger: logger}
}

// VerifyToken checks the Bearer token in the Authorization header against
// Firebase Auth and, when valid, stores the authenticated identity in the
// gin context for downstream handlers.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		token, err := m.authClient.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			// Specific failure details stay server-side; the client only
			// learns the token was rejected.
			m.logger.Warn("Rejected Firebase ID token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		user := &models.User{ID: token.UID}
		if email, ok := token.Claims["email"].(string); ok {
			user.Email = email
		}
		if name, ok := token.Claims["name"].(string); ok {
			user.DisplayName = name
		}
		if picture, ok := token.Claims["picture"].(string); ok {
			user.PhotoURL = picture
		}
		c.Set(currentUserKey, user)

		c.Next()
	}
}

// CurrentUser returns the authenticated user placed in the context by
// VerifyToken, or nil when the request was not authenticated.
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}
