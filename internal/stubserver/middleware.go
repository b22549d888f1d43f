package stubserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edusnap-dev/edusnap/internal/auth"
	"github.com/edusnap-dev/edusnap/internal/models"
)

const bearerPrefix = "Bearer "

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrUserNotFound      = errors.New("user not found")
)

func setCurrentUser(c *gin.Context, user *models.User) {
	c.Set("user", user)
}

// CurrentUser returns the authenticated user set by JWTAuthMiddleware
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}

// respondWithDetail writes the backend's error envelope: {"detail": message}
func respondWithDetail(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Msg(message)
	c.JSON(statusCode, gin.H{"detail": message})
	c.Abort()
}

// JWTAuthMiddleware validates bearer tokens and loads the account
func JWTAuthMiddleware(db *gorm.DB, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			var message string
			switch err {
			case ErrMissingAuthHeader:
				message = "Missing authorization header"
			case ErrInvalidAuthFormat:
				message = "Invalid authorization header format"
			case ErrEmptyToken:
				message = "Empty token"
			}
			respondWithDetail(c, log, http.StatusUnauthorized, err, message)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			respondWithDetail(c, log, http.StatusUnauthorized, ErrInvalidToken, "Invalid or expired token")
			return
		}

		var user models.User
		if err := db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
			respondWithDetail(c, log, http.StatusUnauthorized, ErrUserNotFound, "User not found")
			return
		}

		setCurrentUser(c, &user)
		c.Next()
	}
}

// RequireRole ensures the authenticated user holds the given role
func RequireRole(role string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := CurrentUser(c)
		if !exists {
			respondWithDetail(c, log, http.StatusUnauthorized, errors.New("no session"), "Unauthorized")
			return
		}

		if user.Role != role {
			respondWithDetail(c, log, http.StatusForbidden, errors.New("role mismatch"), "Not authorized")
			return
		}

		c.Next()
	}
}
