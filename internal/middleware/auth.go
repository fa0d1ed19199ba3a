package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/auth"
	"github.com/yukikurage/teamboard-api/internal/constants"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/policy"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"gorm.io/gorm"
)

// RequireAuth checks the session token and attaches the caller's identity.
// The token is read from the token cookie first, then from the
// Authorization header. Roles come from the stored user, so role changes
// apply to tokens issued before them.
func RequireAuth(tokens *auth.TokenManager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			apierrors.Unauthorized(c, "Unauthorized: No token provided")
			c.Abort()
			return
		}

		identity, err := authenticate(tokens, users, tokenString)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken):
				apierrors.Unauthorized(c, "Unauthorized: Token verification failed")
			case errors.Is(err, gorm.ErrRecordNotFound):
				apierrors.Unauthorized(c, "Unauthorized: Invalid token")
			default:
				_ = c.Error(err)
				apierrors.InternalError(c, "Failed to verify token")
			}
			c.Abort()
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is
// present and lets the request through either way.
func OptionalAuth(tokens *auth.TokenManager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFromRequest(c); tokenString != "" {
			if identity, err := authenticate(tokens, users, tokenString); err == nil {
				setIdentity(c, identity)
			}
		}
		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from context
func GetIdentity(c *gin.Context) (*policy.Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*policy.Identity)
	return identity, ok && identity != nil
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(constants.ContextKeyUserID)
	return userID, userID != ""
}

func authenticate(tokens *auth.TokenManager, users repository.UserRepository, tokenString string) (*policy.Identity, error) {
	claims, err := tokens.Parse(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := users.FindByID(claims.ID)
	if err != nil {
		return nil, err
	}

	return policy.FromUser(user, claims.TeamLead), nil
}

func setIdentity(c *gin.Context, identity *policy.Identity) {
	c.Set(constants.ContextKeyIdentity, identity)
	c.Set(constants.ContextKeyUserID, identity.UserID)
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(constants.TokenCookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, constants.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
	}
	return ""
}
