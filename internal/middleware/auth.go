package middleware

import (
	"log/slog"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/internal/constants"
	apierrors "github.com/projectdesk/projectdesk/internal/errors"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/services"
)

// RequireAuth checks if the user is authenticated via session and loads the
// user with its role into the context.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		c.Set(constants.ContextKeyUserID, session.Get(constants.ContextKeyUserID))

		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		user, err := authService.GetUser(c.Request.Context(), userID)
		if err != nil {
			// the account was deleted while the session was alive
			slog.InfoContext(c.Request.Context(), "rejecting stale session", "user_id", userID, "error", err)
			session.Clear()
			_ = session.Save()
			apierrors.Unauthorized(c, "")
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyCurrentUser, user)
		c.Next()
	}
}

// RequirePermission rejects users whose role lacks the permission. It must
// run after RequireAuth.
func RequirePermission(permission models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}
		if !user.Can(permission) {
			apierrors.Forbidden(c, "Missing permission "+string(permission))
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetCurrentUser retrieves the user loaded by RequireAuth
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyCurrentUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}
