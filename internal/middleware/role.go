package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bizops-api/internal/constants"
	apierrors "github.com/yukikurage/bizops-api/internal/errors"
	"github.com/yukikurage/bizops-api/internal/logging"
	"github.com/yukikurage/bizops-api/internal/models"
	"gorm.io/gorm"
)

// UserFinder loads the current user for role checks.
type UserFinder interface {
	FindByID(id uint64) (*models.User, error)
}

// RequireRole lets the request through only when the current user has one of
// the roles. Must run after RequireAuth.
func RequireRole(users UserFinder, roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := users.FindByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// the session outlived its user
				apierrors.Unauthorized(c, "")
			} else {
				logging.FromContext(c).WithError(err).Error("failed to load user for role check")
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Set(constants.ContextKeyUserRole, user.Role)
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "Insufficient permissions")
		c.Abort()
	}
}
