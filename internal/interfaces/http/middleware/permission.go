package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fammo-app/fammo/internal/shared/constants"
	"github.com/fammo-app/fammo/internal/shared/logger"
	"github.com/fammo-app/fammo/internal/shared/utils"
)

// PolicyEnforcer decides whether a role may call method on path.
type PolicyEnforcer interface {
	Enforce(role, path, method string) (bool, error)
}

type PermissionMiddleware struct {
	enforcer PolicyEnforcer
	logger   logger.Interface
}

func NewPermissionMiddleware(enforcer PolicyEnforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{enforcer: enforcer, logger: logger}
}

// RequirePermission checks the caller's role against the request path and
// method. It must run after RequireAuth.
func (m *PermissionMiddleware) RequirePermission() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(constants.ContextKeyUserRole)
		if role == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		allowed, err := m.enforcer.Enforce(role, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "role", role, "path", c.Request.URL.Path)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied",
				"user_id", c.Value(constants.ContextKeyUserID),
				"role", role,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
