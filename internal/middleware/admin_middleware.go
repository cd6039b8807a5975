package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjoh/foundly-backend/internal/app/service"
	"github.com/sjoh/foundly-backend/internal/errors"
)

// AdminTokenHeader carries the opaque session token issued by the gate
const AdminTokenHeader = "X-Admin-Token"

// AdminMiddleware guards the administrator routes behind the shared
// secret gate. The gate is advisory: once a session token checks out,
// everything below trusts it.
type AdminMiddleware struct {
	adminService service.AdminService
}

func NewAdminMiddleware(adminService service.AdminService) *AdminMiddleware {
	return &AdminMiddleware{adminService: adminService}
}

// RequireSession rejects requests without an active admin session token
func (m *AdminMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token := c.GetHeader(AdminTokenHeader)
		if token == "" {
			log.Warn("Missing admin session token", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AdminSessionInvalid, "Admin sign-in required")
			c.Abort()
			return
		}

		active, err := m.adminService.IsSessionActive(c.Request.Context(), token)
		if err != nil {
			log.Error("Failed to check admin session", err, map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.InternalError(c, "")
			c.Abort()
			return
		}
		if !active {
			log.Warn("Expired or unknown admin session token", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AdminSessionInvalid, "Admin session expired, sign in again")
			c.Abort()
			return
		}

		c.Next()
	}
}
