package audit

import (
	"net/http"

	"crm-platform/internal/auth"
	"crm-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Record audits every successful mutating request passing through the
// group it is attached to. Failures to write the audit row are logged and
// swallowed; audit never blocks the mutation itself.
func Record(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet {
			return
		}
		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		ctx := c.Request.Context()
		actorID, _ := auth.UserID(ctx)
		actorRole, _ := auth.Role(ctx)

		action := c.Request.Method + " " + c.FullPath()
		if err := svc.LogAdminAction(ctx, actorID, actorRole, c.ClientIP(), action, ""); err != nil {
			logger.FromGin(c).Warn("audit append failed", "action", action, "err", err)
		}
	}
}
