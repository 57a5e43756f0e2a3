package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	"github.com/BruksfildServices01/lawnmate-api/internal/middleware"
)

// writeAudit records a staff action; d may be nil.
func writeAudit(
	d *audit.Dispatcher,
	c *gin.Context,
	action string,
	entity string,
	entityID uint,
	meta any,
) {
	if d == nil {
		return
	}
	d.Dispatch(audit.ByEmployee(middleware.CurrentEmployee(c), action, entity, entityID, meta))
}
