package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
)

// writeAudit records an admin mutation. Use cases dispatch their own
// events; this covers plain catalog writes.
func writeAudit(
	d *audit.Dispatcher,
	c *gin.Context,
	branchID *uint,
	action string,
	entity string,
	entityID uint,
	meta any,
) {
	d.Dispatch(audit.Event{
		BranchID: branchID,
		UserID:   actorID(c),
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
		Metadata: meta,
	})
}
