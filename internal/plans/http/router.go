package http

import "github.com/gin-gonic/gin"

// Register mounts the plan routes. The lead group is gated to team leads and
// admins; creation and reopening are mounted on the admin group.
func Register(lead *gin.RouterGroup, admin *gin.RouterGroup, h *Handler) {
	lead.GET("/plans", h.list)
	lead.GET("/plans/:id", h.get)
	lead.PUT("/plans/:id/lines", h.saveLines)
	lead.POST("/plans/:id/close", h.close)

	admin.POST("/plans", h.create)
	admin.POST("/plans/:id/reopen", h.reopen)
}
