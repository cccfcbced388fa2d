package http

import "github.com/gin-gonic/gin"

// Register mounts the reference-data routes. Write routes are expected to sit
// behind the admin role gate; task listing is mounted separately so leads can
// read it.
func Register(admin *gin.RouterGroup, authed *gin.RouterGroup, h *Handler) {
	admin.POST("/clients", h.createClient)
	admin.GET("/clients", h.listClients)

	admin.POST("/workers", h.createWorker)
	admin.GET("/workers", h.listWorkers)
	admin.DELETE("/workers/:id", h.deactivateWorker)

	admin.POST("/tasks", h.createTask)

	authed.GET("/tasks", h.listTasks)
}
