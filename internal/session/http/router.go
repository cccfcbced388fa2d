package http

import "github.com/gin-gonic/gin"

// Register attaches the auth routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup, loginLimiter gin.HandlerFunc) {
	if loginLimiter != nil {
		rg.POST("/login", loginLimiter, h.login)
	} else {
		rg.POST("/login", h.login)
	}
	rg.POST("/logout", h.logout)
	rg.GET("/session", h.session)
	rg.POST("/reset", h.reset)
}
