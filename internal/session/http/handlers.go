package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/basso-ws/workspace-backend/internal/session/service"
)

type Handler struct {
	manager *service.Manager
}

func New(manager *service.Manager) *Handler {
	return &Handler{manager: manager}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "email and password required"})
		return
	}

	res := h.manager.SignInWithPassword(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if !res.OK {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": res.Error})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "session": h.manager.Snapshot()})
}

func (h *Handler) logout(c *gin.Context) {
	h.manager.SignOut(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": h.manager.Snapshot()})
}

func (h *Handler) session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": h.manager.Snapshot()})
}

// reset is the manual recovery action out of a stuck error state.
func (h *Handler) reset(c *gin.Context) {
	snap := h.manager.ResetLocalAuth(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": snap})
}
