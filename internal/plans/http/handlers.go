package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/basso-ws/workspace-backend/internal/plans/domain"
	"github.com/basso-ws/workspace-backend/internal/plans/service"
	"github.com/basso-ws/workspace-backend/internal/session/middleware"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func actorFrom(c *gin.Context) service.Actor {
	p := middleware.CurrentPrincipal(c)
	return service.Actor{UserID: p.UserID, Role: p.Role}
}

func (h *Handler) create(c *gin.Context) {
	var req domain.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}

	id, err := h.svc.Create(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "plan_id": id})
}

func (h *Handler) list(c *gin.Context) {
	plans, err := h.svc.ListFor(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "plans": plans})
}

func (h *Handler) get(c *gin.Context) {
	detail, err := h.svc.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "plan": detail})
}

type saveLinesRequest struct {
	Lines []domain.LinePatch `json:"lines"`
}

func (h *Handler) saveLines(c *gin.Context) {
	var req saveLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}

	outcome, err := h.svc.SaveLines(c.Request.Context(), actorFrom(c), c.Param("id"), req.Lines)
	if err != nil {
		// a partial save still reports what landed
		if outcome != nil && len(outcome.Committed) > 0 {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error(), "outcome": outcome})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "outcome": outcome})
}

type closeRequest struct {
	Lines []domain.LinePatch `json:"lines"`
}

func (h *Handler) close(c *gin.Context) {
	var req closeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
			return
		}
	}

	outcome, err := h.svc.Close(c.Request.Context(), actorFrom(c), c.Param("id"), req.Lines)
	if err != nil {
		if outcome != nil && len(outcome.Committed) > 0 {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error(), "outcome": outcome})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "outcome": outcome})
}

func (h *Handler) reopen(c *gin.Context) {
	if err := h.svc.Reopen(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrPlanNotFound), errors.Is(err, domain.ErrLineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrPlanClosed):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
