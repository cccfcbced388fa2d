package reports

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RowSource is what the handler needs from storage.
type RowSource interface {
	Between(ctx context.Context, from, to string) ([]Row, error)
}

type Handler struct {
	source RowSource
}

func NewHandler(source RowSource) *Handler {
	return &Handler{source: source}
}

// Register mounts the report routes; the group is expected to carry the
// admin role gate.
func Register(admin *gin.RouterGroup, h *Handler) {
	admin.GET("/reports", h.list)
	admin.GET("/reports/export.csv", h.exportCSV)
}

func (h *Handler) list(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	rows, err := h.source.Between(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "rows": rows})
}

func (h *Handler) exportCSV(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	rows, err := h.source.Between(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
		return
	}

	filename := fmt.Sprintf("basso-report_%s_to_%s.csv", from, to)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := WriteCSV(c.Writer, rows); err != nil {
		// headers are gone by now; nothing left to do but note it
		_ = c.Error(err)
	}
}

func dateRange(c *gin.Context) (string, string, bool) {
	from := c.Query("from")
	to := c.Query("to")
	if !validDate(from) || !validDate(to) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "from and to must be YYYY-MM-DD"})
		return "", "", false
	}
	if from > to {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "from must not be after to"})
		return "", "", false
	}
	return from, to, true
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
