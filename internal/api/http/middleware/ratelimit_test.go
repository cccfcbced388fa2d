package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(perMinute, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(perMinute, burst))
	r.POST("/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func hit(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":1234"
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimit_BurstThenThrottle(t *testing.T) {
	r := limitedRouter(1, 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1"))
}

func TestRateLimit_PerIPIsolation(t *testing.T) {
	r := limitedRouter(1, 1)

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1"))

	// another client gets its own bucket
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2"))
}
