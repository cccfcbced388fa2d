package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basso-ws/workspace-backend/internal/profiles"
	"github.com/basso-ws/workspace-backend/internal/session/domain"
	"github.com/basso-ws/workspace-backend/internal/session/repository"
)

func setupRouter(t *testing.T) (*gin.Engine, *repository.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := repository.NewStore(client)

	r := gin.New()
	api := r.Group("/api")
	api.Use(WithSession(store))
	api.GET("/me", func(c *gin.Context) {
		p := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID, "role": p.Role})
	})

	admin := api.Group("/admin")
	admin.Use(RequireRole(profiles.RoleAdmin))
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	lead := api.Group("/lead")
	lead.Use(RequireRole(profiles.RoleTeamLead, profiles.RoleAdmin))
	lead.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return r, store
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestWithSession_MissingToken(t *testing.T) {
	r, _ := setupRouter(t)
	rr := do(r, http.MethodGet, "/api/me", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWithSession_UnknownToken(t *testing.T) {
	r, _ := setupRouter(t)
	rr := do(r, http.MethodGet, "/api/me", "tok-unknown")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWithSession_ResolvesPrincipal(t *testing.T) {
	r, store := setupRouter(t)
	require.NoError(t, store.Save(context.Background(), &domain.Session{
		AccessToken: "tok-1",
		UserID:      "u-1",
		Role:        profiles.RoleTeamLead,
	}))

	rr := do(r, http.MethodGet, "/api/me", "tok-1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"user_id":"u-1"`)
	assert.Contains(t, rr.Body.String(), `"role":"team_lead"`)
}

func TestRequireRole_Gating(t *testing.T) {
	r, store := setupRouter(t)
	require.NoError(t, store.Save(context.Background(), &domain.Session{
		AccessToken: "tok-lead",
		UserID:      "u-1",
		Role:        profiles.RoleTeamLead,
	}))
	require.NoError(t, store.Save(context.Background(), &domain.Session{
		AccessToken: "tok-admin",
		UserID:      "u-2",
		Role:        profiles.RoleAdmin,
	}))

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/admin/ping", "tok-lead").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/admin/ping", "tok-admin").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/lead/ping", "tok-lead").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/lead/ping", "tok-admin").Code)
}
