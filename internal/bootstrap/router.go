package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/basso-ws/workspace-backend/internal/api/http"
	apimiddleware "github.com/basso-ws/workspace-backend/internal/api/http/middleware"
	cataloghttp "github.com/basso-ws/workspace-backend/internal/catalog/http"
	catalogrepo "github.com/basso-ws/workspace-backend/internal/catalog/repository"
	catalogsvc "github.com/basso-ws/workspace-backend/internal/catalog/service"
	planshttp "github.com/basso-ws/workspace-backend/internal/plans/http"
	plansrepo "github.com/basso-ws/workspace-backend/internal/plans/repository"
	planssvc "github.com/basso-ws/workspace-backend/internal/plans/service"
	"github.com/basso-ws/workspace-backend/internal/profiles"
	"github.com/basso-ws/workspace-backend/internal/reports"
	"github.com/basso-ws/workspace-backend/internal/session/http"
	"github.com/basso-ws/workspace-backend/internal/session/middleware"
	"github.com/basso-ws/workspace-backend/internal/session/repository"
	"github.com/basso-ws/workspace-backend/internal/session/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	DB             *pgxpool.Pool
	RDB            *redis.Client
	Store          *repository.Store
	Manager        *service.Manager
	ProfilesRepo   *profiles.Repo
	AllowedOrigins []string
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	if len(dep.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     dep.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
		}))
	}
	r.Use(apimiddleware.RequestIDMiddleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.RDB)
	healthHandler.RegisterRoutes(r)

	sessionHandler := http.New(dep.Manager)
	sessionHandler.Register(r.Group("/auth"), apimiddleware.RateLimit(10, 5))

	api := r.Group("/api/v1")
	api.Use(middleware.WithSession(dep.Store))

	lead := api.Group("", middleware.RequireRole(profiles.RoleTeamLead, profiles.RoleAdmin))
	admin := api.Group("", middleware.RequireRole(profiles.RoleAdmin))

	catalogHandler := cataloghttp.NewHandler(catalogsvc.NewService(catalogrepo.NewRepo(dep.DB)))
	cataloghttp.Register(admin, lead, catalogHandler)

	planHandler := planshttp.NewHandler(planssvc.NewService(plansrepo.NewRepo(dep.DB)))
	planshttp.Register(lead, admin, planHandler)

	reportHandler := reports.NewHandler(reports.NewRepo(dep.DB))
	reports.Register(admin, reportHandler)

	admin.GET("/leaders", func(c *gin.Context) {
		leaders, err := dep.ProfilesRepo.ListLeaders(c.Request.Context())
		if err != nil {
			c.JSON(500, gin.H{"ok": false, "error": "internal error"})
			return
		}
		c.JSON(200, gin.H{"ok": true, "leaders": leaders})
	})

	return r
}
