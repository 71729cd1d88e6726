package bootstrap

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/cahier-app/cahier-backend/internal/api/http"
	"github.com/cahier-app/cahier-backend/internal/api/http/middleware"
	"github.com/cahier-app/cahier-backend/internal/api/http/routes"
	"github.com/cahier-app/cahier-backend/internal/projects/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Backend        string
	Service        *service.ProjectService
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Backend, dep.Service)
	healthHandler.RegisterRoutes(r)

	routes.RegisterV1(r, routes.V1Deps{
		Service:        dep.Service,
		RateLimitRPS:   dep.RateLimitRPS,
		RateLimitBurst: dep.RateLimitBurst,
	})

	return r
}

// corsConfig allows the listed origins; an empty list or "*" allows any origin.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
