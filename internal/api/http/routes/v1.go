package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/cahier-app/cahier-backend/internal/api/http/middleware"
	projectshttp "github.com/cahier-app/cahier-backend/internal/projects/http"
	"github.com/cahier-app/cahier-backend/internal/projects/service"
)

type V1Deps struct {
	Service        *service.ProjectService
	RateLimitRPS   float64
	RateLimitBurst int
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(dep.RateLimitRPS, dep.RateLimitBurst))

	h := projectshttp.New(dep.Service)
	h.Register(api.Group("/projects"))
	h.RegisterMarkdown(api)
}
