package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.GET("/:id/view", h.view)
	rg.GET("/:id/export", h.export)
}

// RegisterMarkdown attaches the standalone renderer and section catalogue routes.
func (h *Handler) RegisterMarkdown(rg *gin.RouterGroup) {
	rg.POST("/markdown/render", h.render)
	rg.GET("/sections", h.sections)
}
