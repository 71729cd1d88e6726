package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cahier-app/cahier-backend/internal/logger"
	"github.com/cahier-app/cahier-backend/internal/projects/domain"
	"github.com/cahier-app/cahier-backend/internal/projects/service"
)

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), domain.Fields(req))
	if err != nil {
		writeError(c, "projects.create", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, "projects.list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "projects.get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Update(c.Request.Context(), id, domain.Patch(req))
	if err != nil {
		writeError(c, "projects.update", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")

	ok, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, "projects.delete", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) view(c *gin.Context) {
	v, err := h.svc.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "projects.view", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "view": v})
}

func (h *Handler) export(c *gin.Context) {
	data, contentType, err := h.svc.Export(c.Request.Context(), c.Param("id"), c.DefaultQuery("format", service.FormatMarkdown))
	if err != nil {
		writeError(c, "projects.export", err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

func (h *Handler) render(c *gin.Context) {
	var req renderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "html": h.svc.RenderMarkdown(req.Markdown)})
}

func (h *Handler) sections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "sections": domain.Sections})
}

// writeError maps domain errors to status codes. Storage faults are logged by
// the store; unexpected errors are logged here.
func writeError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
	case errors.Is(err, domain.ErrInvalidTitle):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": strings.TrimPrefix(err.Error(), domain.ErrInvalidTitle.Error()+": ")})
	case errors.Is(err, service.ErrUnknownFormat):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "storage unavailable"})
	default:
		logger.New(c.Request.Context()).LogError(operation, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
