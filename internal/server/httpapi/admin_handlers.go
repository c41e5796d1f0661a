package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/coinvue/internal/server/models"
	"github.com/dmitrijs2005/coinvue/internal/server/services"
	"github.com/gin-gonic/gin"
)

type announcementRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Content  string `json:"content" binding:"required"`
	Type     string `json:"type" binding:"required,oneof=info success warning"`
	IsActive *bool  `json:"isActive" binding:"required"`
}

func (r announcementRequest) input() services.AnnouncementInput {
	return services.AnnouncementInput{
		Title:    r.Title,
		Content:  r.Content,
		Type:     models.AnnouncementType(r.Type),
		IsActive: *r.IsActive,
	}
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

func (h *Handler) users(c *gin.Context) {
	list, err := h.admin.Users(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *Handler) listActiveAnnouncements(c *gin.Context) {
	list, err := h.announcements.ListActive(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *Handler) listAllAnnouncements(c *gin.Context) {
	list, err := h.announcements.ListAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *Handler) createAnnouncement(c *gin.Context) {
	var req announcementRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.announcements.Create(c.Request.Context(), principal(c), req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, a)
}

func (h *Handler) updateAnnouncement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req announcementRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.announcements.Update(c.Request.Context(), id, req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, a)
}

func (h *Handler) deleteAnnouncement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.announcements.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		fail(c, http.StatusBadRequest, "id: must be a positive number")
		return 0, false
	}
	return id, true
}
