package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listFavorites(c *gin.Context) {
	favs, err := h.favorites.List(c.Request.Context(), principal(c).UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, favs)
}

func (h *Handler) addFavorite(c *gin.Context) {
	fav, err := h.favorites.Add(c.Request.Context(), principal(c).UserID, c.Query("coinId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, fav)
}

func (h *Handler) removeFavorite(c *gin.Context) {
	if err := h.favorites.Remove(c.Request.Context(), principal(c).UserID, c.Param("coinId")); err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}
