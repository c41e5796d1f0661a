package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/coinvue/internal/server/services"
	"github.com/gin-gonic/gin"
)

const jsonContentType = "application/json; charset=utf-8"

// listCoins proxies the market listing. The upstream body is passed through
// without the envelope.
func (h *Handler) listCoins(c *gin.Context) {
	page, ok := queryInt(c, "page", services.DefaultPage)
	if !ok {
		return
	}
	perPage, ok := queryInt(c, "perPage", services.DefaultPerPage)
	if !ok {
		return
	}

	body, err := h.coins.ListCoins(c.Request.Context(), page, perPage, c.DefaultQuery("orderBy", services.DefaultOrder))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, jsonContentType, body)
}

func (h *Handler) coinDetail(c *gin.Context) {
	body, err := h.coins.CoinDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, jsonContentType, body)
}

func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fail(c, http.StatusBadRequest, name+": must be a number")
		return 0, false
	}
	return v, true
}
