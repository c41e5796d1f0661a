package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/coinvue/internal/common"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,max=255,email"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.auth.Register(c.Request.Context(), strings.TrimSpace(req.Username), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, session)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.auth.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, session)
}

// logout succeeds for any presented token, revoked or not.
func (h *Handler) logout(c *gin.Context) {
	header := strings.TrimSpace(c.GetHeader(common.AuthorizationHeaderName))
	if header == "" {
		fail(c, http.StatusBadRequest, "Missing Authorization header")
		return
	}
	token, ok := bearerToken(header)
	if !ok {
		token = header
	}

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}
