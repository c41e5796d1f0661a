package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/coinvue/internal/common"
	"github.com/gin-gonic/gin"
)

const (
	msgSuccess         = "Success"
	msgInternal        = "Internal server error"
	msgUnauthenticated = "Authentication required"
	msgForbidden       = "Access denied"
)

// envelope wraps every non-proxied response body.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Message: msgSuccess, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: msg})
}

// writeError is the single place where service errors become HTTP statuses.
// Messages of user-facing kinds are returned verbatim; anything else is
// logged and hidden behind a generic 500.
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		invalid  *common.ValidationError
		notFound *common.NotFoundError
	)
	switch {
	case errors.As(err, &invalid):
		fail(c, http.StatusBadRequest, invalid.Msg)
	case errors.Is(err, common.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrorUnauthenticated):
		fail(c, http.StatusUnauthorized, msgUnauthenticated)
	case errors.Is(err, common.ErrorUnauthorized):
		fail(c, http.StatusForbidden, msgForbidden)
	case errors.As(err, &notFound):
		fail(c, http.StatusNotFound, notFound.Msg)
	case errors.Is(err, common.ErrorNotFound):
		fail(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, common.ErrExternalService):
		h.logger.Warn(c.Request.Context(), "market data unavailable", "error", err.Error(), "request_id", requestID(c))
		fail(c, http.StatusBadGateway, "Market data service unavailable")
	default:
		h.logger.Error(c.Request.Context(), "unhandled error", "error", err.Error(),
			"method", c.Request.Method, "path", c.Request.URL.Path, "request_id", requestID(c))
		fail(c, http.StatusInternalServerError, msgInternal)
	}
}
