package httpapi

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/coinvue/internal/common"
	"github.com/dmitrijs2005/coinvue/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	principalKey = "principal"
	requestIDKey = "request_id"
)

// withRequestID propagates the caller's X-Request-ID or assigns a new one.
func withRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(common.RequestIDHeaderName))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(common.RequestIDHeaderName, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func (h *Handler) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"request_id", requestID(c),
		)
	}
}

// recovery turns a panic into the regular 500 envelope.
func (h *Handler) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		h.logger.Error(c.Request.Context(), "panic recovered",
			"panic", rec, "path", c.Request.URL.Path, "request_id", requestID(c))
		fail(c, http.StatusInternalServerError, msgInternal)
	})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", common.AuthorizationHeaderName, common.RequestIDHeaderName},
		ExposeHeaders: []string{common.RequestIDHeaderName},
		MaxAge:        time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, strings.TrimSpace(common.BearerPrefix)) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authenticate requires a valid session and stores its principal on the
// request context.
func (h *Handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if !ok {
			fail(c, http.StatusUnauthorized, msgUnauthenticated)
			return
		}

		p, err := h.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			h.writeError(c, err)
			return
		}

		c.Set(principalKey, *p)
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !principal(c).IsAdmin() {
			fail(c, http.StatusForbidden, msgForbidden)
			return
		}
		c.Next()
	}
}

func principal(c *gin.Context) services.Principal {
	v, _ := c.Get(principalKey)
	p, _ := v.(services.Principal)
	return p
}
