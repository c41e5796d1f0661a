package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterOptions configures cross-cutting behavior of the router.
type RouterOptions struct {
	CORSOrigins        []string
	LoginRatePerMinute int
	LoginRateBurst     int
}

// Routes builds the gin engine with every /api route mounted.
func (h *Handler) Routes(opts RouterOptions) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(withRequestID(), h.accessLog(), h.recovery())
	if len(opts.CORSOrigins) > 0 {
		r.Use(corsMiddleware(opts.CORSOrigins))
	}
	r.NoRoute(func(c *gin.Context) { fail(c, http.StatusNotFound, "Not found") })

	api := r.Group("/api")
	api.GET("/healthz", h.healthz)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", newIPLimiter(opts.LoginRatePerMinute, opts.LoginRateBurst).middleware(), h.login)
	authGroup.POST("/logout", h.logout)

	api.GET("/announcements", h.listActiveAnnouncements)
	api.GET("/coins", h.listCoins)
	api.GET("/coins/:id", h.coinDetail)

	favorites := api.Group("/favorites", h.authenticate())
	favorites.GET("", h.listFavorites)
	favorites.POST("", h.addFavorite)
	favorites.DELETE("/:coinId", h.removeFavorite)

	admin := api.Group("/admin", h.authenticate(), requireAdmin())
	admin.GET("/stats", h.stats)
	admin.GET("/users", h.users)
	admin.GET("/announcements", h.listAllAnnouncements)
	admin.POST("/announcements", h.createAnnouncement)
	admin.PUT("/announcements/:id", h.updateAnnouncement)
	admin.DELETE("/announcements/:id", h.deleteAnnouncement)

	return r
}

func (h *Handler) healthz(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		h.logger.Error(c.Request.Context(), "health check failed", "error", err.Error())
		fail(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	respond(c, http.StatusOK, gin.H{"status": "ok"})
}
