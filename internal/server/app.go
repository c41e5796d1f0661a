// Package server assembles and runs the CoinVue API server: it opens the
// database, applies migrations, wires services into the HTTP API and serves
// until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/coinvue/internal/logging"
	"github.com/dmitrijs2005/coinvue/internal/server/auth"
	"github.com/dmitrijs2005/coinvue/internal/server/config"
	"github.com/dmitrijs2005/coinvue/internal/server/httpapi"
	"github.com/dmitrijs2005/coinvue/internal/server/marketdata"
	"github.com/dmitrijs2005/coinvue/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/coinvue/internal/server/services"
	"github.com/dmitrijs2005/coinvue/internal/server/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "coinvue"

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	handler           http.Handler
	shutdownTelemetry telemetry.ShutdownFunc
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

// OpenDatabase connects to PostgreSQL and brings the schema up to date.
func OpenDatabase(ctx context.Context, c *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return db, rm, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	shutdown, err := telemetry.Setup(ctx, serviceName, c.OTLPEndpoint, c.OTLPInsecure)
	if err != nil {
		logger.Warn(ctx, "tracing disabled", "error", err.Error())
	}

	db, rm, err := OpenDatabase(ctx, c)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return &App{
		config:            c,
		logger:            logger,
		db:                db,
		handler:           NewHandler(c, db, rm, logger),
		shutdownTelemetry: shutdown,
	}, nil
}

// NewHandler builds the traced HTTP handler serving the whole API.
func NewHandler(c *config.Config, db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) http.Handler {
	issuer := auth.NewTokenIssuer([]byte(c.SecretKey), c.TokenLifetime)
	hasher := auth.NewPasswordHasher(c.BcryptCost)

	market := marketdata.NewCachedSource(
		marketdata.NewClient(c.CoinGeckoBaseURL, c.CoinGeckoAPIKey, c.CoinGeckoTimeout),
		c.MarketCacheSize, c.MarketCacheTTL,
	)

	h := httpapi.NewHandler(httpapi.Services{
		Auth:          services.NewAuthService(db, rm, issuer, hasher, c.StrictSessions, logger),
		Favorites:     services.NewFavoritesService(db, rm, logger),
		Announcements: services.NewAnnouncementService(db, rm, logger),
		Admin: services.NewAdminService(db, rm, hasher, services.AdminSettings{
			ActiveUserWindow: c.ActiveUserWindow,
			TopCoinsLimit:    c.TopCoinsLimit,
		}, logger),
		Coins: services.NewCoinService(market),
		DB:    db,
	}, logger)

	gin.SetMode(gin.ReleaseMode)
	router := h.Routes(httpapi.RouterOptions{
		CORSOrigins:        c.CORSOrigins,
		LoginRatePerMinute: c.LoginRatePerMinute,
		LoginRateBurst:     c.LoginRateBurst,
	})
	return otelhttp.NewHandler(router, serviceName)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.HTTPAddr, app.handler, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until SIGINT/SIGTERM/SIGQUIT or until ctx is cancelled, then
// releases the database and flushes traces.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
}

func (app *App) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err.Error())
	}
	if err := app.shutdownTelemetry(ctx); err != nil {
		app.logger.Error(ctx, "telemetry shutdown", "error", err.Error())
	}
	app.logger.Info(ctx, "Stopped")
}
