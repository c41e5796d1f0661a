package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/coinvue/internal/logging"
	"github.com/dmitrijs2005/coinvue/internal/server/config"
	"github.com/dmitrijs2005/coinvue/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_InvalidConfig(t *testing.T) {
	c := &config.Config{}
	c.LoadDefaults()
	c.SecretKey = ""

	_, err := NewApp(context.Background(), c)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret key must not be empty")
}

func TestOpenDatabase_OpenError(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(string) (*sql.DB, error) { return nil, errors.New("bad dsn") }

	c := &config.Config{}
	c.LoadDefaults()

	_, _, err := OpenDatabase(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad dsn")
}

func TestNewHandler_ServesAPI(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	c := &config.Config{}
	c.LoadDefaults()
	h := NewHandler(c, db, repomanager.NewPostgresRepositoryManager(), logging.Nop{})

	mock.ExpectPing()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/favorites", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}
