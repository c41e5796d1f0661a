package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/coinvue/internal/dbx"
	"github.com/dmitrijs2005/coinvue/internal/server/repositories/announcements"
	"github.com/dmitrijs2005/coinvue/internal/server/repositories/authtokens"
	"github.com/dmitrijs2005/coinvue/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/coinvue/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a handle, so the same code
// runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	AuthTokens(db dbx.DBTX) authtokens.Repository
	Favorites(db dbx.DBTX) favorites.Repository
	Announcements(db dbx.DBTX) announcements.Repository
}
