package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/coinvue/internal/common"
	"github.com/dmitrijs2005/coinvue/internal/dbx"
	"github.com/dmitrijs2005/coinvue/internal/server/models"
	"github.com/dmitrijs2005/coinvue/internal/server/repositories/announcements"
	"github.com/dmitrijs2005/coinvue/internal/server/repositories/authtokens"
	"github.com/dmitrijs2005/coinvue/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/coinvue/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var errBoom = errors.New("boom")

// memStore backs every fake repository with plain maps. Failure fields
// inject errors into specific calls.
type memStore struct {
	mu sync.Mutex

	users     map[int64]*models.User
	nextUser  int64
	tokens    map[string]*models.AuthToken
	favs      []*models.Favorite
	nextFav   int64
	anns      map[int64]*models.Announcement
	nextAnn   int64
	recordTx  []dbx.DBTX
	deleteLog []string

	failRecord    error
	failLookup    error
	failRevokeAll error
	failCount     error
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[int64]*models.User{},
		tokens: map[string]*models.AuthToken{},
		anns:   map[int64]*models.Announcement{},
	}
}

func (s *memStore) tokensOf(userID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for tok, row := range s.tokens {
		if row.UserID == userID {
			out = append(out, tok)
		}
	}
	sort.Strings(out)
	return out
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return &memUsers{m.s} }
func (m *fakeRepoManager) AuthTokens(db dbx.DBTX) authtokens.Repository {
	return &memTokens{s: m.s, db: db}
}
func (m *fakeRepoManager) Favorites(dbx.DBTX) favorites.Repository { return &memFavorites{m.s} }
func (m *fakeRepoManager) Announcements(dbx.DBTX) announcements.Repository {
	return &memAnnouncements{m.s}
}

// --- users ---

type memUsers struct{ s *memStore }

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return nil, common.ErrDuplicateEmail
		}
		if existing.Username == u.Username {
			return nil, common.ErrDuplicateUsername
		}
	}
	r.s.nextUser++
	u.ID = r.s.nextUser
	cp := *u
	r.s.users[u.ID] = &cp
	return u, nil
}

func (r *memUsers) find(match func(*models.User) bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *memUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *memUsers) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.LastLogin = &at
	return nil
}

func (r *memUsers) UpdateRole(_ context.Context, id int64, role models.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Role = role
	return nil
}

func (r *memUsers) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.users, id)
	r.s.deleteLog = append(r.s.deleteLog, "user")
	return nil
}

func (r *memUsers) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failCount != nil {
		return 0, r.s.failCount
	}
	return int64(len(r.s.users)), nil
}

func (r *memUsers) CountLoggedInSince(_ context.Context, since time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.users {
		if u.LastLogin != nil && !u.LastLogin.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *memUsers) ListWithFavoriteCount(context.Context) ([]*models.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.UserSummary{}
	for _, u := range r.s.users {
		var n int64
		for _, f := range r.s.favs {
			if f.UserID == u.ID {
				n++
			}
		}
		out = append(out, &models.UserSummary{SafeUser: u.Safe(), FavoriteCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinDate.After(out[j].JoinDate) })
	return out, nil
}

// --- auth tokens ---

type memTokens struct {
	s  *memStore
	db dbx.DBTX
}

func (r *memTokens) Record(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failRecord != nil {
		return r.s.failRecord
	}
	if _, ok := r.s.tokens[token]; ok {
		return common.ErrDuplicateToken
	}
	r.s.tokens[token] = &models.AuthToken{UserID: userID, Token: token, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	r.s.recordTx = append(r.s.recordTx, r.db)
	return nil
}

func (r *memTokens) RevokeAll(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failRevokeAll != nil {
		return r.s.failRevokeAll
	}
	for tok, row := range r.s.tokens {
		if row.UserID == userID {
			delete(r.s.tokens, tok)
		}
	}
	r.s.deleteLog = append(r.s.deleteLog, "tokens")
	return nil
}

func (r *memTokens) Revoke(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tokens, token)
	return nil
}

func (r *memTokens) Lookup(_ context.Context, token string) (*models.AuthToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failLookup != nil {
		return nil, r.s.failLookup
	}
	row, ok := r.s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *row
	return &cp, nil
}

// --- favorites ---

type memFavorites struct{ s *memStore }

func (r *memFavorites) ListByUser(_ context.Context, userID int64) ([]*models.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Favorite{}
	for i := len(r.s.favs) - 1; i >= 0; i-- {
		if r.s.favs[i].UserID == userID {
			out = append(out, r.s.favs[i])
		}
	}
	return out, nil
}

func (r *memFavorites) Find(_ context.Context, userID int64, coinID string) (*models.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.favs {
		if f.UserID == userID && f.CoinID == coinID {
			return f, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memFavorites) Create(_ context.Context, f *models.Favorite) (*models.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextFav++
	f.ID = r.s.nextFav
	f.CreatedAt = time.Now()
	r.s.favs = append(r.s.favs, f)
	return f, nil
}

func (r *memFavorites) Delete(_ context.Context, userID int64, coinID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.favs[:0]
	for _, f := range r.s.favs {
		if !(f.UserID == userID && f.CoinID == coinID) {
			kept = append(kept, f)
		}
	}
	r.s.favs = kept
	return nil
}

func (r *memFavorites) DeleteAllForUser(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.favs[:0]
	for _, f := range r.s.favs {
		if f.UserID != userID {
			kept = append(kept, f)
		}
	}
	r.s.favs = kept
	r.s.deleteLog = append(r.s.deleteLog, "favorites")
	return nil
}

func (r *memFavorites) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.favs)), nil
}

func (r *memFavorites) TopCoins(_ context.Context, limit int) ([]models.CoinPopularity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int64{}
	for _, f := range r.s.favs {
		counts[f.CoinID]++
	}
	out := []models.CoinPopularity{}
	for id, n := range counts {
		out = append(out, models.CoinPopularity{CoinID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].CoinID < out[j].CoinID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- announcements ---

type memAnnouncements struct{ s *memStore }

func (r *memAnnouncements) list(activeOnly bool) []*models.Announcement {
	out := []*models.Announcement{}
	for _, a := range r.s.anns {
		if activeOnly && !a.IsActive {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *memAnnouncements) ListActive(context.Context) ([]*models.Announcement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(true), nil
}

func (r *memAnnouncements) ListAll(context.Context) ([]*models.Announcement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(false), nil
}

func (r *memAnnouncements) FindByID(_ context.Context, id int64) (*models.Announcement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.anns[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memAnnouncements) Create(_ context.Context, a *models.Announcement) (*models.Announcement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextAnn++
	a.ID = r.s.nextAnn
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.s.anns[a.ID] = &cp
	return a, nil
}

func (r *memAnnouncements) Update(_ context.Context, a *models.Announcement) (*models.Announcement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.anns[a.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	a.UpdatedAt = time.Now()
	cp := *a
	r.s.anns[a.ID] = &cp
	return a, nil
}

func (r *memAnnouncements) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.anns[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.anns, id)
	return nil
}

func (r *memAnnouncements) ClearAuthor(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.anns {
		if a.CreatedBy != nil && *a.CreatedBy == userID {
			a.CreatedBy = nil
			a.CreatedByUsername = ""
		}
	}
	r.s.deleteLog = append(r.s.deleteLog, "announcements")
	return nil
}
