// Package session keeps per-browser state in SQLite through scs. The only
// thing remembered is the shelf a link was last added to, so the add form
// can preselect it.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session data keys
const (
	KeyLastShelfID = "last_shelf_id"
)

// Options configures the session cookie.
type Options struct {
	Lifetime      time.Duration
	SecureCookies bool
	CookiePath    string
}

// Manager wraps scs.SessionManager with application-specific methods.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a configured session manager backed by the sessions
// table of the main database. sqlDB should be the *sql.DB underneath gorm.
func NewManager(sqlDB *sql.DB, opts Options) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	if opts.Lifetime > 0 {
		sm.Lifetime = opts.Lifetime
	}
	if opts.CookiePath == "" {
		opts.CookiePath = "/"
	}

	sm.Cookie.Name = "linkdepot_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = opts.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = opts.CookiePath

	return &Manager{SessionManager: sm}, nil
}

// LastShelf returns the shelf a link was last saved to, or 0.
func (m *Manager) LastShelf(r *http.Request) uint {
	return uint(m.GetInt(r.Context(), KeyLastShelfID))
}

// RememberShelf records the shelf a link was just saved to.
func (m *Manager) RememberShelf(r *http.Request, shelfID uint) {
	m.Put(r.Context(), KeyLastShelfID, int(shelfID))
}

// ForgetShelf drops the remembered shelf, used when that shelf is deleted.
func (m *Manager) ForgetShelf(r *http.Request, shelfID uint) {
	if m.LastShelf(r) == shelfID {
		m.Remove(r.Context(), KeyLastShelfID)
	}
}
