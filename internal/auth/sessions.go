package auth

import (
	"bufio"
	"database/sql"
	"net"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lexicon/internal/config"
	"github.com/mrlokans/lexicon/internal/entities"
)

const (
	sessionKeyUserID  = "user_id"
	sessionKeyEmail   = "email"
	sessionKeyLoginAt = "login_at"
)

// SessionManager keeps the logged-in user in a cookie-backed session stored
// in the application's sqlite database.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates the sessions table if needed and configures
// cookies from cfg. sqlDB is the *sql.DB underneath gorm.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
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
	sm.Lifetime = cfg.SessionLifetime
	if sm.Lifetime == 0 {
		sm.Lifetime = 24 * time.Hour
	}
	sm.IdleTimeout = sm.Lifetime / 2

	sm.Cookie.Name = "lexicon_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession renews the token and records the user.
func (sm *SessionManager) CreateSession(r *http.Request, user *entities.User) error {
	ctx := r.Context()
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, sessionKeyUserID, int(user.ID))
	sm.Put(ctx, sessionKeyEmail, user.Email)
	sm.Put(ctx, sessionKeyLoginAt, time.Now().Unix())
	return nil
}

func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// GetUserID returns 0 when the request has no session.
func (sm *SessionManager) GetUserID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), sessionKeyUserID))
}

func (sm *SessionManager) GetEmail(r *http.Request) string {
	return sm.GetString(r.Context(), sessionKeyEmail)
}

func (sm *SessionManager) LoginTime(r *http.Request) time.Time {
	ts := sm.GetInt64(r.Context(), sessionKeyLoginAt)
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

// LoadAndSave is the gin equivalent of scs's LoadAndSave. It must run
// before any handler touches the session.
func (sm *SessionManager) LoadAndSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(sm.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := sm.Load(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Request = c.Request.WithContext(ctx)

		w := &sessionWriter{ResponseWriter: c.Writer, sm: sm, c: c}
		c.Writer = w

		c.Next()

		w.commit()
	}
}

// sessionWriter commits the session right before the first byte of the
// response so the cookie header is not too late.
type sessionWriter struct {
	gin.ResponseWriter
	sm        *SessionManager
	c         *gin.Context
	committed bool
}

func (w *sessionWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true

	// Handlers may have replaced the request context; the session lives on
	// whatever the current request carries.
	ctx := w.c.Request.Context()
	switch w.sm.Status(ctx) {
	case scs.Modified:
		token, expiry, err := w.sm.Commit(ctx)
		if err != nil {
			return
		}
		w.sm.WriteSessionCookie(ctx, w.ResponseWriter, token, expiry)
	case scs.Destroyed:
		w.sm.WriteSessionCookie(ctx, w.ResponseWriter, "", time.Time{})
	}
}

func (w *sessionWriter) WriteHeader(code int) {
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) WriteHeaderNow() {
	w.commit()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	w.commit()
	return w.ResponseWriter.WriteString(s)
}

func (w *sessionWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.Hijack()
}
