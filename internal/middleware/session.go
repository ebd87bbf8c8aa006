package middleware

import (
	"context"
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// SessionName is the name of the login session cookie
const SessionName = "crm-session"

const (
	sessionKeyUserID = "user_id"
	userIDKey        = contextKey("user_id")
)

// Sessions manages signed cookie sessions for logged in users
type Sessions struct {
	store  *sessions.CookieStore
	logger *zap.Logger
}

// NewSessions creates the cookie session store.
//
// The secret can be any passphrase; it is SHA-256 hashed to derive the
// 32-byte signing key, so it must be the same on every server and across
// restarts. Cookies are only marked Secure outside development.
func NewSessions(secret string, maxAge int, secure bool, logger *zap.Logger) *Sessions {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store, logger: logger}
}

// Login stores userID in a fresh session cookie
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, userID int) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		// A cookie signed with an old secret still yields a usable new session
		s.logger.Debug("Discarding unreadable session cookie", zap.Error(err))
	}
	session.Values[sessionKeyUserID] = userID
	return session.Save(r, w)
}

// Logout expires the session cookie
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	delete(session.Values, sessionKeyUserID)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// UserID returns the logged in user's id from the request's cookie
func (s *Sessions) UserID(r *http.Request) (int, bool) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return 0, false
	}
	id, ok := session.Values[sessionKeyUserID].(int)
	return id, ok && id > 0
}

// RequireSession rejects requests without a login session with 401 and puts
// the user id in the context of those it lets through.
func (s *Sessions) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.UserID(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Login required")
			return
		}
		next(w, r.WithContext(WithUserID(r.Context(), id)))
	}
}

// WithUserID returns ctx carrying the logged in user's id
func WithUserID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext returns the id set by RequireSession
func UserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok
}
