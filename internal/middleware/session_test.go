package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loginCookie(t *testing.T, s *Sessions, userID int) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, s.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil), userID))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestSessions_LoginRoundTrip(t *testing.T) {
	s := NewSessions("secret", 3600, false, zap.NewNop())
	cookie := loginCookie(t, s, 42)

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(cookie)

	id, ok := s.UserID(req)
	assert.True(t, ok)
	assert.Equal(t, 42, id)
}

func TestSessions_WrongSecretRejected(t *testing.T) {
	cookie := loginCookie(t, NewSessions("one", 3600, false, zap.NewNop()), 42)

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(cookie)

	_, ok := NewSessions("two", 3600, false, zap.NewNop()).UserID(req)
	assert.False(t, ok)
}

func TestRequireSession(t *testing.T) {
	s := NewSessions("secret", 3600, false, zap.NewNop())
	var seen int
	handler := s.RequireSession(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/account", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(loginCookie(t, s, 7))
	rec = httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, seen)
}

func TestSessions_Logout(t *testing.T) {
	s := NewSessions("secret", 3600, false, zap.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(loginCookie(t, s, 7))

	rec := httptest.NewRecorder()
	require.NoError(t, s.Logout(rec, req))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
}
