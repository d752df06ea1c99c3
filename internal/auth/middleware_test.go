package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klaxon/internal/cache"
	"klaxon/internal/session"
)

type harness struct {
	e      *echo.Echo
	store  *session.MemoryStore
	tokens *JWTService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		e:      echo.New(),
		store:  session.NewMemoryStore(),
		tokens: NewJWTService("test-secret"),
	}
	mgr := NewSessionManager(h.tokens, h.store, time.Hour, false, nil)
	h.e.Use(mgr.Middleware())

	h.e.GET("/peek", func(c echo.Context) error {
		s := session.FromContext(c)
		if u := s.User(); u != nil {
			return c.String(http.StatusOK, u.Email)
		}
		return c.String(http.StatusOK, "anonymous")
	})
	h.e.GET("/login", func(c echo.Context) error {
		s := session.FromContext(c)
		s.Regenerate()
		s.SetUser(&session.Identity{ID: 1, Email: "alice@example.com"})
		return c.Redirect(http.StatusSeeOther, "/peek")
	})
	h.e.GET("/logout", func(c echo.Context) error {
		session.FromContext(c).Destroy()
		return c.Redirect(http.StatusSeeOther, "/")
	})
	return h
}

func (h *harness) do(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func TestMiddleware_AnonymousVisitGetsNoCookie(t *testing.T) {
	h := newHarness(t)
	rec := h.do("/peek", nil)
	assert.Equal(t, "anonymous", rec.Body.String())
	assert.Nil(t, sessionCookie(rec))
	assert.Equal(t, 0, h.store.Len())
}

func TestMiddleware_LoginPersistsAndRestores(t *testing.T) {
	h := newHarness(t)

	rec := h.do("/login", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.False(t, cookie.Secure)
	assert.Equal(t, 1, h.store.Len())

	rec = h.do("/peek", cookie)
	assert.Equal(t, "alice@example.com", rec.Body.String())
}

func TestMiddleware_RegenerateDropsOldSession(t *testing.T) {
	h := newHarness(t)
	first := sessionCookie(h.do("/login", nil))
	require.NotNil(t, first)
	oldID, err := h.tokens.ExtractSessionID(first.Value)
	require.NoError(t, err)

	second := sessionCookie(h.do("/login", first))
	require.NotNil(t, second)
	newID, err := h.tokens.ExtractSessionID(second.Value)
	require.NoError(t, err)

	assert.NotEqual(t, oldID, newID)
	got, err := h.store.Load(context.Background(), oldID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, h.store.Len())
}

func TestMiddleware_UnknownSessionIDIsNotAdopted(t *testing.T) {
	h := newHarness(t)
	tok, err := h.tokens.GenerateSessionToken("attacker-chosen", time.Hour)
	require.NoError(t, err)

	rec := h.do("/login", &http.Cookie{Name: CookieName, Value: tok})
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	id, err := h.tokens.ExtractSessionID(cookie.Value)
	require.NoError(t, err)
	assert.NotEqual(t, "attacker-chosen", id)
}

func TestMiddleware_ForgedCookieIsIgnored(t *testing.T) {
	h := newHarness(t)
	forged, err := NewJWTService("wrong").GenerateSessionToken("x", time.Hour)
	require.NoError(t, err)

	rec := h.do("/peek", &http.Cookie{Name: CookieName, Value: forged})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestMiddleware_LogoutDestroysSession(t *testing.T) {
	h := newHarness(t)
	cookie := sessionCookie(h.do("/login", nil))
	require.NotNil(t, cookie)

	rec := h.do("/logout", cookie)
	cleared := sessionCookie(rec)
	require.NotNil(t, cleared)
	assert.Equal(t, "", cleared.Value)
	assert.Equal(t, 0, h.store.Len())

	assert.Equal(t, "anonymous", h.do("/peek", cookie).Body.String())
}

func TestRedisSessionStore_ReportsUnavailable(t *testing.T) {
	store := NewRedisSessionStore(cache.Wrap(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})))
	ctx := context.Background()

	_, err := store.Load(ctx, "a")
	assert.Error(t, err)
	assert.Error(t, store.Save(ctx, session.Data{ID: "a"}, time.Minute))
	assert.Error(t, store.Delete(ctx, "a"))
}
