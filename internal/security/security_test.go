package security

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klaxon/internal/model"
	"klaxon/internal/repository/repotest"
	"klaxon/internal/session"
)

func TestCSRFTokenVerifiesOnce(t *testing.T) {
	s := session.New()
	tok, err := GenerateCSRFToken(s)
	require.NoError(t, err)
	assert.Len(t, tok, 64)

	again, err := GenerateCSRFToken(s)
	require.NoError(t, err)
	assert.Equal(t, tok, again)

	assert.True(t, VerifyCSRFToken(s, tok))
	assert.False(t, VerifyCSRFToken(s, tok))
}

func TestCSRFMismatchKeepsToken(t *testing.T) {
	s := session.New()
	tok, err := GenerateCSRFToken(s)
	require.NoError(t, err)

	assert.False(t, VerifyCSRFToken(s, "forged"))
	assert.False(t, VerifyCSRFToken(s, ""))
	assert.Equal(t, tok, s.CSRFToken())
	assert.True(t, VerifyCSRFToken(s, tok))
}

func TestCSRFWithoutStoredToken(t *testing.T) {
	assert.False(t, VerifyCSRFToken(session.New(), "anything"))
}

func TestCSRFTokensDifferAcrossSessions(t *testing.T) {
	a, err := GenerateCSRFToken(session.New())
	require.NoError(t, err)
	b, err := GenerateCSRFToken(session.New())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "", EscapeHTML(nil))
	assert.Equal(t, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;", EscapeHTML(`<script>alert("x")</script>`))
	assert.Equal(t, "O&#39;Neil &amp; co", EscapeHTML("O'Neil & co"))
	assert.Equal(t, "42", EscapeHTML(42))
	assert.Equal(t, "1h0m0s", EscapeHTML(time.Hour))
}

func TestLoginPredicates(t *testing.T) {
	anon := session.New()
	assert.False(t, IsLoggedIn(anon))
	assert.False(t, IsAdmin(anon))

	user := session.New()
	user.SetUser(&session.Identity{ID: 2})
	assert.True(t, IsLoggedIn(user))
	assert.False(t, IsAdmin(user))

	admin := session.New()
	admin.SetUser(&session.Identity{ID: 1, Admin: true})
	assert.True(t, IsAdmin(admin))

	zero := session.New()
	zero.SetUser(&session.Identity{Admin: true})
	assert.False(t, IsLoggedIn(zero))
	assert.False(t, IsAdmin(zero))
}

func runGuard(t *testing.T, guard echo.MiddlewareFunc, ident *session.Identity) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	s := session.New()
	if ident != nil {
		s.SetUser(ident)
	}
	session.Attach(c, s)

	called := false
	err := guard(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return rec, called
}

func TestRequireLogin(t *testing.T) {
	rec, called := runGuard(t, RequireLogin, nil)
	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginURL, rec.Header().Get(echo.HeaderLocation))

	rec, called = runGuard(t, RequireLogin, &session.Identity{ID: 3})
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	rec, called := runGuard(t, RequireAdmin, nil)
	assert.False(t, called)
	assert.Equal(t, LoginURL, rec.Header().Get(echo.HeaderLocation))

	rec, called = runGuard(t, RequireAdmin, &session.Identity{ID: 3})
	assert.False(t, called)
	assert.Equal(t, HomeURL, rec.Header().Get(echo.HeaderLocation))

	_, called = runGuard(t, RequireAdmin, &session.Identity{ID: 1, Admin: true})
	assert.True(t, called)
}

func TestIsRideOwner(t *testing.T) {
	db := repotest.New()
	ctx := context.Background()
	lyon := &model.Agency{City: "Lyon"}
	paris := &model.Agency{City: "Paris"}
	require.NoError(t, db.Agencies().Create(ctx, lyon))
	require.NoError(t, db.Agencies().Create(ctx, paris))
	driver := &model.User{Email: "d@example.com", AgencyID: lyon.ID}
	require.NoError(t, db.Users().Create(ctx, driver))
	ride := &model.Ride{
		DepartureAgencyID: lyon.ID, ArrivalAgencyID: paris.ID,
		DepartureAt: time.Now().Add(time.Hour), ArrivalAt: time.Now().Add(2 * time.Hour),
		TotalSeats: 3, DriverID: driver.ID,
	}
	require.NoError(t, db.Rides().Create(ctx, ride))

	ok, err := IsRideOwner(ctx, db.Rides(), ride.ID, driver.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsRideOwner(ctx, db.Rides(), ride.ID, driver.ID+100)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = IsRideOwner(ctx, db.Rides(), 9999, driver.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
