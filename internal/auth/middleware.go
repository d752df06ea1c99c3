package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"klaxon/internal/logging"
	"klaxon/internal/session"
)

const (
	// CookieName is the session cookie.
	CookieName = "klaxon_session"

	tokenContextKey = "session_token"
)

// SessionManager restores the session named by the signed cookie before a
// handler runs and persists it when the response is written.
type SessionManager struct {
	tokens *JWTService
	store  session.Store
	ttl    time.Duration
	secure bool
	log    logging.Logger
}

// NewSessionManager creates a session manager.
func NewSessionManager(tokens *JWTService, store session.Store, ttl time.Duration, secure bool, log logging.Logger) *SessionManager {
	if log == nil {
		log = logging.Nop()
	}
	return &SessionManager{tokens: tokens, store: store, ttl: ttl, secure: secure, log: log}
}

// Middleware parses the cookie with echo-jwt and attaches a *session.Session.
// A missing or invalid cookie is not an error: the visitor gets a new session.
func (m *SessionManager) Middleware() echo.MiddlewareFunc {
	parse := echojwt.WithConfig(echojwt.Config{
		SigningKey:  m.tokens.SigningKey(),
		TokenLookup: "cookie:" + CookieName,
		ContextKey:  tokenContextKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(SessionClaims)
		},
		ErrorHandler: func(echo.Context, error) error {
			return nil
		},
		ContinueOnIgnoredError: true,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parse(func(c echo.Context) error {
			s := m.restore(c)
			session.Attach(c, s)
			c.Response().Before(func() {
				m.commit(c, s)
			})
			return next(c)
		})
	}
}

// restore adopts only ids that exist in the store.
func (m *SessionManager) restore(c echo.Context) *session.Session {
	token, ok := c.Get(tokenContextKey).(*jwt.Token)
	if !ok || !token.Valid {
		return session.New()
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.ID == "" {
		return session.New()
	}

	ctx := c.Request().Context()
	data, err := m.store.Load(ctx, claims.ID)
	if err != nil {
		m.log.Warn(ctx, "session load failed", "error", err)
		return session.New()
	}
	if data == nil {
		return session.New()
	}
	return session.Restore(*data)
}

func (m *SessionManager) commit(c echo.Context, s *session.Session) {
	ctx := c.Request().Context()

	if s.Destroyed() {
		if err := m.store.Delete(ctx, s.ID()); err != nil {
			m.log.Error(ctx, "session delete failed", "error", err)
		}
		c.SetCookie(m.cookie("", -1))
		return
	}

	if prev := s.PreviousID(); prev != "" {
		if err := m.store.Delete(ctx, prev); err != nil {
			m.log.Error(ctx, "session delete failed", "error", err)
		}
	}

	if s.IsNew() && !s.Dirty() {
		return
	}

	if err := m.store.Save(ctx, s.Snapshot(), m.ttl); err != nil {
		m.log.Error(ctx, "session save failed", "error", err)
		return
	}
	token, err := m.tokens.GenerateSessionToken(s.ID(), m.ttl)
	if err != nil {
		m.log.Error(ctx, "session token signing failed", "error", err)
		return
	}
	c.SetCookie(m.cookie(token, int(m.ttl.Seconds())))
}

func (m *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
