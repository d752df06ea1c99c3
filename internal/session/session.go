// Package session holds the per-request browser session: the signed-in
// identity, a one-shot flash queue and a single CSRF token slot.
package session

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const contextKey = "klaxon.session"

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Identity is the signed-in user as remembered by the session.
type Identity struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Admin     bool   `json:"admin"`
	AgencyID  uint   `json:"agency_id"`
}

// Flash is a message shown once on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Data is the persisted form of a session.
type Data struct {
	ID        string    `json:"id"`
	User      *Identity `json:"user,omitempty"`
	Flashes   []Flash   `json:"flashes,omitempty"`
	CSRFToken string    `json:"csrf_token,omitempty"`
}

// Session is owned by a single request and is not safe for concurrent use.
type Session struct {
	data       Data
	isNew      bool
	dirty      bool
	destroyed  bool
	previousID string
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// New starts an empty session with a fresh id.
func New() *Session {
	return &Session{data: Data{ID: NewID()}, isNew: true}
}

// Restore rebuilds a session loaded from a store.
func Restore(d Data) *Session {
	return &Session{data: d}
}

// ID returns the session id.
func (s *Session) ID() string { return s.data.ID }

// IsNew reports whether the session was created by this request.
func (s *Session) IsNew() bool { return s.isNew }

// Dirty reports whether the session changed during this request.
func (s *Session) Dirty() bool { return s.dirty }

// Destroyed reports whether Destroy was called.
func (s *Session) Destroyed() bool { return s.destroyed }

// PreviousID returns the id abandoned by Regenerate, if any.
func (s *Session) PreviousID() string { return s.previousID }

// Snapshot returns a copy of the data to persist.
func (s *Session) Snapshot() Data {
	d := s.data
	if d.User != nil {
		u := *d.User
		d.User = &u
	}
	d.Flashes = append([]Flash(nil), d.Flashes...)
	return d
}

// User returns the signed-in identity or nil.
func (s *Session) User() *Identity {
	return s.data.User
}

// SetUser records the signed-in identity.
func (s *Session) SetUser(u *Identity) {
	s.data.User = u
	s.dirty = true
}

// AddFlash queues a one-shot message.
func (s *Session) AddFlash(kind, message string) {
	s.data.Flashes = append(s.data.Flashes, Flash{Kind: kind, Message: message})
	s.dirty = true
}

// Success queues a success message.
func (s *Session) Success(message string) { s.AddFlash(FlashSuccess, message) }

// Error queues an error message.
func (s *Session) Error(message string) { s.AddFlash(FlashError, message) }

// PopFlashes returns and clears the queued messages.
func (s *Session) PopFlashes() []Flash {
	if len(s.data.Flashes) == 0 {
		return nil
	}
	out := s.data.Flashes
	s.data.Flashes = nil
	s.dirty = true
	return out
}

// CSRFToken returns the stored token or "".
func (s *Session) CSRFToken() string { return s.data.CSRFToken }

// SetCSRFToken stores token in the CSRF slot.
func (s *Session) SetCSRFToken(token string) {
	s.data.CSRFToken = token
	s.dirty = true
}

// ClearCSRFToken empties the CSRF slot.
func (s *Session) ClearCSRFToken() {
	if s.data.CSRFToken == "" {
		return
	}
	s.data.CSRFToken = ""
	s.dirty = true
}

// Regenerate moves the session to a new id, keeping its data.
func (s *Session) Regenerate() {
	if s.previousID == "" && !s.isNew {
		s.previousID = s.data.ID
	}
	s.data.ID = NewID()
	s.dirty = true
}

// Destroy drops every value; the transport deletes the stored copy.
func (s *Session) Destroy() {
	s.destroyed = true
	s.data = Data{ID: s.data.ID}
	s.dirty = true
}

// Attach stores s on the echo context.
func Attach(c echo.Context, s *Session) {
	c.Set(contextKey, s)
}

// FromContext returns the session attached to c. A request without one gets
// a fresh session attached on first use.
func FromContext(c echo.Context) *Session {
	if s, ok := c.Get(contextKey).(*Session); ok && s != nil {
		return s
	}
	s := New()
	Attach(c, s)
	return s
}
