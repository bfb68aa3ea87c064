package session

import (
	"encoding/json"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/brritto/internal/models"
)

// Store is the session repository used by services and middleware. The
// canonical implementation is cookie-backed and request-scoped; tests inject
// MemoryStore.
type Store interface {
	// Create writes a fresh session, overwriting any existing one.
	Create(accessToken, refreshToken, mobile string, profileCompleted *bool)
	// Get returns the current session, or nil when absent, corrupt or
	// expired. Corrupt and expired cookies are deleted on read.
	Get() *models.AuthSession
	// Delete removes the session.
	Delete()
	// Update re-creates the session with new tokens, preserving the phone
	// number. Reports false when no session exists.
	Update(accessToken, refreshToken string) bool
	// IsAuthenticated reports whether a live session exists.
	IsAuthenticated() bool
}

// CookieStore persists the session as an HTTP-only JSON cookie on a single
// request/response cycle.
type CookieStore struct {
	ctx        *fiber.Ctx
	cookieName string
	maxAge     int
	secure     bool
}

// NewCookieStore builds a request-scoped cookie store.
func NewCookieStore(c *fiber.Ctx, cookieName string, maxAge int, secure bool) *CookieStore {
	return &CookieStore{ctx: c, cookieName: cookieName, maxAge: maxAge, secure: secure}
}

// Create implements Store.
func (s *CookieStore) Create(accessToken, refreshToken, mobile string, profileCompleted *bool) {
	sess := models.AuthSession{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		Mobile:           mobile,
		ExpiresAt:        time.Now().UnixMilli() + int64(s.maxAge)*1000,
		ProfileCompleted: profileCompleted,
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return
	}

	// URL-escaped so the JSON survives cookie value restrictions.
	s.ctx.Cookie(&fiber.Cookie{
		Name:     s.cookieName,
		Value:    url.QueryEscape(string(payload)),
		Path:     "/",
		MaxAge:   s.maxAge,
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Get implements Store.
func (s *CookieStore) Get() *models.AuthSession {
	raw := s.ctx.Cookies(s.cookieName)
	if raw == "" {
		return nil
	}

	sess, ok := Decode(raw)
	if !ok {
		s.Delete()
		return nil
	}

	if time.Now().UnixMilli() > sess.ExpiresAt {
		s.Delete()
		return nil
	}

	return sess
}

// Delete implements Store.
func (s *CookieStore) Delete() {
	s.ctx.Cookie(&fiber.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Update implements Store.
func (s *CookieStore) Update(accessToken, refreshToken string) bool {
	sess := s.Get()
	if sess == nil {
		return false
	}
	s.Create(accessToken, refreshToken, sess.Mobile, nil)
	return true
}

// IsAuthenticated implements Store.
func (s *CookieStore) IsAuthenticated() bool {
	return s.Get() != nil
}

// Decode parses a raw session cookie value. Used by the route guard, which
// inspects the cookie without a full store. Accepts both escaped and plain
// JSON values.
func Decode(raw string) (*models.AuthSession, bool) {
	if unescaped, err := url.QueryUnescape(raw); err == nil {
		raw = unescaped
	}

	var sess models.AuthSession
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, false
	}
	if sess.AccessToken == "" || sess.ExpiresAt == 0 {
		return nil, false
	}
	return &sess, true
}
