package authflow

import (
	"encoding/json"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/brritto/internal/models"
)

// Cookie names for the client-readable wizard state and the advisory profile
// cache. Neither is a security boundary; the canonical session lives in the
// HTTP-only session cookie.
const (
	WizardCookieName  = "brritto_authflow"
	ProfileCookieName = "brritto_profile"

	profileCacheMaxAge = 30 * 24 * 3600
)

// WizardState is the slice of wizard progress that must survive a page
// reload: the step, the phone number, and the profile-incomplete marker.
type WizardState struct {
	Step             Step   `json:"step"`
	Mobile           string `json:"mobile"`
	ProfileCompleted *bool  `json:"profileCompleted,omitempty"`
}

// WizardStore persists wizard progress across reloads.
type WizardStore interface {
	Load() *WizardState
	Save(state WizardState)
	Clear()
}

// ProfileCache holds the denormalized profile snapshot used for immediate UI
// rendering (e.g. the header's display name). Advisory only.
type ProfileCache interface {
	Save(profile models.StudentProfile)
	Clear()
}

// CookieWizardStore keeps wizard progress in a session-scoped, client-
// readable cookie.
type CookieWizardStore struct {
	ctx    *fiber.Ctx
	secure bool
}

// NewCookieWizardStore builds a request-scoped wizard store.
func NewCookieWizardStore(c *fiber.Ctx, secure bool) *CookieWizardStore {
	return &CookieWizardStore{ctx: c, secure: secure}
}

// Load implements WizardStore.
func (s *CookieWizardStore) Load() *WizardState {
	raw := s.ctx.Cookies(WizardCookieName)
	if raw == "" {
		return nil
	}
	if unescaped, err := url.QueryUnescape(raw); err == nil {
		raw = unescaped
	}

	var state WizardState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.Clear()
		return nil
	}
	return &state
}

// Save implements WizardStore.
func (s *CookieWizardStore) Save(state WizardState) {
	payload, err := json.Marshal(state)
	if err != nil {
		return
	}
	s.ctx.Cookie(&fiber.Cookie{
		Name:     WizardCookieName,
		Value:    url.QueryEscape(string(payload)),
		Path:     "/",
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Clear implements WizardStore.
func (s *CookieWizardStore) Clear() {
	s.ctx.Cookie(&fiber.Cookie{
		Name:     WizardCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// CookieProfileCache keeps the advisory profile snapshot in a long-lived,
// client-readable cookie.
type CookieProfileCache struct {
	ctx    *fiber.Ctx
	secure bool
}

// NewCookieProfileCache builds a request-scoped profile cache.
func NewCookieProfileCache(c *fiber.Ctx, secure bool) *CookieProfileCache {
	return &CookieProfileCache{ctx: c, secure: secure}
}

// Save implements ProfileCache.
func (c *CookieProfileCache) Save(profile models.StudentProfile) {
	payload, err := json.Marshal(profile)
	if err != nil {
		return
	}
	c.ctx.Cookie(&fiber.Cookie{
		Name:     ProfileCookieName,
		Value:    url.QueryEscape(string(payload)),
		Path:     "/",
		MaxAge:   profileCacheMaxAge,
		Secure:   c.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Clear implements ProfileCache.
func (c *CookieProfileCache) Clear() {
	c.ctx.Cookie(&fiber.Cookie{
		Name:     ProfileCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		Secure:   c.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// MemoryWizardStore backs tests.
type MemoryWizardStore struct {
	state *WizardState
}

// Load implements WizardStore.
func (s *MemoryWizardStore) Load() *WizardState {
	if s.state == nil {
		return nil
	}
	copied := *s.state
	return &copied
}

// Save implements WizardStore.
func (s *MemoryWizardStore) Save(state WizardState) { s.state = &state }

// Clear implements WizardStore.
func (s *MemoryWizardStore) Clear() { s.state = nil }

// MemoryProfileCache backs tests.
type MemoryProfileCache struct {
	profile *models.StudentProfile
}

// Save implements ProfileCache.
func (c *MemoryProfileCache) Save(profile models.StudentProfile) { c.profile = &profile }

// Clear implements ProfileCache.
func (c *MemoryProfileCache) Clear() { c.profile = nil }

// Get returns the cached profile. Test helper.
func (c *MemoryProfileCache) Get() *models.StudentProfile { return c.profile }
