package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/brritto/internal/models"
)

const testCookie = "brritto_session"

func boolPtr(b bool) *bool { return &b }

func TestCookieStore_RoundTrip(t *testing.T) {
	app := fiber.New()

	app.Get("/login", func(c *fiber.Ctx) error {
		store := NewCookieStore(c, testCookie, 86400, false)
		store.Create("access-1", "refresh-1", "01812345678", boolPtr(false))
		return c.SendStatus(fiber.StatusOK)
	})

	var got *models.AuthSession
	app.Get("/me", func(c *fiber.Ctx) error {
		store := NewCookieStore(c, testCookie, 86400, false)
		got = store.Get()
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))
	require.NoError(t, err)

	cookie := findCookie(t, resp, testCookie)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	_, err = app.Test(req)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "access-1", got.AccessToken)
	assert.Equal(t, "refresh-1", got.RefreshToken)
	assert.Equal(t, "01812345678", got.Mobile)
	require.NotNil(t, got.ProfileCompleted)
	assert.False(t, *got.ProfileCompleted)
	assert.Greater(t, got.ExpiresAt, time.Now().UnixMilli())
}

func TestCookieStore_ExpiredSessionCleared(t *testing.T) {
	app := fiber.New()

	var got *models.AuthSession
	app.Get("/me", func(c *fiber.Ctx) error {
		store := NewCookieStore(c, testCookie, 86400, false)
		got = store.Get()
		return c.SendStatus(fiber.StatusOK)
	})

	expired := models.AuthSession{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		Mobile:       "01812345678",
		ExpiresAt:    time.Now().Add(-time.Minute).UnixMilli(),
	}
	payload, err := json.Marshal(expired)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: url.QueryEscape(string(payload))})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Nil(t, got)

	// Response must clear the cookie.
	cookie := findCookie(t, resp, testCookie)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestCookieStore_CorruptSessionCleared(t *testing.T) {
	app := fiber.New()

	var got *models.AuthSession
	app.Get("/me", func(c *fiber.Ctx) error {
		store := NewCookieStore(c, testCookie, 86400, false)
		got = store.Get()
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "not-json"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Nil(t, got)
	cookie := findCookie(t, resp, testCookie)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestCookieStore_UpdateWithoutSession(t *testing.T) {
	app := fiber.New()

	var updated bool
	app.Get("/refresh", func(c *fiber.Ctx) error {
		store := NewCookieStore(c, testCookie, 86400, false)
		updated = store.Update("access-2", "refresh-2")
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/refresh", nil))
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestMemoryStore_ExpiryIdempotent(t *testing.T) {
	store := NewMemoryStore(60)
	store.Create("access-1", "refresh-1", "01812345678", nil)
	require.NotNil(t, store.Get())

	store.Now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.Nil(t, store.Get())
	// Second read after deletion still nil.
	assert.Nil(t, store.Get())
	assert.False(t, store.IsAuthenticated())
}

func TestMemoryStore_UpdatePreservesMobile(t *testing.T) {
	store := NewMemoryStore(60)
	store.Create("access-1", "refresh-1", "01812345678", boolPtr(true))

	require.True(t, store.Update("access-2", "refresh-2"))

	sess := store.Get()
	require.NotNil(t, sess)
	assert.Equal(t, "access-2", sess.AccessToken)
	assert.Equal(t, "refresh-2", sess.RefreshToken)
	assert.Equal(t, "01812345678", sess.Mobile)
}

func TestDecode(t *testing.T) {
	_, ok := Decode("{broken")
	assert.False(t, ok)

	_, ok = Decode(`{"mobile":"01812345678"}`)
	assert.False(t, ok)

	sess, ok := Decode(`{"accessToken":"a","refreshToken":"r","mobile":"01812345678","expiresAt":9999999999999}`)
	require.True(t, ok)
	assert.Equal(t, "a", sess.AccessToken)
}

func findCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
