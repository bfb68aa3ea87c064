package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/brritto/internal/apiclient"
	"github.com/example/brritto/internal/logger"
	"github.com/example/brritto/internal/session"
)

// backend is a scripted fake of the upstream REST API. Handlers are keyed by
// "METHOD path".
type backend struct {
	t        *testing.T
	handlers map[string]http.HandlerFunc
	calls    []string
}

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	t.Helper()
	b := &backend{t: t, handlers: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *backend) on(method, path string, h http.HandlerFunc) {
	b.handlers[method+" "+path] = h
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	b.calls = append(b.calls, key)
	if h, ok := b.handlers[key]; ok {
		h(w, r)
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "not found"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func newAuthService(srv *httptest.Server) *AuthService {
	return NewAuthService(apiclient.New(srv.URL), logger.NewNop())
}

func TestSendOtp_ReturnsHint(t *testing.T) {
	b, srv := newBackend(t)
	b.on(http.MethodPost, "/web/auth/send-otp", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "01812345678", req["mobileNumber"])

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "OTP sent successfully",
			"data":    map[string]any{"profileCompleted": false},
		})
	})

	result := newAuthService(srv).SendOtp("01812345678")

	assert.True(t, result.Success)
	assert.Equal(t, "OTP sent successfully", result.Message)
	require.NotNil(t, result.ProfileCompleted)
	assert.False(t, *result.ProfileCompleted)
}

func TestSendOtp_BackendFailure(t *testing.T) {
	b, srv := newBackend(t)
	b.on(http.MethodPost, "/web/auth/send-otp", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"success": false,
			"error": map[string]any{
				"code":    "RATE_LIMITED",
				"message": "Too many OTP requests",
				"traceId": "t-42",
			},
		})
	})

	result := newAuthService(srv).SendOtp("01812345678")

	assert.False(t, result.Success)
	assert.Equal(t, "Too many OTP requests", result.Message)
}

func TestVerifyOtpAndLogin_CreatesSession(t *testing.T) {
	b, srv := newBackend(t)
	b.on(http.MethodPost, "/web/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Login successful",
			"data": map[string]any{
				"data": map[string]string{"accessToken": "at-1", "refreshToken": "rt-1"},
			},
		})
	})
	b.on(http.MethodGet, "/web/student/profile", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"name": "Rahim", "profileCompleted": true},
		})
	})

	store := session.NewMemoryStore(86400)
	result := newAuthService(srv).VerifyOtpAndLogin(store, "01812345678", "123456")

	assert.True(t, result.Success)
	require.NotNil(t, result.Profile)
	assert.Equal(t, "Rahim", result.Profile.Name)

	sess := store.Get()
	require.NotNil(t, sess)
	assert.Equal(t, "at-1", sess.AccessToken)
	assert.Equal(t, "rt-1", sess.RefreshToken)
	assert.Equal(t, "01812345678", sess.Mobile)
	require.NotNil(t, sess.ProfileCompleted)
	assert.True(t, *sess.ProfileCompleted)
}

func TestVerifyOtpAndLogin_UnnestedTokens(t *testing.T) {
	b, srv := newBackend(t)
	b.on(http.MethodPost, "/web/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]string{"accessToken": "at-2", "refreshToken": "rt-2"},
		})
	})
	b.on(http.MethodGet, "/web/student/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"name": "Rahim", "profileCompleted": true},
		})
	})

	store := session.NewMemoryStore(86400)
	result := newAuthService(srv).VerifyOtpAndLogin(store, "01812345678", "123456")

	assert.True(t, result.Success)
	require.NotNil(t, store.Get())
	assert.Equal(t, "at-2", store.Get().AccessToken)
}

func TestVerifyOtpAndLogin_ProfileFetchFailureDegrades(t *testing.T) {
	b, srv := newBackend(t)
	b.on(http.MethodPost, "/web/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]string{"accessToken": "at-3", "refreshToken": "rt-3"},
		})
	})
	// no profile handler: the fetch 404s

	store := session.NewMemoryStore(86400)
	result := newAuthService(srv).VerifyOtpAndLogin(store, "01812345678", "123456")

	// Login still succeeds; the session carries an explicit false so the
	// wizard routes to registration.
	assert.True(t, result.Success)
	assert.Nil(t, result.Profile)
	sess := store.Get()
	require.NotNil(t, sess)
	require.NotNil(t, sess.ProfileCompleted)
	assert.False(t, *sess.ProfileCompleted)
}

func TestVerifyOtpAndLogin_InvalidOtp(t *testing.T) {
	b, srv := newBackend(t)
	b.on(http.MethodPost, "/web/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"error": map[string]any{
				"code":    "INVALID_OTP",
				"message": "OTP is invalid or expired",
				"traceId": "t-7",
			},
		})
	})

	store := session.NewMemoryStore(86400)
	result := newAuthService(srv).VerifyOtpAndLogin(store, "01812345678", "000000")

	assert.False(t, result.Success)
	assert.Equal(t, "OTP is invalid or expired", result.Message)
	assert.Nil(t, store.Get())
}

func TestLogout_BackendFailureStillClearsSession(t *testing.T) {
	b, srv := newBackend(t)
	b.on(http.MethodPost, "/web/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "boom"})
	})

	store := session.NewMemoryStore(86400)
	store.Create("at", "rt", "01812345678", nil)

	result := newAuthService(srv).Logout(store)

	assert.True(t, result.Success)
	assert.Nil(t, store.Get())
	assert.Contains(t, b.calls, "POST /web/auth/logout")
}

func TestLogout_WithoutSessionSkipsBackend(t *testing.T) {
	b, srv := newBackend(t)

	store := session.NewMemoryStore(86400)
	result := newAuthService(srv).Logout(store)

	assert.True(t, result.Success)
	assert.Empty(t, b.calls)
}

func TestRefreshAccessToken_RotatesTokens(t *testing.T) {
	b, srv := newBackend(t)
	b.on(http.MethodPost, "/web/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer rt-old", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]string{"accessToken": "at-new", "refreshToken": "rt-new"},
		})
	})

	store := session.NewMemoryStore(86400)
	store.Create("at-old", "rt-old", "01812345678", nil)

	result := newAuthService(srv).RefreshAccessToken(store)

	assert.True(t, result.Success)
	sess := store.Get()
	require.NotNil(t, sess)
	assert.Equal(t, "at-new", sess.AccessToken)
	assert.Equal(t, "rt-new", sess.RefreshToken)
	assert.Equal(t, "01812345678", sess.Mobile)
}

func TestRefreshAccessToken_FailureDeletesSession(t *testing.T) {
	b, srv := newBackend(t)
	b.on(http.MethodPost, "/web/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "refresh token expired"})
	})

	store := session.NewMemoryStore(86400)
	store.Create("at", "rt", "01812345678", nil)

	result := newAuthService(srv).RefreshAccessToken(store)

	assert.False(t, result.Success)
	assert.Equal(t, "Session expired. Please login again.", result.Message)
	assert.Nil(t, store.Get())
}

func TestGetStudentProfile(t *testing.T) {
	b, srv := newBackend(t)
	b.on(http.MethodGet, "/web/student/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"name":             "Rahim",
				"mobile":           "01812345678",
				"profileCompleted": true,
			},
		})
	})

	store := session.NewMemoryStore(86400)
	store.Create("at", "rt", "01812345678", nil)

	result := newAuthService(srv).GetStudentProfile(store)

	assert.True(t, result.Success)
	require.NotNil(t, result.Profile)
	assert.Equal(t, "Rahim", result.Profile.Name)
}

func TestGetStudentProfile_NotAuthenticated(t *testing.T) {
	_, srv := newBackend(t)

	result := newAuthService(srv).GetStudentProfile(session.NewMemoryStore(86400))

	assert.False(t, result.Success)
	assert.Equal(t, "Not authenticated", result.Message)
}
