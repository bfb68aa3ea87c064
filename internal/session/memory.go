package session

import (
	"time"

	"github.com/example/brritto/internal/models"
)

// MemoryStore keeps the session in memory with the same lifecycle semantics
// as CookieStore. It backs tests and keeps the auth flow exercisable without
// an HTTP environment.
type MemoryStore struct {
	sess   *models.AuthSession
	maxAge int

	// Now is overridable for expiry tests.
	Now func() time.Time
}

// NewMemoryStore builds a memory-backed store with the given max age in
// seconds.
func NewMemoryStore(maxAge int) *MemoryStore {
	return &MemoryStore{maxAge: maxAge, Now: time.Now}
}

// Create implements Store.
func (s *MemoryStore) Create(accessToken, refreshToken, mobile string, profileCompleted *bool) {
	s.sess = &models.AuthSession{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		Mobile:           mobile,
		ExpiresAt:        s.Now().UnixMilli() + int64(s.maxAge)*1000,
		ProfileCompleted: profileCompleted,
	}
}

// Get implements Store.
func (s *MemoryStore) Get() *models.AuthSession {
	if s.sess == nil {
		return nil
	}
	if s.Now().UnixMilli() > s.sess.ExpiresAt {
		s.sess = nil
		return nil
	}
	copied := *s.sess
	return &copied
}

// Delete implements Store.
func (s *MemoryStore) Delete() {
	s.sess = nil
}

// Update implements Store.
func (s *MemoryStore) Update(accessToken, refreshToken string) bool {
	sess := s.Get()
	if sess == nil {
		return false
	}
	s.Create(accessToken, refreshToken, sess.Mobile, nil)
	return true
}

// IsAuthenticated implements Store.
func (s *MemoryStore) IsAuthenticated() bool {
	return s.Get() != nil
}

// Seed places a prebuilt session in the store. Test helper.
func (s *MemoryStore) Seed(sess models.AuthSession) {
	s.sess = &sess
}
