package middleware

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/brritto/internal/config"
	"github.com/example/brritto/internal/models"
	"github.com/example/brritto/internal/session"
)

// RouteGuard enforces the page-level access rules before any handler runs:
//
//   - protected paths without a live session redirect to /login with the
//     original path preserved in the redirect query parameter;
//   - auth pages (login/signup) with a live, completed session redirect home;
//   - protected paths with a session whose profile is explicitly incomplete
//     redirect back to /login so the registration step can finish.
//
// Only the session cookie is inspected; the backend is never called here.
func RouteGuard(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		isProtected := matchesPrefix(path, cfg.ProtectedPaths)
		isAuthPage := matchesPrefix(path, cfg.AuthPaths)
		if !isProtected && !isAuthPage {
			return c.Next()
		}

		sess, live := liveSession(c.Cookies(cfg.SessionCookieName))

		if isProtected {
			if !live {
				return c.Redirect("/login?redirect="+url.QueryEscape(path), fiber.StatusFound)
			}
			if sess.ProfileCompleted != nil && !*sess.ProfileCompleted {
				return c.Redirect("/login", fiber.StatusFound)
			}
			return c.Next()
		}

		// Auth pages: a logged-in user with an incomplete profile still needs
		// the wizard, everyone else goes home.
		if live && (sess.ProfileCompleted == nil || *sess.ProfileCompleted) {
			return c.Redirect("/", fiber.StatusFound)
		}
		return c.Next()
	}
}

func matchesPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func liveSession(raw string) (*models.AuthSession, bool) {
	if raw == "" {
		return nil, false
	}
	sess, ok := session.Decode(raw)
	if !ok {
		return nil, false
	}
	if time.Now().UnixMilli() > sess.ExpiresAt {
		return nil, false
	}
	return sess, true
}
