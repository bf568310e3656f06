package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storeit/internal/service"
)

const (
	// SessionCookieName is the HTTP-only cookie holding the opaque session secret.
	SessionCookieName = "storeit_session"
	// CurrentUserLocalKey is the key the resolved *model.User is stored under
	// in Fiber's context locals.
	CurrentUserLocalKey = "current_user"
)

// SessionAuth resolves the session cookie to a user and stores it in context
// locals for downstream handlers. Requests without a valid session are
// rejected with 401.
func SessionAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := c.Cookies(SessionCookieName)
		user, err := auth.UserBySession(c.UserContext(), secret)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				return fiber.ErrUnauthorized
			}
			return err
		}
		c.Locals(CurrentUserLocalKey, user)
		return c.Next()
	}
}
