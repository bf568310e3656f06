package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"storeit/internal/http/middleware"
	"storeit/internal/model"
	"storeit/internal/service"
)

// currentUser returns the user resolved by middleware.SessionAuth, or nil
// when the route was registered without it.
func currentUser(c *fiber.Ctx) *model.User {
	if v := c.Locals(middleware.CurrentUserLocalKey); v != nil {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}

// writeAuthError translates auth service errors into the standard envelope.
func writeAuthError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrFullNameRequired):
		return writeError(c, fiber.StatusBadRequest, "FULL_NAME_REQUIRED", "full name is required")
	case errors.Is(err, service.ErrEmailRequired):
		return writeError(c, fiber.StatusBadRequest, "EMAIL_REQUIRED", "email is required")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "CHALLENGE_ID_REQUIRED", "challenge id is required")
	case errors.Is(err, service.ErrUserNotFound):
		return writeError(c, fiber.StatusNotFound, "USER_NOT_FOUND", "no account for this email")
	case errors.Is(err, service.ErrChallengeGone):
		return writeError(c, fiber.StatusNotFound, "CHALLENGE_NOT_FOUND", "challenge not found")
	case errors.Is(err, service.ErrChallengeExpired):
		return writeError(c, fiber.StatusGone, "CHALLENGE_EXPIRED", "challenge expired, request a new code")
	case errors.Is(err, service.ErrCodeInvalid):
		return writeError(c, fiber.StatusBadRequest, "CODE_INVALID", "code invalid")
	case errors.Is(err, service.ErrTooManyAttempts):
		return writeError(c, fiber.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "too many attempts, request a new code")
	case errors.Is(err, service.ErrUnauthorized):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

type signUpRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// SignUp registers a new account and sends the first OTP code.
func SignUp(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signUpRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		ch, err := svc.SignUp(c.UserContext(), req.FullName, req.Email)
		if err != nil {
			return writeAuthError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(ch)
	}
}

type signInRequest struct {
	Email string `json:"email"`
}

// SignIn sends an OTP code to an existing account.
func SignIn(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signInRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		ch, err := svc.SignIn(c.UserContext(), req.Email)
		if err != nil {
			return writeAuthError(c, err)
		}
		return c.JSON(ch)
	}
}

type resendRequest struct {
	ChallengeID string `json:"challenge_id"`
}

// ResendOTP re-sends the code for a pending challenge. Inside the resend
// window the response carries the remaining gate time and no mail is sent.
func ResendOTP(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req resendRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		ch, err := svc.Resend(c.UserContext(), req.ChallengeID)
		if err != nil {
			return writeAuthError(c, err)
		}
		return c.JSON(ch)
	}
}

type verifyRequest struct {
	ChallengeID string `json:"challenge_id"`
	Code        string `json:"code"`
}

// VerifyOTP checks the submitted code and, on success, starts a session by
// setting the session cookie.
func VerifyOTP(svc service.AuthService, sessionTTL time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req verifyRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		user, secret, err := svc.Verify(c.UserContext(), req.ChallengeID, req.Code)
		if err != nil {
			return writeAuthError(c, err)
		}
		c.Cookie(&fiber.Cookie{
			Name:     middleware.SessionCookieName,
			Value:    secret,
			Expires:  time.Now().Add(sessionTTL),
			HTTPOnly: true,
			Secure:   true,
			SameSite: fiber.CookieSameSiteStrictMode,
		})
		return c.JSON(user)
	}
}

// SignOut deletes the session and clears the cookie. Idempotent.
func SignOut(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := c.Cookies(middleware.SessionCookieName)
		if secret != "" {
			if err := svc.SignOut(c.UserContext(), secret); err != nil {
				return writeAuthError(c, err)
			}
		}
		c.Cookie(&fiber.Cookie{
			Name:     middleware.SessionCookieName,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   true,
			SameSite: fiber.CookieSameSiteStrictMode,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Me returns the signed-in user.
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := currentUser(c)
		if user == nil {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
		}
		return c.JSON(user)
	}
}
