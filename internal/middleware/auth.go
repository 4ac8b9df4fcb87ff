package middleware

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/access"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/config"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	identityKey = "identity"
	tokenKey    = "user"
)

// Identify resolves the caller from a bearer token. Requests without an
// Authorization header continue as anonymous; a token that fails
// verification is rejected with 401.
func Identify(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		ContextKey: tokenKey,
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == ""
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(tokenKey).(*jwt.Token)
			if !ok {
				return invalidToken(c)
			}
			sub, err := token.Claims.GetSubject()
			if err != nil {
				return invalidToken(c)
			}
			userID, err := strconv.ParseUint(sub, 10, 0)
			if err != nil || userID == 0 {
				return invalidToken(c)
			}
			c.Locals(identityKey, access.Authenticated(uint(userID)))
			c.Locals("user_id", sub)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return invalidToken(c)
		},
	})
}

func invalidToken(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Invalid token.",
	})
}

// CurrentIdentity returns the caller set by Identify, or anonymous.
func CurrentIdentity(c *fiber.Ctx) access.Identity {
	if id, ok := c.Locals(identityKey).(access.Identity); ok {
		return id
	}
	return access.Anonymous()
}
