package middleware

import (
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/dto"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/representation"
	"github.com/gofiber/fiber/v2"
)

const versionKey = "api_version"

// APIVersion validates the :version path parameter before any handler
// runs. Unknown versions are rejected with 400.
func APIVersion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := representation.ParseVersion(c.Params("version"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Invalid version in URL path.",
			})
		}
		c.Locals(versionKey, v)
		return c.Next()
	}
}

// Version returns the API version resolved by APIVersion.
func Version(c *fiber.Ctx) representation.Version {
	v, _ := c.Locals(versionKey).(representation.Version)
	return v
}
