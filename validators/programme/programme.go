package programmeValidator

import (
	"strings"

	"clx/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetProgramme validates the programme slug path parameter
func GetProgramme() fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := strings.TrimSpace(c.Params("slug"))
		if slug == "" {
			return middleware.JsonError(c, fiber.StatusBadRequest, "Programme slug is required")
		}

		c.Locals("programmeSlug", slug)
		return c.Next()
	}
}
