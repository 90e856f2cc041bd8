package certificateValidator

import (
	"strconv"
	"strings"

	"clx/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetCertificate validates the certificate id path parameter
func GetCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("id"))
		certificateID, err := strconv.Atoi(raw)
		if err != nil || certificateID <= 0 {
			return middleware.JsonError(c, fiber.StatusBadRequest, "Invalid certificate ID")
		}

		c.Locals("certificateID", uint(certificateID))
		return c.Next()
	}
}

// VerifyCertificate validates the public verification code path parameter
func VerifyCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.TrimSpace(c.Params("code"))
		if code == "" {
			return middleware.JsonError(c, fiber.StatusBadRequest, "Verification code is required")
		}

		c.Locals("verifyCode", code)
		return c.Next()
	}
}
