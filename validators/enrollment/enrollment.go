package enrollmentValidator

import (
	"strconv"
	"strings"

	"clx/middleware"

	"github.com/gofiber/fiber/v2"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Params(name))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// EnrollProgramme validates the enrollment creation body
func EnrollProgramme() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ProgrammeID uint `json:"programme_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}

		if reqData.ProgrammeID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"programme_id": "programme_id is required",
			})
		}

		c.Locals("programmeID", reqData.ProgrammeID)
		return c.Next()
	}
}

// GetEnrollmentProgress validates the enrollment id path parameter
func GetEnrollmentProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		enrollmentID, ok := parseUintParam(c, "id")
		if !ok {
			return middleware.JsonError(c, fiber.StatusBadRequest, "Invalid enrollment ID")
		}

		c.Locals("enrollmentID", enrollmentID)
		return c.Next()
	}
}

// CompleteModule validates the enrollment and module id path parameters
func CompleteModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		enrollmentID, ok := parseUintParam(c, "id")
		if !ok {
			return middleware.JsonError(c, fiber.StatusBadRequest, "Invalid enrollment ID")
		}

		moduleID, ok := parseUintParam(c, "moduleId")
		if !ok {
			return middleware.JsonError(c, fiber.StatusBadRequest, "Invalid module ID")
		}

		c.Locals("enrollmentID", enrollmentID)
		c.Locals("moduleID", moduleID)
		return c.Next()
	}
}
