package quizValidator

import (
	"strconv"
	"strings"

	"clx/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// GetQuiz validates the module id path parameter
func GetQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("moduleId"))
		moduleID, err := strconv.Atoi(raw)
		if err != nil || moduleID <= 0 {
			return middleware.JsonError(c, fiber.StatusBadRequest, "Invalid module ID")
		}

		c.Locals("moduleID", uint(moduleID))
		return c.Next()
	}
}

// SubmitQuiz validates the quiz submission body. Both moduleId and answers
// are required; answer values themselves are graded leniently downstream.
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ModuleID uint              `json:"moduleId" validate:"required"`
			Answers  map[string]string `json:"answers" validate:"required"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonError(c, fiber.StatusBadRequest, "moduleId and answers are required")
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonError(c, fiber.StatusBadRequest, "moduleId and answers are required")
		}

		c.Locals("validatedQuizSubmission", reqData)
		return c.Next()
	}
}
