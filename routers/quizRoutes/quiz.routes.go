package quizRoutes

import (
	controllers "clx/controllers/quiz"
	"clx/middleware"
	validators "clx/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up quiz retrieval and submission routes
func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/quiz")

	// Static route first so it is not shadowed by the param route
	quizGroup.Post("/submit", middleware.JWTMiddleware, validators.SubmitQuiz(), controllers.SubmitQuiz)
	quizGroup.Get("/:moduleId", middleware.JWTMiddleware, validators.GetQuiz(), controllers.GetQuizQuestions)
}
