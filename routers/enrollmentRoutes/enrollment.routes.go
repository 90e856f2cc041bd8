package enrollmentRoutes

import (
	controllers "clx/controllers/enrollment"
	"clx/middleware"
	validators "clx/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes sets up all enrollment and progression routes
func SetupEnrollmentRoutes(app *fiber.App) {
	enrollmentGroup := app.Group("/enrollments")

	enrollmentGroup.Post("/", middleware.JWTMiddleware, validators.EnrollProgramme(), controllers.EnrollInProgramme)
	enrollmentGroup.Get("/", middleware.JWTMiddleware, controllers.GetEnrollments)
	enrollmentGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.GetEnrollmentProgress(), controllers.GetEnrollmentProgress)

	// The progression core: mark a module complete within an enrollment
	enrollmentGroup.Post("/:id/modules/:moduleId/complete", middleware.JWTMiddleware, validators.CompleteModule(), controllers.CompleteModule)
}
