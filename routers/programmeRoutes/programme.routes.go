package programmeRoutes

import (
	controllers "clx/controllers/programme"
	validators "clx/validators/programme"

	"github.com/gofiber/fiber/v2"
)

// SetupProgrammeRoutes sets up the public programme catalogue routes
func SetupProgrammeRoutes(app *fiber.App) {
	programmeGroup := app.Group("/programmes")

	programmeGroup.Get("/", controllers.GetProgrammes)
	programmeGroup.Get("/:slug", validators.GetProgramme(), controllers.GetProgrammeBySlug)
}
