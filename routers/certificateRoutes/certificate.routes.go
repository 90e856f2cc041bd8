package certificateRoutes

import (
	controllers "clx/controllers/certificate"
	"clx/middleware"
	validators "clx/validators/certificate"

	"github.com/gofiber/fiber/v2"
)

// SetupCertificateRoutes sets up certificate listing and verification routes
func SetupCertificateRoutes(app *fiber.App) {
	certificateGroup := app.Group("/certificates")

	// Public verification by code; the code itself is the credential
	certificateGroup.Get("/verify/:code", validators.VerifyCertificate(), controllers.VerifyCertificate)

	certificateGroup.Get("/", middleware.JWTMiddleware, controllers.GetCertificates)
	certificateGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCertificate(), controllers.GetCertificate)
}
