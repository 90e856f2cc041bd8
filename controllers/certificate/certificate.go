package controllers

import (
	"time"

	"clx/database"
	"clx/middleware"
	"clx/models"

	"github.com/gofiber/fiber/v2"
)

// GetCertificates lists the current user's certificates with programme info
func GetCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}

	type CertificateWithProgramme struct {
		models.Certificate
		ProgrammeTitle string `json:"programme_title"`
		ProgrammeSlug  string `json:"programme_slug"`
		Category       string `json:"category"`
	}

	var certificates []models.Certificate
	if err := database.Database.Db.Where("user_id = ?", userID).
		Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch certificates")
	}

	result := make([]CertificateWithProgramme, len(certificates))
	for i, cert := range certificates {
		var programme models.Programme
		database.Database.Db.Where("id = ?", cert.ProgrammeID).First(&programme)
		result[i] = CertificateWithProgramme{
			Certificate:    cert,
			ProgrammeTitle: programme.Title,
			ProgrammeSlug:  programme.Slug,
			Category:       programme.Category,
		}
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// GetCertificate gets one certificate with user and programme info
func GetCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}

	certificateID := c.Locals("certificateID").(uint)

	var cert models.Certificate
	if err := database.Database.Db.Where("id = ? AND user_id = ?", certificateID, userID).First(&cert).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusNotFound, "Certificate not found")
	}

	var programme models.Programme
	database.Database.Db.Where("id = ?", cert.ProgrammeID).First(&programme)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"certificate":     cert,
		"user_name":       user.Name,
		"user_email":      user.Email,
		"programme_title": programme.Title,
		"programme_slug":  programme.Slug,
		"category":        programme.Category,
		"duration_hours":  programme.DurationHours,
	})
}

// VerifyCertificate checks a certificate by its public verification code.
// No authentication: the code itself is the credential.
func VerifyCertificate(c *fiber.Ctx) error {
	code := c.Locals("verifyCode").(string)

	var cert models.Certificate
	if err := database.Database.Db.Where("verify_code = ?", code).First(&cert).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusNotFound, "Certificate not found")
	}

	var user models.User
	database.Database.Db.Where("id = ?", cert.UserID).First(&user)

	var programme models.Programme
	database.Database.Db.Where("id = ?", cert.ProgrammeID).First(&programme)

	valid := !cert.IsExpired && time.Now().Before(cert.ValidUntil)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"valid":              valid,
		"certificate_number": cert.CertificateNumber,
		"issued_at":          cert.IssuedAt,
		"valid_until":        cert.ValidUntil,
		"holder_name":        user.Name,
		"programme_title":    programme.Title,
	})
}
