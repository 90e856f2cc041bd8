package controllers

import (
	"errors"
	"log"

	"clx/database"
	"clx/middleware"
	"clx/models"
	"clx/services/progression"
	"clx/utils"

	"github.com/gofiber/fiber/v2"
)

// CompleteModule marks a module complete within an enrollment, optionally
// recording a quiz score carried in the body. The progression engine handles
// the unlock, recompute and certificate steps; this handler only maps errors
// and fires the post-completion notifications.
func CompleteModule(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}

	enrollmentID := c.Locals("enrollmentID").(uint)
	moduleID := c.Locals("moduleID").(uint)

	// Body is optional: non-quiz modules send none
	reqData := new(struct {
		QuizScore *int `json:"quiz_score"`
	})
	_ = c.BodyParser(reqData)

	result, err := progression.CompleteModule(database.Database.Db, userID, enrollmentID, moduleID, reqData.QuizScore)
	if err != nil {
		if errors.Is(err, progression.ErrEnrollmentNotFound) {
			return middleware.JsonError(c, fiber.StatusNotFound, "Enrollment not found")
		}
		if errors.Is(err, progression.ErrModuleNotFound) {
			return middleware.JsonError(c, fiber.StatusNotFound, "Module not found")
		}
		log.Printf("Failed to complete module %d for enrollment %d: %v", moduleID, enrollmentID, err)
		return middleware.JsonError(c, fiber.StatusInternalServerError, "Failed to complete module")
	}

	// Notifications are best-effort and must not fail the request
	if result.Certificate != nil {
		go notifyCompletion(user, *result.Certificate)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":        true,
		"completion_pct": result.CompletionPct,
		"all_complete":   result.AllComplete,
		"next_module":    result.NextModule,
	})
}

func notifyCompletion(user models.User, cert models.Certificate) {
	var programme models.Programme
	if err := database.Database.Db.Where("id = ?", cert.ProgrammeID).First(&programme).Error; err != nil {
		log.Printf("Completion notification: programme %d lookup failed: %v", cert.ProgrammeID, err)
		return
	}

	if user.Email != "" {
		utils.SendCertificateEmail(user.Email, user.Name, programme.Title, cert.CertificateNumber)
	}

	utils.NotifyProgrammeCompleted(user.ID, programme.ID, cert.EnrollmentID, cert.CertificateNumber)
}
