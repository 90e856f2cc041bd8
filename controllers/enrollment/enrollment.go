package controllers

import (
	"errors"

	"clx/database"
	"clx/middleware"
	"clx/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EnrollInProgramme enrolls the current user in a programme. The first
// module's progress row is created as available right away; later modules
// stay locked until the progression engine unlocks them.
func EnrollInProgramme(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}

	programmeID := c.Locals("programmeID").(uint)

	var programme models.Programme
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", programmeID, false).First(&programme).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusNotFound, "Programme not found")
	}

	// At most one enrollment per (user, programme)
	var existing models.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND programme_id = ? AND is_deleted = ?", userID, programmeID, false).
		First(&existing).Error; err == nil {
		return middleware.JsonError(c, fiber.StatusConflict, "Already enrolled in this programme")
	}

	enrollment := models.Enrollment{
		UserID:      userID,
		ProgrammeID: programmeID,
		Status:      models.EnrollmentNotStarted,
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}

		var first models.Module
		err := tx.Where("programme_id = ? AND is_deleted = ?", programmeID, false).
			Order("order_index asc").First(&first).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // programme without modules: nothing to unlock
			}
			return err
		}

		progress := models.ModuleProgress{
			UserID:       userID,
			ModuleID:     first.ID,
			EnrollmentID: enrollment.ID,
			Status:       models.ProgressAvailable,
		}
		return tx.Create(&progress).Error
	})
	if err != nil {
		return middleware.JsonError(c, fiber.StatusInternalServerError, "Failed to enroll in programme")
	}

	return c.Status(fiber.StatusCreated).JSON(enrollment)
}

// GetEnrollments lists the current user's enrollments with programme info
func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}

	type EnrollmentWithProgramme struct {
		models.Enrollment
		Title           string `json:"title"`
		Slug            string `json:"slug"`
		Category        string `json:"category"`
		DurationHours   int    `json:"duration_hours"`
		ModuleCount     int    `json:"module_count"`
		DifficultyLevel string `json:"difficulty_level"`
	}

	var enrollments []models.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch enrollments")
	}

	result := make([]EnrollmentWithProgramme, len(enrollments))
	for i, e := range enrollments {
		var programme models.Programme
		database.Database.Db.Where("id = ?", e.ProgrammeID).First(&programme)
		result[i] = EnrollmentWithProgramme{
			Enrollment:      e,
			Title:           programme.Title,
			Slug:            programme.Slug,
			Category:        programme.Category,
			DurationHours:   programme.DurationHours,
			ModuleCount:     programme.ModuleCount,
			DifficultyLevel: programme.DifficultyLevel,
		}
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// GetEnrollmentProgress gets one enrollment with every programme module and
// the learner's progress state for it. Modules without a progress row are
// reported as locked.
func GetEnrollmentProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}

	enrollmentID := c.Locals("enrollmentID").(uint)

	var enrollment models.Enrollment
	if err := database.Database.Db.Where("id = ? AND user_id = ? AND is_deleted = ?", enrollmentID, userID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusNotFound, "Enrollment not found")
	}

	var programme models.Programme
	database.Database.Db.Where("id = ?", enrollment.ProgrammeID).First(&programme)

	var modules []models.Module
	if err := database.Database.Db.Where("programme_id = ? AND is_deleted = ?", enrollment.ProgrammeID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch modules")
	}

	var progressRows []models.ModuleProgress
	if err := database.Database.Db.Where("enrollment_id = ?", enrollment.ID).
		Find(&progressRows).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch progress")
	}

	progressByModule := make(map[uint]models.ModuleProgress, len(progressRows))
	for _, p := range progressRows {
		progressByModule[p.ModuleID] = p
	}

	type ModuleWithProgress struct {
		models.Module
		ProgressStatus   string  `json:"progress_status"`
		StartedAt        *string `json:"started_at"`
		CompletedAt      *string `json:"completed_at"`
		QuizScore        *int    `json:"quiz_score"`
		TimeSpentMinutes int     `json:"time_spent_minutes"`
	}

	result := make([]ModuleWithProgress, len(modules))
	for i, m := range modules {
		result[i] = ModuleWithProgress{
			Module:         m,
			ProgressStatus: models.ProgressLocked, // no row means locked
		}
		if p, found := progressByModule[m.ID]; found {
			result[i].ProgressStatus = p.Status
			result[i].QuizScore = p.QuizScore
			result[i].TimeSpentMinutes = p.TimeSpentMinutes
			if p.StartedAt != nil {
				s := p.StartedAt.Format("2006-01-02T15:04:05Z07:00")
				result[i].StartedAt = &s
			}
			if p.CompletedAt != nil {
				s := p.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
				result[i].CompletedAt = &s
			}
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"enrollment": enrollment,
		"programme":  programme,
		"modules":    result,
	})
}
