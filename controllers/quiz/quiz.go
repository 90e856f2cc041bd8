package controllers

import (
	"encoding/json"
	"errors"
	"log"

	"clx/database"
	"clx/middleware"
	"clx/models"
	quizService "clx/services/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// GetQuizQuestions lists a module's quiz questions without the correct
// option or explanation
func GetQuizQuestions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}

	moduleID := c.Locals("moduleID").(uint)

	var questions []models.QuizQuestion
	if err := database.Database.Db.Where("module_id = ?", moduleID).Find(&questions).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch questions")
	}

	if len(questions) == 0 {
		return middleware.JsonError(c, fiber.StatusNotFound, "No questions found")
	}

	type QuestionView struct {
		ID           uint    `json:"id"`
		ModuleID     uint    `json:"module_id"`
		QuestionText string  `json:"question_text"`
		OptionA      string  `json:"option_a"`
		OptionB      string  `json:"option_b"`
		OptionC      *string `json:"option_c"`
		OptionD      *string `json:"option_d"`
	}

	result := make([]QuestionView, len(questions))
	for i, q := range questions {
		result[i] = QuestionView{
			ID:           q.ID,
			ModuleID:     q.ModuleID,
			QuestionText: q.QuestionText,
			OptionA:      q.OptionA,
			OptionB:      q.OptionB,
			OptionC:      q.OptionC,
			OptionD:      q.OptionD,
		}
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// SubmitQuiz grades a quiz submission and records the attempt. Grading has
// no side effects on progression; the client calls module completion
// separately with the resulting score.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}

	reqData, ok := c.Locals("validatedQuizSubmission").(*struct {
		ModuleID uint              `json:"moduleId" validate:"required"`
		Answers  map[string]string `json:"answers" validate:"required"`
	})
	if !ok {
		return middleware.JsonError(c, fiber.StatusBadRequest, "moduleId and answers are required")
	}

	var questions []models.QuizQuestion
	if err := database.Database.Db.Where("module_id = ?", reqData.ModuleID).Find(&questions).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch questions")
	}

	result, err := quizService.Grade(questions, reqData.Answers)
	if err != nil {
		if errors.Is(err, quizService.ErrNoQuestions) {
			return middleware.JsonError(c, fiber.StatusNotFound, "No quiz questions found for this module")
		}
		return middleware.JsonError(c, fiber.StatusInternalServerError, "Failed to grade quiz")
	}

	recordAttempt(userID, reqData.ModuleID, reqData.Answers, result)

	return c.Status(fiber.StatusOK).JSON(result)
}

// recordAttempt stores the audit row for a graded submission. Best-effort:
// the grading response is the contract, the audit trail is not.
func recordAttempt(userID, moduleID uint, answers map[string]string, result *quizService.Result) {
	var attemptCount int64
	database.Database.Db.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		Count(&attemptCount)

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		log.Printf("Failed to marshal quiz answers for module %d: %v", moduleID, err)
		return
	}

	attempt := models.QuizAttempt{
		UserID:         userID,
		ModuleID:       moduleID,
		Answers:        datatypes.JSON(answersJSON),
		Score:          result.Score,
		CorrectCount:   result.CorrectCount,
		TotalQuestions: result.TotalQuestions,
		Passed:         result.Passed,
		AttemptNumber:  int(attemptCount) + 1,
	}

	if err := database.Database.Db.Create(&attempt).Error; err != nil {
		log.Printf("Failed to record quiz attempt for module %d: %v", moduleID, err)
	}
}
