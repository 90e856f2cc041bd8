package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clx/config"
	"clx/database"
	"clx/middleware"
	"clx/models"
	quizRoutes "clx/routers/quizRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Module{}, &models.QuizQuestion{}, &models.QuizAttempt{}))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	quizRoutes.SetupQuizRoutes(app)
	return app
}

func seedQuiz(t *testing.T) (models.User, models.Module) {
	t.Helper()
	db := database.Database.Db

	user := models.User{Name: "Dana Learner", Email: t.Name() + "@example.com"}
	require.NoError(t, db.Create(&user).Error)

	module := models.Module{ProgrammeID: 1, Title: "Final Quiz", OrderIndex: 3, ContentType: models.ContentTypeQuiz}
	require.NoError(t, db.Create(&module).Error)

	optC := "Option C"
	questions := []models.QuizQuestion{
		{ModuleID: module.ID, QuestionText: "Q1", OptionA: "A", OptionB: "B", OptionC: &optC, CorrectOption: "b", Explanation: "B is right"},
		{ModuleID: module.ID, QuestionText: "Q2", OptionA: "A", OptionB: "B", CorrectOption: "a", Explanation: "A is right"},
	}
	for i := range questions {
		require.NoError(t, db.Create(&questions[i]).Error)
	}

	return user, module
}

func authHeader(t *testing.T, user models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonRequest(method, target string, auth string, body interface{}) *http.Request {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return req
}

func TestGetQuizQuestionsHidesAnswers(t *testing.T) {
	app := setupApp(t)
	user, module := seedQuiz(t)

	resp, err := app.Test(jsonRequest(http.MethodGet, fmt.Sprintf("/quiz/%d", module.ID), authHeader(t, user), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var questions []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &questions))
	require.Len(t, questions, 2)

	_, hasCorrect := questions[0]["correct_option"]
	assert.False(t, hasCorrect)
	_, hasExplanation := questions[0]["explanation"]
	assert.False(t, hasExplanation)
	assert.Equal(t, "Q1", questions[0]["question_text"])
}

func TestGetQuizQuestionsNotFound(t *testing.T) {
	app := setupApp(t)
	user, module := seedQuiz(t)

	resp, err := app.Test(jsonRequest(http.MethodGet, fmt.Sprintf("/quiz/%d", module.ID+999), authHeader(t, user), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSubmitQuizMissingFields(t *testing.T) {
	app := setupApp(t)
	user, _ := seedQuiz(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/quiz/submit", authHeader(t, user),
		map[string]interface{}{"moduleId": 1}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitQuizGradesAndRecordsAttempt(t *testing.T) {
	app := setupApp(t)
	user, module := seedQuiz(t)

	var questions []models.QuizQuestion
	require.NoError(t, database.Database.Db.Where("module_id = ?", module.ID).Order("id asc").Find(&questions).Error)

	answers := map[string]string{
		fmt.Sprintf("%d", questions[0].ID): "B",
		fmt.Sprintf("%d", questions[1].ID): "c",
	}

	resp, err := app.Test(jsonRequest(http.MethodPost, "/quiz/submit", authHeader(t, user),
		map[string]interface{}{"moduleId": module.ID, "answers": answers}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &result))

	assert.InDelta(t, 50, result["score"].(float64), 0.001)
	assert.Equal(t, false, result["passed"])
	assert.InDelta(t, 1, result["correctCount"].(float64), 0.001)
	assert.InDelta(t, 2, result["totalQuestions"].(float64), 0.001)

	breakdown, ok := result["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, breakdown, 2)

	// Grading is stateless for progression, but the attempt is recorded
	var attempt models.QuizAttempt
	require.NoError(t, database.Database.Db.
		Where("user_id = ? AND module_id = ?", user.ID, module.ID).
		First(&attempt).Error)
	assert.Equal(t, 50, attempt.Score)
	assert.Equal(t, 1, attempt.AttemptNumber)
	assert.False(t, attempt.Passed)
}

func TestSubmitQuizNoQuestions(t *testing.T) {
	app := setupApp(t)
	user, module := seedQuiz(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/quiz/submit", authHeader(t, user),
		map[string]interface{}{"moduleId": module.ID + 999, "answers": map[string]string{"1": "a"}}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
