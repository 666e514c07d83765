package quizController

import (
	"bytes"
	"edutalks/database"
	"edutalks/models"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:attempt_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	return db
}

// newTestApp mounts the attempt routes behind a stub that injects the
// authenticated user
func newTestApp(userID uint) *fiber.App {
	app := fiber.New()
	auth := func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		c.Locals("role", models.RoleStudent)
		return c.Next()
	}

	app.Post("/quizzes/:id/attempts", auth, StartAttempt)
	app.Post("/attempts/:attemptId/answers", auth, SubmitAnswer)
	app.Post("/attempts/:attemptId/submit", auth, SubmitAttempt)
	app.Post("/attempts/:attemptId/violations", auth, LogViolation)
	app.Get("/attempts/:attemptId", auth, GetAttempt)
	return app
}

func seedStudent(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		Name:  "Test Student",
		Email: "student@example.com",
		Role:  models.RoleStudent,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedQuiz(t *testing.T, db *gorm.DB, mutate func(*models.Quiz)) models.Quiz {
	t.Helper()
	quiz := models.Quiz{
		InstructorID:           99,
		Title:                  "Fractions basics",
		Status:                 models.QuizPublished,
		TimeLimit:              30,
		PassingScore:           60,
		MaxAttempts:            models.UnlimitedAttempts,
		ShowResultsImmediately: true,
		TotalQuestions:         2,
		TotalPoints:            3,
		Questions: []models.Question{
			{
				OrderIndex: 0,
				Text:       "1/2 + 1/2 = ?",
				Type:       models.QuestionMultipleChoice,
				Points:     1,
				Options: []models.QuestionOption{
					{OptionText: "1", IsCorrect: true, OrderIndex: 0},
					{OptionText: "2", IsCorrect: false, OrderIndex: 1},
				},
			},
			{
				OrderIndex: 1,
				Text:       "Name the capital of France",
				Type:       models.QuestionFillBlank,
				Points:     2,
				Options: []models.QuestionOption{
					{OptionText: "Paris", IsCorrect: true, OrderIndex: 0},
				},
			},
		},
	}
	if mutate != nil {
		mutate(&quiz)
	}
	require.NoError(t, db.Create(&quiz).Error)
	return quiz
}

func doJSON(t *testing.T, app *fiber.App, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func startAttemptID(t *testing.T, app *fiber.App, quizID uint) uint {
	t.Helper()
	resp, body := doJSON(t, app, "POST", fmt.Sprintf("/quizzes/%d/attempts", quizID), nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	attempt := data["attempt"].(map[string]interface{})
	return uint(attempt["ID"].(float64))
}

func TestStartAttemptCreatesPlaceholders(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	quiz := seedQuiz(t, db, nil)
	app := newTestApp(user.ID)

	attemptID := startAttemptID(t, app, quiz.ID)

	var attempt models.QuizAttempt
	require.NoError(t, db.First(&attempt, attemptID).Error)
	assert.Equal(t, models.AttemptInProgress, attempt.Status)
	assert.Equal(t, 1, attempt.AttemptNumber)
	assert.Equal(t, 30*60, attempt.TimeLimit)
	assert.Equal(t, quiz.TotalPoints, attempt.MaxScore)

	var answers []models.AttemptAnswer
	require.NoError(t, db.Where("attempt_id = ?", attempt.ID).Find(&answers).Error)
	assert.Len(t, answers, 2)
	for _, ans := range answers {
		assert.False(t, ans.Answered)
	}
}

func TestStartAttemptRejectsUnpublishedQuiz(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	quiz := seedQuiz(t, db, func(q *models.Quiz) { q.Status = models.QuizDraft })
	app := newTestApp(user.ID)

	resp, body := doJSON(t, app, "POST", fmt.Sprintf("/quizzes/%d/attempts", quiz.ID), nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "not published")
}

func TestStartAttemptDoubleStartConflicts(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	quiz := seedQuiz(t, db, nil)
	app := newTestApp(user.ID)

	startAttemptID(t, app, quiz.ID)

	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/quizzes/%d/attempts", quiz.ID), nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestStartAttemptEnforcesMaxAttempts(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	quiz := seedQuiz(t, db, func(q *models.Quiz) { q.MaxAttempts = 1 })
	app := newTestApp(user.ID)

	attemptID := startAttemptID(t, app, quiz.ID)
	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/attempts/%d/submit", attemptID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, "POST", fmt.Sprintf("/quizzes/%d/attempts", quiz.ID), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Maximum attempts exceeded.", body["message"])
}

func TestAttemptNumberIncrements(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	quiz := seedQuiz(t, db, nil)
	app := newTestApp(user.ID)

	first := startAttemptID(t, app, quiz.ID)
	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/attempts/%d/submit", first), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	second := startAttemptID(t, app, quiz.ID)

	var attempt models.QuizAttempt
	require.NoError(t, db.First(&attempt, second).Error)
	assert.Equal(t, 2, attempt.AttemptNumber)
}

func TestSubmitAnswerGradesAndOverwrites(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	quiz := seedQuiz(t, db, nil)
	app := newTestApp(user.ID)

	attemptID := startAttemptID(t, app, quiz.ID)

	var questions []models.Question
	require.NoError(t, db.Where("quiz_id = ?", quiz.ID).Order("order_index asc").Find(&questions).Error)

	// Wrong choice first
	wrong := 1
	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/attempts/%d/answers", attemptID), fiber.Map{
		"question_id":     questions[0].ID,
		"selected_option": wrong,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var slot models.AttemptAnswer
	require.NoError(t, db.Where("attempt_id = ? AND question_id = ?", attemptID, questions[0].ID).First(&slot).Error)
	assert.True(t, slot.Answered)
	assert.False(t, slot.IsCorrect)
	assert.Equal(t, 0, slot.PointsAwarded)

	// Resubmission overwrites the same slot
	right := 0
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/attempts/%d/answers", attemptID), fiber.Map{
		"question_id":     questions[0].ID,
		"selected_option": right,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.Where("attempt_id = ? AND question_id = ?", attemptID, questions[0].ID).First(&slot).Error)
	assert.True(t, slot.IsCorrect)
	assert.Equal(t, 1, slot.PointsAwarded)

	var count int64
	db.Model(&models.AttemptAnswer{}).Where("attempt_id = ?", attemptID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestSubmitAnswerRejectsForeignQuestion(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	quiz := seedQuiz(t, db, nil)
	other := seedQuiz(t, db, func(q *models.Quiz) { q.Title = "Other quiz" })
	app := newTestApp(user.ID)

	attemptID := startAttemptID(t, app, quiz.ID)

	var foreign models.Question
	require.NoError(t, db.Where("quiz_id = ?", other.ID).First(&foreign).Error)

	sel := 0
	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/attempts/%d/answers", attemptID), fiber.Map{
		"question_id":     foreign.ID,
		"selected_option": sel,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestExpiredAttemptFlipsToTimedOutWithoutAnswerMutation(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	quiz := seedQuiz(t, db, nil)
	app := newTestApp(user.ID)

	attemptID := startAttemptID(t, app, quiz.ID)

	// Rewind the clock past the time limit
	started := time.Now().Add(-31 * time.Minute)
	require.NoError(t, db.Model(&models.QuizAttempt{}).Where("id = ?", attemptID).Update("started_at", started).Error)

	var questions []models.Question
	require.NoError(t, db.Where("quiz_id = ?", quiz.ID).Order("order_index asc").Find(&questions).Error)

	sel := 0
	resp, body := doJSON(t, app, "POST", fmt.Sprintf("/attempts/%d/answers", attemptID), fiber.Map{
		"question_id":     questions[0].ID,
		"selected_option": sel,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "timed out")

	var attempt models.QuizAttempt
	require.NoError(t, db.First(&attempt, attemptID).Error)
	assert.Equal(t, models.AttemptTimedOut, attempt.Status)

	// The rejected submission must leave no trace
	var slot models.AttemptAnswer
	require.NoError(t, db.Where("attempt_id = ? AND question_id = ?", attemptID, questions[0].ID).First(&slot).Error)
	assert.False(t, slot.Answered)
}

func TestSubmitAttemptAggregates(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	quiz := seedQuiz(t, db, nil)
	app := newTestApp(user.ID)

	attemptID := startAttemptID(t, app, quiz.ID)

	var questions []models.Question
	require.NoError(t, db.Where("quiz_id = ?", quiz.ID).Order("order_index asc").Find(&questions).Error)

	// Correct choice (1 point) and correct fill-blank (2 points)
	sel := 0
	doJSON(t, app, "POST", fmt.Sprintf("/attempts/%d/answers", attemptID), fiber.Map{
		"question_id":     questions[0].ID,
		"selected_option": sel,
	})
	doJSON(t, app, "POST", fmt.Sprintf("/attempts/%d/answers", attemptID), fiber.Map{
		"question_id": questions[1].ID,
		"answer_text": "paris",
	})

	resp, body := doJSON(t, app, "POST", fmt.Sprintf("/attempts/%d/submit", attemptID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, models.AttemptCompleted, data["status"])
	assert.Equal(t, float64(3), data["score"])
	assert.Equal(t, float64(3), data["max_score"])
	assert.Equal(t, float64(100), data["percentage"])
	assert.Equal(t, float64(2), data["correct"])
	assert.Equal(t, float64(0), data["incorrect"])
	assert.Equal(t, float64(0), data["skipped"])
	assert.Equal(t, true, data["is_passed"])

	// ShowResultsImmediately exposes the per-question breakdown
	assert.NotNil(t, data["answers"])

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, 1, updated.QuizzesTaken)
	assert.Equal(t, 1, updated.QuizzesPassed)
}

func TestSubmitAttemptCountsSkippedAndFails(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	quiz := seedQuiz(t, db, nil)
	app := newTestApp(user.ID)

	attemptID := startAttemptID(t, app, quiz.ID)

	var questions []models.Question
	require.NoError(t, db.Where("quiz_id = ?", quiz.ID).Order("order_index asc").Find(&questions).Error)

	// Only the 1-point question answered correctly: 1/3 = 33% < 60%
	sel := 0
	doJSON(t, app, "POST", fmt.Sprintf("/attempts/%d/answers", attemptID), fiber.Map{
		"question_id":     questions[0].ID,
		"selected_option": sel,
	})

	resp, body := doJSON(t, app, "POST", fmt.Sprintf("/attempts/%d/submit", attemptID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["score"])
	assert.Equal(t, float64(1), data["skipped"])
	assert.Equal(t, false, data["is_passed"])

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, 1, updated.QuizzesTaken)
	assert.Equal(t, 0, updated.QuizzesPassed)
}

func TestSubmitAttemptTwiceRejected(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	quiz := seedQuiz(t, db, nil)
	app := newTestApp(user.ID)

	attemptID := startAttemptID(t, app, quiz.ID)

	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/attempts/%d/submit", attemptID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/attempts/%d/submit", attemptID), nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAttemptOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	owner := seedStudent(t, db)
	quiz := seedQuiz(t, db, nil)

	intruder := models.User{Name: "Intruder", Email: "intruder@example.com", Role: models.RoleStudent}
	require.NoError(t, db.Create(&intruder).Error)

	ownerApp := newTestApp(owner.ID)
	attemptID := startAttemptID(t, ownerApp, quiz.ID)

	intruderApp := newTestApp(intruder.ID)
	resp, _ := doJSON(t, intruderApp, "POST", fmt.Sprintf("/attempts/%d/submit", attemptID), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLogViolationAppends(t *testing.T) {
	db := setupTestDB(t)
	user := seedStudent(t, db)
	quiz := seedQuiz(t, db, nil)
	app := newTestApp(user.ID)

	attemptID := startAttemptID(t, app, quiz.ID)

	for _, kind := range []string{"tab_switch", "fullscreen_exit"} {
		resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/attempts/%d/violations", attemptID), fiber.Map{
			"kind": kind,
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	var attempt models.QuizAttempt
	require.NoError(t, db.First(&attempt, attemptID).Error)

	var violations []models.Violation
	require.NoError(t, json.Unmarshal(attempt.Violations, &violations))
	require.Len(t, violations, 2)
	assert.Equal(t, "tab_switch", violations[0].Kind)
	assert.Equal(t, "fullscreen_exit", violations[1].Kind)
}
