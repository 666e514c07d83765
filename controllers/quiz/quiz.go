package quizController

import (
	"edutalks/database"
	"edutalks/middleware"
	"edutalks/models"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// QuestionPayload is the wire shape of one authored question
type QuestionPayload struct {
	Text        string `json:"text"`
	Type        string `json:"type"`
	Points      int    `json:"points"`
	Explanation string `json:"explanation"`
	Options     []struct {
		Text      string `json:"text"`
		IsCorrect bool   `json:"is_correct"`
	} `json:"options"`
}

// QuizPayload is the wire shape of quiz create/update requests
type QuizPayload struct {
	Title                  string            `json:"title"`
	Description            string            `json:"description"`
	Status                 string            `json:"status"`
	TimeLimit              int               `json:"time_limit"`
	PassingScore           int               `json:"passing_score"`
	MaxAttempts            int               `json:"max_attempts"`
	ShuffleQuestions       bool              `json:"shuffle_questions"`
	ShuffleOptions         bool              `json:"shuffle_options"`
	ShowResultsImmediately bool              `json:"show_results_immediately"`
	Questions              []QuestionPayload `json:"questions"`
}

// ValidateQuestions checks the structural rules of a question set. The
// returned message names the first offending question (1-based).
func ValidateQuestions(questions []QuestionPayload) error {
	if len(questions) == 0 {
		return fmt.Errorf("quiz must have at least 1 question")
	}

	for i, q := range questions {
		n := i + 1
		if q.Text == "" {
			return fmt.Errorf("question %d: text is required", n)
		}

		switch q.Type {
		case models.QuestionMultipleChoice, models.QuestionTrueFalse:
			if len(q.Options) < 2 {
				return fmt.Errorf("question %d: choice questions need at least 2 options", n)
			}
		case models.QuestionFillBlank:
			if len(q.Options) < 1 {
				return fmt.Errorf("question %d: fill-blank questions need an accepted answer", n)
			}
		default:
			return fmt.Errorf("question %d: unknown question type %q", n, q.Type)
		}

		correct := 0
		for _, opt := range q.Options {
			if opt.Text == "" {
				return fmt.Errorf("question %d: option text is required", n)
			}
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("question %d: exactly one correct answer is required", n)
		}
	}

	return nil
}

// buildQuestions materializes model rows from the payload and returns the
// derived totals
func buildQuestions(questions []QuestionPayload) ([]models.Question, int, int) {
	rows := make([]models.Question, 0, len(questions))
	totalPoints := 0

	for i, q := range questions {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		totalPoints += points

		row := models.Question{
			OrderIndex:  i,
			Text:        q.Text,
			Type:        q.Type,
			Points:      points,
			Explanation: q.Explanation,
		}
		for j, opt := range q.Options {
			row.Options = append(row.Options, models.QuestionOption{
				OptionText: opt.Text,
				IsCorrect:  opt.IsCorrect,
				OrderIndex: j,
			})
		}
		rows = append(rows, row)
	}

	return rows, len(questions), totalPoints
}

// HasAttempts reports whether any student attempt exists for the quiz
func HasAttempts(db *gorm.DB, quizID uint) bool {
	var count int64
	db.Model(&models.QuizAttempt{}).Where("quiz_id = ? AND is_deleted = ?", quizID, false).Count(&count)
	return count > 0
}

// CreateQuiz creates a quiz with its full question set
func CreateQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	payload := new(QuizPayload)
	if err := c.BodyParser(payload); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if payload.Title == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz title is required!", nil)
	}
	if err := ValidateQuestions(payload.Questions); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	}

	questions, totalQuestions, totalPoints := buildQuestions(payload.Questions)

	status := models.QuizDraft
	if payload.Status == models.QuizPublished {
		status = models.QuizPublished
	}
	passingScore := payload.PassingScore
	if passingScore <= 0 {
		passingScore = 60
	}
	timeLimit := payload.TimeLimit
	if timeLimit <= 0 {
		timeLimit = 30
	}
	maxAttempts := payload.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = models.UnlimitedAttempts
	}

	quiz := models.Quiz{
		InstructorID:           userID,
		Title:                  payload.Title,
		Description:            payload.Description,
		Status:                 status,
		TimeLimit:              timeLimit,
		PassingScore:           passingScore,
		MaxAttempts:            maxAttempts,
		ShuffleQuestions:       payload.ShuffleQuestions,
		ShuffleOptions:         payload.ShuffleOptions,
		ShowResultsImmediately: payload.ShowResultsImmediately,
		TotalQuestions:         totalQuestions,
		TotalPoints:            totalPoints,
		Questions:              questions,
	}

	if err := database.Database.Db.Create(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully.", quiz)
}

// UpdateQuiz edits quiz metadata, and replaces the question set if one is
// supplied. Question-set edits are rejected once any attempt exists.
func UpdateQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz id!", nil)
	}

	db := database.Database.Db

	var quiz models.Quiz
	if err := db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}
	if quiz.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this quiz!", nil)
	}

	payload := new(QuizPayload)
	if err := c.BodyParser(payload); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if len(payload.Questions) > 0 {
		if HasAttempts(db, quiz.ID) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz already has attempts. The question set can no longer be edited!", nil)
		}
		if err := ValidateQuestions(payload.Questions); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
		}
	}

	if payload.Title != "" {
		quiz.Title = payload.Title
	}
	if payload.Description != "" {
		quiz.Description = payload.Description
	}
	if payload.Status == models.QuizDraft || payload.Status == models.QuizPublished {
		quiz.Status = payload.Status
	}
	if payload.TimeLimit > 0 {
		quiz.TimeLimit = payload.TimeLimit
	}
	if payload.PassingScore > 0 {
		quiz.PassingScore = payload.PassingScore
	}
	if payload.MaxAttempts != 0 {
		quiz.MaxAttempts = payload.MaxAttempts
	}
	quiz.ShuffleQuestions = payload.ShuffleQuestions
	quiz.ShuffleOptions = payload.ShuffleOptions
	quiz.ShowResultsImmediately = payload.ShowResultsImmediately

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(payload.Questions) > 0 {
			// Replace the question set wholesale
			var oldQuestions []models.Question
			if err := tx.Where("quiz_id = ?", quiz.ID).Find(&oldQuestions).Error; err != nil {
				return err
			}
			for _, q := range oldQuestions {
				if err := tx.Where("question_id = ?", q.ID).Delete(&models.QuestionOption{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
				return err
			}

			questions, totalQuestions, totalPoints := buildQuestions(payload.Questions)
			for i := range questions {
				questions[i].QuizID = quiz.ID
			}
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
			quiz.TotalQuestions = totalQuestions
			quiz.TotalPoints = totalPoints
		}

		return tx.Save(&quiz).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully.", quiz)
}

// DeleteQuiz soft-deletes a quiz. Rejected once any attempt exists.
func DeleteQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz id!", nil)
	}

	db := database.Database.Db

	var quiz models.Quiz
	if err := db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}
	if quiz.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this quiz!", nil)
	}

	if HasAttempts(db, quiz.ID) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz already has attempts and cannot be deleted!", nil)
	}

	if err := db.Model(&quiz).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully.", nil)
}

// GetMyQuizzes lists the quizzes owned by the calling instructor
func GetMyQuizzes(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var quizzes []models.Quiz
	if err := database.Database.Db.
		Where("instructor_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").
		Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully.", quizzes)
}

// GetQuizDetail returns the full quiz with answer markers. Owner only.
func GetQuizDetail(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz id!", nil)
	}

	var quiz models.Quiz
	if err := database.Database.Db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc") }).
		Where("id = ? AND is_deleted = ?", quizID, false).
		First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	role, _ := c.Locals("role").(string)
	if quiz.InstructorID != userID && role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully.", quiz)
}

// GetPublishedQuizzes lists published quizzes for students (metadata only)
func GetPublishedQuizzes(c *fiber.Ctx) error {
	var quizzes []models.Quiz
	if err := database.Database.Db.
		Where("status = ? AND is_deleted = ?", models.QuizPublished, false).
		Order("created_at desc").
		Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully.", quizzes)
}
