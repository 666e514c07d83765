package quizController

import (
	"edutalks/database"
	"edutalks/middleware"
	"edutalks/models"
	"encoding/json"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StartAttempt opens a new timed attempt at a published quiz
func StartAttempt(c *fiber.Ctx) error {
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
	if err := db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc") }).
		Where("id = ? AND is_deleted = ?", quizID, false).
		First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if quiz.Status != models.QuizPublished {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz is not published!", nil)
	}

	// Enforce the attempt cap (-1 = unlimited)
	var priorAttempts int64
	db.Model(&models.QuizAttempt{}).
		Where("quiz_id = ? AND user_id = ? AND is_deleted = ?", quiz.ID, userID, false).
		Count(&priorAttempts)

	if quiz.MaxAttempts != models.UnlimitedAttempts && int(priorAttempts) >= quiz.MaxAttempts {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Maximum attempts exceeded.", nil)
	}

	var inProgress models.QuizAttempt
	if err := db.
		Where("quiz_id = ? AND user_id = ? AND status = ? AND is_deleted = ?", quiz.ID, userID, models.AttemptInProgress, false).
		First(&inProgress).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "An attempt is already in progress for this quiz!", nil)
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}

	attempt := models.QuizAttempt{
		QuizID:        quiz.ID,
		UserID:        userID,
		AttemptNumber: int(priorAttempts) + 1,
		Status:        models.AttemptInProgress,
		StartedAt:     time.Now(),
		TimeLimit:     quiz.TimeLimit * 60,
		MaxScore:      quiz.TotalPoints,
		IPAddress:     ip,
		UserAgent:     c.Get("User-Agent"),
		Violations:    datatypes.JSON("[]"),
	}

	// One answer placeholder per question, in attempt order
	order := make([]int, len(quiz.Questions))
	for i := range order {
		order[i] = i
	}
	if quiz.ShuffleQuestions {
		rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	for pos, idx := range order {
		attempt.Answers = append(attempt.Answers, models.AttemptAnswer{
			QuestionID: quiz.Questions[idx].ID,
			OrderIndex: pos,
		})
	}

	if err := db.Create(&attempt).Error; err != nil {
		// The partial unique index trips when two start requests race
		if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "An attempt is already in progress for this quiz!", nil)
		}
		log.Printf("Error creating attempt: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start attempt!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Attempt started.", fiber.Map{
		"attempt":   attempt,
		"questions": presentQuestions(&quiz, attempt.Answers),
	})
}

// presentQuestions builds the client payload for an attempt: questions in
// attempt order with correct-answer markers stripped. Option shuffling is a
// presentation-level randomization; each option keeps its canonical index so
// submissions reference stable positions.
func presentQuestions(quiz *models.Quiz, answers []models.AttemptAnswer) []fiber.Map {
	byID := make(map[uint]models.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		byID[q.ID] = q
	}

	out := make([]fiber.Map, 0, len(answers))
	for _, ans := range answers {
		q, ok := byID[ans.QuestionID]
		if !ok {
			continue
		}

		// Options of a fill-blank question are the accepted answers and are
		// never sent to the client
		options := make([]fiber.Map, 0, len(q.Options))
		if q.Type != models.QuestionFillBlank {
			for i, opt := range q.Options {
				options = append(options, fiber.Map{
					"index": i,
					"text":  opt.OptionText,
				})
			}
			if quiz.ShuffleOptions {
				rand.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
			}
		}

		out = append(out, fiber.Map{
			"question_id": q.ID,
			"text":        q.Text,
			"type":        q.Type,
			"points":      q.Points,
			"options":     options,
		})
	}
	return out
}

// GradeSubmission applies the type-specific correctness rules and returns
// correctness plus points awarded
func GradeSubmission(q *models.Question, selectedOption *int, answerText string) (bool, int) {
	points := q.Points
	if points <= 0 {
		points = 1
	}

	correct := false
	switch q.Type {
	case models.QuestionMultipleChoice, models.QuestionTrueFalse:
		if selectedOption != nil && *selectedOption >= 0 && *selectedOption < len(q.Options) {
			correct = q.Options[*selectedOption].IsCorrect
		}
	case models.QuestionFillBlank:
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct = strings.EqualFold(strings.TrimSpace(answerText), strings.TrimSpace(opt.OptionText))
				break
			}
		}
	}

	if correct {
		return true, points
	}
	return false, 0
}

// markTimedOut forces an expired attempt into timed_out. Answers are left
// exactly as they were.
func markTimedOut(db *gorm.DB, attempt *models.QuizAttempt) {
	attempt.Status = models.AttemptTimedOut
	if err := db.Model(attempt).Update("status", models.AttemptTimedOut).Error; err != nil {
		log.Printf("Error timing out attempt %d: %v", attempt.ID, err)
	}
}

// loadOwnAttempt fetches an attempt and enforces caller ownership
func loadOwnAttempt(c *fiber.Ctx, db *gorm.DB) (*models.QuizAttempt, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	attemptID, err := c.ParamsInt("attemptId")
	if err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid attempt id!", nil)
	}

	var attempt models.QuizAttempt
	if err := db.Where("id = ? AND is_deleted = ?", attemptID, false).First(&attempt).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	}
	if attempt.UserID != userID {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "This attempt does not belong to you!", nil)
	}

	return &attempt, nil
}

// SubmitAnswer records/overwrites the answer for one question of an
// in-progress attempt
func SubmitAnswer(c *fiber.Ctx) error {
	db := database.Database.Db

	attempt, err := loadOwnAttempt(c, db)
	if attempt == nil {
		return err
	}

	if attempt.Status != models.AttemptInProgress {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Attempt is already finished!", nil)
	}
	if attempt.IsExpired(time.Now()) {
		markTimedOut(db, attempt)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Time is up! Attempt has been marked timed out.", nil)
	}

	reqData := new(struct {
		QuestionID     uint   `json:"question_id"`
		SelectedOption *int   `json:"selected_option"`
		AnswerText     string `json:"answer_text"`
		TimeTaken      int    `json:"time_taken"`
		Flagged        bool   `json:"flagged"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var question models.Question
	if err := db.
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc") }).
		Where("id = ? AND quiz_id = ? AND is_deleted = ?", reqData.QuestionID, attempt.QuizID, false).
		First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found in this quiz!", nil)
	}

	isCorrect, pointsAwarded := GradeSubmission(&question, reqData.SelectedOption, reqData.AnswerText)

	// Resubmission overwrites the slot
	result := db.Model(&models.AttemptAnswer{}).
		Where("attempt_id = ? AND question_id = ?", attempt.ID, question.ID).
		Updates(map[string]interface{}{
			"selected_option": reqData.SelectedOption,
			"answer_text":     reqData.AnswerText,
			"answered":        true,
			"is_correct":      isCorrect,
			"points_awarded":  pointsAwarded,
			"time_taken":      reqData.TimeTaken,
			"flagged":         reqData.Flagged,
		})
	if result.Error != nil || result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save answer!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer saved.", fiber.Map{
		"question_id":    question.ID,
		"answered":       true,
		"remaining_time": attempt.RemainingTime(time.Now()),
	})
}

// SubmitAttempt finalizes an in-progress attempt and computes its results
func SubmitAttempt(c *fiber.Ctx) error {
	db := database.Database.Db

	attempt, err := loadOwnAttempt(c, db)
	if attempt == nil {
		return err
	}

	if attempt.Status != models.AttemptInProgress {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Attempt is already finished!", nil)
	}
	if attempt.IsExpired(time.Now()) {
		markTimedOut(db, attempt)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Time is up! Attempt has been marked timed out.", nil)
	}

	var quiz models.Quiz
	if err := db.Where("id = ?", attempt.QuizID).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var answers []models.AttemptAnswer
	if err := db.Where("attempt_id = ?", attempt.ID).Order("order_index asc").Find(&answers).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load answers!", nil)
	}

	now := time.Now()
	score, correct, incorrect, skipped := 0, 0, 0, 0
	for _, ans := range answers {
		if !ans.Answered {
			skipped++
			continue
		}
		if ans.IsCorrect {
			correct++
			score += ans.PointsAwarded
		} else {
			incorrect++
		}
	}

	percentage := 0.0
	if quiz.TotalPoints > 0 {
		percentage = float64(score) / float64(quiz.TotalPoints) * 100
	}

	attempt.Status = models.AttemptCompleted
	attempt.SubmittedAt = &now
	attempt.Score = score
	attempt.MaxScore = quiz.TotalPoints
	attempt.Percentage = percentage
	attempt.CorrectCount = correct
	attempt.IncorrectCount = incorrect
	attempt.SkippedCount = skipped
	attempt.IsPassed = percentage >= float64(quiz.PassingScore)

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(attempt).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"quizzes_taken": gorm.Expr("quizzes_taken + 1")}
		if attempt.IsPassed {
			updates["quizzes_passed"] = gorm.Expr("quizzes_passed + 1")
		}
		return tx.Model(&models.User{}).Where("id = ?", attempt.UserID).Updates(updates).Error
	})
	if err != nil {
		log.Printf("Error finalizing attempt %d: %v", attempt.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit attempt!", nil)
	}

	response := fiber.Map{
		"attempt_id":     attempt.ID,
		"status":         attempt.Status,
		"score":          attempt.Score,
		"max_score":      attempt.MaxScore,
		"percentage":     attempt.Percentage,
		"correct":        attempt.CorrectCount,
		"incorrect":      attempt.IncorrectCount,
		"skipped":        attempt.SkippedCount,
		"is_passed":      attempt.IsPassed,
		"elapsed_time":   int(now.Sub(attempt.StartedAt).Seconds()),
	}
	if quiz.ShowResultsImmediately {
		response["answers"] = detailedResults(db, &quiz, answers)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt submitted.", response)
}

// detailedResults joins the stored answers with question text, correct
// markers and explanations
func detailedResults(db *gorm.DB, quiz *models.Quiz, answers []models.AttemptAnswer) []fiber.Map {
	var questions []models.Question
	db.Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc") }).
		Where("quiz_id = ?", quiz.ID).Find(&questions)

	byID := make(map[uint]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	out := make([]fiber.Map, 0, len(answers))
	for _, ans := range answers {
		q, ok := byID[ans.QuestionID]
		if !ok {
			continue
		}

		correctIndex := -1
		correctText := ""
		for i, opt := range q.Options {
			if opt.IsCorrect {
				correctIndex = i
				correctText = opt.OptionText
				break
			}
		}

		out = append(out, fiber.Map{
			"question_id":     q.ID,
			"text":            q.Text,
			"type":            q.Type,
			"selected_option": ans.SelectedOption,
			"answer_text":     ans.AnswerText,
			"answered":        ans.Answered,
			"is_correct":      ans.IsCorrect,
			"points_awarded":  ans.PointsAwarded,
			"correct_option":  correctIndex,
			"correct_answer":  correctText,
			"explanation":     q.Explanation,
		})
	}
	return out
}

// LogViolation appends a proctoring event to an in-progress attempt
func LogViolation(c *fiber.Ctx) error {
	db := database.Database.Db

	attempt, err := loadOwnAttempt(c, db)
	if attempt == nil {
		return err
	}

	if attempt.Status != models.AttemptInProgress {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Attempt is already finished!", nil)
	}
	if attempt.IsExpired(time.Now()) {
		markTimedOut(db, attempt)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Time is up! Attempt has been marked timed out.", nil)
	}

	reqData := new(struct {
		Kind   string `json:"kind"`
		Detail string `json:"detail"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Kind == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Violation kind is required!", nil)
	}

	var violations []models.Violation
	if len(attempt.Violations) > 0 {
		if err := json.Unmarshal(attempt.Violations, &violations); err != nil {
			violations = nil
		}
	}
	violations = append(violations, models.Violation{
		Kind:      reqData.Kind,
		Detail:    reqData.Detail,
		Timestamp: time.Now(),
	})

	raw, err := json.Marshal(violations)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to log violation!", nil)
	}

	if err := db.Model(attempt).Update("violations", datatypes.JSON(raw)).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to log violation!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Violation logged.", fiber.Map{
		"count": len(violations),
	})
}

// GetAttempt returns an attempt: a live progress snapshot while in_progress,
// the results once finished
func GetAttempt(c *fiber.Ctx) error {
	db := database.Database.Db

	attempt, err := loadOwnAttempt(c, db)
	if attempt == nil {
		return err
	}

	now := time.Now()
	if attempt.Status == models.AttemptInProgress && attempt.IsExpired(now) {
		markTimedOut(db, attempt)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Time is up! Attempt has been marked timed out.", nil)
	}

	var quiz models.Quiz
	if err := db.Where("id = ?", attempt.QuizID).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if attempt.Status == models.AttemptInProgress {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt in progress.", fiber.Map{
			"attempt":        attempt,
			"remaining_time": attempt.RemainingTime(now),
		})
	}

	response := fiber.Map{
		"attempt": attempt,
	}
	if quiz.ShowResultsImmediately {
		var answers []models.AttemptAnswer
		db.Where("attempt_id = ?", attempt.ID).Order("order_index asc").Find(&answers)
		response["answers"] = detailedResults(db, &quiz, answers)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt fetched successfully.", response)
}

// GetMyAttempts lists the caller's attempts at one quiz
func GetMyAttempts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz id!", nil)
	}

	var attempts []models.QuizAttempt
	if err := database.Database.Db.
		Where("quiz_id = ? AND user_id = ? AND is_deleted = ?", quizID, userID, false).
		Order("attempt_number asc").
		Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully.", attempts)
}
