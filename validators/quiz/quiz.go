package quizValidator

import (
	"edutalks/middleware"
	"edutalks/models"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CreateQuiz validator middleware. Question-set rules are enforced in the
// controller where the payload is built into models.
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string `json:"title"`
			Status       string `json:"status"`
			TimeLimit    int    `json:"time_limit"`
			PassingScore int    `json:"passing_score"`
			MaxAttempts  int    `json:"max_attempts"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Status != "" && reqData.Status != models.QuizDraft && reqData.Status != models.QuizPublished {
			errors["status"] = "Status must be draft or published!"
		}

		if reqData.TimeLimit < 0 || reqData.TimeLimit > 480 {
			errors["time_limit"] = "Time limit must be between 0 and 480 minutes!"
		}

		if reqData.PassingScore < 0 || reqData.PassingScore > 100 {
			errors["passing_score"] = "Passing score must be between 0 and 100!"
		}

		if reqData.MaxAttempts < models.UnlimitedAttempts {
			errors["max_attempts"] = "Max attempts must be -1 (unlimited) or greater!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// SubmitAnswer validator middleware
func SubmitAnswer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			QuestionID     uint   `json:"question_id"`
			SelectedOption *int   `json:"selected_option"`
			AnswerText     string `json:"answer_text"`
			TimeTaken      int    `json:"time_taken"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.QuestionID == 0 {
			errors["question_id"] = "Question id is required!"
		}
		if reqData.SelectedOption == nil && strings.TrimSpace(reqData.AnswerText) == "" {
			errors["answer"] = "Either a selected option or an answer text is required!"
		}
		if reqData.SelectedOption != nil && *reqData.SelectedOption < 0 {
			errors["selected_option"] = "Selected option cannot be negative!"
		}
		if reqData.TimeTaken < 0 {
			errors["time_taken"] = "Time taken cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}
