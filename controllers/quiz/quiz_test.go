package quizController

import (
	"edutalks/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func choiceQuestion(text string, correctIndex int, optionCount int) QuestionPayload {
	q := QuestionPayload{Text: text, Type: models.QuestionMultipleChoice}
	for i := 0; i < optionCount; i++ {
		q.Options = append(q.Options, struct {
			Text      string `json:"text"`
			IsCorrect bool   `json:"is_correct"`
		}{Text: "option", IsCorrect: i == correctIndex})
	}
	return q
}

func TestValidateQuestionsEmptySet(t *testing.T) {
	err := ValidateQuestions(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least 1 question")
}

func TestValidateQuestionsChoiceNeedsTwoOptions(t *testing.T) {
	err := ValidateQuestions([]QuestionPayload{choiceQuestion("q", 0, 1)})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "question 1")
}

func TestValidateQuestionsExactlyOneCorrect(t *testing.T) {
	q := choiceQuestion("q", 0, 3)
	q.Options[2].IsCorrect = true
	err := ValidateQuestions([]QuestionPayload{q})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one correct")

	none := choiceQuestion("q", -1, 3)
	err = ValidateQuestions([]QuestionPayload{none})
	assert.Error(t, err)
}

func TestValidateQuestionsFillBlank(t *testing.T) {
	q := QuestionPayload{Text: "capital of France", Type: models.QuestionFillBlank}
	err := ValidateQuestions([]QuestionPayload{q})
	assert.Error(t, err)

	q.Options = append(q.Options, struct {
		Text      string `json:"text"`
		IsCorrect bool   `json:"is_correct"`
	}{Text: "Paris", IsCorrect: true})
	assert.NoError(t, ValidateQuestions([]QuestionPayload{q}))
}

func TestValidateQuestionsMessageNamesOffendingQuestion(t *testing.T) {
	questions := []QuestionPayload{
		choiceQuestion("ok", 0, 2),
		{Text: "", Type: models.QuestionTrueFalse},
	}
	err := ValidateQuestions(questions)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "question 2")
}

func TestValidateQuestionsUnknownType(t *testing.T) {
	err := ValidateQuestions([]QuestionPayload{{Text: "q", Type: "essay"}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown question type")
}

func TestBuildQuestionsDerivedTotals(t *testing.T) {
	payload := []QuestionPayload{
		choiceQuestion("a", 0, 2),
		choiceQuestion("b", 1, 4),
		choiceQuestion("c", 0, 2),
	}
	payload[1].Points = 5

	rows, totalQuestions, totalPoints := buildQuestions(payload)

	assert.Len(t, rows, 3)
	assert.Equal(t, 3, totalQuestions)
	// Unset points default to 1, so 1 + 5 + 1
	assert.Equal(t, 7, totalPoints)
	assert.Equal(t, 0, rows[0].OrderIndex)
	assert.Equal(t, 2, rows[2].OrderIndex)
	assert.Equal(t, 1, rows[0].Points)
	assert.Equal(t, 5, rows[1].Points)
}

func TestGradeSubmissionMultipleChoice(t *testing.T) {
	question := models.Question{
		Type:   models.QuestionMultipleChoice,
		Points: 3,
		Options: []models.QuestionOption{
			{OptionText: "wrong", IsCorrect: false, OrderIndex: 0},
			{OptionText: "right", IsCorrect: true, OrderIndex: 1},
		},
	}

	right := 1
	correct, points := GradeSubmission(&question, &right, "")
	assert.True(t, correct)
	assert.Equal(t, 3, points)

	wrong := 0
	correct, points = GradeSubmission(&question, &wrong, "")
	assert.False(t, correct)
	assert.Equal(t, 0, points)
}

func TestGradeSubmissionOutOfRangeOption(t *testing.T) {
	question := models.Question{
		Type:   models.QuestionTrueFalse,
		Points: 1,
		Options: []models.QuestionOption{
			{OptionText: "True", IsCorrect: true},
			{OptionText: "False", IsCorrect: false},
		},
	}

	oob := 5
	correct, points := GradeSubmission(&question, &oob, "")
	assert.False(t, correct)
	assert.Equal(t, 0, points)

	correct, points = GradeSubmission(&question, nil, "")
	assert.False(t, correct)
	assert.Equal(t, 0, points)
}

func TestGradeSubmissionFillBlankCaseAndSpace(t *testing.T) {
	question := models.Question{
		Type:   models.QuestionFillBlank,
		Points: 2,
		Options: []models.QuestionOption{
			{OptionText: "Paris", IsCorrect: true},
		},
	}

	for _, answer := range []string{"Paris", "paris", "  PARIS  "} {
		correct, points := GradeSubmission(&question, nil, answer)
		assert.True(t, correct, "answer %q should match", answer)
		assert.Equal(t, 2, points)
	}

	correct, points := GradeSubmission(&question, nil, "London")
	assert.False(t, correct)
	assert.Equal(t, 0, points)
}

func TestGradeSubmissionDefaultsPointsToOne(t *testing.T) {
	question := models.Question{
		Type: models.QuestionMultipleChoice,
		Options: []models.QuestionOption{
			{OptionText: "a", IsCorrect: true},
			{OptionText: "b", IsCorrect: false},
		},
	}

	sel := 0
	correct, points := GradeSubmission(&question, &sel, "")
	assert.True(t, correct)
	assert.Equal(t, 1, points)
}
