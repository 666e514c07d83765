package models

import "gorm.io/gorm"

// Quiz states
const (
	QuizDraft     = "draft"
	QuizPublished = "published"
)

// Question types
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionFillBlank      = "fill_blank"
)

// UnlimitedAttempts is the sentinel for Quiz.MaxAttempts
const UnlimitedAttempts = -1

// Quiz is owned by exactly one instructor and carries an ordered question set.
// TotalQuestions and TotalPoints are derived on every write, never authored.
type Quiz struct {
	gorm.Model
	InstructorID uint   `gorm:"index;not null" json:"instructor_id"`
	Title        string `gorm:"not null" json:"title"`
	Description  string `json:"description"`
	Status       string `gorm:"default:'draft'" json:"status"`
	TimeLimit    int    `gorm:"default:30" json:"time_limit"` // minutes
	PassingScore int    `gorm:"default:60" json:"passing_score"`

	MaxAttempts            int  `gorm:"default:-1" json:"max_attempts"` // -1 = unlimited
	ShuffleQuestions       bool `gorm:"default:false" json:"shuffle_questions"`
	ShuffleOptions         bool `gorm:"default:false" json:"shuffle_options"`
	ShowResultsImmediately bool `gorm:"default:true" json:"show_results_immediately"`

	TotalQuestions int        `gorm:"default:0" json:"total_questions"`
	TotalPoints    int        `gorm:"default:0" json:"total_points"`
	Questions      []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	IsDeleted      bool       `gorm:"default:false"`
}

// Question is one item in a quiz. Choice types need at least two options and
// exactly one correct option; fill_blank stores its accepted answer as the
// single option marked correct.
type Question struct {
	gorm.Model
	QuizID      uint             `gorm:"index;not null" json:"quiz_id"`
	OrderIndex  int              `gorm:"default:0" json:"order_index"`
	Text        string           `gorm:"type:text;not null" json:"text"`
	Type        string           `gorm:"not null" json:"type"`
	Points      int              `gorm:"default:1" json:"points"`
	Explanation string           `gorm:"type:text" json:"explanation"`
	Options     []QuestionOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
	IsDeleted   bool             `gorm:"default:false"`
}

// QuestionOption is one answer choice for a question
type QuestionOption struct {
	gorm.Model
	QuestionID uint   `gorm:"index;not null" json:"question_id"`
	OptionText string `gorm:"not null" json:"option_text"`
	IsCorrect  bool   `gorm:"default:false" json:"is_correct"`
	OrderIndex int    `gorm:"default:0" json:"order_index"`
	IsDeleted  bool   `gorm:"default:false"`
}
