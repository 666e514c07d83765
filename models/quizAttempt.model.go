package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attempt states. An attempt only ever moves forward:
// in_progress -> completed or in_progress -> timed_out.
const (
	AttemptInProgress = "in_progress"
	AttemptCompleted  = "completed"
	AttemptTimedOut   = "timed_out"
)

// Violation is one proctoring event logged against an attempt
// (tab switch, fullscreen exit, copy attempt). Stored as a JSON array.
type Violation struct {
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// QuizAttempt is one student's timed pass through one quiz.
// The partial unique index guarantees at most one in_progress attempt per
// (user, quiz) even under concurrent start requests.
type QuizAttempt struct {
	gorm.Model
	QuizID        uint   `gorm:"index;not null;uniqueIndex:idx_active_attempt,where:status = 'in_progress'" json:"quiz_id"`
	UserID        uint   `gorm:"index;not null;uniqueIndex:idx_active_attempt,where:status = 'in_progress'" json:"user_id"`
	AttemptNumber int    `gorm:"default:1" json:"attempt_number"`
	Status        string `gorm:"default:'in_progress'" json:"status"`

	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at"`
	TimeLimit   int        `json:"time_limit"` // seconds, snapshot of quiz minutes*60

	Score          int     `gorm:"default:0" json:"score"`
	MaxScore       int     `gorm:"default:0" json:"max_score"`
	Percentage     float64 `gorm:"default:0" json:"percentage"`
	CorrectCount   int     `gorm:"default:0" json:"correct_count"`
	IncorrectCount int     `gorm:"default:0" json:"incorrect_count"`
	SkippedCount   int     `gorm:"default:0" json:"skipped_count"`
	IsPassed       bool    `gorm:"default:false" json:"is_passed"`

	IPAddress  string          `json:"ip_address"`
	UserAgent  string          `json:"user_agent"`
	Violations datatypes.JSON  `json:"violations"`
	Answers    []AttemptAnswer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
	IsDeleted  bool            `gorm:"default:false"`
}

// IsExpired reports whether the attempt's time budget has elapsed. Once true
// it stays true: StartedAt and TimeLimit never change after creation.
func (a *QuizAttempt) IsExpired(now time.Time) bool {
	return now.Sub(a.StartedAt) >= time.Duration(a.TimeLimit)*time.Second
}

// RemainingTime returns the seconds left on the clock, floored at zero.
func (a *QuizAttempt) RemainingTime(now time.Time) int {
	remaining := a.TimeLimit - int(now.Sub(a.StartedAt).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AttemptAnswer is the per-question answer slot of an attempt. One placeholder
// row per question is materialized when the attempt starts; submission
// overwrites the slot, so resubmitting a question is idempotent.
type AttemptAnswer struct {
	gorm.Model
	AttemptID      uint   `gorm:"index;not null" json:"attempt_id"`
	QuestionID     uint   `gorm:"index;not null" json:"question_id"`
	OrderIndex     int    `gorm:"default:0" json:"order_index"`
	SelectedOption *int   `json:"selected_option"` // option index for choice types
	AnswerText     string `json:"answer_text"`     // fill_blank submission
	Answered       bool   `gorm:"default:false" json:"answered"`
	IsCorrect      bool   `gorm:"default:false" json:"is_correct"`
	PointsAwarded  int    `gorm:"default:0" json:"points_awarded"`
	TimeTaken      int    `gorm:"default:0" json:"time_taken"` // seconds
	Flagged        bool   `gorm:"default:false" json:"flagged"`
	IsDeleted      bool   `gorm:"default:false"`
}
