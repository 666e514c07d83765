package models

import (
	"time"

	"gorm.io/gorm"
)

// Topic is a daily discussion topic published by an instructor
type Topic struct {
	gorm.Model
	InstructorID uint      `gorm:"index;not null" json:"instructor_id"`
	Title        string    `gorm:"not null" json:"title"`
	Content      string    `gorm:"type:text" json:"content"`
	AudioURL     string    `json:"audio_url"`
	PublishDate  time.Time `json:"publish_date"`
	IsDeleted    bool      `gorm:"default:false"`
}
