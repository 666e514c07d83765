package models

import "gorm.io/gorm"

// Paragraph is a short reading/pronunciation practice text
type Paragraph struct {
	gorm.Model
	InstructorID uint   `gorm:"index;not null" json:"instructor_id"`
	Title        string `gorm:"not null" json:"title"`
	Body         string `gorm:"type:text;not null" json:"body"`
	AudioURL     string `json:"audio_url"`
	Difficulty   string `json:"difficulty"`
	IsDeleted    bool   `gorm:"default:false"`
}
