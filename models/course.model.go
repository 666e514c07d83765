package models

import "gorm.io/gorm"

// Course content states
const (
	CourseDraft     = "DRAFT"
	CoursePublished = "PUBLISHED"
)

// Course represents an instructor-owned course in the catalog
type Course struct {
	gorm.Model
	InstructorID uint   `gorm:"index;not null" json:"instructor_id"`
	Title        string `gorm:"not null" json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Level        string `json:"level"` // beginner, intermediate, advanced
	Duration     int64  `gorm:"default:0" json:"duration"` // duration in hours
	Status       string `gorm:"default:'DRAFT'" json:"status"`
	ThumbnailURL string `json:"thumbnail_url"`
	VideoURL     string `json:"video_url"`
	PdfURL       string `json:"pdf_url"`
	IsPaid       bool   `gorm:"default:true" json:"is_paid"`
	IsDeleted    bool   `gorm:"default:false"`
}
