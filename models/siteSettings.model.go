package models

import "gorm.io/gorm"

// SiteSettings is a singleton row holding site-wide configuration editable
// from the admin dashboard
type SiteSettings struct {
	gorm.Model
	SiteName         string `gorm:"default:'EduTalks'" json:"site_name"`
	SupportEmail     string `json:"support_email"`
	BannerText       string `json:"banner_text"`
	RegistrationOpen bool   `gorm:"default:true" json:"registration_open"`
	MaintenanceMode  bool   `gorm:"default:false" json:"maintenance_mode"`
}
