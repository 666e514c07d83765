package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// Subscription states
const (
	SubscriptionTrial      = "trial"
	SubscriptionSubscribed = "subscribed"
	SubscriptionExpired    = "expired"
)

type User struct {
	gorm.Model
	Name         string `gorm:"default:''"`
	Email        string `gorm:"unique;not null" json:"email"`
	Mobile       string `gorm:"default:''" json:"mobile"`
	Role         string `gorm:"default:'student'" json:"role"`
	Password     string `json:"-"` // empty only for Google accounts
	GoogleID     string `gorm:"default:''" json:"-"`
	ProfileImage string `gorm:"default:''" json:"profile_image"`

	// Instructors must be approved by an admin before they can log in
	IsApproved       bool `gorm:"default:false" json:"is_approved"`
	IsMobileVerified bool `gorm:"default:false" json:"is_mobile_verified"`

	SubscriptionUpto time.Time `json:"subscription_upto"`
	SubscriptionType string    `gorm:"default:'trial'" json:"subscription_type"`

	// Password-reset OTP session, tracked on the user row itself
	ResetOTPCode        string     `gorm:"size:6" json:"-"`
	ResetOTPExpiresAt   *time.Time `json:"-"`
	ResetOTPAttempts    int        `gorm:"default:0" json:"-"`
	ResetOTPWindowStart *time.Time `json:"-"`
	ResetOTPLastSentAt  *time.Time `json:"-"`

	QuizzesTaken  int `gorm:"default:0" json:"quizzes_taken"`
	QuizzesPassed int `gorm:"default:0" json:"quizzes_passed"`

	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LastFailedLogin     *time.Time `json:"-"`
	IsBlocked           bool       `gorm:"default:false" json:"-"`
	BlockedUntil        *time.Time `json:"-"`
	LastLogin           time.Time  `gorm:"default:NULL" json:"last_login"`
	IsDeleted           bool       `gorm:"default:false" json:"-"`
}

// HasActiveSubscription reports whether the user can access paid content.
func (u *User) HasActiveSubscription(now time.Time) bool {
	if u.SubscriptionType == SubscriptionExpired {
		return false
	}
	return now.Before(u.SubscriptionUpto)
}

// ClearResetOTP wipes the reset-OTP session and its rate-limit counters.
func (u *User) ClearResetOTP() {
	u.ResetOTPCode = ""
	u.ResetOTPExpiresAt = nil
	u.ResetOTPAttempts = 0
	u.ResetOTPWindowStart = nil
	u.ResetOTPLastSentAt = nil
}
