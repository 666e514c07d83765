package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsExpiredMonotonic(t *testing.T) {
	start := time.Now()
	attempt := QuizAttempt{StartedAt: start, TimeLimit: 1800}

	assert.False(t, attempt.IsExpired(start))
	assert.False(t, attempt.IsExpired(start.Add(29*time.Minute)))
	assert.True(t, attempt.IsExpired(start.Add(30*time.Minute)))
	assert.True(t, attempt.IsExpired(start.Add(2*time.Hour)))
}

func TestRemainingTimeFloorsAtZero(t *testing.T) {
	start := time.Now()
	attempt := QuizAttempt{StartedAt: start, TimeLimit: 600}

	assert.Equal(t, 600, attempt.RemainingTime(start))
	assert.Equal(t, 300, attempt.RemainingTime(start.Add(5*time.Minute)))
	assert.Equal(t, 0, attempt.RemainingTime(start.Add(10*time.Minute)))
	assert.Equal(t, 0, attempt.RemainingTime(start.Add(time.Hour)))
}

func TestHasActiveSubscription(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	assert.True(t, (&User{SubscriptionUpto: future}).HasActiveSubscription(now))
	assert.False(t, (&User{SubscriptionUpto: past}).HasActiveSubscription(now))
	assert.False(t, (&User{}).HasActiveSubscription(now))
	assert.False(t, (&User{SubscriptionUpto: future, SubscriptionType: SubscriptionExpired}).HasActiveSubscription(now))
}

func TestClearResetOTP(t *testing.T) {
	now := time.Now()
	user := User{
		ResetOTPCode:        "123456",
		ResetOTPExpiresAt:   &now,
		ResetOTPAttempts:    3,
		ResetOTPWindowStart: &now,
		ResetOTPLastSentAt:  &now,
	}

	user.ClearResetOTP()

	assert.Empty(t, user.ResetOTPCode)
	assert.Nil(t, user.ResetOTPExpiresAt)
	assert.Equal(t, 0, user.ResetOTPAttempts)
	assert.Nil(t, user.ResetOTPWindowStart)
	assert.Nil(t, user.ResetOTPLastSentAt)
}
