package utils

import (
	"edutalks/database"
	"edutalks/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeSchedulers starts the background cron jobs: the daily
// subscription-expiry sweep and the stale-attempt sweep.
func InitializeSchedulers() {
	log.Println("[SCHEDULER] Initializing schedulers...")

	c := cron.New()

	// Daily at 9 AM: flip lapsed subscriptions to expired
	c.AddFunc("0 9 * * *", func() {
		log.Println("[SCHEDULER] Running daily subscription check...")
		ExpireSubscriptions()
	})

	// Every 5 minutes: time out abandoned in_progress attempts. Expiry is
	// still checked lazily on every attempt access; the sweep only keeps
	// storage from accumulating attempts nobody will ever touch again.
	c.AddFunc("*/5 * * * *", func() {
		SweepExpiredAttempts()
	})

	c.Start()
	log.Println("[SCHEDULER] Schedulers started")
}

// ExpireSubscriptions marks users whose window lapsed as expired and sends
// a notification email
func ExpireSubscriptions() {
	db := database.Database.Db
	now := time.Now()

	var lapsed []models.User
	if err := db.
		Where("subscription_type != ? AND subscription_upto < ? AND is_deleted = ?", models.SubscriptionExpired, now, false).
		Find(&lapsed).Error; err != nil {
		log.Printf("[SCHEDULER] Error fetching lapsed subscriptions: %v", err)
		return
	}

	for _, user := range lapsed {
		if err := db.Model(&user).Update("subscription_type", models.SubscriptionExpired).Error; err != nil {
			log.Printf("[SCHEDULER] Error expiring subscription for user %d: %v", user.ID, err)
			continue
		}
		SendSubscriptionExpiredEmail(user.Email, user.Name)
	}

	if len(lapsed) > 0 {
		log.Printf("[SCHEDULER] Expired %d subscriptions", len(lapsed))
	}
}

// SweepExpiredAttempts flips in_progress attempts whose clock ran out to
// timed_out. Answers are left untouched.
func SweepExpiredAttempts() {
	db := database.Database.Db
	now := time.Now()

	var stale []models.QuizAttempt
	if err := db.
		Where("status = ? AND is_deleted = ?", models.AttemptInProgress, false).
		Find(&stale).Error; err != nil {
		log.Printf("[SCHEDULER] Error fetching in-progress attempts: %v", err)
		return
	}

	timedOut := 0
	for _, attempt := range stale {
		if !attempt.IsExpired(now) {
			continue
		}
		if err := db.Model(&attempt).Update("status", models.AttemptTimedOut).Error; err != nil {
			log.Printf("[SCHEDULER] Error timing out attempt %d: %v", attempt.ID, err)
			continue
		}
		timedOut++
	}

	if timedOut > 0 {
		log.Printf("[SCHEDULER] Timed out %d abandoned attempts", timedOut)
	}
}
