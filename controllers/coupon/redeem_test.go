package couponController

import (
	"bytes"
	"edutalks/database"
	"edutalks/models"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:coupon_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, upto time.Time) models.User {
	t.Helper()
	user := models.User{
		Name:             "Redeemer",
		Email:            "redeemer@example.com",
		Role:             models.RoleStudent,
		SubscriptionType: models.SubscriptionTrial,
		SubscriptionUpto: upto,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCoupon(t *testing.T, db *gorm.DB, code string, mutate func(*models.Coupon)) models.Coupon {
	t.Helper()
	coupon := models.Coupon{
		Code:       code,
		Amount:     999,
		ExpiryDate: time.Now().AddDate(0, 1, 0),
		IsActive:   true,
		UsageLimit: 1,
	}
	if mutate != nil {
		mutate(&coupon)
	}
	require.NoError(t, db.Create(&coupon).Error)
	return coupon
}

func TestRedeemExtendsLapsedSubscriptionFromNow(t *testing.T) {
	db := setupTestDB(t)
	lapsed := time.Now().AddDate(0, -2, 0)
	user := seedUser(t, db, lapsed)
	seedCoupon(t, db, "EDU-TESTCODE01", nil)

	now := time.Now()
	updated, err := RedeemCouponForUser(db, user.ID, "EDU-TESTCODE01", now)
	require.NoError(t, err)

	assert.WithinDuration(t, now.AddDate(1, 0, 0), updated.SubscriptionUpto, time.Second)
	assert.Equal(t, models.SubscriptionSubscribed, updated.SubscriptionType)
}

func TestRedeemStacksOnActiveSubscription(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	active := now.AddDate(0, 3, 0)
	user := seedUser(t, db, active)
	seedCoupon(t, db, "EDU-TESTCODE02", nil)

	updated, err := RedeemCouponForUser(db, user.ID, "EDU-TESTCODE02", now)
	require.NoError(t, err)

	// Remaining time is preserved: the year extends the current end date
	assert.WithinDuration(t, active.AddDate(1, 0, 0), updated.SubscriptionUpto, time.Second)
}

func TestRedeemNormalizesCode(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, time.Time{})
	seedCoupon(t, db, "EDU-TESTCODE03", nil)

	_, err := RedeemCouponForUser(db, user.ID, "  edu-testcode03  ", time.Now())
	assert.NoError(t, err)
}

func TestRedeemDeactivatesCoupon(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, time.Time{})
	coupon := seedCoupon(t, db, "EDU-TESTCODE04", nil)

	_, err := RedeemCouponForUser(db, user.ID, coupon.Code, time.Now())
	require.NoError(t, err)

	var reloaded models.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	assert.False(t, reloaded.IsActive)
	assert.Equal(t, 1, reloaded.UsedCount)
}

func TestRedeemTwiceFails(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, time.Time{})
	coupon := seedCoupon(t, db, "EDU-TESTCODE05", nil)

	_, err := RedeemCouponForUser(db, user.ID, coupon.Code, time.Now())
	require.NoError(t, err)

	before := reloadUser(t, db, user.ID).SubscriptionUpto

	_, err = RedeemCouponForUser(db, user.ID, coupon.Code, time.Now())
	assert.ErrorIs(t, err, ErrCouponInactive)

	// The failed redemption must not touch the subscription
	after := reloadUser(t, db, user.ID).SubscriptionUpto
	assert.True(t, before.Equal(after))
}

func TestRedeemUnknownCode(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, time.Time{})

	_, err := RedeemCouponForUser(db, user.ID, "EDU-NOSUCHCODE", time.Now())
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestRedeemExpiredCouponStaysActive(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, time.Time{})
	coupon := seedCoupon(t, db, "EDU-TESTCODE06", func(c *models.Coupon) {
		c.ExpiryDate = time.Now().AddDate(0, 0, -1)
	})

	_, err := RedeemCouponForUser(db, user.ID, coupon.Code, time.Now())
	assert.ErrorIs(t, err, ErrCouponExpired)

	// An expired coupon is rejected but never flipped inactive
	var reloaded models.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	assert.True(t, reloaded.IsActive)

	updated := reloadUser(t, db, user.ID)
	assert.True(t, updated.SubscriptionUpto.IsZero())
	assert.Equal(t, models.SubscriptionTrial, updated.SubscriptionType)
}

func TestRedeemHandlerUnknownCodeReturnsBadRequest(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, time.Time{})

	app := fiber.New()
	app.Post("/redeem", func(c *fiber.Ctx) error {
		c.Locals("userId", user.ID)
		return c.Next()
	}, RedeemCoupon)

	raw, err := json.Marshal(fiber.Map{"code": "EDU-NOSUCHCODE"})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/redeem", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid coupon code.", body["message"])
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return user
}
