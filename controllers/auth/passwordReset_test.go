package authController

import (
	"bytes"
	"edutalks/config"
	"edutalks/database"
	"edutalks/middleware"
	"edutalks/models"
	"encoding/json"
	"fmt"
	"net/http"
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

	if config.AppConfig == nil {
		config.LoadConfig()
	}
	config.AppConfig.JWTKey = "test-signing-key"
	config.AppConfig.SaltRound = 4

	dsn := fmt.Sprintf("file:auth_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
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

func newResetApp() *fiber.App {
	app := fiber.New()
	app.Post("/forgot-password", ForgotPassword)
	app.Post("/verify-reset-otp", VerifyResetOTP)
	app.Post("/resend-reset-otp", ResendResetOTP)
	app.Patch("/reset-password", ResetPassword)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func seedUserWithOTP(t *testing.T, db *gorm.DB, code string, expiresAt time.Time) models.User {
	t.Helper()
	user := models.User{
		Name:              "Reset Tester",
		Email:             "reset@example.com",
		Role:              models.RoleStudent,
		ResetOTPCode:      code,
		ResetOTPExpiresAt: &expiresAt,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestForgotPasswordRateLimited(t *testing.T) {
	db := setupTestDB(t)
	windowStart := time.Now().Add(-30 * time.Minute)
	user := models.User{
		Name:                "Throttled",
		Email:               "reset@example.com",
		Role:                models.RoleStudent,
		ResetOTPAttempts:    5,
		ResetOTPWindowStart: &windowStart,
	}
	require.NoError(t, db.Create(&user).Error)

	app := newResetApp()
	resp, body := doJSON(t, app, "POST", "/forgot-password", fiber.Map{
		"email": user.Email,
	})
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Too many OTP requests. Try again in 30 minutes.", body["message"])

	// No OTP was minted and the counter did not move
	var unchanged models.User
	require.NoError(t, db.First(&unchanged, user.ID).Error)
	assert.Equal(t, 5, unchanged.ResetOTPAttempts)
	assert.Empty(t, unchanged.ResetOTPCode)
}

func TestResendResetOTPCooldown(t *testing.T) {
	db := setupTestDB(t)
	lastSent := time.Now().Add(-10 * time.Second)
	expiresAt := time.Now().Add(otpValidity)
	user := models.User{
		Name:               "Cooldown",
		Email:              "reset@example.com",
		Role:               models.RoleStudent,
		ResetOTPCode:       "123456",
		ResetOTPExpiresAt:  &expiresAt,
		ResetOTPLastSentAt: &lastSent,
	}
	require.NoError(t, db.Create(&user).Error)

	app := newResetApp()
	resp, body := doJSON(t, app, "POST", "/resend-reset-otp", fiber.Map{
		"email": user.Email,
	})
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, body["message"], "before requesting another OTP")

	// The pending code survives untouched
	var unchanged models.User
	require.NoError(t, db.First(&unchanged, user.ID).Error)
	assert.Equal(t, "123456", unchanged.ResetOTPCode)
}

func TestVerifyResetOTPWithoutRequest(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Name: "No OTP", Email: "reset@example.com", Role: models.RoleStudent}
	require.NoError(t, db.Create(&user).Error)

	app := newResetApp()
	resp, body := doJSON(t, app, "POST", "/verify-reset-otp", fiber.Map{
		"email": user.Email,
		"code":  "123456",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No OTP requested for this account!", body["message"])
}

func TestVerifyResetOTPWrongCode(t *testing.T) {
	db := setupTestDB(t)
	user := seedUserWithOTP(t, db, "123456", time.Now().Add(10*time.Minute))

	app := newResetApp()
	resp, body := doJSON(t, app, "POST", "/verify-reset-otp", fiber.Map{
		"email": user.Email,
		"code":  "654321",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid OTP!", body["message"])

	// A wrong guess does not consume the code
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "123456", reloaded.ResetOTPCode)
}

func TestVerifyResetOTPExpiredClearsSession(t *testing.T) {
	db := setupTestDB(t)
	user := seedUserWithOTP(t, db, "123456", time.Now().Add(-time.Minute))

	app := newResetApp()
	resp, body := doJSON(t, app, "POST", "/verify-reset-otp", fiber.Map{
		"email": user.Email,
		"code":  "123456",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "OTP has expired!", body["message"])

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Empty(t, reloaded.ResetOTPCode)
	assert.Nil(t, reloaded.ResetOTPExpiresAt)
}

func TestVerifyResetOTPIsSingleUse(t *testing.T) {
	db := setupTestDB(t)
	user := seedUserWithOTP(t, db, "123456", time.Now().Add(10*time.Minute))

	app := newResetApp()
	resp, body := doJSON(t, app, "POST", "/verify-reset-otp", fiber.Map{
		"email": user.Email,
		"code":  "123456",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	// The code is consumed but the session marker survives for ResetPassword
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Empty(t, reloaded.ResetOTPCode)
	assert.NotNil(t, reloaded.ResetOTPExpiresAt)

	// Replaying the code fails
	resp, _ = doJSON(t, app, "POST", "/verify-reset-otp", fiber.Map{
		"email": user.Email,
		"code":  "123456",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestResetPasswordRejectsWeakPassword(t *testing.T) {
	db := setupTestDB(t)
	user := seedUserWithOTP(t, db, "", time.Now().Add(10*time.Minute))

	token, err := middleware.GeneratePurposeToken(user.ID, user.Email, middleware.PurposePasswordReset)
	require.NoError(t, err)

	app := newResetApp()
	for _, weak := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		resp, _ := doJSON(t, app, "PATCH", "/reset-password", fiber.Map{
			"token":    token,
			"password": weak,
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "password %q should be rejected", weak)
	}
}

func TestResetPasswordRequiresVerifiedSession(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Name: "No Session", Email: "reset@example.com", Role: models.RoleStudent}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GeneratePurposeToken(user.ID, user.Email, middleware.PurposePasswordReset)
	require.NoError(t, err)

	app := newResetApp()
	resp, body := doJSON(t, app, "PATCH", "/reset-password", fiber.Map{
		"token":    token,
		"password": "Sufficient1Password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No verified OTP session for this account!", body["message"])
}

func TestResetPasswordRejectsSessionToken(t *testing.T) {
	db := setupTestDB(t)
	user := seedUserWithOTP(t, db, "", time.Now().Add(10*time.Minute))

	// A plain session JWT carries no purpose claim and must not pass
	token, err := middleware.GenerateJWT(user.ID, user.Role, user.Email)
	require.NoError(t, err)

	app := newResetApp()
	resp, _ := doJSON(t, app, "PATCH", "/reset-password", fiber.Map{
		"token":    token,
		"password": "Sufficient1Password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
