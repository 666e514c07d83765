package authController

import (
	"edutalks/config"
	"edutalks/database"
	"edutalks/middleware"
	"edutalks/models"
	"edutalks/utils"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpValidity       = 10 * time.Minute
	otpRateWindow     = time.Hour
	otpMaxRequests    = 5
	otpResendCooldown = 60 * time.Second
)

// ForgotPassword starts a password-reset session: generates an OTP on the
// user row and mails it. Requests are capped at 5 per rolling hour.
func ForgotPassword(c *fiber.Ctx) error {
	reqData := new(struct {
		Email string `json:"email"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No account found for this email!", nil)
	}

	now := time.Now()

	// Counter resets after an hour of inactivity
	if user.ResetOTPWindowStart != nil && now.Sub(*user.ResetOTPWindowStart) > otpRateWindow {
		user.ResetOTPAttempts = 0
		user.ResetOTPWindowStart = nil
	}

	if user.ResetOTPAttempts >= otpMaxRequests {
		remaining := otpRateWindow - now.Sub(*user.ResetOTPWindowStart)
		minutes := int(math.Ceil(remaining.Minutes()))
		return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false,
			fmt.Sprintf("Too many OTP requests. Try again in %d minutes.", minutes), nil)
	}

	otp := utils.GenerateOTP()
	expiresAt := now.Add(otpValidity)

	if user.ResetOTPWindowStart == nil {
		user.ResetOTPWindowStart = &now
	}
	user.ResetOTPCode = otp
	user.ResetOTPExpiresAt = &expiresAt
	user.ResetOTPAttempts++
	user.ResetOTPLastSentAt = &now

	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create OTP!", nil)
	}

	if err := utils.SendOTPEmail(user.Email, otp); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send OTP email!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent successfully.", nil)
}

// VerifyResetOTP checks the submitted code and, on success, issues a 15-minute
// password-reset token. The code is consumed on first successful verification.
func VerifyResetOTP(c *fiber.Ctx) error {
	reqData := new(struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No account found for this email!", nil)
	}

	if user.ResetOTPCode == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No OTP requested for this account!", nil)
	}

	if user.ResetOTPExpiresAt == nil || time.Now().After(*user.ResetOTPExpiresAt) {
		user.ClearResetOTP()
		db.Save(&user)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "OTP has expired!", nil)
	}

	if user.ResetOTPCode != reqData.Code {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid OTP!", nil)
	}

	// Consume the code; the expiry timestamp stays behind as the marker of a
	// verified session until the password is actually reset.
	user.ResetOTPCode = ""
	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update OTP status!", nil)
	}

	token, err := middleware.GeneratePurposeToken(user.ID, user.Email, middleware.PurposePasswordReset)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP verified. You can now reset your password.", fiber.Map{
		"token": token,
	})
}

// ResetPassword finalizes the reset using the password-reset token issued by
// VerifyResetOTP. The token is the proof of verification, but the handler
// also re-checks that a reset session is still open on the user row.
func ResetPassword(c *fiber.Ctx) error {
	reqData := new(struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	userID, _, err := middleware.ParsePurposeToken(reqData.Token, middleware.PurposePasswordReset)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired reset token!", nil)
	}

	if !utils.IsStrongPassword(reqData.Password) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
			"Password must be at least 8 characters with upper case, lower case and a digit!", nil)
	}

	db := database.Database.Db

	user, err := lookupUser(db, userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	// A reset session must still be open for this account
	if user.ResetOTPExpiresAt == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "No verified OTP session for this account!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to hash password!", nil)
	}

	user.Password = string(hashedPassword)
	user.ClearResetOTP()
	if err := db.Save(user).Error; err != nil {
		log.Printf("Error updating user password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update password!", nil)
	}

	// Best effort: a failed confirmation email does not fail the reset
	if err := utils.SendPasswordChangedEmail(user.Email, user.Name); err != nil {
		log.Printf("Error sending password-changed email: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset successfully.", nil)
}

// ResendResetOTP re-sends the OTP of an open, unverified reset session.
// At most one resend per 60 seconds.
func ResendResetOTP(c *fiber.Ctx) error {
	reqData := new(struct {
		Email string `json:"email"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No account found for this email!", nil)
	}

	if user.ResetOTPCode == "" || user.ResetOTPExpiresAt == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No active OTP session. Request a new OTP first.", nil)
	}

	now := time.Now()
	if user.ResetOTPLastSentAt != nil && now.Sub(*user.ResetOTPLastSentAt) < otpResendCooldown {
		wait := int(math.Ceil((otpResendCooldown - now.Sub(*user.ResetOTPLastSentAt)).Seconds()))
		return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false,
			fmt.Sprintf("Please wait %d seconds before requesting another OTP.", wait), nil)
	}

	otp := utils.GenerateOTP()
	expiresAt := now.Add(otpValidity)
	user.ResetOTPCode = otp
	user.ResetOTPExpiresAt = &expiresAt
	user.ResetOTPLastSentAt = &now

	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update OTP!", nil)
	}

	if err := utils.SendOTPEmail(user.Email, otp); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send OTP email!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP resent successfully.", nil)
}
