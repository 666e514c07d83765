package utils

import (
	"edutalks/config"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends one HTML email through SendGrid
func SendEmail(to, subject, htmlBody string) error {
	cfg := config.AppConfig

	from := mail.NewEmail(cfg.EmailFromName, cfg.EmailSender)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, "", htmlBody)

	client := sendgrid.NewSendClient(cfg.SendGridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", to, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: %d %s", to, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid error: status %d", resp.StatusCode)
	}
	return nil
}

// getEmailTemplate wraps body content in the shared EduTalks layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A237E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A237E; line-height: 1.6; }
			.content h2 { color: #1A237E; margin-top: 0; }
			.otp { text-align: center; color: #4CAF50; font-size: 40px; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #4CAF50; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>EDUTALKS</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 EduTalks. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendWelcomeEmail greets a new account after registration
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to EduTalks"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>EduTalks</strong>! Your account has been created and a 24-hour trial is active.</p>
		<p>Browse the course catalog, take quizzes and practice daily topics right away.</p>
	`, name)

	go SendEmail(email, subject, getEmailTemplate("Welcome Onboard!", body))
}

// SendOTPEmail delivers a password-reset OTP
func SendOTPEmail(email, otp string) error {
	subject := "Your EduTalks verification code"
	body := fmt.Sprintf(`
		<p>Your One Time Password (OTP) is:</p>
		<h1 class="otp">%s</h1>
		<p>The code is valid for 10 minutes. Do not share it with anyone.</p>
	`, otp)

	return SendEmail(email, subject, getEmailTemplate("OTP Verification", body))
}

// SendPasswordChangedEmail confirms a completed password reset. Best effort;
// callers ignore the error.
func SendPasswordChangedEmail(email, name string) error {
	subject := "Your EduTalks password was changed"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your password was just changed. If this was you, no action is needed.</p>
		<p style="color: #DC3545; font-weight: bold;">If you did not request this change, contact support immediately.</p>
	`, name)

	return SendEmail(email, subject, getEmailTemplate("Password Changed", body))
}

// SendCouponRedeemedEmail confirms a subscription extension
func SendCouponRedeemedEmail(email, name, code, validUntil string) {
	subject := "Subscription extended"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Coupon <strong>%s</strong> was redeemed successfully.</p>
		<div class="info-box">
			Your subscription is now valid until <strong>%s</strong>.
		</div>
	`, name, code, validUntil)

	go SendEmail(email, subject, getEmailTemplate("Coupon Redeemed", body))
}

// SendInstructorApprovedEmail notifies an instructor their account went live
func SendInstructorApprovedEmail(email, name string) {
	subject := "Your instructor account is approved"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>An admin has approved your instructor account. You can now log in and publish courses, topics and quizzes.</p>
	`, name)

	go SendEmail(email, subject, getEmailTemplate("Account Approved", body))
}

// SendLoginNotificationEmail alerts the user about a new login
func SendLoginNotificationEmail(email, name, ip, device, timeStr string) {
	subject := "New Login Alert"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We noticed a new login to your account.</p>
		<div class="info-box">
			<ul style="list-style: none; padding: 0; margin: 0;">
				<li style="margin-bottom: 8px;"><strong>Time:</strong> %s</li>
				<li style="margin-bottom: 8px;"><strong>IP Address:</strong> %s</li>
				<li><strong>Device:</strong> %s</li>
			</ul>
		</div>
		<p>If this was you, you can safely ignore this email.</p>
	`, name, timeStr, ip, device)

	go SendEmail(email, subject, getEmailTemplate("New Login Detected", body))
}

// SendSubscriptionExpiredEmail notifies a user their window lapsed
func SendSubscriptionExpiredEmail(email, name string) {
	subject := "Your EduTalks subscription has expired"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your subscription has expired. Redeem a coupon to regain access to paid courses and quizzes.</p>
	`, name)

	go SendEmail(email, subject, getEmailTemplate("Subscription Expired", body))
}
