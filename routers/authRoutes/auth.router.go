package authRoutes

import (
	authControllers "edutalks/controllers/auth"
	"edutalks/middleware"
	authValidators "edutalks/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/register", authValidators.Register(), authControllers.Register)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Post("/google/register", authControllers.GoogleRegister)
	authGroup.Post("/google/login", authControllers.GoogleLogin)
	authGroup.Get("/login/history", middleware.JWTMiddleware, authValidators.LoginHistoryList(), authControllers.LoginHistoryList)

	authGroup.Post("/forgot-password", authValidators.ForgotPassword(), authControllers.ForgotPassword)
	authGroup.Post("/verify-reset-otp", authValidators.VerifyResetOTP(), authControllers.VerifyResetOTP)
	authGroup.Post("/resend-reset-otp", authValidators.ForgotPassword(), authControllers.ResendResetOTP)
	authGroup.Patch("/reset-password", authControllers.ResetPassword)

	authGroup.Post("/mobile/send-otp", authValidators.MobileSendOTP(), authControllers.MobileSendOTP)
	authGroup.Post("/mobile/verify-otp", authValidators.MobileVerifyOTP(), authControllers.MobileVerifyOTP)
}
