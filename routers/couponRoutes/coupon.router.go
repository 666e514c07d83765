package couponRoutes

import (
	controllers "edutalks/controllers/coupon"
	"edutalks/middleware"
	"edutalks/models"
	validators "edutalks/validators/coupon"

	"github.com/gofiber/fiber/v2"
)

// SetupCouponRoutes wires coupon administration and redemption
func SetupCouponRoutes(app *fiber.App) {
	couponGroup := app.Group("/api/coupons")

	couponGroup.Post("/redeem", middleware.JWTMiddleware, validators.RedeemCoupon(), controllers.RedeemCoupon)

	adminOnly := middleware.RequireRole(models.RoleAdmin)
	couponGroup.Post("/", middleware.JWTMiddleware, adminOnly, validators.CreateCoupon(), controllers.CreateCoupon)
	couponGroup.Get("/", middleware.JWTMiddleware, adminOnly, controllers.CouponList)
	couponGroup.Patch("/:id", middleware.JWTMiddleware, adminOnly, controllers.UpdateCoupon)
	couponGroup.Delete("/:id", middleware.JWTMiddleware, adminOnly, controllers.DeleteCoupon)
}
