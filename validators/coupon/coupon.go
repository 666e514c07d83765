package couponValidator

import (
	"edutalks/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RedeemCoupon validator middleware
func RedeemCoupon() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Code string `json:"code"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Code) == "" {
			errors["code"] = "Coupon code is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// CreateCoupon validator middleware
func CreateCoupon() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Amount     float64 `json:"amount"`
			UsageLimit int     `json:"usage_limit"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Amount < 0 {
			errors["amount"] = "Amount cannot be negative!"
		}
		if reqData.UsageLimit < 0 {
			errors["usage_limit"] = "Usage limit cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}
