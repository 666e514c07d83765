package couponController

import (
	"edutalks/database"
	"edutalks/middleware"
	"edutalks/models"
	"edutalks/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CreateCoupon mints a new subscription coupon. Admin only.
func CreateCoupon(c *fiber.Ctx) error {
	reqData := new(struct {
		Code       string    `json:"code"`
		Amount     float64   `json:"amount"`
		ExpiryDate time.Time `json:"expiry_date"`
		UsageLimit int       `json:"usage_limit"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.ExpiryDate.IsZero() || reqData.ExpiryDate.Before(time.Now()) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Expiry date must be in the future!", nil)
	}

	code := utils.NormalizeCouponCode(reqData.Code)
	if code == "" {
		code = utils.GenerateCouponCode()
	}

	usageLimit := reqData.UsageLimit
	if usageLimit <= 0 {
		usageLimit = 1
	}

	coupon := models.Coupon{
		Code:       code,
		Amount:     reqData.Amount,
		ExpiryDate: reqData.ExpiryDate,
		IsActive:   true,
		UsageLimit: usageLimit,
	}

	if err := database.Database.Db.Create(&coupon).Error; err != nil {
		log.Printf("Error creating coupon: %v", err)
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Coupon code already exists!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Coupon created successfully.", coupon)
}

// CouponList returns all coupons, newest first. Admin only.
func CouponList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := database.Database.Db

	var total int64
	db.Model(&models.Coupon{}).Where("is_deleted = ?", false).Count(&total)

	var coupons []models.Coupon
	if err := db.Where("is_deleted = ?", false).
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&coupons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch coupons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupons fetched successfully.", fiber.Map{
		"coupons": coupons,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// UpdateCoupon patches the expiry date and active flag of a coupon. Admin only.
func UpdateCoupon(c *fiber.Ctx) error {
	couponID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid coupon id!", nil)
	}

	reqData := new(struct {
		ExpiryDate *time.Time `json:"expiry_date"`
		IsActive   *bool      `json:"is_active"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var coupon models.Coupon
	if err := db.Where("id = ? AND is_deleted = ?", couponID, false).First(&coupon).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Coupon not found!", nil)
	}

	if reqData.ExpiryDate != nil {
		coupon.ExpiryDate = *reqData.ExpiryDate
	}
	if reqData.IsActive != nil {
		coupon.IsActive = *reqData.IsActive
	}

	if err := db.Save(&coupon).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update coupon!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon updated successfully.", coupon)
}

// DeleteCoupon soft deletes a coupon. Admin only.
func DeleteCoupon(c *fiber.Ctx) error {
	couponID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid coupon id!", nil)
	}

	db := database.Database.Db

	var coupon models.Coupon
	if err := db.Where("id = ? AND is_deleted = ?", couponID, false).First(&coupon).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Coupon not found!", nil)
	}

	coupon.IsDeleted = true
	coupon.IsActive = false
	if err := db.Save(&coupon).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete coupon!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon deleted successfully.", nil)
}
