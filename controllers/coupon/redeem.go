package couponController

import (
	"edutalks/database"
	"edutalks/middleware"
	"edutalks/models"
	"edutalks/utils"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound = errors.New("Invalid coupon code.")
	ErrCouponInactive = errors.New("Coupon is inactive or already used.")
	ErrCouponExpired  = errors.New("Coupon has expired.")
)

// RedeemCouponForUser applies a coupon to a user's subscription. The new
// subscription end is one year past whichever is later, the current end or
// now, so remaining time is never lost. The coupon flips inactive and the
// user update happen in one transaction. An expired coupon is rejected but
// stays active.
func RedeemCouponForUser(db *gorm.DB, userID uint, rawCode string, now time.Time) (*models.User, error) {
	code := utils.NormalizeCouponCode(rawCode)

	var user models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		var coupon models.Coupon
		if err := tx.Where("code = ? AND is_deleted = ?", code, false).First(&coupon).Error; err != nil {
			return ErrCouponNotFound
		}
		if !coupon.IsActive {
			return ErrCouponInactive
		}
		if coupon.ExpiryDate.Before(now) {
			return ErrCouponExpired
		}

		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}

		base := now
		if user.SubscriptionUpto.After(now) {
			base = user.SubscriptionUpto
		}

		user.SubscriptionUpto = base.AddDate(1, 0, 0)
		user.SubscriptionType = models.SubscriptionSubscribed
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		coupon.IsActive = false
		coupon.UsedCount++
		return tx.Save(&coupon).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RedeemCoupon extends the caller's subscription by one year
func RedeemCoupon(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Code string `json:"code"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Code == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Coupon code is required!", nil)
	}

	user, err := RedeemCouponForUser(database.Database.Db, userID, reqData.Code, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, ErrCouponNotFound):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, ErrCouponNotFound.Error(), nil)
		case errors.Is(err, ErrCouponInactive):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, ErrCouponInactive.Error(), nil)
		case errors.Is(err, ErrCouponExpired):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, ErrCouponExpired.Error(), nil)
		default:
			log.Printf("Error redeeming coupon for user %d: %v", userID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to redeem coupon!", nil)
		}
	}

	utils.SendCouponRedeemedEmail(user.Email, user.Name, utils.NormalizeCouponCode(reqData.Code), user.SubscriptionUpto.Format("02 Jan 2006"))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon redeemed successfully.", fiber.Map{
		"subscription_upto": user.SubscriptionUpto,
		"subscription_type": user.SubscriptionType,
	})
}
