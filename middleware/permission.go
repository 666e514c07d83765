package middleware

import (
	"edutalks/database"
	"edutalks/models"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequireRole returns a middleware that only lets the listed roles through
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Unauthorized: role not found",
				"data":    nil,
			})
		}

		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  false,
			"message": "You do not have permission to access this resource!",
			"data":    nil,
		})
	}
}

// RequireApprovedInstructor blocks instructor accounts that an admin has not
// approved yet. Admins pass through.
func RequireApprovedInstructor(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role == models.RoleAdmin {
		return c.Next()
	}

	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  false,
			"message": "Unauthorized: User ID not found",
			"data":    nil,
		})
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  false,
			"message": "User not found!",
			"data":    nil,
		})
	}

	if user.Role == models.RoleInstructor && !user.IsApproved {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  false,
			"message": "Instructor account pending admin approval!",
			"data":    nil,
		})
	}

	return c.Next()
}

// RequireActiveSubscription gates paid content behind an unexpired trial or
// paid subscription window. Instructors and admins are not gated.
func RequireActiveSubscription(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role == models.RoleInstructor || role == models.RoleAdmin {
		return c.Next()
	}

	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  false,
			"message": "Unauthorized: User ID not found",
			"data":    nil,
		})
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  false,
			"message": "User not found!",
			"data":    nil,
		})
	}

	if !user.HasActiveSubscription(time.Now()) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  false,
			"message": "Your subscription has expired. Redeem a coupon to continue.",
			"data":    nil,
		})
	}

	return c.Next()
}
