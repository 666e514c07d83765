package adminController

import (
	"edutalks/database"
	"edutalks/middleware"
	"edutalks/models"
	"edutalks/utils"
	"log"

	"github.com/gofiber/fiber/v2"
)

// UserList returns all users, optionally filtered by role. Admin only.
func UserList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := database.Database.Db

	query := db.Model(&models.User{}).Where("is_deleted = ?", false)
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if c.Query("pending") == "true" {
		query = query.Where("role = ? AND is_approved = ?", models.RoleInstructor, false)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully.", fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// ApproveInstructor flips a pending instructor account live. Admin only.
func ApproveInstructor(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.Role != models.RoleInstructor {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User is not an instructor!", nil)
	}
	if user.IsApproved {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Instructor is already approved!", nil)
	}

	user.IsApproved = true
	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve instructor!", nil)
	}

	utils.SendInstructorApprovedEmail(user.Email, user.Name)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Instructor approved successfully.", user)
}

// BlockUser toggles the blocked flag of an account. Admin only.
func BlockUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData := new(struct {
		Blocked bool `json:"blocked"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.Role == models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Admin accounts cannot be blocked!", nil)
	}

	user.IsBlocked = reqData.Blocked
	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully.", nil)
}

// DeleteUser soft deletes an account. Admin only.
func DeleteUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.Role == models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Admin accounts cannot be deleted!", nil)
	}

	user.IsDeleted = true
	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully.", nil)
}

// GetSiteSettings returns the singleton settings row, creating the default
// row on first read
func GetSiteSettings(c *fiber.Ctx) error {
	db := database.Database.Db

	var settings models.SiteSettings
	if err := db.First(&settings).Error; err != nil {
		settings = models.SiteSettings{SiteName: "EduTalks", RegistrationOpen: true}
		if err := db.Create(&settings).Error; err != nil {
			log.Printf("Error creating default site settings: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load site settings!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Site settings fetched successfully.", settings)
}

// UpdateSiteSettings patches the singleton settings row. Admin only.
func UpdateSiteSettings(c *fiber.Ctx) error {
	reqData := new(struct {
		SiteName         *string `json:"site_name"`
		SupportEmail     *string `json:"support_email"`
		BannerText       *string `json:"banner_text"`
		RegistrationOpen *bool   `json:"registration_open"`
		MaintenanceMode  *bool   `json:"maintenance_mode"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var settings models.SiteSettings
	if err := db.First(&settings).Error; err != nil {
		settings = models.SiteSettings{SiteName: "EduTalks", RegistrationOpen: true}
	}

	if reqData.SiteName != nil {
		settings.SiteName = *reqData.SiteName
	}
	if reqData.SupportEmail != nil {
		settings.SupportEmail = *reqData.SupportEmail
	}
	if reqData.BannerText != nil {
		settings.BannerText = *reqData.BannerText
	}
	if reqData.RegistrationOpen != nil {
		settings.RegistrationOpen = *reqData.RegistrationOpen
	}
	if reqData.MaintenanceMode != nil {
		settings.MaintenanceMode = *reqData.MaintenanceMode
	}

	if err := db.Save(&settings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update site settings!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Site settings updated successfully.", settings)
}
