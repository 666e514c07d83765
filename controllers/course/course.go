package courseController

import (
	"edutalks/database"
	"edutalks/middleware"
	"edutalks/models"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// loadOwnCourse fetches a course and enforces that the caller owns it or is
// an admin
func loadOwnCourse(c *fiber.Ctx, db *gorm.DB) (*models.Course, error) {
	userID, _ := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)

	courseID, err := c.ParamsInt("id")
	if err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.InstructorID != userID && role != models.RoleAdmin {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	return &course, nil
}

// CreateCourse registers a new course owned by the calling instructor
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		Category     string `json:"category"`
		Level        string `json:"level"`
		Duration     int64  `json:"duration"`
		ThumbnailURL string `json:"thumbnail_url"`
		VideoURL     string `json:"video_url"`
		PdfURL       string `json:"pdf_url"`
		IsPaid       bool   `json:"is_paid"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := models.Course{
		InstructorID: userID,
		Title:        reqData.Title,
		Description:  reqData.Description,
		Category:     reqData.Category,
		Level:        reqData.Level,
		Duration:     reqData.Duration,
		ThumbnailURL: reqData.ThumbnailURL,
		VideoURL:     reqData.VideoURL,
		PdfURL:       reqData.PdfURL,
		IsPaid:       reqData.IsPaid,
		Status:       models.CourseDraft,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", course)
}

// UpdateCourse patches course fields
func UpdateCourse(c *fiber.Ctx) error {
	db := database.Database.Db

	course, err := loadOwnCourse(c, db)
	if course == nil {
		return err
	}

	reqData := new(struct {
		Title        *string `json:"title"`
		Description  *string `json:"description"`
		Category     *string `json:"category"`
		Level        *string `json:"level"`
		Duration     *int64  `json:"duration"`
		ThumbnailURL *string `json:"thumbnail_url"`
		VideoURL     *string `json:"video_url"`
		PdfURL       *string `json:"pdf_url"`
		IsPaid       *bool   `json:"is_paid"`
		Status       *string `json:"status"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.Category != nil {
		course.Category = *reqData.Category
	}
	if reqData.Level != nil {
		course.Level = *reqData.Level
	}
	if reqData.Duration != nil {
		course.Duration = *reqData.Duration
	}
	if reqData.ThumbnailURL != nil {
		course.ThumbnailURL = *reqData.ThumbnailURL
	}
	if reqData.VideoURL != nil {
		course.VideoURL = *reqData.VideoURL
	}
	if reqData.PdfURL != nil {
		course.PdfURL = *reqData.PdfURL
	}
	if reqData.IsPaid != nil {
		course.IsPaid = *reqData.IsPaid
	}
	if reqData.Status != nil {
		if *reqData.Status != models.CourseDraft && *reqData.Status != models.CoursePublished {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Status must be DRAFT or PUBLISHED!", nil)
		}
		course.Status = *reqData.Status
	}

	if err := db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully.", course)
}

// DeleteCourse soft deletes a course
func DeleteCourse(c *fiber.Ctx) error {
	db := database.Database.Db

	course, err := loadOwnCourse(c, db)
	if course == nil {
		return err
	}

	course.IsDeleted = true
	if err := db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully.", nil)
}

// GetMyCourses lists the calling instructor's courses
func GetMyCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []models.Course
	if err := database.Database.Db.
		Where("instructor_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", courses)
}

// GetPublishedCourses lists published courses for students, with optional
// category and level filters
func GetPublishedCourses(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := database.Database.Db

	query := db.Model(&models.Course{}).Where("status = ? AND is_deleted = ?", models.CoursePublished, false)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}

	var total int64
	query.Count(&total)

	var courses []models.Course
	if err := query.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", fiber.Map{
		"courses": courses,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetCourseDetail returns one course. Students only see published courses.
func GetCourseDetail(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)

	courseID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var course models.Course
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", courseID, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.Status != models.CoursePublished && course.InstructorID != userID && role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", course)
}
