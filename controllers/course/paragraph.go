package courseController

import (
	"edutalks/database"
	"edutalks/middleware"
	"edutalks/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// loadOwnParagraph fetches a paragraph and enforces caller ownership
func loadOwnParagraph(c *fiber.Ctx, db *gorm.DB) (*models.Paragraph, error) {
	userID, _ := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)

	paragraphID, err := c.ParamsInt("id")
	if err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid paragraph id!", nil)
	}

	var paragraph models.Paragraph
	if err := db.Where("id = ? AND is_deleted = ?", paragraphID, false).First(&paragraph).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Paragraph not found!", nil)
	}

	if paragraph.InstructorID != userID && role != models.RoleAdmin {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this paragraph!", nil)
	}

	return &paragraph, nil
}

// CreateParagraph publishes a new practice paragraph
func CreateParagraph(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Title      string `json:"title"`
		Body       string `json:"body"`
		AudioURL   string `json:"audio_url"`
		Difficulty string `json:"difficulty"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Title == "" || reqData.Body == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Paragraph title and body are required!", nil)
	}

	paragraph := models.Paragraph{
		InstructorID: userID,
		Title:        reqData.Title,
		Body:         reqData.Body,
		AudioURL:     reqData.AudioURL,
		Difficulty:   reqData.Difficulty,
	}

	if err := database.Database.Db.Create(&paragraph).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create paragraph!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Paragraph created successfully.", paragraph)
}

// UpdateParagraph patches a paragraph's fields
func UpdateParagraph(c *fiber.Ctx) error {
	db := database.Database.Db

	paragraph, err := loadOwnParagraph(c, db)
	if paragraph == nil {
		return err
	}

	reqData := new(struct {
		Title      *string `json:"title"`
		Body       *string `json:"body"`
		AudioURL   *string `json:"audio_url"`
		Difficulty *string `json:"difficulty"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Title != nil {
		paragraph.Title = *reqData.Title
	}
	if reqData.Body != nil {
		paragraph.Body = *reqData.Body
	}
	if reqData.AudioURL != nil {
		paragraph.AudioURL = *reqData.AudioURL
	}
	if reqData.Difficulty != nil {
		paragraph.Difficulty = *reqData.Difficulty
	}

	if err := db.Save(paragraph).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update paragraph!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Paragraph updated successfully.", paragraph)
}

// DeleteParagraph soft deletes a paragraph
func DeleteParagraph(c *fiber.Ctx) error {
	db := database.Database.Db

	paragraph, err := loadOwnParagraph(c, db)
	if paragraph == nil {
		return err
	}

	paragraph.IsDeleted = true
	if err := db.Save(paragraph).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete paragraph!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Paragraph deleted successfully.", nil)
}

// GetParagraphs lists paragraphs, optionally filtered by difficulty
func GetParagraphs(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := database.Database.Db

	query := db.Model(&models.Paragraph{}).Where("is_deleted = ?", false)
	if difficulty := c.Query("difficulty"); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	var total int64
	query.Count(&total)

	var paragraphs []models.Paragraph
	if err := query.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&paragraphs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch paragraphs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Paragraphs fetched successfully.", fiber.Map{
		"paragraphs": paragraphs,
		"total":      total,
		"page":       page,
		"limit":      limit,
	})
}

// GetParagraphDetail returns one paragraph
func GetParagraphDetail(c *fiber.Ctx) error {
	paragraphID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid paragraph id!", nil)
	}

	var paragraph models.Paragraph
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", paragraphID, false).
		First(&paragraph).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Paragraph not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Paragraph fetched successfully.", paragraph)
}
