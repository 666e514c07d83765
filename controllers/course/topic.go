package courseController

import (
	"edutalks/database"
	"edutalks/middleware"
	"edutalks/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// loadOwnTopic fetches a topic and enforces caller ownership (admins pass)
func loadOwnTopic(c *fiber.Ctx, db *gorm.DB) (*models.Topic, error) {
	userID, _ := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)

	topicID, err := c.ParamsInt("id")
	if err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid topic id!", nil)
	}

	var topic models.Topic
	if err := db.Where("id = ? AND is_deleted = ?", topicID, false).First(&topic).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Topic not found!", nil)
	}

	if topic.InstructorID != userID && role != models.RoleAdmin {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this topic!", nil)
	}

	return &topic, nil
}

// CreateTopic publishes a new daily topic
func CreateTopic(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Title       string     `json:"title"`
		Content     string     `json:"content"`
		AudioURL    string     `json:"audio_url"`
		PublishDate *time.Time `json:"publish_date"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Title == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Topic title is required!", nil)
	}

	publishDate := time.Now()
	if reqData.PublishDate != nil {
		publishDate = *reqData.PublishDate
	}

	topic := models.Topic{
		InstructorID: userID,
		Title:        reqData.Title,
		Content:      reqData.Content,
		AudioURL:     reqData.AudioURL,
		PublishDate:  publishDate,
	}

	if err := database.Database.Db.Create(&topic).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create topic!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Topic created successfully.", topic)
}

// UpdateTopic patches a topic's fields
func UpdateTopic(c *fiber.Ctx) error {
	db := database.Database.Db

	topic, err := loadOwnTopic(c, db)
	if topic == nil {
		return err
	}

	reqData := new(struct {
		Title       *string    `json:"title"`
		Content     *string    `json:"content"`
		AudioURL    *string    `json:"audio_url"`
		PublishDate *time.Time `json:"publish_date"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Title != nil {
		topic.Title = *reqData.Title
	}
	if reqData.Content != nil {
		topic.Content = *reqData.Content
	}
	if reqData.AudioURL != nil {
		topic.AudioURL = *reqData.AudioURL
	}
	if reqData.PublishDate != nil {
		topic.PublishDate = *reqData.PublishDate
	}

	if err := db.Save(topic).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update topic!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Topic updated successfully.", topic)
}

// DeleteTopic soft deletes a topic
func DeleteTopic(c *fiber.Ctx) error {
	db := database.Database.Db

	topic, err := loadOwnTopic(c, db)
	if topic == nil {
		return err
	}

	topic.IsDeleted = true
	if err := db.Save(topic).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete topic!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Topic deleted successfully.", nil)
}

// GetTopics lists topics newest first, paginated
func GetTopics(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := database.Database.Db

	query := db.Model(&models.Topic{}).Where("is_deleted = ?", false)
	if instructor := c.QueryInt("instructor_id", 0); instructor > 0 {
		query = query.Where("instructor_id = ?", instructor)
	}

	var total int64
	query.Count(&total)

	var topics []models.Topic
	if err := query.Order("publish_date desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&topics).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch topics!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Topics fetched successfully.", fiber.Map{
		"topics": topics,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// GetTopicDetail returns one topic
func GetTopicDetail(c *fiber.Ctx) error {
	topicID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid topic id!", nil)
	}

	var topic models.Topic
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", topicID, false).
		First(&topic).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Topic not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Topic fetched successfully.", topic)
}
