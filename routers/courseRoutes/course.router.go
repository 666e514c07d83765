package courseRoutes

import (
	controllers "edutalks/controllers/course"
	"edutalks/middleware"
	"edutalks/models"
	validators "edutalks/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes wires the course, topic and paragraph content stores.
// Writes go through the instructor chain, reads through the subscription
// gate.
func SetupCourseRoutes(app *fiber.App) {
	instructorChain := func(handlers ...fiber.Handler) []fiber.Handler {
		chain := []fiber.Handler{
			middleware.JWTMiddleware,
			middleware.RequireRole(models.RoleInstructor, models.RoleAdmin),
			middleware.RequireApprovedInstructor,
		}
		return append(chain, handlers...)
	}

	courseGroup := app.Group("/api/courses")
	courseGroup.Get("/", middleware.JWTMiddleware, middleware.RequireActiveSubscription, controllers.GetPublishedCourses)
	courseGroup.Get("/mine", instructorChain(controllers.GetMyCourses)...)
	courseGroup.Get("/:id", middleware.JWTMiddleware, middleware.RequireActiveSubscription, controllers.GetCourseDetail)
	courseGroup.Post("/", instructorChain(validators.CreateCourse(), controllers.CreateCourse)...)
	courseGroup.Patch("/:id", instructorChain(controllers.UpdateCourse)...)
	courseGroup.Delete("/:id", instructorChain(controllers.DeleteCourse)...)

	topicGroup := app.Group("/api/topics")
	topicGroup.Get("/", middleware.JWTMiddleware, middleware.RequireActiveSubscription, controllers.GetTopics)
	topicGroup.Get("/:id", middleware.JWTMiddleware, middleware.RequireActiveSubscription, controllers.GetTopicDetail)
	topicGroup.Post("/", instructorChain(controllers.CreateTopic)...)
	topicGroup.Patch("/:id", instructorChain(controllers.UpdateTopic)...)
	topicGroup.Delete("/:id", instructorChain(controllers.DeleteTopic)...)

	paragraphGroup := app.Group("/api/paragraphs")
	paragraphGroup.Get("/", middleware.JWTMiddleware, middleware.RequireActiveSubscription, controllers.GetParagraphs)
	paragraphGroup.Get("/:id", middleware.JWTMiddleware, middleware.RequireActiveSubscription, controllers.GetParagraphDetail)
	paragraphGroup.Post("/", instructorChain(controllers.CreateParagraph)...)
	paragraphGroup.Patch("/:id", instructorChain(controllers.UpdateParagraph)...)
	paragraphGroup.Delete("/:id", instructorChain(controllers.DeleteParagraph)...)
}
