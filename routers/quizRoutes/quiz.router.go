package quizRoutes

import (
	controllers "edutalks/controllers/quiz"
	"edutalks/middleware"
	"edutalks/models"
	validators "edutalks/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes wires quiz authoring and the attempt engine
func SetupQuizRoutes(app *fiber.App) {
	instructorChain := func(handlers ...fiber.Handler) []fiber.Handler {
		chain := []fiber.Handler{
			middleware.JWTMiddleware,
			middleware.RequireRole(models.RoleInstructor, models.RoleAdmin),
			middleware.RequireApprovedInstructor,
		}
		return append(chain, handlers...)
	}

	quizGroup := app.Group("/api/quizzes")

	// Authoring
	quizGroup.Post("/", instructorChain(validators.CreateQuiz(), controllers.CreateQuiz)...)
	quizGroup.Get("/mine", instructorChain(controllers.GetMyQuizzes)...)
	quizGroup.Patch("/:id", instructorChain(controllers.UpdateQuiz)...)
	quizGroup.Delete("/:id", instructorChain(controllers.DeleteQuiz)...)

	// Catalog and detail
	quizGroup.Get("/", middleware.JWTMiddleware, middleware.RequireActiveSubscription, controllers.GetPublishedQuizzes)
	quizGroup.Get("/:id", middleware.JWTMiddleware, controllers.GetQuizDetail)

	// Attempt engine
	quizGroup.Post("/:id/attempts", middleware.JWTMiddleware, middleware.RequireActiveSubscription, controllers.StartAttempt)
	quizGroup.Get("/:id/attempts", middleware.JWTMiddleware, controllers.GetMyAttempts)

	attemptGroup := app.Group("/api/attempts")
	attemptGroup.Post("/:attemptId/answers", middleware.JWTMiddleware, validators.SubmitAnswer(), controllers.SubmitAnswer)
	attemptGroup.Post("/:attemptId/submit", middleware.JWTMiddleware, controllers.SubmitAttempt)
	attemptGroup.Post("/:attemptId/violations", middleware.JWTMiddleware, controllers.LogViolation)
	attemptGroup.Get("/:attemptId", middleware.JWTMiddleware, controllers.GetAttempt)
}
