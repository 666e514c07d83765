package adminRoutes

import (
	adminControllers "edutalks/controllers/admin"
	uploadControllers "edutalks/controllers/upload"
	"edutalks/middleware"
	"edutalks/models"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes wires user administration, site settings and uploads
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/api/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/users", adminControllers.UserList)
	adminGroup.Patch("/users/:id/approve", adminControllers.ApproveInstructor)
	adminGroup.Patch("/users/:id/block", adminControllers.BlockUser)
	adminGroup.Delete("/users/:id", adminControllers.DeleteUser)
	adminGroup.Put("/settings", adminControllers.UpdateSiteSettings)

	// Settings are public reads; uploads are for any authenticated content author
	app.Get("/api/settings", adminControllers.GetSiteSettings)
	app.Post("/api/uploads",
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleInstructor, models.RoleAdmin),
		middleware.RequireApprovedInstructor,
		uploadControllers.UploadFile)
}
