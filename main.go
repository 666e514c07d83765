package main

import (
	"edutalks/config"
	"edutalks/database"
	adminRoutes "edutalks/routers/adminRoutes"
	authRoutes "edutalks/routers/authRoutes"
	couponRoutes "edutalks/routers/couponRoutes"
	courseRoutes "edutalks/routers/courseRoutes"
	quizRoutes "edutalks/routers/quizRoutes"
	"edutalks/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New(fiber.Config{
		BodyLimit: 30 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve stored uploads and static assets
	app.Static("/uploads", config.AppConfig.UploadDir)
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	quizRoutes.SetupQuizRoutes(app)
	couponRoutes.SetupCouponRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	utils.InitializeSchedulers()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
