package main

import (
	"log"

	"clx/config"
	"clx/database"
	certificateRoutes "clx/routers/certificateRoutes"
	enrollmentRoutes "clx/routers/enrollmentRoutes"
	programmeRoutes "clx/routers/programmeRoutes"
	quizRoutes "clx/routers/quizRoutes"
	"clx/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	programmeRoutes.SetupProgrammeRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	quizRoutes.SetupQuizRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)

	utils.StartCertificateScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
