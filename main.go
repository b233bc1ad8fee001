package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"roamready/config"
	destinationController "roamready/controllers/destination"
	userController "roamready/controllers/user"
	"roamready/database"
	destinationRoutes "roamready/routers/destinationRoutes"
	userRoutes "roamready/routers/userRoutes"
	"roamready/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()

	db, err := database.Connect(config.AppConfig)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Welcome to RoamReady API")
	})

	destinationRoutes.SetupDestinationRoutes(app, destinationController.New(store.NewDestinationStore(db)))
	userRoutes.SetupUserRoutes(app, userController.New(store.NewUserStore(db)))

	// Shut the listener down on SIGINT/SIGTERM so the store client can
	// close cleanly.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}

	if err := db.Close(); err != nil {
		log.Printf("Error closing MongoDB connection: %v", err)
	}
}
