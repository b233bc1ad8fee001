package userRoutes

import (
	userController "roamready/controllers/user"
	"roamready/middleware"
	userValidator "roamready/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes registers the user identity routes.
func SetupUserRoutes(app *fiber.App, ctl *userController.Controller) {
	group := app.Group("/users")

	group.Post("/signup", userValidator.Signup(), ctl.Signup)
	group.Post("/login", userValidator.Login(), ctl.Login)
	group.Get("/me", middleware.JWTMiddleware, ctl.Me)
}
