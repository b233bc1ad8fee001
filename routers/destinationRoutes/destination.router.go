package destinationRoutes

import (
	destinationController "roamready/controllers/destination"

	"github.com/gofiber/fiber/v2"
)

// SetupDestinationRoutes registers the destination routes. Ordering is
// load-bearing: the static paths and the two-segment review routes must
// be registered before the generic name matcher.
func SetupDestinationRoutes(app *fiber.App, ctl *destinationController.Controller) {
	group := app.Group("/destinations")

	group.Post("/", ctl.CreateDestination)
	group.Get("/", ctl.GetAllDestinations)

	group.Get("/location/:location", ctl.GetDestinationsByLocation)
	group.Get("/rating", ctl.GetDestinationsByRating)
	group.Get("/filter/:minRating", ctl.FilterDestinationsByRating)

	group.Post("/:destinationId/reviews", ctl.AddDestinationReview)
	group.Get("/:destinationId/reviews", ctl.GetDestinationReviews)

	group.Post("/:destinationId", ctl.UpdateDestination)
	group.Delete("/:destinationId", ctl.DeleteDestination)

	// Substring lookup by name (MUST be last - catches all GET /:name patterns)
	group.Get("/:name", ctl.GetDestinationByName)
}
