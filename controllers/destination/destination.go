package destinationController

import (
	"context"

	"roamready/models"
	"roamready/store"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DestinationStore is what the handlers need from the storage layer.
type DestinationStore interface {
	Create(ctx context.Context, d models.Destination) (models.Destination, error)
	GetByName(ctx context.Context, nameFragment string) (models.Destination, error)
	ListAll(ctx context.Context) ([]models.Destination, error)
	ListByLocation(ctx context.Context, locationFragment string) ([]models.Destination, error)
	ListByRatingDescending(ctx context.Context) ([]models.Destination, error)
	ListByMinimumRating(ctx context.Context, threshold string) ([]models.Destination, error)
	Update(ctx context.Context, id primitive.ObjectID, u store.DestinationUpdate) (models.Destination, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.Destination, error)
	AppendReview(ctx context.Context, id primitive.ObjectID, review models.Review) (models.Destination, error)
	ReviewsWithUserDetail(ctx context.Context, id primitive.ObjectID) ([]models.HydratedReview, error)
}

type Controller struct {
	store DestinationStore
}

func New(s DestinationStore) *Controller {
	return &Controller{store: s}
}

// fail keeps the service's coarse error mapping: store outages and
// unexpected failures become a 500, everything else the route's 404.
func fail(c *fiber.Ctx, err error, notFoundMsg string) error {
	if store.IsNotFound(err) || store.IsValidation(err) || store.IsDuplicate(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFoundMsg})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch data"})
}

// CreateDestination handles POST /destinations
func (ctl *Controller) CreateDestination(c *fiber.Ctx) error {
	var reqData models.Destination
	if err := c.BodyParser(&reqData); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Failed to add destination"})
	}

	newDestination, err := ctl.store.Create(c.Context(), reqData)
	if err != nil {
		return fail(c, err, "Failed to add destination")
	}

	return c.JSON(fiber.Map{"message": "Destination added", "newDestination": newDestination})
}

// GetAllDestinations handles GET /destinations
func (ctl *Controller) GetAllDestinations(c *fiber.Ctx) error {
	foundDestinations, err := ctl.store.ListAll(c.Context())
	if err != nil {
		return fail(c, err, "Database is empty!")
	}
	if len(foundDestinations) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Database is empty!"})
	}

	return c.JSON(fiber.Map{"foundDestinations": foundDestinations})
}

// GetDestinationsByLocation handles GET /destinations/location/:location
func (ctl *Controller) GetDestinationsByLocation(c *fiber.Ctx) error {
	foundDestination, err := ctl.store.ListByLocation(c.Context(), c.Params("location"))
	if err != nil {
		return fail(c, err, "No destinations found for this location")
	}
	if len(foundDestination) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No destinations found for this location"})
	}

	return c.JSON(fiber.Map{"foundDestination": foundDestination})
}

// GetDestinationsByRating handles GET /destinations/rating
func (ctl *Controller) GetDestinationsByRating(c *fiber.Ctx) error {
	foundDestinations, err := ctl.store.ListByRatingDescending(c.Context())
	if err != nil {
		return fail(c, err, "Database is empty!")
	}
	if len(foundDestinations) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Database is empty!"})
	}

	return c.JSON(fiber.Map{"foundDestinations": foundDestinations})
}

// FilterDestinationsByRating handles GET /destinations/filter/:minRating.
// An empty result is still a 200 with an empty array.
func (ctl *Controller) FilterDestinationsByRating(c *fiber.Ctx) error {
	filteredDestinations, err := ctl.store.ListByMinimumRating(c.Context(), c.Params("minRating"))
	if err != nil {
		return fail(c, err, "Unable to filter by rating")
	}

	return c.JSON(fiber.Map{"message": "Filtered destinations are:", "filteredDestinations": filteredDestinations})
}

// UpdateDestination handles POST /destinations/:destinationId
func (ctl *Controller) UpdateDestination(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("destinationId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unable to find destination to be updated"})
	}

	var reqData store.DestinationUpdate
	if err := c.BodyParser(&reqData); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unable to find destination to be updated"})
	}

	updatedDestination, err := ctl.store.Update(c.Context(), id, reqData)
	if err != nil {
		return fail(c, err, "Unable to find destination to be updated")
	}

	return c.JSON(fiber.Map{"updatedDestination": updatedDestination})
}

// DeleteDestination handles DELETE /destinations/:destinationId
func (ctl *Controller) DeleteDestination(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("destinationId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unable to find the destination"})
	}

	deletedDestination, err := ctl.store.Delete(c.Context(), id)
	if err != nil {
		return fail(c, err, "Unable to find the destination")
	}

	return c.JSON(fiber.Map{"message": "Deleted destination:", "deletedDestination": deletedDestination})
}

// AddDestinationReview handles POST /destinations/:destinationId/reviews
func (ctl *Controller) AddDestinationReview(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("destinationId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Failed to add review"})
	}

	reqData := new(struct {
		User       string   `json:"user"`
		Text       string   `json:"text"`
		UserRating *float64 `json:"userRating"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.UserRating == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Failed to add review"})
	}

	review := models.Review{Text: reqData.Text, UserRating: *reqData.UserRating}
	if reqData.User != "" {
		userID, err := primitive.ObjectIDFromHex(reqData.User)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Failed to add review"})
		}
		review.User = userID
	}

	updatedDestination, err := ctl.store.AppendReview(c.Context(), id, review)
	if err != nil {
		return fail(c, err, "Failed to add review")
	}

	return c.JSON(fiber.Map{"message": "Review successfully added", "updatedDestination": updatedDestination})
}

// GetDestinationReviews handles GET /destinations/:destinationId/reviews
func (ctl *Controller) GetDestinationReviews(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("destinationId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unable to fetch reviews"})
	}

	reviews, err := ctl.store.ReviewsWithUserDetail(c.Context(), id)
	if err != nil {
		return fail(c, err, "Unable to fetch reviews")
	}

	return c.JSON(fiber.Map{"message": "Reviews for destination:", "reviews": reviews})
}

// GetDestinationByName handles GET /destinations/:name.
// Registered last so it cannot shadow the static routes.
func (ctl *Controller) GetDestinationByName(c *fiber.Ctx) error {
	foundDestination, err := ctl.store.GetByName(c.Context(), c.Params("name"))
	if err != nil {
		return fail(c, err, "Destination not found")
	}

	return c.JSON(fiber.Map{"foundDestination": foundDestination})
}
