package store

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"roamready/database"
	"roamready/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// At most this many reviews are returned from ReviewsWithUserDetail.
const maxHydratedReviews = 3

// Editorial and user ratings both live in [0,5].
const (
	minRating = 0
	maxRating = 5
)

// DestinationStore is the sole owner of destination documents.
type DestinationStore struct {
	db *database.DB
}

func NewDestinationStore(db *database.DB) *DestinationStore {
	return &DestinationStore{db: db}
}

func (s *DestinationStore) collection() *mongo.Collection {
	return s.db.Collection(database.DestinationCollection)
}

// substringMatch builds a case-insensitive literal substring filter.
// User input is quoted so regex metacharacters carry no meaning.
func substringMatch(fragment string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(fragment), Options: "i"}
}

// Create persists a new destination. Required fields must be present
// and the editorial rating must lie in [0,5]; destinationName must not
// collide with an existing document.
func (s *DestinationStore) Create(ctx context.Context, d models.Destination) (models.Destination, error) {
	if d.DestinationName == "" || d.Location == "" || d.Description == "" {
		return models.Destination{}, errors.Wrap(ErrValidation, "destinationName, location and description are required")
	}
	if d.Rating < minRating || d.Rating > maxRating {
		return models.Destination{}, errors.Wrapf(ErrValidation, "rating %v out of range [0,5]", d.Rating)
	}

	now := time.Now().UTC()
	d.ID = primitive.NilObjectID
	d.UserAverageRating = 0
	d.Reviews = []models.Review{}
	d.CreatedAt = now
	d.UpdatedAt = now

	ctx, cancel := s.db.OpContext(ctx)
	defer cancel()

	res, err := s.collection().InsertOne(ctx, d)
	if err != nil {
		return models.Destination{}, driverErr(err, "inserting destination")
	}
	d.ID = res.InsertedID.(primitive.ObjectID)
	return d, nil
}

// GetByName returns the first destination whose name contains the
// fragment, case-insensitively. Which document wins when several match
// is up to the store's natural order.
func (s *DestinationStore) GetByName(ctx context.Context, nameFragment string) (models.Destination, error) {
	ctx, cancel := s.db.OpContext(ctx)
	defer cancel()

	var d models.Destination
	err := s.collection().FindOne(ctx, bson.M{"destinationName": substringMatch(nameFragment)}).Decode(&d)
	if err != nil {
		return models.Destination{}, driverErr(err, "finding destination by name")
	}
	return d, nil
}

// GetByID returns the destination with the given id.
func (s *DestinationStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.Destination, error) {
	ctx, cancel := s.db.OpContext(ctx)
	defer cancel()

	var d models.Destination
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		return models.Destination{}, driverErr(err, "finding destination by id")
	}
	return d, nil
}

// ListAll returns every destination in store order. An empty collection
// yields an empty slice, not an error.
func (s *DestinationStore) ListAll(ctx context.Context) ([]models.Destination, error) {
	return s.list(ctx, bson.M{}, nil)
}

// ListByLocation returns all destinations whose location contains the
// fragment, case-insensitively.
func (s *DestinationStore) ListByLocation(ctx context.Context, locationFragment string) ([]models.Destination, error) {
	return s.list(ctx, bson.M{"location": substringMatch(locationFragment)}, nil)
}

// ListByRatingDescending returns all destinations ordered by editorial
// rating, highest first. Ties are broken by id ascending so the order
// is stable across calls.
func (s *DestinationStore) ListByRatingDescending(ctx context.Context) ([]models.Destination, error) {
	sort := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}})
	return s.list(ctx, bson.M{}, sort)
}

// ListByMinimumRating returns all destinations with rating >= threshold.
// The threshold arrives as raw request input and must be numeric.
func (s *DestinationStore) ListByMinimumRating(ctx context.Context, threshold string) ([]models.Destination, error) {
	min, err := strconv.ParseFloat(threshold, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrValidation, "minimum rating %q is not a number", threshold)
	}
	return s.list(ctx, bson.M{"rating": bson.M{"$gte": min}}, nil)
}

func (s *DestinationStore) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Destination, error) {
	ctx, cancel := s.db.OpContext(ctx)
	defer cancel()

	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = s.collection().Find(ctx, filter, opts)
	} else {
		cur, err = s.collection().Find(ctx, filter)
	}
	if err != nil {
		return nil, driverErr(err, "finding destinations")
	}

	found := []models.Destination{}
	if err := cur.All(ctx, &found); err != nil {
		return nil, driverErr(err, "decoding destinations")
	}
	return found, nil
}

// DestinationUpdate is the allow-list of fields a partial update may
// touch. Reviews, userAverageRating, ids and timestamps are not
// reachable through this path.
type DestinationUpdate struct {
	DestinationName *string  `json:"destinationName"`
	Location        *string  `json:"location"`
	Description     *string  `json:"description"`
	Rating          *float64 `json:"rating"`
}

// Update applies a partial field replace and returns the post-update
// document. Fields outside the allow-list never reach the store; a
// payload carrying none of the allowed fields is rejected.
func (s *DestinationStore) Update(ctx context.Context, id primitive.ObjectID, u DestinationUpdate) (models.Destination, error) {
	set := bson.M{}
	if u.DestinationName != nil {
		if *u.DestinationName == "" {
			return models.Destination{}, errors.Wrap(ErrValidation, "destinationName must not be empty")
		}
		set["destinationName"] = *u.DestinationName
	}
	if u.Location != nil {
		if *u.Location == "" {
			return models.Destination{}, errors.Wrap(ErrValidation, "location must not be empty")
		}
		set["location"] = *u.Location
	}
	if u.Description != nil {
		if *u.Description == "" {
			return models.Destination{}, errors.Wrap(ErrValidation, "description must not be empty")
		}
		set["description"] = *u.Description
	}
	if u.Rating != nil {
		if *u.Rating < minRating || *u.Rating > maxRating {
			return models.Destination{}, errors.Wrapf(ErrValidation, "rating %v out of range [0,5]", *u.Rating)
		}
		set["rating"] = *u.Rating
	}
	if len(set) == 0 {
		return models.Destination{}, errors.Wrap(ErrValidation, "no updatable fields in payload")
	}
	set["updatedAt"] = time.Now().UTC()

	ctx, cancel := s.db.OpContext(ctx)
	defer cancel()

	var updated models.Destination
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return models.Destination{}, driverErr(err, "updating destination")
	}
	return updated, nil
}

// Delete removes the destination and, with it, every embedded review.
// The deleted document is returned for confirmation display.
func (s *DestinationStore) Delete(ctx context.Context, id primitive.ObjectID) (models.Destination, error) {
	ctx, cancel := s.db.OpContext(ctx)
	defer cancel()

	var deleted models.Destination
	err := s.collection().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted)
	if err != nil {
		return models.Destination{}, driverErr(err, "deleting destination")
	}
	return deleted, nil
}

// AppendReview pushes a review and recomputes userAverageRating in one
// server-side pipeline update, so concurrent appends to the same
// destination cannot lose reviews. The average is rounded to 2 decimal
// places. Returns the updated document.
func (s *DestinationStore) AppendReview(ctx context.Context, id primitive.ObjectID, review models.Review) (models.Destination, error) {
	if review.UserRating < minRating || review.UserRating > maxRating {
		return models.Destination{}, errors.Wrapf(ErrValidation, "userRating %v out of range [0,5]", review.UserRating)
	}

	// $literal keeps review field values from being evaluated as
	// aggregation expressions.
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"reviews": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}},
				bson.A{bson.M{"$literal": review}},
			}},
		}}},
		bson.D{{Key: "$set", Value: bson.M{
			"userAverageRating": bson.M{"$round": bson.A{bson.M{"$avg": "$reviews.userRating"}, 2}},
			"updatedAt":         "$$NOW",
		}}},
	}

	ctx, cancel := s.db.OpContext(ctx)
	defer cancel()

	var updated models.Destination
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return models.Destination{}, driverErr(err, "appending review")
	}
	return updated, nil
}

// ReviewsWithUserDetail returns at most the first 3 reviews of the
// destination in insertion order, each with its user reference resolved
// to username and profile picture.
func (s *DestinationStore) ReviewsWithUserDetail(ctx context.Context, id primitive.ObjectID) ([]models.HydratedReview, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews := d.Reviews
	if len(reviews) > maxHydratedReviews {
		reviews = reviews[:maxHydratedReviews]
	}

	var userIDs []primitive.ObjectID
	seen := map[primitive.ObjectID]bool{}
	for _, r := range reviews {
		if !r.User.IsZero() && !seen[r.User] {
			seen[r.User] = true
			userIDs = append(userIDs, r.User)
		}
	}

	refs := map[primitive.ObjectID]models.UserRef{}
	if len(userIDs) > 0 {
		ctx, cancel := s.db.OpContext(ctx)
		defer cancel()

		cur, err := s.db.Collection(database.UserCollection).Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
		if err != nil {
			return nil, driverErr(err, "resolving review users")
		}
		var users []models.User
		if err := cur.All(ctx, &users); err != nil {
			return nil, driverErr(err, "decoding review users")
		}
		for _, u := range users {
			refs[u.ID] = models.UserRef{Username: u.Username, ProfilePicture: u.ProfilePicture}
		}
	}

	hydrated := make([]models.HydratedReview, 0, len(reviews))
	for _, r := range reviews {
		h := models.HydratedReview{Text: r.Text, UserRating: r.UserRating}
		if ref, ok := refs[r.User]; ok {
			h.User = &ref
		}
		hydrated = append(hydrated, h)
	}
	return hydrated, nil
}
