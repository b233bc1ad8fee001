package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Destination is a travel location with an editorial rating and
// user-submitted reviews embedded in the same document.
type Destination struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DestinationName   string             `bson:"destinationName" json:"destinationName"`
	Location          string             `bson:"location" json:"location"`
	Description       string             `bson:"description" json:"description"`
	Rating            float64            `bson:"rating" json:"rating"`
	UserAverageRating float64            `bson:"userAverageRating" json:"userAverageRating"`
	Reviews           []Review           `bson:"reviews" json:"reviews"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Review lives only inside its parent Destination's reviews array.
// User is a weak reference into the users collection.
type Review struct {
	User       primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	Text       string             `bson:"text,omitempty" json:"text,omitempty"`
	UserRating float64            `bson:"userRating" json:"userRating"`
}

// HydratedReview is a review with its user reference resolved.
// User stays nil when the review carries no reference or the
// referenced user no longer exists.
type HydratedReview struct {
	User       *UserRef `json:"user,omitempty"`
	Text       string   `json:"text,omitempty"`
	UserRating float64  `json:"userRating"`
}
