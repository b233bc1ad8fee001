package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DefaultProfilePicture is assigned when a user signs up without one.
const DefaultProfilePicture = "www.example.com/some_picture"

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	Password       string             `bson:"password" json:"-"`
	ProfilePicture string             `bson:"profilePicture" json:"profilePicture"`
}

// UserRef is the public subset of a user embedded into hydrated reviews.
type UserRef struct {
	Username       string `bson:"username" json:"username"`
	ProfilePicture string `bson:"profilePicture" json:"profilePicture"`
}
