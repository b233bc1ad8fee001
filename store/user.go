package store

import (
	"context"

	"roamready/database"
	"roamready/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserStore owns the users collection. Reviews reference users by id
// only; nothing here touches destinations.
type UserStore struct {
	db *database.DB
}

func NewUserStore(db *database.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) collection() *mongo.Collection {
	return s.db.Collection(database.UserCollection)
}

// Create inserts a user. The password is expected to be hashed already.
func (s *UserStore) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.Username == "" || u.Password == "" {
		return models.User{}, errors.Wrap(ErrValidation, "username and password are required")
	}
	if u.ProfilePicture == "" {
		u.ProfilePicture = models.DefaultProfilePicture
	}
	u.ID = primitive.NilObjectID

	ctx, cancel := s.db.OpContext(ctx)
	defer cancel()

	res, err := s.collection().InsertOne(ctx, u)
	if err != nil {
		return models.User{}, driverErr(err, "inserting user")
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

// GetByUsername returns the user with the exact username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	ctx, cancel := s.db.OpContext(ctx)
	defer cancel()

	var u models.User
	err := s.collection().FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err != nil {
		return models.User{}, driverErr(err, "finding user by username")
	}
	return u, nil
}

// GetByID returns the user with the given id.
func (s *UserStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	ctx, cancel := s.db.OpContext(ctx)
	defer cancel()

	var u models.User
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		return models.User{}, driverErr(err, "finding user by id")
	}
	return u, nil
}
