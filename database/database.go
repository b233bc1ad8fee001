package database

import (
	"context"
	"log"
	"time"

	"roamready/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	DestinationCollection = "destinations"
	UserCollection        = "users"
)

// DB wraps the MongoDB client. It is constructed once in main and
// handed to the stores, never referenced through a package global.
type DB struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// Connect establishes a connection to MongoDB, verifies it with a ping
// and ensures the unique indexes the data model relies on.
func Connect(cfg *config.Config) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	d := &DB{
		client:  client,
		db:      client.Database(cfg.DBName),
		timeout: cfg.DBTimeout,
	}

	if err := d.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.Printf("Connected to MongoDB database %q", cfg.DBName)
	return d, nil
}

// ensureIndexes creates the unique indexes that back the conflict
// semantics: destinationName and username.
func (d *DB) ensureIndexes(ctx context.Context) error {
	_, err := d.Collection(DestinationCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "destinationName", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = d.Collection(UserCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Collection returns a handle in the configured database.
func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// OpContext returns a context bounding a single store operation.
func (d *DB) OpContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, d.timeout)
}

// Close disconnects the client. Call it once on shutdown.
func (d *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	return d.client.Disconnect(ctx)
}
