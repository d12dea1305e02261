package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectDB initializes and returns a MongoDB client and database instance.
func ConnectDB(uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the primary node
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	fmt.Println("Successfully connected to MongoDB!")

	return client, db, nil
}

// EnsureIndexes creates the indexes the marketplace relies on:
// unique user email (natural key), unique (address, owner_id) per residency,
// and multikey indexes over the embedded relation arrays so cascade scans
// don't walk the whole users collection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_1"),
		},
		{
			Keys:    bson.D{{Key: "favorite_residency_ids", Value: 1}},
			Options: options.Index().SetName("favorite_residency_ids_1"),
		},
		{
			Keys:    bson.D{{Key: "booked_visits.residency_id", Value: 1}},
			Options: options.Index().SetName("booked_visits_residency_id_1"),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	residencyIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "address", Value: 1}, {Key: "owner_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("address_owner_1"),
		},
	}
	if _, err := db.Collection("residencies").Indexes().CreateMany(ctx, residencyIndexes); err != nil {
		return fmt.Errorf("failed to create residency indexes: %w", err)
	}
	return nil
}

// DisconnectDB closes the MongoDB client connection.
func DisconnectDB(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	fmt.Println("MongoDB connection closed.")
	return nil
}
