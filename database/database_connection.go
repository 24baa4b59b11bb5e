package database

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

var (
	dbClient *mongo.Client
	dbName   string
)

func Connect(ctx context.Context, uri, databaseName string) error {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(opts)
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	dbClient = client
	dbName = databaseName
	log.Println("Connected to MongoDB, database:", databaseName)
	return nil
}

func OpenCollection(collectionName string) *mongo.Collection {
	return dbClient.Database(dbName).Collection(collectionName)
}

// EnsureIndexes creates the indexes the auth subsystem relies on. The TTL
// index on revoked_tokens.expiresAt is what keeps the revocation ledger
// from growing unboundedly: Mongo removes an entry once the token it
// denies would have expired on its own.
func EnsureIndexes(ctx context.Context) error {
	users := OpenCollection("users")
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users username index: %w", err)
	}

	revoked := OpenCollection("revoked_tokens")
	_, err = revoked.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("revoked_tokens indexes: %w", err)
	}

	return nil
}
