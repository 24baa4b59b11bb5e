package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func SeedAdminUser(ctx context.Context, usersCol *mongo.Collection, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("missing ADMIN_USERNAME or ADMIN_PASSWORD env vars")
	}
	if len(username) < 3 || len(username) > 20 {
		return fmt.Errorf("admin username must be 3-20 characters")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()

	// Only insert if it doesn't exist
	filter := bson.M{"username": username}
	update := bson.M{
		"$setOnInsert": bson.M{
			"username":     username,
			"passwordHash": hash,
			"tokenVersion": 0,
			"isLocked":     false,
			"createdAt":    now,
			"updatedAt":    now,
		},
	}

	opts := options.UpdateOne().SetUpsert(true)

	res, err := usersCol.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("seed admin upsert failed: %w", err)
	}

	if res.UpsertedCount == 1 {
		log.Println("Admin user seeded:", username)
	} else {
		log.Println("Admin user already exists:", username)
	}

	return nil
}
