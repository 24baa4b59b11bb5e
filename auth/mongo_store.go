package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/nkpol/nkpolbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type MongoUserStore struct {
	col *mongo.Collection
}

func NewMongoUserStore(col *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{col: col}
}

func (s *MongoUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	var user models.User
	err = s.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// MongoRevocationStore keeps ledger entries in the revoked_tokens
// collection. Entries are never updated; pruning is the TTL index's job
// (see database.EnsureIndexes).
type MongoRevocationStore struct {
	col *mongo.Collection
}

func NewMongoRevocationStore(col *mongo.Collection) *MongoRevocationStore {
	return &MongoRevocationStore{col: col}
}

func (s *MongoRevocationStore) Contains(ctx context.Context, token string) (bool, error) {
	err := s.col.FindOne(ctx, bson.M{"token": token}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("revocation lookup: %w", err)
	}
	return true, nil
}

func (s *MongoRevocationStore) Add(ctx context.Context, entry *models.RevokedToken) error {
	_, err := s.col.InsertOne(ctx, entry)
	return err
}
