package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ Store = &MongoStore{}

// MongoStore is a MongoDB-backed Store. Each key is one document:
//
//	{_id: key, value: string, expires_at: date|null}
//
// Expiry is enforced on read; the TTL index created by EnsureIndexes only
// reclaims space and may lag by up to a minute.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

type mongoEntry struct {
	Key       string     `bson:"_id"`
	Value     string     `bson:"value"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// NewMongoStore creates a new store backed by the given collection.
func NewMongoStore(db *mongo.Database, collection string) *MongoStore {
	return &MongoStore{
		coll: db.Collection(collection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates the TTL index on expires_at.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl"),
	})
	if err != nil {
		return fmt.Errorf("kv: create ttl index: %w", err)
	}
	return nil
}

// Put upserts the value for key.
func (s *MongoStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	set := bson.M{"value": string(value)}
	upd := bson.M{"$set": set}
	if ttl > 0 {
		set["expires_at"] = s.now().Add(ttl)
	} else {
		upd["$unset"] = bson.M{"expires_at": ""}
	}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": key}, upd, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("kv: mongo put %q: %w", key, err)
	}
	return nil
}

// Get returns the stored value, treating documents past expires_at as absent.
func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc mongoEntry
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv: mongo get %q: %w", key, err)
	}
	if doc.ExpiresAt != nil && !s.now().Before(*doc.ExpiresAt) {
		return nil, ErrNotFound
	}
	return []byte(doc.Value), nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *MongoStore) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("kv: mongo delete %q: %w", key, err)
	}
	return nil
}
