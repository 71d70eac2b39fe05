package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrStateNotFound = errors.New("state key not found")

// StateRepository persists opaque serialized values under stable keys.
// Values are stored exactly as given so that unreadable content stays recoverable.
type StateRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

const StateCollection = "app_state"

type stateDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type mongoStateRepository struct {
	collection *mongo.Collection
}

func NewMongoStateRepository(db *mongo.Database) StateRepository {
	return &mongoStateRepository{
		collection: db.Collection(StateCollection),
	}
}

func (r *mongoStateRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var doc stateDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state %s: %w", key, err)
	}
	return []byte(doc.Value), nil
}

func (r *mongoStateRepository) Put(ctx context.Context, key string, value []byte) error {
	update := bson.M{
		"$set": bson.M{
			"value":      string(value),
			"updated_at": time.Now(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to write state %s: %w", key, err)
	}
	return nil
}

type memoryStateRepository struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStateRepository() StateRepository {
	return &memoryStateRepository{values: make(map[string][]byte)}
}

func (r *memoryStateRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	if !ok {
		return nil, ErrStateNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (r *memoryStateRepository) Put(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	r.values[key] = v
	return nil
}
