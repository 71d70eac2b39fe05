package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func CreateStateIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stateIndexes := []mongo.IndexModel{
		// AUDIT: most recently written partitions first
		{
			Keys:    bson.D{{Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("idx_updated_at"),
		},
	}
	if _, err := db.Collection("app_state").Indexes().CreateMany(ctx, stateIndexes); err != nil {
		return fmt.Errorf("failed to create state indexes: %w", err)
	}

	evidenceIndexes := []mongo.IndexModel{
		// EVIDENCE: uploads per operator
		{
			Keys: bson.D{
				{Key: "metadata.uploadedBy", Value: 1},
				{Key: "uploadDate", Value: -1},
			},
			Options: options.Index().SetName("idx_uploaded_by_upload_date"),
		},
	}
	if _, err := db.Collection("evidence.files").Indexes().CreateMany(ctx, evidenceIndexes); err != nil {
		return fmt.Errorf("failed to create evidence indexes: %w", err)
	}

	return nil
}
