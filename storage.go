package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"prestacaocontas/config"
	"prestacaocontas/database"
	repository "prestacaocontas/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// storage bundles the repositories of the configured backend.
type storage struct {
	state    repository.StateRepository
	evidence repository.EvidenceRepository
	close    func()
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (*storage, error) {
	switch cfg.Driver {
	case "mongo":
		return openMongo(ctx, cfg)
	case "sqlite":
		return openSQLite(ctx, cfg)
	case "memory":
		logger.Warn("using in-memory storage, nothing will be persisted")
		return &storage{
			state:    repository.NewMemoryStateRepository(),
			evidence: repository.NewMemoryEvidenceRepository(),
			close:    func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func openMongo(ctx context.Context, cfg config.StorageConfig) (*storage, error) {
	clientOptions := options.Client().ApplyURI(cfg.MongoURI())
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	closeClient := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("failed to disconnect from MongoDB", zap.Error(err))
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		closeClient()
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("cluster", cfg.MongoCluster))
	logReplicaSet(client)

	db := client.Database(cfg.MongoDatabase)
	if err := database.CreateStateIndexes(db); err != nil {
		logger.Warn("failed to create indexes", zap.Error(err))
	}

	evidence, err := repository.NewGridFSEvidenceRepository(db)
	if err != nil {
		closeClient()
		return nil, err
	}
	return &storage{
		state:    repository.NewMongoStateRepository(db),
		evidence: evidence,
		close:    closeClient,
	}, nil
}

// logReplicaSet reports whether the deployment is a replica set.
func logReplicaSet(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result bson.M
	if err := client.Database("admin").RunCommand(ctx, bson.M{"hello": 1}).Decode(&result); err != nil {
		logger.Warn("failed to check replica set", zap.Error(err))
		return
	}
	if setName, exists := result["setName"]; exists {
		logger.Info("part of replica set", zap.Any("set_name", setName))
		return
	}
	logger.Info("not part of a replica set")
}

func openSQLite(ctx context.Context, cfg config.StorageConfig) (*storage, error) {
	db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	logger.Info("opened SQLite database", zap.String("path", cfg.SQLitePath))
	return &storage{
		state:    repository.NewSQLiteStateRepository(db),
		evidence: repository.NewSQLiteEvidenceRepository(db),
		close:    closeDB(db),
	}, nil
}

func closeDB(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close SQLite database", zap.Error(err))
		}
	}
}
