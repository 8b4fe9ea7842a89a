package repository

import (
	"context"
	"time"

	"peerpulse-backend/internal/database"
	"peerpulse-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ConfigRepo struct {
	collection *mongo.Collection
}

func NewConfigRepo() *ConfigRepo {
	return &ConfigRepo{
		collection: database.GetCollection("configs"),
	}
}

func (r *ConfigRepo) Create(ctx context.Context, cfg *models.Config) error {
	cfg.CreatedAt = time.Now()
	cfg.UpdatedAt = cfg.CreatedAt
	result, err := r.collection.InsertOne(ctx, cfg)
	if err != nil {
		return err
	}
	cfg.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// FindCurrent returns the authoritative config: newest createdAt first,
// ties broken by the highest version string so concurrent inserts still
// resolve deterministically. Returns nil when no config exists.
func (r *ConfigRepo) FindCurrent(ctx context.Context) (*models.Config, error) {
	opts := options.FindOne().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "version", Value: -1},
	})
	var cfg models.Config
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&cfg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

// EnsureIndexes creates necessary indexes for the configs collection
func (r *ConfigRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "version", Value: -1}},
	})
	return err
}
