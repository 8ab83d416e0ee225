package mongodb

import (
	"context"
	"fmt"
	"time"

	"ekuseyecom/internal/models"
	"ekuseyecom/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type optionRepository struct {
	collection *mongo.Collection
}

func NewOptionRepository(db *mongo.Database) interfaces.OptionRepository {
	return &optionRepository{
		collection: db.Collection("options"),
	}
}

func (r *optionRepository) Get(ctx context.Context, key string) (interface{}, error) {
	var option models.Option
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&option)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get option %q: %w", key, err)
	}

	return option.Value, nil
}

func (r *optionRepository) GetFirst(ctx context.Context, keys []string) (interface{}, string, error) {
	for _, key := range keys {
		value, err := r.Get(ctx, key)
		if err != nil {
			return nil, "", err
		}
		if !isEmptyOption(value) {
			return value, key, nil
		}
	}

	return nil, "", nil
}

func (r *optionRepository) Set(ctx context.Context, key string, value interface{}) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{
			"key":        key,
			"value":      value,
			"updated_at": time.Now(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to set option %q: %w", key, err)
	}

	return nil
}

func isEmptyOption(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bson.A:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	default:
		return false
	}
}
