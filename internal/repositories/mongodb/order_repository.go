package mongodb

import (
	"context"
	"fmt"
	"time"

	"ekuseyecom/internal/models"
	"ekuseyecom/internal/repositories/interfaces"
	"ekuseyecom/internal/utils"
	"ekuseyecom/pkg/cache"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderRepository struct {
	collection *mongo.Collection
	cache      *cache.RedisCache
}

func NewOrderRepository(db *mongo.Database, cache *cache.RedisCache) interfaces.OrderRepository {
	return &orderRepository{
		collection: db.Collection("orders"),
		cache:      cache,
	}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewServiceError(utils.ErrCodeNotFound, "Order not found.")
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

func (r *orderRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	r.invalidateOrderCache(ctx, id.Hex())

	return nil
}

func (r *orderRepository) UpdateCommission(ctx context.Context, id primitive.ObjectID, commission *models.OrderCommission) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"commission": commission,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update order commission: %w", err)
	}

	r.invalidateOrderCache(ctx, id.Hex())

	return nil
}

// commissionOrdersFilter matches only orders carrying a referral code.
// $ne alone would also match orders with no commission block, since a
// missing field compares as not-equal; the field must exist too.
func commissionOrdersFilter(status models.CommissionStatus) bson.M {
	filter := bson.M{"commission.ref_code": bson.M{"$exists": true, "$ne": ""}}
	if status != "" {
		filter["commission.status"] = status
	}
	return filter
}

func (r *orderRepository) ListWithCommission(ctx context.Context, status models.CommissionStatus, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	filter := commissionOrdersFilter(status)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count commission orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(params.Skip()).
		SetLimit(int64(params.PageSize))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list commission orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to decode commission orders: %w", err)
	}

	return orders, total, nil
}

func (r *orderRepository) AddNote(ctx context.Context, id primitive.ObjectID, note models.OrderNote) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"notes": note},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add order note: %w", err)
	}

	return nil
}

func (r *orderRepository) invalidateOrderCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, fmt.Sprintf("order_%s", id))
}
