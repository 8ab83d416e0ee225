package interfaces

import (
	"context"

	"ekuseyecom/internal/models"
	"ekuseyecom/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Commission record
	UpdateCommission(ctx context.Context, id primitive.ObjectID, commission *models.OrderCommission) error
	ListWithCommission(ctx context.Context, status models.CommissionStatus, params *utils.PaginationParams) ([]*models.Order, int64, error)

	// Audit trail
	AddNote(ctx context.Context, id primitive.ObjectID, note models.OrderNote) error
}
