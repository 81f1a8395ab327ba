package repositories

import (
	"context"

	"amethyst/internal/models"
)

// BicycleRepository defines the interface for catalog data access.
type BicycleRepository interface {
	// List returns every bicycle joined with its type name. A non-nil
	// typeID restricts the result to that type.
	List(ctx context.Context, typeID *uint) ([]models.BicycleRow, error)
	GetByID(ctx context.Context, id uint) (*models.BicycleRow, error)
	Count(ctx context.Context) (int64, error)
	CreateType(ctx context.Context, bicycleType *models.BicycleType) error
	Create(ctx context.Context, bicycle *models.Bicycle) error
}
