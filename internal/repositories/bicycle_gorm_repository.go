package repositories

import (
	"context"
	"fmt"

	"amethyst/internal/models"

	"gorm.io/gorm"
)

const bicycleSelect = `SELECT b.*, bt.name AS "typeName"
FROM bicycle b
LEFT JOIN bicycletype bt ON b."bicycleType" = bt.id`

// GORMBicycleRepository is a GORM implementation of BicycleRepository.
type GORMBicycleRepository struct {
	db *gorm.DB
}

// NewGORMBicycleRepository creates a new instance of GORMBicycleRepository.
func NewGORMBicycleRepository(db *gorm.DB) *GORMBicycleRepository {
	return &GORMBicycleRepository{
		db: db,
	}
}

// List retrieves bicycles with their type names, optionally filtered by type.
func (r *GORMBicycleRepository) List(ctx context.Context, typeID *uint) ([]models.BicycleRow, error) {
	query := bicycleSelect
	var args []interface{}
	if typeID != nil {
		query += ` WHERE b."bicycleType" = ?`
		args = append(args, *typeID)
	}

	rows := make([]models.BicycleRow, 0)
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list bicycles: %w", err)
	}
	return rows, nil
}

// GetByID retrieves a single bicycle with its type name.
func (r *GORMBicycleRepository) GetByID(ctx context.Context, id uint) (*models.BicycleRow, error) {
	var row models.BicycleRow
	res := r.db.WithContext(ctx).Raw(bicycleSelect+` WHERE b.id = ?`, id).Scan(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to get bicycle by ID %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("bicycle with ID %d: %w", id, ErrNotFound)
	}
	return &row, nil
}

// Count returns the number of bicycles in the catalog.
func (r *GORMBicycleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Bicycle{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count bicycles: %w", err)
	}
	return n, nil
}

// CreateType inserts a bicycle type.
func (r *GORMBicycleRepository) CreateType(ctx context.Context, bicycleType *models.BicycleType) error {
	if err := r.db.WithContext(ctx).Create(bicycleType).Error; err != nil {
		return fmt.Errorf("failed to create bicycle type: %w", err)
	}
	return nil
}

// Create inserts a bicycle.
func (r *GORMBicycleRepository) Create(ctx context.Context, bicycle *models.Bicycle) error {
	if err := r.db.WithContext(ctx).Create(bicycle).Error; err != nil {
		return fmt.Errorf("failed to create bicycle: %w", err)
	}
	return nil
}
