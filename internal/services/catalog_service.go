package services

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"

	"amethyst/internal/apperrors"
	"amethyst/internal/models"
	"amethyst/internal/repositories"
)

// CatalogService handles business logic related to the bicycle catalog.
type CatalogService struct {
	repo repositories.BicycleRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.BicycleRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// ListBicycles returns the whole catalog, or only the bicycles of one type
// when typeFilter is non-empty. A filter that is not a valid id matches
// nothing.
func (s *CatalogService) ListBicycles(ctx context.Context, typeFilter string) ([]models.BicycleView, error) {
	var typeID *uint
	if typeFilter != "" {
		id, ok := parseID(typeFilter)
		if !ok {
			return []models.BicycleView{}, nil
		}
		typeID = &id
	}

	rows, err := s.repo.List(ctx, typeID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch bicycles", err)
	}

	views := make([]models.BicycleView, 0, len(rows))
	for i := range rows {
		views = append(views, toBicycleView(&rows[i]))
	}
	return views, nil
}

// GetBicycle returns a single bicycle by id.
func (s *CatalogService) GetBicycle(ctx context.Context, id string) (*models.BicycleView, error) {
	bicycleID, ok := parseID(id)
	if !ok {
		return nil, apperrors.NotFound("Bicycle not found")
	}

	row, err := s.repo.GetByID(ctx, bicycleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Bicycle not found")
		}
		return nil, apperrors.Internal("Failed to fetch bicycle details", err)
	}

	view := toBicycleView(row)
	return &view, nil
}

func toBicycleView(row *models.BicycleRow) models.BicycleView {
	view := models.BicycleView{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Type: models.BicycleTypeRef{
			ID:   row.BicycleType,
			Name: row.TypeName,
		},
		IsDiscount:    row.IsDiscount != 0,
		NormalPrice:   row.NormalPrice,
		DiscountPrice: row.DiscountPrice,
	}
	if len(row.Picture) > 0 {
		encoded := base64.StdEncoding.EncodeToString(row.Picture)
		view.Picture = &encoded
	}
	return view
}

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
