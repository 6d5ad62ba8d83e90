package service

import (
	"context"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/repository"
)

// PropertyService handles the properties a user has added.
// Every lookup is scoped to the requesting user; a property of another user is reported as not found.
type PropertyService struct {
	propertyRepo *repository.PropertyRepository
	buildingRepo *repository.BuildingRepository
	unitRepo     *repository.UnitRepository
}

// NewPropertyService creates a new PropertyService.
func NewPropertyService(
	propertyRepo *repository.PropertyRepository,
	buildingRepo *repository.BuildingRepository,
	unitRepo *repository.UnitRepository,
) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		buildingRepo: buildingRepo,
		unitRepo:     unitRepo,
	}
}

// PropertyOverview is a property with its buildings and per-building unit statistics.
type PropertyOverview struct {
	Property  model.Property        `json:"property"`
	Buildings []model.Building      `json:"buildings"`
	Stats     []model.BuildingStats `json:"stats"`
}

// ListProperties returns the properties of a user ordered by name.
func (s *PropertyService) ListProperties(userID int64) ([]model.Property, error) {
	return s.propertyRepo.ListByUser(userID)
}

// GetProperty returns a property owned by userID.
func (s *PropertyService) GetProperty(userID int64, propertyID string) (model.Property, error) {
	p, err := s.propertyRepo.GetProperty(propertyID)
	if err != nil {
		return model.Property{}, err
	}
	if p.UserID != userID {
		return model.Property{}, apperrors.ErrPropertyNotFound
	}
	return p, nil
}

// DeleteProperty removes a property of userID together with its buildings, units and assumptions.
func (s *PropertyService) DeleteProperty(ctx context.Context, userID int64, propertyID string) error {
	if _, err := s.GetProperty(userID, propertyID); err != nil {
		return err
	}
	return s.propertyRepo.DeleteProperty(ctx, propertyID)
}

// About returns the overview of a property of userID.
func (s *PropertyService) About(userID int64, propertyID string) (PropertyOverview, error) {
	p, err := s.GetProperty(userID, propertyID)
	if err != nil {
		return PropertyOverview{}, err
	}

	buildings, err := s.buildingRepo.ListByProperty(propertyID)
	if err != nil {
		return PropertyOverview{}, err
	}

	stats, err := s.unitRepo.BuildingStats(propertyID)
	if err != nil {
		return PropertyOverview{}, err
	}

	return PropertyOverview{
		Property:  p,
		Buildings: buildings,
		Stats:     stats,
	}, nil
}

// ListBuildings returns the buildings of a property.
func (s *PropertyService) ListBuildings(propertyID string) ([]model.Building, error) {
	return s.buildingRepo.ListByProperty(propertyID)
}
