package service

import (
	"context"
	"errors"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/repository"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/validation"
)

// SettingsService reads and edits the investment assumptions of a property.
type SettingsService struct {
	assumptionsRepo *repository.AssumptionsRepository
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(assumptionsRepo *repository.AssumptionsRepository) *SettingsService {
	return &SettingsService{
		assumptionsRepo: assumptionsRepo,
	}
}

// GetAssumptions returns the stored assumptions of a property. A property without
// stored assumptions yields an empty set.
func (s *SettingsService) GetAssumptions(propertyID string) (model.Assumptions, error) {
	a, err := s.assumptionsRepo.GetAssumptions(propertyID)
	if errors.Is(err, apperrors.ErrAssumptionsNotFound) {
		return model.Assumptions{PropertyID: propertyID}, nil
	}
	return a, err
}

// UpdateSetting validates a typed value and stores it in the setting with the given key.
// Validation failures are returned as *validation.Error.
func (s *SettingsService) UpdateSetting(ctx context.Context, propertyID, key, raw string) (model.SettingField, error) {
	field, ok := model.LookupSetting(key)
	if !ok {
		return model.SettingField{}, apperrors.ErrUnknownSetting
	}

	value, err := validation.ParseSettingValue(field, raw)
	if err != nil {
		return field, err
	}

	if err := s.assumptionsRepo.SetField(ctx, propertyID, field.Column, value); err != nil {
		return field, err
	}
	return field, nil
}
