package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/repository"
)

// UserService handles users and their conversation state.
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// Register records a user, refreshing the profile fields of a known one.
func (s *UserService) Register(ctx context.Context, u model.User) error {
	return s.userRepo.UpsertUser(ctx, u)
}

// GetState returns the conversation state of a user.
func (s *UserService) GetState(userID int64) (model.UserState, error) {
	return s.userRepo.GetState(userID)
}

// SetDialog makes the conversation wait for text input of the given kind,
// keeping the selected property and lot.
func (s *UserService) SetDialog(ctx context.Context, userID int64, state model.DialogState, data string) error {
	st, err := s.userRepo.GetState(userID)
	if err != nil {
		return err
	}
	st.State = state
	st.StateData = data
	st.UpdatedAt = time.Time{}
	return s.userRepo.SetState(ctx, st)
}

// SelectProperty makes a property current and stops waiting for text input.
func (s *UserService) SelectProperty(ctx context.Context, userID int64, propertyID string) error {
	return s.userRepo.SetState(ctx, model.UserState{
		UserID:            userID,
		CurrentPropertyID: &propertyID,
	})
}

// SelectLot makes a lot of a property current and stops waiting for text input.
func (s *UserService) SelectLot(ctx context.Context, userID int64, propertyID, code string) error {
	return s.userRepo.SetState(ctx, model.UserState{
		UserID:            userID,
		CurrentPropertyID: &propertyID,
		CurrentLotCode:    &code,
	})
}

// ClearState resets the conversation to idle with nothing selected.
func (s *UserService) ClearState(ctx context.Context, userID int64) error {
	return s.userRepo.SetState(ctx, model.UserState{UserID: userID})
}

// PurgeStaleStates removes conversation states untouched for longer than maxAge.
func (s *UserService) PurgeStaleStates(ctx context.Context, maxAge time.Duration) (int64, error) {
	n, err := s.userRepo.DeleteStaleStates(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale states: %w", err)
	}
	return n, nil
}
