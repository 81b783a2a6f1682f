package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/netpersona/popcorn/internal/models"
)

// RegenerationRepository handles the regeneration state.
// Regeneration state is a singleton table with only one row
type RegenerationRepository struct {
	db *DB
}

// NewRegenerationRepository creates a new regeneration state repository
func NewRegenerationRepository(db *DB) *RegenerationRepository {
	return &RegenerationRepository{db: db}
}

// Get retrieves the state, creating it with defaultFrequency if it does not exist
func (r *RegenerationRepository) Get(ctx context.Context, defaultFrequency string) (*models.RegenerationState, error) {
	var state models.RegenerationState
	result := r.db.WithContext(ctx).Where("id = ?", 1).First(&state)

	if result.Error != nil {
		if errors.Is(MapGormError(result.Error), ErrNotFound) {
			initial := models.DefaultRegenerationState(defaultFrequency)
			if err := r.db.WithContext(ctx).Create(initial).Error; err != nil {
				return nil, fmt.Errorf("failed to create regeneration state: %w", MapGormError(err))
			}
			return initial, nil
		}
		return nil, MapGormError(result.Error)
	}

	return &state, nil
}

// MarkRegenerated records the calendar date of a completed run
func (r *RegenerationRepository) MarkRegenerated(ctx context.Context, on time.Time) error {
	date := time.Date(on.Year(), on.Month(), on.Day(), 0, 0, 0, 0, time.UTC)
	result := r.db.WithContext(ctx).
		Model(&models.RegenerationState{}).
		Where("id = ?", 1).
		Updates(map[string]interface{}{
			"last_regenerated_on": date,
			"updated_at":          time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to record regeneration: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFrequency changes the regeneration cadence
func (r *RegenerationRepository) SetFrequency(ctx context.Context, frequency string) error {
	if !models.IsValidFrequency(frequency) {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, frequency)
	}
	result := r.db.WithContext(ctx).
		Model(&models.RegenerationState{}).
		Where("id = ?", 1).
		Updates(map[string]interface{}{
			"frequency":  frequency,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update frequency: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
