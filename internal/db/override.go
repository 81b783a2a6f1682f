package db

import (
	"context"
	"fmt"

	"github.com/netpersona/popcorn/internal/models"
	"gorm.io/gorm/clause"
)

// OverrideRepository handles database operations for movie overrides
type OverrideRepository struct {
	db *DB
}

// NewOverrideRepository creates a new override repository
func NewOverrideRepository(db *DB) *OverrideRepository {
	return &OverrideRepository{db: db}
}

// Set creates or replaces the override for (channel_name, source_id)
func (r *OverrideRepository) Set(ctx context.Context, override *models.MovieOverride) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_name"}, {Name: "source_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"override_type"}),
	}).Create(override)
	if result.Error != nil {
		return fmt.Errorf("failed to set override: %w", MapGormError(result.Error))
	}
	return nil
}

// ListByChannel retrieves the overrides for a channel
func (r *OverrideRepository) ListByChannel(ctx context.Context, channelName string) ([]*models.MovieOverride, error) {
	var overrides []*models.MovieOverride
	result := r.db.WithContext(ctx).
		Where("channel_name = ?", channelName).
		Order("created_at ASC").
		Find(&overrides)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", MapGormError(result.Error))
	}
	return overrides, nil
}

// Delete removes the override for (channel_name, source_id)
func (r *OverrideRepository) Delete(ctx context.Context, channelName, sourceID string) error {
	result := r.db.WithContext(ctx).
		Where("channel_name = ? AND source_id = ?", channelName, sourceID).
		Delete(&models.MovieOverride{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete override: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByChannel removes every override for a channel
func (r *OverrideRepository) DeleteByChannel(ctx context.Context, channelName string) error {
	result := r.db.WithContext(ctx).
		Where("channel_name = ?", channelName).
		Delete(&models.MovieOverride{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete overrides by channel: %w", MapGormError(result.Error))
	}
	return nil
}

// RenameChannel moves overrides to a new channel name
func (r *OverrideRepository) RenameChannel(ctx context.Context, oldName, newName string) error {
	result := r.db.WithContext(ctx).
		Model(&models.MovieOverride{}).
		Where("channel_name = ?", oldName).
		Update("channel_name", newName)
	if result.Error != nil {
		return fmt.Errorf("failed to rename override channel: %w", MapGormError(result.Error))
	}
	return nil
}
