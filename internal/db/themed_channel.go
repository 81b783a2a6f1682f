package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/netpersona/popcorn/internal/models"
)

// ThemedChannelRepository handles database operations for themed channels
type ThemedChannelRepository struct {
	db *DB
}

// NewThemedChannelRepository creates a new themed channel repository
func NewThemedChannelRepository(db *DB) *ThemedChannelRepository {
	return &ThemedChannelRepository{db: db}
}

// Create inserts a new themed channel into the database
func (r *ThemedChannelRepository) Create(ctx context.Context, channel *models.ThemedChannel) error {
	result := r.db.WithContext(ctx).Create(channel)
	if result.Error != nil {
		return fmt.Errorf("failed to create themed channel: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a themed channel by its UUID
func (r *ThemedChannelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ThemedChannel, error) {
	var channel models.ThemedChannel
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&channel)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &channel, nil
}

// GetByName retrieves a themed channel by name, ignoring case
func (r *ThemedChannelRepository) GetByName(ctx context.Context, name string) (*models.ThemedChannel, error) {
	var channel models.ThemedChannel
	result := r.db.WithContext(ctx).Where("name = ? COLLATE NOCASE", name).First(&channel)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &channel, nil
}

// List retrieves all themed channels ordered by name
func (r *ThemedChannelRepository) List(ctx context.Context) ([]*models.ThemedChannel, error) {
	var channels []*models.ThemedChannel
	result := r.db.WithContext(ctx).Order("name ASC").Find(&channels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list themed channels: %w", MapGormError(result.Error))
	}
	return channels, nil
}

// Count returns the number of themed channels
func (r *ThemedChannelRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ThemedChannel{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count themed channels: %w", MapGormError(result.Error))
	}
	return count, nil
}

// Update updates an existing themed channel
func (r *ThemedChannelRepository) Update(ctx context.Context, channel *models.ThemedChannel) error {
	channel.UpdatedAt = time.Now().UTC()

	// Select forces zero values (empty filters) to be written
	result := r.db.WithContext(ctx).
		Where("id = ?", channel.ID.String()).
		Select("name", "start_month", "end_month", "genre_filter", "keywords",
			"rating_filter", "filter_mode", "collection_ids", "external_keyword_ids",
			"min_score", "min_popularity", "updated_at").
		Updates(channel)
	if result.Error != nil {
		return fmt.Errorf("failed to update themed channel: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a themed channel by its UUID
func (r *ThemedChannelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.ThemedChannel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete themed channel: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
