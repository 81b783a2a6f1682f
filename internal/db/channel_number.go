package db

import (
	"context"
	"fmt"

	"github.com/netpersona/popcorn/internal/models"
)

// ChannelNumberRepository handles persisted channel number assignments
type ChannelNumberRepository struct {
	db *DB
}

// NewChannelNumberRepository creates a new channel number repository
func NewChannelNumberRepository(db *DB) *ChannelNumberRepository {
	return &ChannelNumberRepository{db: db}
}

// List retrieves every assignment ordered by number
func (r *ChannelNumberRepository) List(ctx context.Context) ([]*models.ChannelNumber, error) {
	var numbers []*models.ChannelNumber
	result := r.db.WithContext(ctx).Order("number ASC").Find(&numbers)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list channel numbers: %w", MapGormError(result.Error))
	}
	return numbers, nil
}

// Create stores a new assignment
func (r *ChannelNumberRepository) Create(ctx context.Context, number *models.ChannelNumber) error {
	result := r.db.WithContext(ctx).Create(number)
	if result.Error != nil {
		return fmt.Errorf("failed to create channel number: %w", MapGormError(result.Error))
	}
	return nil
}

// Delete removes the assignment for a channel name
func (r *ChannelNumberRepository) Delete(ctx context.Context, name string) error {
	result := r.db.WithContext(ctx).Where("name = ?", name).Delete(&models.ChannelNumber{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete channel number: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
