package db

import (
	"context"
	"fmt"

	"github.com/netpersona/popcorn/internal/models"
	"gorm.io/gorm"
)

// ScheduleRepository handles database operations for schedule slots
type ScheduleRepository struct {
	db *DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ReplaceDay swaps the slot set of one (channel, day) pair in a single transaction.
// Readers see either the old set or the new set, never a mix.
func (r *ScheduleRepository) ReplaceDay(ctx context.Context, channel string, day int, slots []*models.ScheduleSlot) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("channel = ? AND day = ?", channel, day).Delete(&models.ScheduleSlot{}).Error; err != nil {
			return fmt.Errorf("failed to clear %s day %d: %w", channel, day, MapGormError(err))
		}
		if len(slots) == 0 {
			return nil
		}
		if err := tx.Omit("Entry").CreateInBatches(slots, 100).Error; err != nil {
			return fmt.Errorf("failed to insert slots for %s day %d: %w", channel, day, MapGormError(err))
		}
		return nil
	})
}

// DeleteAll removes every slot for every channel
func (r *ScheduleRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.ScheduleSlot{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete schedule: %w", MapGormError(result.Error))
	}
	return result.RowsAffected, nil
}

// DeleteChannel removes every slot of one channel
func (r *ScheduleRepository) DeleteChannel(ctx context.Context, channel string) (int64, error) {
	result := r.db.WithContext(ctx).Where("channel = ?", channel).Delete(&models.ScheduleSlot{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete %s schedule: %w", channel, MapGormError(result.Error))
	}
	return result.RowsAffected, nil
}

// RenameChannel moves a channel's week to a new name, replacing any slots
// already stored under that name
func (r *ScheduleRepository) RenameChannel(ctx context.Context, oldName, newName string) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("channel = ?", newName).Delete(&models.ScheduleSlot{}).Error; err != nil {
			return fmt.Errorf("failed to clear %s schedule: %w", newName, MapGormError(err))
		}
		if err := tx.Model(&models.ScheduleSlot{}).
			Where("channel = ?", oldName).
			Update("channel", newName).Error; err != nil {
			return fmt.Errorf("failed to rename schedule channel: %w", MapGormError(err))
		}
		return nil
	})
}

// ListDay retrieves a channel's slots for a day ordered by start, with entries joined
func (r *ScheduleRepository) ListDay(ctx context.Context, channel string, day int) ([]*models.ScheduleSlot, error) {
	var slots []*models.ScheduleSlot
	result := r.db.WithContext(ctx).
		Where("channel = ? AND day = ?", channel, day).
		Preload("Entry").
		Order("start_minute ASC").
		Find(&slots)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list schedule: %w", MapGormError(result.Error))
	}
	return slots, nil
}

// ListChannel retrieves a channel's whole week ordered by day then start
func (r *ScheduleRepository) ListChannel(ctx context.Context, channel string) ([]*models.ScheduleSlot, error) {
	var slots []*models.ScheduleSlot
	result := r.db.WithContext(ctx).
		Where("channel = ?", channel).
		Preload("Entry").
		Order("day ASC, start_minute ASC").
		Find(&slots)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list channel schedule: %w", MapGormError(result.Error))
	}
	return slots, nil
}

// Count returns the total number of stored slots
func (r *ScheduleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ScheduleSlot{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count slots: %w", MapGormError(result.Error))
	}
	return count, nil
}
