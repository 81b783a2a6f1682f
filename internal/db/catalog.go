// Package db provides database connection management and repositories.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/netpersona/popcorn/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository handles database operations for catalog entries
type CatalogRepository struct {
	db *DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Upsert inserts an entry or refreshes the existing (source_id, genre) row.
// The stored row ID is kept on conflict so schedule slots stay valid.
// A zero UpdatedAt is set to the current time.
func (r *CatalogRepository) Upsert(ctx context.Context, entry *models.CatalogEntry) error {
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source_id"}, {Name: "genre"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "duration", "content_rating", "year", "summary",
			"audience_rating", "poster_url", "updated_at",
		}),
	}).Create(entry)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert catalog entry: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a catalog entry by its row ID
func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&entry)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &entry, nil
}

// GetBySourceID retrieves the first row for a library item
func (r *CatalogRepository) GetBySourceID(ctx context.Context, sourceID string) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	result := r.db.WithContext(ctx).
		Where("source_id = ?", sourceID).
		Order("genre ASC").
		First(&entry)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &entry, nil
}

// List retrieves every catalog row ordered by title then genre
func (r *CatalogRepository) List(ctx context.Context) ([]*models.CatalogEntry, error) {
	var entries []*models.CatalogEntry
	result := r.db.WithContext(ctx).Order("title ASC, genre ASC").Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", MapGormError(result.Error))
	}
	return entries, nil
}

// ListByGenre retrieves the rows for a single genre
func (r *CatalogRepository) ListByGenre(ctx context.Context, genre string) ([]*models.CatalogEntry, error) {
	var entries []*models.CatalogEntry
	result := r.db.WithContext(ctx).
		Where("genre = ?", genre).
		Order("title ASC").
		Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list catalog by genre: %w", MapGormError(result.Error))
	}
	return entries, nil
}

// DistinctGenres returns every genre present in the catalog, sorted
func (r *CatalogRepository) DistinctGenres(ctx context.Context) ([]string, error) {
	var genres []string
	result := r.db.WithContext(ctx).
		Model(&models.CatalogEntry{}).
		Distinct("genre").
		Order("genre ASC").
		Pluck("genre", &genres)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list genres: %w", MapGormError(result.Error))
	}
	return genres, nil
}

// Count returns the total number of catalog rows
func (r *CatalogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.CatalogEntry{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count catalog: %w", MapGormError(result.Error))
	}
	return count, nil
}

// DeleteUpdatedBefore removes rows not refreshed since cutoff and returns how many were removed
func (r *CatalogRepository) DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		result := tx.Where("updated_at < ?", cutoff).Delete(&models.CatalogEntry{})
		if result.Error != nil {
			return MapGormError(result.Error)
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune catalog: %w", err)
	}
	return removed, nil
}
