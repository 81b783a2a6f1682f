package channel

import (
	"context"
	"fmt"

	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/filter"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
)

// OverrideService manages per-channel whitelist/blacklist decisions
type OverrideService struct {
	repos *db.Repositories
}

// NewOverrideService creates a new override service instance
func NewOverrideService(repos *db.Repositories) *OverrideService {
	return &OverrideService{repos: repos}
}

// SetOverride forces a catalog item in or out of a channel, replacing any
// previous decision for the pair.
func (s *OverrideService) SetOverride(ctx context.Context, channelName, sourceID, kind string) (*models.MovieOverride, error) {
	if !models.IsValidOverrideType(kind) {
		return nil, ErrInvalidOverrideType
	}
	if _, err := s.repos.Catalog.GetBySourceID(ctx, sourceID); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to look up catalog entry: %w", err)
	}

	override := models.NewMovieOverride(channelName, sourceID, kind)
	if err := s.repos.Overrides.Set(ctx, override); err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel", channelName).
			Str("source_id", sourceID).
			Msg("Failed to save override")
		return nil, fmt.Errorf("failed to set override: %w", err)
	}

	logger.Log.Info().
		Str("channel", channelName).
		Str("source_id", sourceID).
		Str("override_type", kind).
		Msg("Override saved")

	return override, nil
}

// RemoveOverride deletes the decision for a channel and catalog item
func (s *OverrideService) RemoveOverride(ctx context.Context, channelName, sourceID string) error {
	if err := s.repos.Overrides.Delete(ctx, channelName, sourceID); err != nil {
		if db.IsNotFound(err) {
			return ErrOverrideNotFound
		}
		return fmt.Errorf("failed to remove override: %w", err)
	}

	logger.Log.Info().
		Str("channel", channelName).
		Str("source_id", sourceID).
		Msg("Override removed")

	return nil
}

// ListOverrides returns the stored rows for a channel
func (s *OverrideService) ListOverrides(ctx context.Context, channelName string) ([]*models.MovieOverride, error) {
	rows, err := s.repos.Overrides.ListByChannel(ctx, channelName)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	return rows, nil
}

// Overrides returns the indexed set used by the filter engine
func (s *OverrideService) Overrides(ctx context.Context, channelName string) (filter.Overrides, error) {
	rows, err := s.ListOverrides(ctx, channelName)
	if err != nil {
		return filter.Overrides{}, err
	}
	return filter.NewOverrides(rows), nil
}
