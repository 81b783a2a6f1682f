package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/metrics"
	"github.com/netpersona/popcorn/internal/models"
)

var (
	// ErrNoSource indicates no catalog source is configured
	ErrNoSource = errors.New("no catalog source configured")

	// ErrRebuildFailed indicates the catalog was pruned but the schedule could not be rebuilt
	ErrRebuildFailed = errors.New("catalog synced but schedule rebuild failed")
)

// IsRebuildFailed checks if the error is a post-prune rebuild failure
func IsRebuildFailed(err error) bool {
	return errors.Is(err, ErrRebuildFailed)
}

// PruneHook runs after a sync removed catalog rows. Pruning cascades to the
// schedule slots that referenced those rows, so the hook rebuilds schedules.
type PruneHook func(ctx context.Context) error

// SyncResult summarizes one sync
type SyncResult struct {
	Items    int           `json:"items"`
	Rows     int           `json:"rows"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Pruned   int64         `json:"pruned"`
	Rebuilt  bool          `json:"schedule_rebuilt"`
	Duration time.Duration `json:"duration"`
}

// Syncer mirrors a Source into the catalog table
type Syncer struct {
	repos   *db.Repositories
	source  Source
	onPrune PruneHook
	now     func() time.Time
	last    time.Time
	mu      sync.Mutex
}

// NewSyncer creates a syncer. A nil source makes Sync return ErrNoSource.
func NewSyncer(repos *db.Repositories, source Source) *Syncer {
	return &Syncer{
		repos:  repos,
		source: source,
		now:    time.Now,
	}
}

// OnPrune registers the hook run after rows were pruned
func (s *Syncer) OnPrune(hook PruneHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPrune = hook
}

// Sync expands every item into one row per genre, upserts the rows and
// removes rows the source no longer reports. Items with a non-positive
// duration are skipped. An empty listing leaves the catalog untouched.
func (s *Syncer) Sync(ctx context.Context) (*SyncResult, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Truncated so every row written by this run compares equal to started.
	// Each run gets a later stamp than the previous one, or rows from a
	// sync in the same second would survive the prune.
	started := s.now().UTC().Truncate(time.Second)
	if !started.After(s.last) {
		started = s.last.Add(time.Second)
	}
	s.last = started

	items, err := s.source.ListItems(ctx)
	if err != nil {
		metrics.RecordCatalogSync("failed", 0)
		logger.Log.Error().
			Err(err).
			Msg("Failed to list catalog source items")
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}

	result := &SyncResult{Items: len(items)}
	if len(items) == 0 {
		logger.Log.Warn().Msg("Catalog source returned no items, keeping existing catalog")
		metrics.RecordCatalogSync("empty", 0)
		return result, nil
	}

	for _, item := range items {
		if strings.TrimSpace(item.SourceID) == "" || strings.TrimSpace(item.Title) == "" {
			logger.Log.Warn().
				Str("source_id", item.SourceID).
				Str("title", item.Title).
				Msg("Skipping catalog item without id or title")
			result.Skipped++
			continue
		}
		if item.Duration <= 0 {
			logger.Log.Warn().
				Str("source_id", item.SourceID).
				Str("title", item.Title).
				Int("duration", item.Duration).
				Msg("Skipping catalog item with invalid duration")
			result.Skipped++
			continue
		}

		for _, genre := range NormalizeGenres(item.Genres, models.UnknownGenre) {
			entry := toEntry(item, genre, started)
			if err := s.repos.Catalog.Upsert(ctx, entry); err != nil {
				logger.Log.Warn().
					Err(err).
					Str("source_id", item.SourceID).
					Str("genre", genre).
					Msg("Failed to store catalog entry")
				result.Failed++
				continue
			}
			result.Rows++
		}
	}

	pruned, err := s.repos.Catalog.DeleteUpdatedBefore(ctx, started)
	if err != nil {
		metrics.RecordCatalogSync("failed", 0)
		return nil, fmt.Errorf("failed to prune catalog: %w", err)
	}
	result.Pruned = pruned
	result.Duration = s.now().Sub(started)
	if result.Duration < 0 {
		result.Duration = 0
	}

	metrics.RecordCatalogSync("success", result.Rows)

	logger.Log.Info().
		Int("items", result.Items).
		Int("rows", result.Rows).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int64("pruned", result.Pruned).
		Msg("Catalog sync complete")

	if pruned > 0 && s.onPrune != nil {
		if err := s.onPrune(ctx); err != nil {
			logger.Log.Error().
				Err(err).
				Int64("pruned", pruned).
				Msg("Failed to rebuild schedules after pruning catalog")
			return result, fmt.Errorf("%w: %w", ErrRebuildFailed, err)
		}
		result.Rebuilt = true
	}

	return result, nil
}

func toEntry(item Item, genre string, at time.Time) *models.CatalogEntry {
	entry := models.NewCatalogEntry(strings.TrimSpace(item.SourceID), strings.TrimSpace(item.Title), genre, item.Duration)
	entry.Year = item.Year
	entry.ContentRating = item.ContentRating
	entry.Summary = item.Summary
	entry.AudienceRating = item.AudienceRating
	entry.PosterURL = item.PosterURL
	entry.CreatedAt = at
	entry.UpdatedAt = at
	return entry
}
