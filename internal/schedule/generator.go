// Package schedule decides when channel schedules are stale and rebuilds the
// week of slots for every genre and in-season themed channel.
package schedule

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/netpersona/popcorn/internal/channel"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/filter"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/metrics"
	"github.com/netpersona/popcorn/internal/models"
	"github.com/netpersona/popcorn/internal/timeline"
)

// Result summarizes one regeneration call
type Result struct {
	Skipped        bool          `json:"skipped"`
	Forced         bool          `json:"forced"`
	Frequency      string        `json:"frequency"`
	DaysElapsed    int           `json:"days_elapsed"`
	GenreChannels  int           `json:"genre_channels"`
	ThemedChannels int           `json:"themed_channels"`
	Days           int           `json:"days"`
	SlotsWritten   int           `json:"slots_written"`
	SlotsCleared   int64         `json:"slots_cleared"`
	Warnings       int           `json:"warnings"`
	Failures       []Failure     `json:"failures,omitempty"`
	Duration       time.Duration `json:"duration"`
	RegeneratedOn  *time.Time    `json:"regenerated_on,omitempty"`
}

// Failure is a channel/day that could not be scheduled
type Failure struct {
	Channel string `json:"channel"`
	Day     int    `json:"day"`
	Error   string `json:"error"`
}

// slotWriter is the part of the schedule repository a rebuild writes through
type slotWriter interface {
	DeleteAll(ctx context.Context) (int64, error)
	ReplaceDay(ctx context.Context, channel string, day int, slots []*models.ScheduleSlot) error
}

// Generator rebuilds schedules for all channels
type Generator struct {
	repos            *db.Repositories
	slots            slotWriter
	channels         *channel.ChannelService
	overrides        *channel.OverrideService
	engine           *filter.Engine
	defaultFrequency string

	now func() time.Time
	rng *rand.Rand
}

// NewGenerator creates a generator. defaultFrequency seeds the regeneration
// state the first time it is created.
func NewGenerator(repos *db.Repositories, engine *filter.Engine, defaultFrequency string) *Generator {
	return &Generator{
		repos:            repos,
		slots:            repos.Schedules,
		channels:         channel.NewChannelService(repos),
		overrides:        channel.NewOverrideService(repos),
		engine:           engine,
		defaultFrequency: defaultFrequency,
		now:              time.Now,
	}
}

// RegenerateAll rebuilds the week of schedules when forced or when the stored
// frequency says the current schedule is stale. A run that is not due
// returns a skipped result and modifies nothing.
//
// Failures for a single channel/day are logged and counted as warnings.
// Failing to clear the old schedule or to record the run date is returned as
// an error. Cancelling ctx stops a run only before the old schedule is
// cleared; after that the week is rebuilt and recorded regardless.
func (g *Generator) RegenerateAll(ctx context.Context, force bool) (*Result, error) {
	started := time.Now()
	today := g.now()

	state, err := g.repos.Regeneration.Get(ctx, g.defaultFrequency)
	if err != nil {
		metrics.RecordRegeneration("failed")
		return nil, fmt.Errorf("failed to load regeneration state: %w", err)
	}

	due, elapsed := IsDue(state, today)
	result := &Result{
		Forced:      force,
		Frequency:   state.Frequency,
		DaysElapsed: elapsed,
	}

	if !force && !due {
		logger.Log.Info().
			Str("frequency", state.Frequency).
			Int("days_elapsed", elapsed).
			Msg("Schedule is current, skipping regeneration")
		metrics.RecordRegeneration("skipped")
		result.Skipped = true
		return result, nil
	}

	// Everything needed is read before the old schedule is cleared
	entries, err := g.repos.Catalog.List(ctx)
	if err != nil {
		metrics.RecordRegeneration("failed")
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	active, err := g.channels.ActiveThemedChannels(ctx, today)
	if err != nil {
		metrics.RecordRegeneration("failed")
		return nil, fmt.Errorf("failed to load themed channels: %w", err)
	}

	if err := ctx.Err(); err != nil {
		metrics.RecordRegeneration("failed")
		return nil, fmt.Errorf("regeneration cancelled before clearing schedule: %w", err)
	}

	cleared, err := g.slots.DeleteAll(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to clear existing schedule, aborting regeneration")
		metrics.RecordRegeneration("failed")
		return nil, fmt.Errorf("%w: %w", ErrClearFailed, err)
	}
	result.SlotsCleared = cleared
	ctx = context.WithoutCancel(ctx)

	byGenre, genres := partitionByGenre(entries)
	result.GenreChannels = len(genres)
	result.ThemedChannels = len(active)

	logger.Log.Info().
		Bool("forced", force).
		Str("frequency", state.Frequency).
		Int("catalog_entries", len(entries)).
		Int("genre_channels", len(genres)).
		Int("themed_channels", len(active)).
		Int64("slots_cleared", cleared).
		Msg("Regenerating schedules")

	for day := 0; day < models.DaysPerWeek; day++ {
		for _, genre := range genres {
			written, err := g.scheduleDay(ctx, genre, day, byGenre[genre])
			g.tally(result, genre, day, written, err)
		}

		for _, ch := range active {
			if _, clash := byGenre[ch.Name]; clash && day == 0 {
				logger.Log.Warn().
					Str("channel", ch.Name).
					Msg("Themed channel shares a genre name and replaces its schedule")
			}
			eligible, err := g.eligible(ctx, ch, entries)
			if err != nil {
				g.tally(result, ch.Name, day, 0, err)
				continue
			}
			written, err := g.scheduleDay(ctx, ch.Name, day, eligible)
			g.tally(result, ch.Name, day, written, err)
		}
		result.Days++
	}

	if err := g.repos.Regeneration.MarkRegenerated(ctx, today); err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Schedules written but regeneration date not recorded")
		metrics.RecordRegeneration("failed")
		return nil, fmt.Errorf("%w: %w", ErrStateCommit, err)
	}

	on := dateOf(today)
	result.RegeneratedOn = &on
	result.Duration = time.Since(started)

	metrics.RecordRegenerationResult(result.GenreChannels, result.ThemedChannels,
		result.SlotsWritten, result.Warnings, result.Duration)

	logger.Log.Info().
		Int("genre_channels", result.GenreChannels).
		Int("themed_channels", result.ThemedChannels).
		Int("slots_written", result.SlotsWritten).
		Int("warnings", result.Warnings).
		Dur("duration", result.Duration).
		Msg("Schedule regeneration complete")

	return result, nil
}

// EligibleEntriesForChannel returns the catalog entries the filter engine
// accepts for a themed channel, one per source id.
func (g *Generator) EligibleEntriesForChannel(ctx context.Context, ch *models.ThemedChannel) ([]*models.CatalogEntry, error) {
	entries, err := g.repos.Catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return g.eligible(ctx, ch, entries)
}

func (g *Generator) eligible(ctx context.Context, ch *models.ThemedChannel, entries []*models.CatalogEntry) ([]*models.CatalogEntry, error) {
	overrides, err := g.overrides.Overrides(ctx, ch.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}
	return g.engine.EligibleEntries(ctx, ch, entries, overrides), nil
}

// Explain evaluates every catalog row for a themed channel and reports the
// decision for each, for the "test this channel" view.
func (g *Generator) Explain(ctx context.Context, ch *models.ThemedChannel) ([]Explanation, error) {
	entries, err := g.repos.Catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	overrides, err := g.overrides.Overrides(ctx, ch.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}

	criteria := filter.ParseCriteria(ch)
	out := make([]Explanation, 0, len(entries))
	for _, entry := range entries {
		out = append(out, Explanation{
			Entry:    entry,
			Decision: g.engine.Evaluate(ctx, criteria, entry, overrides),
		})
	}
	return out, nil
}

// Explanation pairs a catalog row with its filter decision
type Explanation struct {
	Entry    *models.CatalogEntry `json:"entry"`
	Decision filter.Decision      `json:"decision"`
}

// scheduleDay packs and persists one channel/day. A panic while packing is
// converted to an error so the remaining channels still run.
func (g *Generator) scheduleDay(ctx context.Context, name string, day int, entries []*models.CatalogEntry) (written int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while scheduling: %v", r)
		}
	}()

	slots := timeline.PackDay(name, day, entries, g.rng)
	if err := g.slots.ReplaceDay(ctx, name, day, slots); err != nil {
		return 0, err
	}
	return len(slots), nil
}

func (g *Generator) tally(result *Result, name string, day, written int, err error) {
	if err == nil {
		result.SlotsWritten += written
		return
	}
	logger.Log.Warn().
		Err(err).
		Str("channel", name).
		Int("day", day).
		Msg("Failed to schedule channel day")
	result.Warnings++
	result.Failures = append(result.Failures, Failure{Channel: name, Day: day, Error: err.Error()})
}

// partitionByGenre groups entries by genre and returns the genres sorted
func partitionByGenre(entries []*models.CatalogEntry) (map[string][]*models.CatalogEntry, []string) {
	byGenre := make(map[string][]*models.CatalogEntry)
	for _, e := range entries {
		byGenre[e.Genre] = append(byGenre[e.Genre], e)
	}
	genres := make([]string, 0, len(byGenre))
	for genre := range byGenre {
		genres = append(genres, genre)
	}
	sort.Strings(genres)
	return byGenre, genres
}
