// Package channel provides the channel directory (genre and themed channels,
// their schedules and what is airing now) and themed channel administration.
package channel

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/filter"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
	"github.com/netpersona/popcorn/internal/numbering"
	"github.com/netpersona/popcorn/internal/timeline"
)

const maxNameLength = 255

// ChannelService handles business logic for channel operations
type ChannelService struct {
	repos   *db.Repositories
	numbers *numbering.Service
}

// NewChannelService creates a new channel service instance
func NewChannelService(repos *db.Repositories) *ChannelService {
	return &ChannelService{
		repos:   repos,
		numbers: numbering.NewService(repos),
	}
}

// ActiveThemedChannels returns the themed channels in season on today
func (s *ChannelService) ActiveThemedChannels(ctx context.Context, today time.Time) ([]*models.ThemedChannel, error) {
	channels, err := s.repos.ThemedChannels.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load themed channels: %w", err)
	}

	active := make([]*models.ThemedChannel, 0, len(channels))
	for _, ch := range channels {
		if IsInSeason(ch, today.Month()) {
			active = append(active, ch)
		}
	}
	return active, nil
}

// AllChannelNames returns every catalog genre plus the active themed channel
// names, sorted and de-duplicated.
func (s *ChannelService) AllChannelNames(ctx context.Context, today time.Time) ([]string, error) {
	genres, err := s.repos.Catalog.DistinctGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel names: %w", err)
	}
	active, err := s.ActiveThemedChannels(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel names: %w", err)
	}

	seen := make(map[string]struct{}, len(genres)+len(active))
	names := make([]string, 0, len(genres)+len(active))
	add := func(name string) {
		if _, ok := seen[name]; ok || name == "" {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for _, g := range genres {
		add(g)
	}
	for _, ch := range active {
		add(ch.Name)
	}

	sort.Strings(names)
	return names, nil
}

// ChannelSchedule returns a channel's slots for day, ordered by start
func (s *ChannelService) ChannelSchedule(ctx context.Context, channel string, day int) ([]*models.ScheduleSlot, error) {
	if day < 0 || day >= models.DaysPerWeek {
		return nil, ErrInvalidDay
	}
	slots, err := s.repos.Schedules.ListDay(ctx, channel, day)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel", channel).
			Int("day", day).
			Msg("Failed to load channel schedule")
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	return slots, nil
}

// CurrentProgram returns the slot airing on channel at now. When no slot
// contains the current minute the day's first slot is returned; a day without
// slots yields nil.
func (s *ChannelService) CurrentProgram(ctx context.Context, channel string, now time.Time) (*models.ScheduleSlot, error) {
	slots, err := s.ChannelSchedule(ctx, channel, timeline.DayOfWeek(now))
	if err != nil {
		return nil, err
	}
	return timeline.FindSlotAt(slots, timeline.MinuteOfDay(now)), nil
}

// CreateThemedChannel validates and stores a new themed channel
func (s *ChannelService) CreateThemedChannel(ctx context.Context, ch *models.ThemedChannel) (*models.ThemedChannel, error) {
	if err := s.validate(ctx, ch, uuid.Nil); err != nil {
		logger.Log.Warn().
			Err(err).
			Str("name", ch.Name).
			Msg("Themed channel creation failed validation")
		return nil, fmt.Errorf("failed to create themed channel: %w", err)
	}

	now := time.Now().UTC()
	ch.ID = uuid.New()
	ch.CreatedAt = now
	ch.UpdatedAt = now

	if err := s.repos.ThemedChannels.Create(ctx, ch); err != nil {
		if db.IsDuplicate(err) {
			return nil, fmt.Errorf("failed to create themed channel: %w", ErrDuplicateChannelName)
		}
		logger.Log.Error().
			Err(err).
			Str("name", ch.Name).
			Msg("Failed to create themed channel in database")
		return nil, fmt.Errorf("failed to create themed channel: %w", err)
	}

	logger.Log.Info().
		Str("channel_id", ch.ID.String()).
		Str("name", ch.Name).
		Int("start_month", ch.StartMonth).
		Int("end_month", ch.EndMonth).
		Msg("Themed channel created successfully")

	return ch, nil
}

// GetThemedChannel retrieves a themed channel by its ID
func (s *ChannelService) GetThemedChannel(ctx context.Context, id uuid.UUID) (*models.ThemedChannel, error) {
	ch, err := s.repos.ThemedChannels.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrChannelNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("channel_id", id.String()).
			Msg("Failed to get themed channel by ID")
		return nil, fmt.Errorf("failed to get themed channel: %w", err)
	}
	return ch, nil
}

// ListThemedChannels retrieves all themed channels, in season or not
func (s *ChannelService) ListThemedChannels(ctx context.Context) ([]*models.ThemedChannel, error) {
	channels, err := s.repos.ThemedChannels.List(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list themed channels")
		return nil, fmt.Errorf("failed to list themed channels: %w", err)
	}
	return channels, nil
}

// UpdateThemedChannel validates and saves changes. Overrides and the current
// week of slots follow a rename; the old name's number is released.
func (s *ChannelService) UpdateThemedChannel(ctx context.Context, ch *models.ThemedChannel) error {
	existing, err := s.GetThemedChannel(ctx, ch.ID)
	if err != nil {
		return err
	}

	if err := s.validate(ctx, ch, ch.ID); err != nil {
		logger.Log.Warn().
			Err(err).
			Str("channel_id", ch.ID.String()).
			Msg("Themed channel update failed validation")
		return fmt.Errorf("failed to update themed channel: %w", err)
	}

	if err := s.repos.ThemedChannels.Update(ctx, ch); err != nil {
		if db.IsDuplicate(err) {
			return fmt.Errorf("failed to update themed channel: %w", ErrDuplicateChannelName)
		}
		logger.Log.Error().
			Err(err).
			Str("channel_id", ch.ID.String()).
			Msg("Failed to update themed channel in database")
		return fmt.Errorf("failed to update themed channel: %w", err)
	}

	if existing.Name != ch.Name {
		if err := s.repos.Overrides.RenameChannel(ctx, existing.Name, ch.Name); err != nil {
			return fmt.Errorf("failed to move overrides to renamed channel: %w", err)
		}
		if err := s.retireName(ctx, existing.Name, ch.Name); err != nil {
			return err
		}
	}

	logger.Log.Info().
		Str("channel_id", ch.ID.String()).
		Str("name", ch.Name).
		Msg("Themed channel updated successfully")

	return nil
}

// DeleteThemedChannel removes a themed channel with its overrides, slots and
// channel number
func (s *ChannelService) DeleteThemedChannel(ctx context.Context, id uuid.UUID) error {
	existing, err := s.GetThemedChannel(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repos.ThemedChannels.Delete(ctx, id); err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", id.String()).
			Msg("Failed to delete themed channel from database")
		return fmt.Errorf("failed to delete themed channel: %w", err)
	}
	if err := s.repos.Overrides.DeleteByChannel(ctx, existing.Name); err != nil {
		return fmt.Errorf("failed to delete overrides: %w", err)
	}
	if err := s.retireName(ctx, existing.Name, ""); err != nil {
		return err
	}

	logger.Log.Info().
		Str("channel_id", id.String()).
		Str("name", existing.Name).
		Msg("Themed channel deleted successfully")

	return nil
}

// retireName hands the slots of a themed channel name that is going away to
// renamedTo, or drops them when renamedTo is empty, and releases the name's
// number. Genre channels own their slots and number, so a name shared with a
// genre is left alone and the genre's slots are never moved onto a rename.
func (s *ChannelService) retireName(ctx context.Context, name, renamedTo string) error {
	genres, err := s.repos.Catalog.DistinctGenres(ctx)
	if err != nil {
		return fmt.Errorf("failed to check genre channels: %w", err)
	}
	isGenre := func(n string) bool {
		for _, g := range genres {
			if g == n {
				return true
			}
		}
		return false
	}
	if isGenre(name) {
		return nil
	}

	if renamedTo != "" && !isGenre(renamedTo) {
		if err := s.repos.Schedules.RenameChannel(ctx, name, renamedTo); err != nil {
			return err
		}
	} else if _, err := s.repos.Schedules.DeleteChannel(ctx, name); err != nil {
		return err
	}

	if err := s.numbers.Release(ctx, name); err != nil {
		return err
	}

	logger.Log.Debug().
		Str("channel", name).
		Str("renamed_to", renamedTo).
		Msg("Retired themed channel name")

	return nil
}

// SeedDefaults creates the default holiday channels when none exist yet.
// It returns how many channels were created.
func (s *ChannelService) SeedDefaults(ctx context.Context) (int, error) {
	count, err := s.repos.ThemedChannels.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check themed channels: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, ch := range DefaultThemedChannels() {
		if err := s.repos.ThemedChannels.Create(ctx, ch); err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", ch.Name, err)
		}
		created++
	}

	logger.Log.Info().
		Int("count", created).
		Msg("Seeded default holiday channels")

	return created, nil
}

// validate normalizes and checks a themed channel. excludeID skips the
// channel itself when checking name uniqueness.
func (s *ChannelService) validate(ctx context.Context, ch *models.ThemedChannel, excludeID uuid.UUID) error {
	ch.Name = strings.TrimSpace(ch.Name)
	if ch.Name == "" || len(ch.Name) > maxNameLength {
		return ErrInvalidName
	}
	if ch.StartMonth < 1 || ch.StartMonth > 12 || ch.EndMonth < 1 || ch.EndMonth > 12 {
		return ErrInvalidMonth
	}

	mode, ok := filter.NormalizeMode(ch.FilterMode)
	if !ok {
		return ErrInvalidFilterMode
	}
	ch.FilterMode = mode

	return s.validateNameUniqueness(ctx, ch.Name, excludeID)
}

// validateNameUniqueness checks if a channel name is unique (case-insensitive)
func (s *ChannelService) validateNameUniqueness(ctx context.Context, name string, excludeID uuid.UUID) error {
	existing, err := s.repos.ThemedChannels.GetByName(ctx, name)
	if err != nil {
		if db.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to validate name uniqueness: %w", err)
	}
	if existing.ID != excludeID {
		return ErrDuplicateChannelName
	}
	return nil
}
