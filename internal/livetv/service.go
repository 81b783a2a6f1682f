package livetv

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/netpersona/popcorn/internal/channel"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
	"github.com/netpersona/popcorn/internal/numbering"
	"github.com/netpersona/popcorn/internal/timeline"
)

// Service gathers channels, numbers and schedules for the exports
type Service struct {
	repos    *db.Repositories
	channels *channel.ChannelService
	numbers  *numbering.Service
}

// NewService creates a live TV export service
func NewService(repos *db.Repositories, channels *channel.ChannelService, numbers *numbering.Service) *Service {
	return &Service{
		repos:    repos,
		channels: channels,
		numbers:  numbers,
	}
}

// Channels returns every channel airing on today with its number, in name order
func (s *Service) Channels(ctx context.Context, today time.Time) ([]Channel, error) {
	names, err := s.channels.AllChannelNames(ctx, today)
	if err != nil {
		return nil, err
	}
	numbers, err := s.numbers.Numbers(ctx, names)
	if err != nil {
		return nil, err
	}

	out := make([]Channel, 0, len(names))
	for _, name := range names {
		out = append(out, Channel{Name: name, Number: numbers[name]})
	}
	return out, nil
}

// ChannelByNumber resolves a tuner number to its channel
func (s *Service) ChannelByNumber(ctx context.Context, number int, today time.Time) (*Channel, error) {
	channels, err := s.Channels(ctx, today)
	if err != nil {
		return nil, err
	}
	for i := range channels {
		if channels[i].Number == number {
			return &channels[i], nil
		}
	}
	return nil, channel.ErrChannelNotFound
}

// NowPlaying reports what a numbered channel is airing at now
func (s *Service) NowPlaying(ctx context.Context, number int, now time.Time) (*Channel, *timeline.ProgramPosition, error) {
	ch, err := s.ChannelByNumber(ctx, number, now)
	if err != nil {
		return nil, nil, err
	}
	slot, err := s.channels.CurrentProgram(ctx, ch.Name, now)
	if err != nil {
		return nil, nil, err
	}
	if slot == nil {
		return ch, nil, nil
	}
	return ch, timeline.Position(slot, now), nil
}

// Guide builds the XMLTV document for the week starting today
func (s *Service) Guide(ctx context.Context, now time.Time, baseURL string) (*TV, error) {
	channels, err := s.Channels(ctx, now)
	if err != nil {
		return nil, err
	}

	schedules := make(map[string]WeekSchedule, len(channels))
	for _, ch := range channels {
		slots, err := s.repos.Schedules.ListChannel(ctx, ch.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to load schedule for %s: %w", ch.Name, err)
		}
		schedules[ch.Name] = GroupByDay(slots)
	}

	tv := BuildGuide(channels, schedules, now, PosterURL(baseURL))

	logger.Log.Info().
		Int("channels", len(tv.Channels)).
		Int("programmes", len(tv.Programmes)).
		Int("days", GuideDays).
		Msg("Generated XMLTV guide")

	return tv, nil
}

// PosterURL returns a mapper to the poster proxy for entries that have artwork
func PosterURL(baseURL string) func(*models.CatalogEntry) string {
	base := strings.TrimRight(baseURL, "/")
	return func(e *models.CatalogEntry) string {
		if e.PosterURL == nil || *e.PosterURL == "" {
			return ""
		}
		return base + "/api/posters/" + e.SourceID
	}
}
