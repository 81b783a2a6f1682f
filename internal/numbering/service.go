package numbering

import (
	"context"
	"fmt"
	"sync"

	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
)

// Service hands out channel numbers and remembers them, so a channel keeps
// its number across restarts and schedule rebuilds.
type Service struct {
	repos  *db.Repositories
	ranges []Range
	mu     sync.Mutex
}

// NewService creates a numbering service with the default category ranges
func NewService(repos *db.Repositories) *Service {
	return &Service{
		repos:  repos,
		ranges: DefaultRanges(),
	}
}

// Numbers returns the number for each name, assigning and storing numbers for
// names seen for the first time. Names are assigned in the order given.
func (s *Service) Numbers(ctx context.Context, names []string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repos.ChannelNumbers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load channel numbers: %w", err)
	}

	byName := make(map[string]int, len(existing))
	used := make(map[int]bool, len(existing))
	for _, cn := range existing {
		byName[cn.Name] = cn.Number
		used[cn.Number] = true
	}

	out := make(map[string]int, len(names))
	for _, name := range names {
		if n, ok := byName[name]; ok {
			out[name] = n
			continue
		}

		n := AssignNumber(name, used, s.ranges)
		record := &models.ChannelNumber{Name: name, Number: n}
		if err := s.repos.ChannelNumbers.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to store number for %s: %w", name, err)
		}

		logger.Log.Info().
			Str("channel", name).
			Int("number", n).
			Msg("Assigned channel number")

		byName[name] = n
		used[n] = true
		out[name] = n
	}

	return out, nil
}

// NumberFor returns the number for a single channel
func (s *Service) NumberFor(ctx context.Context, name string) (int, error) {
	numbers, err := s.Numbers(ctx, []string{name})
	if err != nil {
		return 0, err
	}
	return numbers[name], nil
}

// Release frees the number held by name. Releasing an unknown name is a no-op.
func (s *Service) Release(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repos.ChannelNumbers.Delete(ctx, name); err != nil && !db.IsNotFound(err) {
		return fmt.Errorf("failed to release channel number: %w", err)
	}
	return nil
}
