// Package timeline packs catalog entries into back-to-back daily slots and
// answers what is airing at a given minute.
package timeline

import (
	"math/rand/v2"

	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
)

// PackDay fills one channel's day with shuffled entries, round-robin, until
// minute 1440. The last slot is clipped to end exactly at 24:00.
// This is a pure function with no I/O. A nil rng uses the global source.
//
// Entries with a non-positive duration are skipped and logged. When no
// entries remain the result is empty, which is a valid schedule.
func PackDay(channel string, day int, entries []*models.CatalogEntry, rng *rand.Rand) []*models.ScheduleSlot {
	valid := make([]*models.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Schedulable() {
			logger.Log.Warn().
				Str("channel", channel).
				Int("day", day).
				Str("source_id", e.SourceID).
				Str("title", e.Title).
				Int("duration", e.Duration).
				Msg("Skipping entry with invalid duration")
			continue
		}
		valid = append(valid, e)
	}
	if len(valid) == 0 {
		return nil
	}

	shuffle(valid, rng)

	slots := make([]*models.ScheduleSlot, 0, models.MinutesPerDay/minDuration(valid)+1)
	cursor := 0
	for i := 0; cursor < models.MinutesPerDay; i++ {
		e := valid[i%len(valid)]
		end := min(cursor+e.Duration, models.MinutesPerDay)
		slots = append(slots, models.NewScheduleSlot(channel, day, cursor, end, e))
		cursor = end
	}
	return slots
}

// shuffle is a uniform Fisher-Yates shuffle
func shuffle(entries []*models.CatalogEntry, rng *rand.Rand) {
	swap := func(i, j int) { entries[i], entries[j] = entries[j], entries[i] }
	if rng == nil {
		rand.Shuffle(len(entries), swap)
		return
	}
	rng.Shuffle(len(entries), swap)
}

func minDuration(entries []*models.CatalogEntry) int {
	m := entries[0].Duration
	for _, e := range entries[1:] {
		m = min(m, e.Duration)
	}
	return m
}
