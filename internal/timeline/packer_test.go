package timeline

import (
	"math/rand/v2"
	"testing"

	"github.com/netpersona/popcorn/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comedy(durations ...int) []*models.CatalogEntry {
	entries := make([]*models.CatalogEntry, len(durations))
	for i, d := range durations {
		entries[i] = models.NewCatalogEntry(string(rune('a'+i)), "Movie "+string(rune('A'+i)), "Comedy", d)
	}
	return entries
}

// assertCoverage checks slots are contiguous and exactly cover the day
func assertCoverage(t *testing.T, slots []*models.ScheduleSlot) {
	t.Helper()
	require.NotEmpty(t, slots)
	assert.Equal(t, 0, slots[0].StartMinute)
	total := 0
	for i, s := range slots {
		assert.Greater(t, s.EndMinute, s.StartMinute, "slot %d is empty", i)
		if i > 0 {
			assert.Equal(t, slots[i-1].EndMinute, s.StartMinute, "gap or overlap before slot %d", i)
		}
		total += s.Length()
	}
	assert.Equal(t, models.MinutesPerDay, slots[len(slots)-1].EndMinute)
	assert.Equal(t, models.MinutesPerDay, total)
}

func TestPackDay_RoundTripScenario(t *testing.T) {
	entries := comedy(90, 45, 200)
	allowed := map[string]int{}
	for _, e := range entries {
		allowed[e.ID.String()] = e.Duration
	}

	slots := PackDay("Comedy", 0, entries, rand.New(rand.NewPCG(1, 2)))

	assertCoverage(t, slots)
	for i, s := range slots {
		d, ok := allowed[s.EntryID.String()]
		require.True(t, ok, "slot uses an entry outside the list")
		if i < len(slots)-1 {
			assert.Equal(t, d, s.Length(), "only the last slot may be clipped")
		} else {
			assert.LessOrEqual(t, s.Length(), d)
		}
		assert.Equal(t, "Comedy", s.Channel)
		assert.Equal(t, 0, s.Day)
	}
}

func TestPackDay_CoverageProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	for trial := 0; trial < 200; trial++ {
		n := rng.IntN(12) + 1
		durations := make([]int, n)
		for i := range durations {
			durations[i] = rng.IntN(300) + 1
		}
		slots := PackDay("Any", trial%7, comedy(durations...), rng)
		assertCoverage(t, slots)
	}
}

func TestPackDay_RoundRobinReplaysShuffledOrder(t *testing.T) {
	entries := comedy(100, 200, 300)
	slots := PackDay("Comedy", 1, entries, rand.New(rand.NewPCG(3, 4)))

	require.Greater(t, len(slots), 3)
	for i := 3; i < len(slots); i++ {
		assert.Equal(t, slots[i-3].EntryID, slots[i].EntryID)
	}
}

func TestPackDay_EmptyAndInvalid(t *testing.T) {
	assert.Empty(t, PackDay("Empty", 0, nil, nil))
	assert.Empty(t, PackDay("Broken", 0, comedy(0, -5), nil))

	slots := PackDay("Mixed", 0, comedy(0, 720, -1), nil)
	require.Len(t, slots, 2)
	assert.Equal(t, 720, slots[0].Length())
	assert.Equal(t, 720, slots[1].Length())
}

func TestPackDay_LongEntryClipped(t *testing.T) {
	slots := PackDay("Epic", 6, comedy(2000), nil)
	require.Len(t, slots, 1)
	assert.Equal(t, 0, slots[0].StartMinute)
	assert.Equal(t, models.MinutesPerDay, slots[0].EndMinute)
	assert.Equal(t, "24:00", slots[0].EndTime())
}

func TestPackDay_ShuffleIsUniformEnough(t *testing.T) {
	entries := comedy(60, 60, 60, 60)
	first := map[string]int{}
	rng := rand.New(rand.NewPCG(9, 9))
	const runs = 4000
	for i := 0; i < runs; i++ {
		slots := PackDay("Comedy", 0, entries, rng)
		first[slots[0].EntryID.String()]++
	}

	require.Len(t, first, 4)
	for _, count := range first {
		assert.InDelta(t, runs/4, count, runs/10)
	}
}
