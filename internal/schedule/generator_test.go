package schedule

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/filter"
	"github.com/netpersona/popcorn/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestGenerator creates a generator over a migrated temp database with
// its clock fixed at now
func setupTestGenerator(t *testing.T, frequency string, now time.Time) (*Generator, *db.Repositories, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Open(tmpFile, "file://../../migrations")
	require.NoError(t, err)

	repos := db.NewRepositories(database)
	gen := NewGenerator(repos, filter.NewEngine(nil), frequency)
	gen.now = func() time.Time { return now }
	gen.rng = rand.New(rand.NewPCG(7, 11))

	cleanup := func() {
		_ = database.Close()
	}
	return gen, repos, cleanup
}

func addEntry(t *testing.T, repos *db.Repositories, sourceID, title, genre string, duration int) *models.CatalogEntry {
	t.Helper()
	entry := models.NewCatalogEntry(sourceID, title, genre, duration)
	require.NoError(t, repos.Catalog.Upsert(context.Background(), entry))
	return entry
}

// assertCoversDay checks slots are contiguous from 0 to 1440
func assertCoversDay(t *testing.T, slots []*models.ScheduleSlot) {
	t.Helper()
	require.NotEmpty(t, slots)
	cursor := 0
	for _, s := range slots {
		assert.Equal(t, cursor, s.StartMinute)
		assert.Greater(t, s.EndMinute, s.StartMinute)
		cursor = s.EndMinute
	}
	assert.Equal(t, models.MinutesPerDay, cursor)
}

// 2025-10-15 is a Wednesday in the Halloween season
var october15 = time.Date(2025, time.October, 15, 9, 0, 0, 0, time.UTC)

func TestRegenerateAll_FirstRunFillsEveryDay(t *testing.T) {
	gen, repos, cleanup := setupTestGenerator(t, models.FrequencyWeekly, october15)
	defer cleanup()
	ctx := context.Background()

	addEntry(t, repos, "1", "Long", "Horror", 90)
	addEntry(t, repos, "2", "Short", "Horror", 45)
	addEntry(t, repos, "3", "Epic", "Horror", 200)
	addEntry(t, repos, "4", "Airplane!", "Comedy", 88)

	result, err := gen.RegenerateAll(ctx, false)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 2, result.GenreChannels)
	assert.Equal(t, 0, result.ThemedChannels)
	assert.Equal(t, 7, result.Days)
	assert.Zero(t, result.Warnings)
	require.NotNil(t, result.RegeneratedOn)

	for day := 0; day < models.DaysPerWeek; day++ {
		horror, err := repos.Schedules.ListDay(ctx, "Horror", day)
		require.NoError(t, err)
		assertCoversDay(t, horror)

		comedy, err := repos.Schedules.ListDay(ctx, "Comedy", day)
		require.NoError(t, err)
		assertCoversDay(t, comedy)
		assert.Len(t, comedy, 17)
	}

	total, err := repos.Schedules.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(result.SlotsWritten), total)

	state, err := repos.Regeneration.Get(ctx, models.FrequencyWeekly)
	require.NoError(t, err)
	require.NotNil(t, state.LastRegeneratedOn)
	assert.Equal(t, 15, state.LastRegeneratedOn.UTC().Day())
}

func TestRegenerateAll_NotDueLeavesScheduleUntouched(t *testing.T) {
	gen, repos, cleanup := setupTestGenerator(t, models.FrequencyWeekly, october15)
	defer cleanup()
	ctx := context.Background()

	addEntry(t, repos, "1", "Alien", "Horror", 117)

	_, err := gen.RegenerateAll(ctx, false)
	require.NoError(t, err)
	before, err := repos.Schedules.ListChannel(ctx, "Horror")
	require.NoError(t, err)

	gen.now = func() time.Time { return october15.AddDate(0, 0, 6) }
	result, err := gen.RegenerateAll(ctx, false)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, 6, result.DaysElapsed)

	after, err := repos.Schedules.ListChannel(ctx, "Horror")
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
	}
}

func TestRegenerateAll_DueAfterThreshold(t *testing.T) {
	gen, repos, cleanup := setupTestGenerator(t, models.FrequencyDaily, october15)
	defer cleanup()
	ctx := context.Background()

	addEntry(t, repos, "1", "Alien", "Horror", 117)

	_, err := gen.RegenerateAll(ctx, false)
	require.NoError(t, err)

	gen.now = func() time.Time { return october15.AddDate(0, 0, 1) }
	result, err := gen.RegenerateAll(ctx, false)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 1, result.DaysElapsed)
}

func TestRegenerateAll_ForceIgnoresStaleness(t *testing.T) {
	gen, repos, cleanup := setupTestGenerator(t, models.FrequencyMonthly, october15)
	defer cleanup()
	ctx := context.Background()

	addEntry(t, repos, "1", "Alien", "Horror", 117)
	_, err := gen.RegenerateAll(ctx, false)
	require.NoError(t, err)

	addEntry(t, repos, "2", "Airplane!", "Comedy", 88)
	result, err := gen.RegenerateAll(ctx, true)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.True(t, result.Forced)
	assert.Equal(t, 2, result.GenreChannels)

	comedy, err := repos.Schedules.ListDay(ctx, "Comedy", 3)
	require.NoError(t, err)
	assertCoversDay(t, comedy)
}

func TestRegenerateAll_EmptyCatalog(t *testing.T) {
	gen, repos, cleanup := setupTestGenerator(t, models.FrequencyWeekly, october15)
	defer cleanup()
	ctx := context.Background()

	result, err := gen.RegenerateAll(ctx, false)
	require.NoError(t, err)
	assert.Zero(t, result.SlotsWritten)
	assert.Zero(t, result.GenreChannels)

	state, err := repos.Regeneration.Get(ctx, models.FrequencyWeekly)
	require.NoError(t, err)
	assert.NotNil(t, state.LastRegeneratedOn)
}

func TestRegenerateAll_ThemedChannelsInSeason(t *testing.T) {
	gen, repos, cleanup := setupTestGenerator(t, models.FrequencyWeekly, october15)
	defer cleanup()
	ctx := context.Background()

	addEntry(t, repos, "1", "Halloween", "Horror", 91)
	addEntry(t, repos, "2", "The Conjuring", "Horror", 112)
	addEntry(t, repos, "2", "The Conjuring", "Thriller", 112)
	addEntry(t, repos, "3", "Paddington", "Family", 95)
	addEntry(t, repos, "4", "Elf", "Comedy", 97)

	spooky := models.NewThemedChannel("Spooky", 10, 10)
	spooky.GenreFilter = "horror,thriller"
	spooky.FilterMode = models.FilterModeAny
	require.NoError(t, repos.ThemedChannels.Create(ctx, spooky))

	xmas := models.NewThemedChannel("Christmas", 12, 12)
	xmas.Keywords = "elf"
	xmas.FilterMode = models.FilterModeAny
	require.NoError(t, repos.ThemedChannels.Create(ctx, xmas))

	require.NoError(t, repos.Overrides.Set(ctx, models.NewMovieOverride("Spooky", "1", models.OverrideBlacklist)))

	result, err := gen.RegenerateAll(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ThemedChannels)

	slots, err := repos.Schedules.ListDay(ctx, "Spooky", 0)
	require.NoError(t, err)
	assertCoversDay(t, slots)
	for _, s := range slots {
		require.NotNil(t, s.Entry)
		assert.Equal(t, "2", s.Entry.SourceID)
	}

	xmasSlots, err := repos.Schedules.ListDay(ctx, "Christmas", 0)
	require.NoError(t, err)
	assert.Empty(t, xmasSlots)
}

func TestRegenerateAll_ClearsChannelsThatDisappeared(t *testing.T) {
	gen, repos, cleanup := setupTestGenerator(t, models.FrequencyWeekly, october15)
	defer cleanup()
	ctx := context.Background()

	addEntry(t, repos, "1", "Alien", "Horror", 117)
	_, err := gen.RegenerateAll(ctx, true)
	require.NoError(t, err)

	// Out-of-band slots for a channel that no longer exists
	entries, err := repos.Catalog.List(ctx)
	require.NoError(t, err)
	stale := []*models.ScheduleSlot{models.NewScheduleSlot("Retired", 0, 0, 1440, entries[0])}
	require.NoError(t, repos.Schedules.ReplaceDay(ctx, "Retired", 0, stale))

	result, err := gen.RegenerateAll(ctx, true)
	require.NoError(t, err)
	assert.Positive(t, result.SlotsCleared)

	retired, err := repos.Schedules.ListDay(ctx, "Retired", 0)
	require.NoError(t, err)
	assert.Empty(t, retired)
}

func TestEligibleEntriesForChannel_DeduplicatesBySource(t *testing.T) {
	gen, repos, cleanup := setupTestGenerator(t, models.FrequencyWeekly, october15)
	defer cleanup()
	ctx := context.Background()

	addEntry(t, repos, "2", "The Conjuring", "Horror", 112)
	addEntry(t, repos, "2", "The Conjuring", "Thriller", 112)
	addEntry(t, repos, "3", "Paddington", "Family", 95)

	ch := models.NewThemedChannel("Spooky", 10, 10)
	ch.GenreFilter = "horror,thriller"
	ch.FilterMode = models.FilterModeAny

	eligible, err := gen.EligibleEntriesForChannel(ctx, ch)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, "2", eligible[0].SourceID)

	explained, err := gen.Explain(ctx, ch)
	require.NoError(t, err)
	assert.Len(t, explained, 3)
	for _, e := range explained {
		assert.Equal(t, e.Entry.SourceID == "2", e.Decision.Eligible)
	}
}

// faultySlots wraps the schedule repository and fails selected writes
type faultySlots struct {
	slotWriter
	clearErr    error
	failChannel string
	failDay     int
	afterClear  func()
}

func (f *faultySlots) DeleteAll(ctx context.Context) (int64, error) {
	if f.clearErr != nil {
		return 0, f.clearErr
	}
	n, err := f.slotWriter.DeleteAll(ctx)
	if f.afterClear != nil {
		f.afterClear()
	}
	return n, err
}

func (f *faultySlots) ReplaceDay(ctx context.Context, channel string, day int, slots []*models.ScheduleSlot) error {
	if channel == f.failChannel && day == f.failDay {
		return errors.New("database is locked")
	}
	return f.slotWriter.ReplaceDay(ctx, channel, day, slots)
}

func TestRegenerateAll_ChannelDayFailureIsAWarning(t *testing.T) {
	gen, repos, cleanup := setupTestGenerator(t, models.FrequencyWeekly, october15)
	defer cleanup()
	ctx := context.Background()

	addEntry(t, repos, "1", "Alien", "Horror", 117)
	addEntry(t, repos, "2", "Airplane!", "Comedy", 88)
	gen.slots = &faultySlots{slotWriter: repos.Schedules, failChannel: "Comedy", failDay: 3}

	result, err := gen.RegenerateAll(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Warnings)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "Comedy", result.Failures[0].Channel)
	assert.Equal(t, 3, result.Failures[0].Day)
	assert.Contains(t, result.Failures[0].Error, "database is locked")

	for day := 0; day < models.DaysPerWeek; day++ {
		horror, err := repos.Schedules.ListDay(ctx, "Horror", day)
		require.NoError(t, err)
		assertCoversDay(t, horror)

		comedy, err := repos.Schedules.ListDay(ctx, "Comedy", day)
		require.NoError(t, err)
		if day == 3 {
			assert.Empty(t, comedy)
			continue
		}
		assertCoversDay(t, comedy)
	}

	total, err := repos.Schedules.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(result.SlotsWritten), total)

	state, err := repos.Regeneration.Get(ctx, models.FrequencyWeekly)
	require.NoError(t, err)
	assert.NotNil(t, state.LastRegeneratedOn)
}

func TestRegenerateAll_ClearFailureLeavesEverythingUntouched(t *testing.T) {
	gen, repos, cleanup := setupTestGenerator(t, models.FrequencyWeekly, october15)
	defer cleanup()
	ctx := context.Background()

	addEntry(t, repos, "1", "Alien", "Horror", 117)
	_, err := gen.RegenerateAll(ctx, false)
	require.NoError(t, err)
	before, err := repos.Schedules.ListChannel(ctx, "Horror")
	require.NoError(t, err)

	gen.now = func() time.Time { return october15.AddDate(0, 0, 8) }
	gen.slots = &faultySlots{slotWriter: repos.Schedules, clearErr: errors.New("disk I/O error")}

	result, err := gen.RegenerateAll(ctx, false)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsClearFailed(err))
	assert.False(t, IsStateCommit(err))

	after, err := repos.Schedules.ListChannel(ctx, "Horror")
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
	}

	state, err := repos.Regeneration.Get(ctx, models.FrequencyWeekly)
	require.NoError(t, err)
	require.NotNil(t, state.LastRegeneratedOn)
	assert.Equal(t, 15, state.LastRegeneratedOn.UTC().Day())
}

func TestRegenerateAll_CancelAfterClearStillCompletes(t *testing.T) {
	gen, repos, cleanup := setupTestGenerator(t, models.FrequencyWeekly, october15)
	defer cleanup()

	addEntry(t, repos, "1", "Alien", "Horror", 117)
	addEntry(t, repos, "2", "Airplane!", "Comedy", 88)
	_, err := gen.RegenerateAll(context.Background(), true)
	require.NoError(t, err)

	next := october15.AddDate(0, 0, 2)
	gen.now = func() time.Time { return next }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gen.slots = &faultySlots{slotWriter: repos.Schedules, afterClear: cancel}

	result, err := gen.RegenerateAll(ctx, true)
	require.NoError(t, err)
	assert.Zero(t, result.Warnings)
	require.Error(t, ctx.Err())

	for day := 0; day < models.DaysPerWeek; day++ {
		horror, err := repos.Schedules.ListDay(context.Background(), "Horror", day)
		require.NoError(t, err)
		assertCoversDay(t, horror)
	}

	state, err := repos.Regeneration.Get(context.Background(), models.FrequencyWeekly)
	require.NoError(t, err)
	require.NotNil(t, state.LastRegeneratedOn)
	assert.Equal(t, next.Day(), state.LastRegeneratedOn.UTC().Day())
}

func TestRegenerateAll_CancelledBeforeClearModifiesNothing(t *testing.T) {
	gen, repos, cleanup := setupTestGenerator(t, models.FrequencyWeekly, october15)
	defer cleanup()

	addEntry(t, repos, "1", "Alien", "Horror", 117)
	first, err := gen.RegenerateAll(context.Background(), true)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = gen.RegenerateAll(ctx, true)
	require.Error(t, err)
	assert.False(t, IsClearFailed(err))

	total, err := repos.Schedules.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(first.SlotsWritten), total)
}
