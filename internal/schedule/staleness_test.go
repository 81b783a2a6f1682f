package schedule

import (
	"testing"
	"time"

	"github.com/netpersona/popcorn/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestThresholdDays(t *testing.T) {
	assert.Equal(t, 1, ThresholdDays(models.FrequencyDaily))
	assert.Equal(t, 7, ThresholdDays(models.FrequencyWeekly))
	assert.Equal(t, 30, ThresholdDays(models.FrequencyMonthly))
	assert.Equal(t, 7, ThresholdDays("fortnightly"))
}

func TestDaysSince_IgnoresTimeOfDay(t *testing.T) {
	last := time.Date(2025, time.March, 1, 23, 59, 0, 0, time.UTC)
	today := time.Date(2025, time.March, 2, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysSince(last, today))
	assert.Equal(t, 0, DaysSince(today, today))
	assert.Equal(t, 365, DaysSince(
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	))
}

func TestIsDue(t *testing.T) {
	runOn := func(y int, m time.Month, d int) *time.Time {
		v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &v
	}
	today := time.Date(2025, time.June, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		frequency string
		last      *time.Time
		wantDue   bool
		wantDays  int
	}{
		{"never run", models.FrequencyWeekly, nil, true, -1},
		{"daily same day", models.FrequencyDaily, runOn(2025, time.June, 10), false, 0},
		{"daily next day", models.FrequencyDaily, runOn(2025, time.June, 9), true, 1},
		{"weekly six days", models.FrequencyWeekly, runOn(2025, time.June, 4), false, 6},
		{"weekly seven days", models.FrequencyWeekly, runOn(2025, time.June, 3), true, 7},
		{"monthly 29 days", models.FrequencyMonthly, runOn(2025, time.May, 12), false, 29},
		{"monthly 30 days", models.FrequencyMonthly, runOn(2025, time.May, 11), true, 30},
		{"unknown acts weekly", "hourly", runOn(2025, time.June, 3), true, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &models.RegenerationState{ID: 1, Frequency: tt.frequency, LastRegeneratedOn: tt.last}
			due, days := IsDue(state, today)
			assert.Equal(t, tt.wantDue, due)
			assert.Equal(t, tt.wantDays, days)
		})
	}
}
