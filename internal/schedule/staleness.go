package schedule

import (
	"time"

	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
)

// ThresholdDays returns how many calendar days must pass before a schedule
// with the given frequency is regenerated. Unknown values fall back to weekly.
func ThresholdDays(frequency string) int {
	switch frequency {
	case models.FrequencyDaily:
		return 1
	case models.FrequencyWeekly:
		return 7
	case models.FrequencyMonthly:
		return 30
	default:
		logger.Log.Warn().
			Str("frequency", frequency).
			Msg("Unknown regeneration frequency, treating as weekly")
		return 7
	}
}

// DaysSince returns the whole calendar days between last and today.
// Both are compared as dates, so the time of day is ignored.
func DaysSince(last, today time.Time) int {
	from := dateOf(last)
	to := dateOf(today)
	return int(to.Sub(from).Hours() / 24)
}

// IsDue reports whether the schedule must be regenerated on today and how
// many days have elapsed since the last run (-1 when there was none).
// The stored date is UTC midnight of the local calendar day it was written on.
func IsDue(state *models.RegenerationState, today time.Time) (bool, int) {
	if state.LastRegeneratedOn == nil {
		return true, -1
	}
	elapsed := DaysSince(state.LastRegeneratedOn.UTC(), today)
	return elapsed >= ThresholdDays(state.Frequency), elapsed
}

// dateOf maps t to UTC midnight of its own calendar date
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
