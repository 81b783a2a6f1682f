package timeline

import (
	"time"

	"github.com/netpersona/popcorn/internal/models"
)

// FindSlotAt returns the slot whose [start, end) contains minute. If none
// does, the first slot is returned; an empty list yields nil.
// Slots must be ordered by start minute.
func FindSlotAt(slots []*models.ScheduleSlot, minute int) *models.ScheduleSlot {
	if len(slots) == 0 {
		return nil
	}
	for _, s := range slots {
		if s.Contains(minute) {
			return s
		}
	}
	return slots[0]
}

// DayOfWeek maps t to the schedule day index, with Monday as 0
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % models.DaysPerWeek
}

// MinuteOfDay returns minutes since local midnight of t
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Position locates now within slot. The slot is assumed to belong to now's day.
func Position(slot *models.ScheduleSlot, now time.Time) *ProgramPosition {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startedAt := midnight.Add(time.Duration(slot.StartMinute) * time.Minute)
	endsAt := midnight.Add(time.Duration(slot.EndMinute) * time.Minute)

	offset := int64(now.Sub(startedAt).Seconds())
	if offset < 0 || !slot.Contains(MinuteOfDay(now)) {
		offset = 0
	}

	pos := &ProgramPosition{
		Slot:          slot,
		OffsetSeconds: offset,
		StartedAt:     startedAt,
		EndsAt:        endsAt,
		Duration:      int64(slot.Length()) * 60,
	}
	if slot.Entry != nil {
		pos.EntryID = slot.Entry.ID
		pos.Title = slot.Entry.Title
	}
	return pos
}

// SlotTimes returns the wall-clock start and end of a slot on the given date
func SlotTimes(date time.Time, slot *models.ScheduleSlot) (time.Time, time.Time) {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return midnight.Add(time.Duration(slot.StartMinute) * time.Minute),
		midnight.Add(time.Duration(slot.EndMinute) * time.Minute)
}
