package models

import (
	"fmt"

	"github.com/google/uuid"
)

// ScheduleSlot is one airing of a catalog entry on a channel's day.
// Times are minutes from midnight; EndMinute never exceeds MinutesPerDay.
type ScheduleSlot struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Channel     string    `json:"channel" gorm:"type:text;not null;column:channel" validate:"required"`
	Day         int       `json:"day" gorm:"type:integer;not null;column:day" validate:"gte=0,lte=6"`
	StartMinute int       `json:"start_minute" gorm:"type:integer;not null;column:start_minute"`
	EndMinute   int       `json:"end_minute" gorm:"type:integer;not null;column:end_minute"`
	EntryID     uuid.UUID `json:"entry_id" gorm:"type:text;not null;column:entry_id" validate:"required"`

	// Populated by joins, not stored in database
	Entry *CatalogEntry `json:"entry,omitempty" gorm:"foreignKey:EntryID;references:ID"`
}

// TableName returns the table name for GORM.
func (ScheduleSlot) TableName() string {
	return "schedule_slots"
}

// NewScheduleSlot creates a slot for an entry on a channel/day
func NewScheduleSlot(channel string, day, start, end int, entry *CatalogEntry) *ScheduleSlot {
	return &ScheduleSlot{
		ID:          uuid.New(),
		Channel:     channel,
		Day:         day,
		StartMinute: start,
		EndMinute:   end,
		EntryID:     entry.ID,
		Entry:       entry,
	}
}

// Length returns the slot length in minutes
func (s *ScheduleSlot) Length() int {
	return s.EndMinute - s.StartMinute
}

// Contains reports whether minute falls inside [StartMinute, EndMinute)
func (s *ScheduleSlot) Contains(minute int) bool {
	return minute >= s.StartMinute && minute < s.EndMinute
}

// StartTime returns the start as HH:MM
func (s *ScheduleSlot) StartTime() string {
	return FormatClock(s.StartMinute)
}

// EndTime returns the end as HH:MM (end of day renders as 24:00)
func (s *ScheduleSlot) EndTime() string {
	return FormatClock(s.EndMinute)
}

// FormatClock renders minutes from midnight as HH:MM
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
