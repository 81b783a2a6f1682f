package models

import (
	"time"
)

// RegenerationState records the schedule cadence and the last run date.
// Singleton table with id=1.
type RegenerationState struct {
	ID                int        `json:"id" gorm:"type:integer;primaryKey;default:1;column:id"`
	Frequency         string     `json:"frequency" gorm:"type:text;not null;default:weekly;column:frequency" validate:"oneof=daily weekly monthly"`
	LastRegeneratedOn *time.Time `json:"last_regenerated_on,omitempty" gorm:"type:date;column:last_regenerated_on"`
	UpdatedAt         time.Time  `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// TableName returns the table name for GORM.
func (RegenerationState) TableName() string {
	return "regeneration_state"
}

// DefaultRegenerationState returns state with the given cadence and no prior run
func DefaultRegenerationState(frequency string) *RegenerationState {
	if !IsValidFrequency(frequency) {
		frequency = FrequencyWeekly
	}
	return &RegenerationState{
		ID:        1,
		Frequency: frequency,
		UpdatedAt: time.Now().UTC(),
	}
}

// IsValidFrequency checks a cadence value
func IsValidFrequency(frequency string) bool {
	switch frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}
