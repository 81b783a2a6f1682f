package models

import (
	"time"

	"github.com/google/uuid"
)

// MovieOverride forces a title in or out of a themed channel.
// Unique per (ChannelName, SourceID).
type MovieOverride struct {
	ID           uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	ChannelName  string    `json:"channel_name" gorm:"type:text;not null;column:channel_name" validate:"required"`
	SourceID     string    `json:"source_id" gorm:"type:text;not null;column:source_id" validate:"required"`
	OverrideType string    `json:"override_type" gorm:"type:text;not null;column:override_type" validate:"oneof=whitelist blacklist"`
	CreatedAt    time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// TableName returns the table name for GORM.
func (MovieOverride) TableName() string {
	return "movie_overrides"
}

// NewMovieOverride creates a new MovieOverride with generated UUID and timestamp
func NewMovieOverride(channelName, sourceID, overrideType string) *MovieOverride {
	return &MovieOverride{
		ID:           uuid.New(),
		ChannelName:  channelName,
		SourceID:     sourceID,
		OverrideType: overrideType,
		CreatedAt:    time.Now().UTC(),
	}
}

// IsValidOverrideType checks an override kind
func IsValidOverrideType(kind string) bool {
	return kind == OverrideWhitelist || kind == OverrideBlacklist
}
