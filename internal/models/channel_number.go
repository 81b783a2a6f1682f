package models

import "time"

// ChannelNumber is a persisted display number for a channel name
type ChannelNumber struct {
	Name      string    `json:"name" gorm:"type:text;primaryKey;column:name"`
	Number    int       `json:"number" gorm:"type:integer;not null;uniqueIndex;column:number"`
	CreatedAt time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// TableName returns the table name for GORM.
func (ChannelNumber) TableName() string {
	return "channel_numbers"
}
