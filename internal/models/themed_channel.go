package models

import (
	"time"

	"github.com/google/uuid"
)

// ThemedChannel is an admin-defined seasonal channel that selects catalog
// entries through filter predicates instead of genre equality.
//
// Filter fields are stored as free text (comma separated lists and numeric
// strings). Parsing happens in the filter package, which treats malformed
// values as "no constraint".
type ThemedChannel struct {
	ID                 uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name               string    `json:"name" gorm:"type:text;not null;uniqueIndex;column:name" validate:"required,min=1,max=255"`
	StartMonth         int       `json:"start_month" gorm:"type:integer;not null;column:start_month" validate:"gte=1,lte=12"`
	EndMonth           int       `json:"end_month" gorm:"type:integer;not null;column:end_month" validate:"gte=1,lte=12"`
	GenreFilter        string    `json:"genre_filter" gorm:"type:text;column:genre_filter"`
	Keywords           string    `json:"keywords" gorm:"type:text;column:keywords"`
	RatingFilter       string    `json:"rating_filter" gorm:"type:text;column:rating_filter"`
	FilterMode         string    `json:"filter_mode" gorm:"type:text;not null;default:ALL;column:filter_mode"`
	CollectionIDs      string    `json:"collection_ids" gorm:"type:text;column:collection_ids"`
	ExternalKeywordIDs string    `json:"external_keyword_ids" gorm:"type:text;column:external_keyword_ids"`
	MinScore           string    `json:"min_score" gorm:"type:text;column:min_score"`
	MinPopularity      string    `json:"min_popularity" gorm:"type:text;column:min_popularity"`
	CreatedAt          time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// TableName returns the table name for GORM.
func (ThemedChannel) TableName() string {
	return "themed_channels"
}

// NewThemedChannel creates a new ThemedChannel with generated UUID and timestamps
func NewThemedChannel(name string, startMonth, endMonth int) *ThemedChannel {
	now := time.Now().UTC()
	return &ThemedChannel{
		ID:         uuid.New(),
		Name:       name,
		StartMonth: startMonth,
		EndMonth:   endMonth,
		FilterMode: FilterModeAll,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Wraps reports whether the active range crosses the year boundary
func (c *ThemedChannel) Wraps() bool {
	return c.StartMonth > c.EndMonth
}
