package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CatalogEntry is one schedulable unit: a single title under a single genre.
// A title with several genres is stored as several rows sharing a SourceID.
type CatalogEntry struct {
	ID             uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	SourceID       string    `json:"source_id" gorm:"type:text;not null;column:source_id" validate:"required"`
	Title          string    `json:"title" gorm:"type:text;not null;column:title" validate:"required"`
	Genre          string    `json:"genre" gorm:"type:text;not null;column:genre" validate:"required"`
	Duration       int       `json:"duration" gorm:"type:integer;not null;column:duration"` // minutes
	ContentRating  *string   `json:"content_rating,omitempty" gorm:"type:text;column:content_rating"`
	Year           *int      `json:"year,omitempty" gorm:"type:integer;column:year"`
	Summary        *string   `json:"summary,omitempty" gorm:"type:text;column:summary"`
	AudienceRating *float64  `json:"audience_rating,omitempty" gorm:"type:real;column:audience_rating"`
	PosterURL      *string   `json:"poster_url,omitempty" gorm:"type:text;column:poster_url"`
	CreatedAt      time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// TableName returns the table name for GORM.
func (CatalogEntry) TableName() string {
	return "catalog_entries"
}

// NewCatalogEntry creates a new CatalogEntry with generated UUID and timestamps
func NewCatalogEntry(sourceID, title, genre string, duration int) *CatalogEntry {
	now := time.Now().UTC()
	return &CatalogEntry{
		ID:        uuid.New(),
		SourceID:  sourceID,
		Title:     title,
		Genre:     genre,
		Duration:  duration,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Schedulable reports whether the entry can occupy air time
func (e *CatalogEntry) Schedulable() bool {
	return e.Duration > 0
}

// SummaryText returns the summary or an empty string
func (e *CatalogEntry) SummaryText() string {
	if e.Summary == nil {
		return ""
	}
	return *e.Summary
}

// Rating returns the content rating or an empty string
func (e *CatalogEntry) Rating() string {
	if e.ContentRating == nil {
		return ""
	}
	return *e.ContentRating
}

// DurationString returns duration in H:MM format
func (e *CatalogEntry) DurationString() string {
	return fmt.Sprintf("%d:%02d", e.Duration/60, e.Duration%60)
}
