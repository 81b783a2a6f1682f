package timeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/netpersona/popcorn/internal/models"
)

// ProgramPosition describes what a channel is airing at a given moment.
type ProgramPosition struct {
	// EntryID is the catalog row of the airing program
	EntryID uuid.UUID `json:"entry_id"`

	// Title is the program title for display purposes
	Title string `json:"title"`

	// OffsetSeconds is how far into the slot "now" is
	OffsetSeconds int64 `json:"offset_seconds"`

	// StartedAt is the wall-clock start of the slot
	StartedAt time.Time `json:"started_at"`

	// EndsAt is the wall-clock end of the slot (clipped at midnight)
	EndsAt time.Time `json:"ends_at"`

	// Duration is the slot length in seconds
	Duration int64 `json:"duration"`

	Slot *models.ScheduleSlot `json:"-"`
}
