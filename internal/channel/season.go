package channel

import (
	"time"

	"github.com/netpersona/popcorn/internal/models"
)

// IsInSeason reports whether month falls inside the channel's inclusive
// [start, end] range. Ranges with start > end wrap the year boundary.
func IsInSeason(ch *models.ThemedChannel, month time.Month) bool {
	m := int(month)
	if ch.StartMonth <= ch.EndMonth {
		return m >= ch.StartMonth && m <= ch.EndMonth
	}
	return m >= ch.StartMonth || m <= ch.EndMonth
}
