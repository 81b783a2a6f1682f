package filter

import "github.com/netpersona/popcorn/internal/models"

// Overrides is the per-channel set of forced inclusions and exclusions,
// keyed by catalog source id.
type Overrides struct {
	whitelist map[string]struct{}
	blacklist map[string]struct{}
}

// NewOverrides indexes stored override rows
func NewOverrides(rows []*models.MovieOverride) Overrides {
	o := Overrides{
		whitelist: make(map[string]struct{}),
		blacklist: make(map[string]struct{}),
	}
	for _, row := range rows {
		switch row.OverrideType {
		case models.OverrideWhitelist:
			o.whitelist[row.SourceID] = struct{}{}
		case models.OverrideBlacklist:
			o.blacklist[row.SourceID] = struct{}{}
		}
	}
	return o
}

// IsWhitelisted reports a forced inclusion
func (o Overrides) IsWhitelisted(sourceID string) bool {
	_, ok := o.whitelist[sourceID]
	return ok
}

// IsBlacklisted reports a forced exclusion
func (o Overrides) IsBlacklisted(sourceID string) bool {
	_, ok := o.blacklist[sourceID]
	return ok
}
