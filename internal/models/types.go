package models

// Regeneration cadence values
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Themed channel predicate combination modes
const (
	FilterModeAll = "ALL"
	FilterModeAny = "ANY"
)

// Override kinds
const (
	OverrideWhitelist = "whitelist"
	OverrideBlacklist = "blacklist"
)

// Schedule geometry
const (
	MinutesPerDay = 1440
	DaysPerWeek   = 7
)

// UnknownGenre is assigned to catalog items that arrive without any genre
const UnknownGenre = "Unknown"
