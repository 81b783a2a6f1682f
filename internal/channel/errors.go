package channel

import "errors"

// Custom channel service errors
var (
	// ErrDuplicateChannelName indicates a themed channel with the same name already exists
	ErrDuplicateChannelName = errors.New("channel name already exists")

	// ErrChannelNotFound indicates the requested channel does not exist
	ErrChannelNotFound = errors.New("channel not found")

	// ErrInvalidName indicates an empty or oversized channel name
	ErrInvalidName = errors.New("channel name must be 1-255 characters")

	// ErrInvalidMonth indicates a season bound outside 1..12
	ErrInvalidMonth = errors.New("months must be between 1 and 12")

	// ErrInvalidFilterMode indicates a filter mode other than ALL/ANY (or AND/OR)
	ErrInvalidFilterMode = errors.New("filter mode must be ALL or ANY")

	// ErrInvalidDay indicates a day index outside 0..6
	ErrInvalidDay = errors.New("day must be between 0 (Monday) and 6 (Sunday)")

	// ErrInvalidOverrideType indicates an override kind other than whitelist/blacklist
	ErrInvalidOverrideType = errors.New("override type must be whitelist or blacklist")

	// ErrOverrideNotFound indicates no override exists for the channel and title
	ErrOverrideNotFound = errors.New("override not found")

	// ErrEntryNotFound indicates the catalog has no item with the given source id
	ErrEntryNotFound = errors.New("catalog entry not found")
)

// IsDuplicateName checks if the error is a duplicate channel name error
func IsDuplicateName(err error) bool {
	return errors.Is(err, ErrDuplicateChannelName)
}

// IsChannelNotFound checks if the error is a channel not found error
func IsChannelNotFound(err error) bool {
	return errors.Is(err, ErrChannelNotFound)
}

// IsValidationError checks if the error came from input validation
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrInvalidFilterMode) ||
		errors.Is(err, ErrInvalidDay) ||
		errors.Is(err, ErrInvalidOverrideType)
}

// IsOverrideNotFound checks if the error is an override not found error
func IsOverrideNotFound(err error) bool {
	return errors.Is(err, ErrOverrideNotFound)
}

// IsEntryNotFound checks if the error is a catalog entry not found error
func IsEntryNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound)
}
