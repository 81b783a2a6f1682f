package schedule

import "errors"

// Schedule orchestration errors
var (
	// ErrClearFailed indicates the old schedule could not be removed; nothing was regenerated
	ErrClearFailed = errors.New("failed to clear existing schedule")

	// ErrStateCommit indicates slots were written but the run date could not be recorded
	ErrStateCommit = errors.New("failed to record regeneration date")

	// ErrRunnerStopped indicates the runner has been stopped
	ErrRunnerStopped = errors.New("schedule runner is stopped")
)

// IsClearFailed checks if the error is a schedule clear failure
func IsClearFailed(err error) bool {
	return errors.Is(err, ErrClearFailed)
}

// IsStateCommit checks if the error is a state commit failure
func IsStateCommit(err error) bool {
	return errors.Is(err, ErrStateCommit)
}
