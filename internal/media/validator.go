package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Supported video file extensions
var supportedVideoFormats = []string{".mp4", ".mkv", ".avi", ".mov", ".m4v"}

// ErrUnreadable indicates a library file that cannot be opened
var ErrUnreadable = errors.New("file is not readable")

// IsVideoFile reports whether path has a supported video extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range supportedVideoFormats {
		if ext == format {
			return true
		}
	}
	return false
}

// ValidateFile checks that path is a regular file that can be opened
func ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: file does not exist", ErrUnreadable)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w: permission denied", ErrUnreadable)
		}
		return fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: path is a directory", ErrUnreadable)
	}

	// Stat succeeds on files we cannot read
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return file.Close()
}
