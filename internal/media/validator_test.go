package media

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"movie.mkv", true},
		{"movie.MP4", true},
		{"dir/movie.m4v", true},
		{"movie.srt", false},
		{"poster.jpg", false},
		{"movie", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVideoFile(tt.path))
		})
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "movie.mkv")
	require.NoError(t, os.WriteFile(file, []byte("data"), 0o644))

	assert.NoError(t, ValidateFile(file))

	err := ValidateFile(filepath.Join(dir, "missing.mkv"))
	assert.True(t, errors.Is(err, ErrUnreadable))

	err = ValidateFile(dir)
	assert.True(t, errors.Is(err, ErrUnreadable))
	assert.Contains(t, err.Error(), "directory")
}
