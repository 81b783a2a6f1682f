// Package media reads a directory of movie files as a catalog source, using
// filenames for titles and ffprobe for running times.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"time"

	"github.com/netpersona/popcorn/internal/logger"
)

// Timeout for FFprobe execution
const ffprobeTimeout = 30 * time.Second

// Common errors
var (
	ErrFFprobeNotFound = errors.New("ffprobe not found in PATH")
	ErrInvalidFile     = errors.New("invalid or corrupted video file")
	ErrTimeout         = errors.New("ffprobe execution timed out")
)

// ffprobeOutput is the subset of ffprobe's JSON we read
type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeStream struct {
	CodecType string `json:"codec_type"` // "video" or "audio"
	CodecName string `json:"codec_name"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Duration  string `json:"duration,omitempty"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
	Size     string `json:"size"`
}

// VideoMetadata is what the catalog needs from a probed file
type VideoMetadata struct {
	Duration   time.Duration
	VideoCodec string
	Width      int
	Height     int
	FileSize   int64
}

// Minutes returns the running time rounded up to whole minutes
func (m *VideoMetadata) Minutes() int {
	return int(math.Ceil(m.Duration.Minutes()))
}

// Prober reads metadata from a video file
type Prober func(ctx context.Context, path string) (*VideoMetadata, error)

// CheckFFprobeInstalled checks if FFprobe is available in PATH
func CheckFFprobeInstalled() error {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFFprobeNotFound
	}
	return nil
}

// ProbeFile runs ffprobe on path and returns its metadata
func ProbeFile(ctx context.Context, path string) (*VideoMetadata, error) {
	if err := CheckFFprobeInstalled(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, ffprobeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx,
		"ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidFile, exitErr.Stderr)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	metadata, err := parseProbeOutput(output)
	if err != nil {
		return nil, err
	}

	logger.Log.Debug().
		Str("file_path", path).
		Dur("duration", metadata.Duration).
		Str("video_codec", metadata.VideoCodec).
		Msg("Probed video file")

	return metadata, nil
}

// parseProbeOutput extracts metadata, preferring the video stream duration
// over the container duration
func parseProbeOutput(output []byte) (*VideoMetadata, error) {
	var result ffprobeOutput
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	metadata := &VideoMetadata{}
	var video *ffprobeStream
	for i := range result.Streams {
		if result.Streams[i].CodecType == "video" {
			video = &result.Streams[i]
			break
		}
	}

	if video != nil {
		metadata.VideoCodec = video.CodecName
		metadata.Width = video.Width
		metadata.Height = video.Height
		metadata.Duration = parseSeconds(video.Duration)
	}
	if metadata.Duration == 0 {
		metadata.Duration = parseSeconds(result.Format.Duration)
	}
	if size, err := strconv.ParseInt(result.Format.Size, 10, 64); err == nil {
		metadata.FileSize = size
	}

	if metadata.Duration <= 0 {
		return nil, fmt.Errorf("%w: could not determine video duration", ErrInvalidFile)
	}
	return metadata, nil
}

func parseSeconds(s string) time.Duration {
	if s == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
