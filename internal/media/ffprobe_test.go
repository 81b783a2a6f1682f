package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProbeOutput(t *testing.T) {
	tests := []struct {
		name         string
		output       string
		wantErr      bool
		wantDuration time.Duration
		wantCodec    string
	}{
		{
			name: "stream duration preferred",
			output: `{"streams":[{"codec_type":"audio","codec_name":"aac","duration":"10.0"},
				{"codec_type":"video","codec_name":"h264","width":1920,"height":1080,"duration":"5400.5"}],
				"format":{"duration":"5401.0","size":"104857600"}}`,
			wantDuration: 5400500 * time.Millisecond,
			wantCodec:    "h264",
		},
		{
			name:         "format duration fallback",
			output:       `{"streams":[{"codec_type":"video","codec_name":"hevc"}],"format":{"duration":"300.25"}}`,
			wantDuration: 300250 * time.Millisecond,
			wantCodec:    "hevc",
		},
		{
			name:    "no duration",
			output:  `{"streams":[{"codec_type":"video","codec_name":"h264"}],"format":{}}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			output:  `{"streams":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseProbeOutput([]byte(tt.output))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDuration, got.Duration)
			assert.Equal(t, tt.wantCodec, got.VideoCodec)
		})
	}
}

func TestParseProbeOutput_SizeAndResolution(t *testing.T) {
	got, err := parseProbeOutput([]byte(`{"streams":[{"codec_type":"video","codec_name":"h264","width":1280,"height":720,"duration":"60"}],"format":{"size":"2048"}}`))
	require.NoError(t, err)
	assert.Equal(t, 1280, got.Width)
	assert.Equal(t, 720, got.Height)
	assert.Equal(t, int64(2048), got.FileSize)
}

func TestVideoMetadata_MinutesRoundsUp(t *testing.T) {
	assert.Equal(t, 90, (&VideoMetadata{Duration: 90 * time.Minute}).Minutes())
	assert.Equal(t, 91, (&VideoMetadata{Duration: 90*time.Minute + time.Second}).Minutes())
	assert.Equal(t, 1, (&VideoMetadata{Duration: 10 * time.Second}).Minutes())
}

func TestProbeFile_MissingFile(t *testing.T) {
	if err := CheckFFprobeInstalled(); err != nil {
		t.Skip("FFprobe not installed, skipping test")
	}

	_, err := ProbeFile(context.Background(), "/nonexistent/movie.mkv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFile))
}
