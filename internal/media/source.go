package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/netpersona/popcorn/internal/catalog"
	"github.com/netpersona/popcorn/internal/logger"
)

// ErrInvalidDirectory indicates a library root that is missing or not a directory
var ErrInvalidDirectory = errors.New("invalid directory path")

// DirectorySource lists movie files under a library root. The first
// directory below the root names the genre, so "Comedy/Airplane! (1980).mkv"
// is a Comedy title. Files directly under the root have no genre.
type DirectorySource struct {
	root  string
	probe Prober
}

// NewDirectorySource creates a source reading root with ffprobe
func NewDirectorySource(root string) *DirectorySource {
	return &DirectorySource{root: root, probe: ProbeFile}
}

// ListItems walks the library. Files that cannot be read or probed are
// logged and left out; the walk itself failing is an error.
func (s *DirectorySource) ListItems(ctx context.Context) ([]catalog.Item, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDirectory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: path is not a directory", ErrInvalidDirectory)
	}

	files, err := s.findVideoFiles(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]catalog.Item, 0, len(files))
	failed := 0
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item, err := s.itemFor(ctx, rel)
		if err != nil {
			failed++
			logger.Log.Warn().
				Err(err).
				Str("file_path", rel).
				Msg("Skipping unreadable library file")
			continue
		}
		items = append(items, item)
	}

	logger.Log.Info().
		Str("root", s.root).
		Int("files", len(files)).
		Int("items", len(items)).
		Int("failed", failed).
		Msg("Scanned library directory")

	return items, nil
}

// findVideoFiles returns root-relative paths of video files in walk order
func (s *DirectorySource) findVideoFiles(ctx context.Context) ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !IsVideoFile(path) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk library: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

func (s *DirectorySource) itemFor(ctx context.Context, rel string) (catalog.Item, error) {
	path := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := ValidateFile(path); err != nil {
		return catalog.Item{}, err
	}

	metadata, err := s.probe(ctx, path)
	if err != nil {
		return catalog.Item{}, err
	}

	parsed := ParseFilename(rel)
	item := catalog.Item{
		SourceID: rel,
		Title:    parsed.Title,
		Year:     parsed.Year,
		Duration: metadata.Minutes(),
	}
	if genre := genreFromPath(rel); genre != "" {
		item.Genres = catalog.GenreList{genre}
	}
	return item, nil
}

// genreFromPath returns the top-level directory of a root-relative path
func genreFromPath(rel string) string {
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." || dir == "" {
		return ""
	}
	top, _, _ := strings.Cut(dir, "/")
	return top
}
