// Package catalog imports a movie library into per-genre catalog rows.
package catalog

import (
	"context"
	"strings"

	"gopkg.in/yaml.v3"
)

// Item is one library title as reported by a source
type Item struct {
	SourceID       string    `yaml:"source_id"`
	Title          string    `yaml:"title"`
	Genres         GenreList `yaml:"genres"`
	Duration       int       `yaml:"duration"` // minutes
	Year           *int      `yaml:"year"`
	ContentRating  *string   `yaml:"content_rating"`
	Summary        *string   `yaml:"summary"`
	AudienceRating *float64  `yaml:"audience_rating"`
	PosterURL      *string   `yaml:"poster_url"`
}

// Source lists the items of a media library
type Source interface {
	ListItems(ctx context.Context) ([]Item, error)
}

// GenreList accepts either a sequence or a single comma-joined string
type GenreList []string

// UnmarshalYAML implements yaml.Unmarshaler
func (g *GenreList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var raw string
		if err := node.Decode(&raw); err != nil {
			return err
		}
		*g = strings.Split(raw, ",")
		return nil
	}

	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*g = list
	return nil
}

// NormalizeGenres splits comma-joined values, trims them and drops empty
// and repeated names. A title with no genre gets the Unknown genre.
func NormalizeGenres(raw []string, unknown string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			genre := strings.TrimSpace(part)
			if genre == "" {
				continue
			}
			key := strings.ToLower(genre)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, genre)
		}
	}
	if len(out) == 0 {
		return []string{unknown}
	}
	return out
}
