package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileSource reads a library export from a YAML or JSON file.
// The document is either a list of items or a mapping with an "items" key.
type FileSource struct {
	path string
}

type fileDocument struct {
	Items []Item `yaml:"items"`
}

// NewFileSource creates a source backed by the file at path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// ListItems reads and decodes the file on every call so edits are picked up
func (s *FileSource) ListItems(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return decodeItems(data)
}

// decodeItems parses YAML, which also covers JSON documents
func decodeItems(data []byte) ([]Item, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	if doc.Kind == yaml.SequenceNode {
		var items []Item
		if err := doc.Decode(&items); err != nil {
			return nil, fmt.Errorf("failed to decode catalog items: %w", err)
		}
		return items, nil
	}

	var wrapped fileDocument
	if err := doc.Decode(&wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode catalog items: %w", err)
	}
	return wrapped.Items, nil
}
