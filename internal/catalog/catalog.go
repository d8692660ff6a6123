// Package catalog holds the genre catalog used as extra generation context.
// The catalog is data, not behavior: each entry maps a genre name to a short
// style description that gets embedded into the generation prompt.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/nibura2002/AI-MIDI-generator/pkg/embedded"
)

// Genre describes one catalog entry
type Genre struct {
	Name  string `json:"name"`
	Style string `json:"style"`
}

// defaultStyle is used for genres not present in the catalog. The style text
// is generation context only, so unknown genres still work.
const defaultStyle = "Follow the conventions of the named genre."

// Catalog maps genre names to style descriptions
type Catalog struct {
	genres map[string]string
}

// Default returns the built-in genre catalog, embedded at build time
func Default() *Catalog {
	var entries []Genre
	if err := json.Unmarshal(embedded.GenreCatalogJSON, &entries); err != nil {
		// The embedded catalog is part of the binary; failing to parse it is
		// a build defect, not a runtime condition
		panic(fmt.Sprintf("embedded genre catalog is malformed: %v", err))
	}

	genres := make(map[string]string, len(entries))
	for _, e := range entries {
		genres[e.Name] = e.Style
	}
	return &Catalog{genres: genres}
}

// LoadFile replaces the catalog contents with entries from a JSON file
// (an array of {"name": ..., "style": ...} objects).
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var entries []Genre
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no genres", path)
	}

	genres := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog entry with empty name in %s", path)
		}
		genres[e.Name] = e.Style
	}
	return &Catalog{genres: genres}, nil
}

// Lookup returns the style description for a genre. Matching is
// case-insensitive; unknown genres get a neutral default description.
func (c *Catalog) Lookup(name string) string {
	if style, ok := c.genres[name]; ok {
		return style
	}
	for known, style := range c.genres {
		if strings.EqualFold(known, name) {
			return style
		}
	}
	return defaultStyle
}

// Names returns the catalog's genre names in sorted order
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.genres))
	for name := range c.genres {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns the full catalog in sorted order, for the genres endpoint
func (c *Catalog) Entries() []Genre {
	entries := make([]Genre, 0, len(c.genres))
	for _, name := range c.Names() {
		entries = append(entries, Genre{Name: name, Style: c.genres[name]})
	}
	return entries
}
