// Package geo builds GeoJSON features from graph records and writes them out.
package geo

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// Collection is an ordered, append-only GeoJSON FeatureCollection.
type Collection struct {
	fc *geojson.FeatureCollection
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{fc: geojson.NewFeatureCollection()}
}

// Append adds f to the end of the collection.
func (c *Collection) Append(f *geojson.Feature) {
	c.fc.Append(f)
}

// Len returns the number of features.
func (c *Collection) Len() int { return len(c.fc.Features) }

// Features returns the features in insertion order.
func (c *Collection) Features() []*geojson.Feature { return c.fc.Features }

// MarshalJSON writes the {"type": "FeatureCollection", "features": [...]} envelope.
func (c *Collection) MarshalJSON() ([]byte, error) {
	return c.fc.MarshalJSON()
}

// UnmarshalCollection parses a FeatureCollection document.
func UnmarshalCollection(data []byte) (*Collection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	return &Collection{fc: fc}, nil
}

// WriteGeoJSON marshals the collection and writes it to path, creating the
// parent directory if needed.
func WriteGeoJSON(path string, c *Collection, indent bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	enc := json.NewEncoder(f)
	if indent {
		enc.SetIndent("", "  ")
	}

	if err := enc.Encode(c); err != nil {
		return err
	}

	log.Debug().
		Str("path", path).
		Int("features", c.Len()).
		Msg("GeoJSON written")

	return nil
}
