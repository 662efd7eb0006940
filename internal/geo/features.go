package geo

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/woozymasta/cytogis/internal/graph"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Placeholder marks a coordinate the upstream export could not resolve.
const Placeholder = "undefined"

// ErrInvalidCoordinate is returned when a node coordinate is not a number.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// ParseCoordinate parses a coordinate string after stripping leading '0'
// characters, which some exports pad numbers with. Infinities and NaN are
// rejected since GeoJSON cannot encode them.
func ParseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimLeft(s, "0"), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidCoordinate, s)
	}
	return v, nil
}

// Located reports whether a latitude value is usable.
func Located(lat string) bool {
	return lat != "" && lat != Placeholder
}

// NodePoint converts a located node to a Point feature. Properties are the
// node name, a null "connections" slot and every data field not listed in drop.
func NodePoint(n graph.Node, drop []string) (*geojson.Feature, error) {
	if n.Lng == "" {
		return nil, fmt.Errorf("node %q: %w %q", n.Name, graph.ErrMissingField, "lng")
	}

	lat, err := ParseCoordinate(n.Lat)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w: lat %q", n.Name, ErrInvalidCoordinate, n.Lat)
	}
	lng, err := ParseCoordinate(n.Lng)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w: lng %q", n.Name, ErrInvalidCoordinate, n.Lng)
	}

	f := geojson.NewFeature(orb.Point{lng, lat})
	f.Properties["name"] = n.Name
	f.Properties["connections"] = nil

	// data fields win over the two above
	for key, val := range n.Props {
		if slices.Contains(drop, key) {
			continue
		}
		f.Properties[key] = val
	}

	return f, nil
}

// EdgeLine builds the LineString feature for a connection between two
// resolved places.
func EdgeLine(source, target string, weight float64, from, to orb.Point) *geojson.Feature {
	f := geojson.NewFeature(orb.LineString{from, to})
	f.Properties["source"] = source
	f.Properties["target"] = target
	f.Properties["weight"] = weight
	return f
}
