package geo

import (
	"encoding/json"
	"testing"

	"github.com/woozymasta/cytogis/internal/graph"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "007.5", want: 7.5},
		{in: "48.3705", want: 48.3705},
		{in: "0.25", want: 0.25},
		{in: "-12.5", want: -12.5},
		{in: "north", wantErr: true},
		{in: "000", wantErr: true},
		{in: "inf", wantErr: true},
		{in: "-Infinity", wantErr: true},
		{in: "NaN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCoordinate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestLocated(t *testing.T) {
	assert.True(t, Located("10.0"))
	assert.False(t, Located(""))
	assert.False(t, Located("undefined"))
}

func TestNodePoint(t *testing.T) {
	n := graph.Node{
		Name: "Augsburg",
		Lat:  "048.3705",
		Lng:  "010.8978",
		Props: map[string]any{
			"id":  "Augsburg",
			"lat": "048.3705",
			"lng": "010.8978",
			"Typ": "Stadt",
			"GND": "4003614-6",
		},
	}

	f, err := NodePoint(n, []string{"lat", "lng", "GND"})
	require.NoError(t, err)

	p, ok := f.Geometry.(orb.Point)
	require.True(t, ok)
	assert.Equal(t, orb.Point{10.8978, 48.3705}, p, "point is [lon, lat]")

	assert.Equal(t, "Augsburg", f.Properties["name"])
	assert.Contains(t, f.Properties, "connections")
	assert.Nil(t, f.Properties["connections"])
	assert.Equal(t, "Stadt", f.Properties["Typ"])
	assert.Equal(t, "Augsburg", f.Properties["id"])
	assert.NotContains(t, f.Properties, "lat")
	assert.NotContains(t, f.Properties, "GND")
}

func TestNodePoint_NoDropListKeepsEverything(t *testing.T) {
	n := graph.Node{
		Name:  "A",
		Lat:   "10.0",
		Lng:   "20.0",
		Props: map[string]any{"id": "A", "lat": "10.0", "lng": "20.0", "weight": json.Number("4")},
	}

	f, err := NodePoint(n, nil)
	require.NoError(t, err)
	assert.Len(t, f.Properties, 6)
	assert.Equal(t, json.Number("4"), f.Properties["weight"])
}

func TestNodePoint_Errors(t *testing.T) {
	_, err := NodePoint(graph.Node{Name: "A", Lat: "10.0"}, nil)
	assert.ErrorIs(t, err, graph.ErrMissingField)

	_, err = NodePoint(graph.Node{Name: "A", Lat: "ten", Lng: "20.0"}, nil)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)

	_, err = NodePoint(graph.Node{Name: "A", Lat: "10.0", Lng: "undefined"}, nil)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)

	_, err = NodePoint(graph.Node{Name: "A", Lat: "inf", Lng: "20.0"}, nil)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestEdgeLine(t *testing.T) {
	f := EdgeLine("A", "B", 3, orb.Point{20, 10}, orb.Point{8, 47})

	ls, ok := f.Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Equal(t, orb.LineString{{20, 10}, {8, 47}}, ls)
	assert.Equal(t, "A", f.Properties["source"])
	assert.Equal(t, "B", f.Properties["target"])
	assert.Equal(t, 3.0, f.Properties["weight"])
	assert.Len(t, f.Properties, 3)
}

func TestEdgeLine_SelfLoop(t *testing.T) {
	f := EdgeLine("A", "A", 1, orb.Point{1, 2}, orb.Point{1, 2})
	assert.Equal(t, orb.LineString{{1, 2}, {1, 2}}, f.Geometry)
}
