package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`
cyto_path: ./input/clustered.cyjs
coord_path: ./input/location_f.csv
out_path_nodes: ./output/cities_nodes.geojson
out_path_edges: ./output/cities_edges.geojson
`))
	require.NoError(t, err)

	assert.Equal(t, ";", cfg.Delimiter)
	assert.Equal(t, "Ort", cfg.PlaceCol)
	assert.Equal(t, []string{"Lat", "Len"}, cfg.LatLongCols)
	assert.Empty(t, cfg.ColsToDrop)
	assert.False(t, cfg.Processed)
	assert.True(t, cfg.Indent)

	opts := cfg.Options()
	assert.Equal(t, "./input/clustered.cyjs", opts.GraphPath)
	assert.Equal(t, "Lat", opts.Table.LatCol)
	assert.Equal(t, "Len", opts.Table.LonCol)
	assert.Equal(t, "Ort", opts.Table.PlaceCol)
}

func TestParse_Full(t *testing.T) {
	cfg, err := Parse([]byte(`
cyto_path: in.cyjs
coord_path: coords.tsv
out_path_nodes: nodes.geojson
out_path_edges: edges.geojson
delimiter: ","
place_col: place
lat_long_cols: [latitude, longitude]
cols_to_drop: [geprüft, Typ, GND]
node_props_drop: [lat, lng]
processed: true
indent: false
shapefile: true
`))
	require.NoError(t, err)

	assert.True(t, cfg.Processed)
	assert.False(t, cfg.Indent)
	assert.True(t, cfg.Shapefile)

	opts := cfg.Options()
	assert.True(t, opts.Processed)
	assert.Equal(t, []string{"lat", "lng"}, opts.NodeDrop)
	assert.Equal(t, ",", opts.Table.Delimiter)
	assert.Equal(t, "place", opts.Table.PlaceCol)
	assert.Equal(t, "latitude", opts.Table.LatCol)
	assert.Equal(t, "longitude", opts.Table.LonCol)
	assert.Equal(t, []string{"geprüft", "Typ", "GND"}, opts.Table.Drop)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "missing graph path",
			doc:  "coord_path: c\nout_path_nodes: n\nout_path_edges: e\n",
		},
		{
			name: "single coordinate column",
			doc:  "cyto_path: g\ncoord_path: c\nout_path_nodes: n\nout_path_edges: e\nlat_long_cols: [Lat]\n",
		},
		{
			name: "long delimiter",
			doc:  "cyto_path: g\ncoord_path: c\nout_path_nodes: n\nout_path_edges: e\ndelimiter: ';;'\n",
		},
		{
			name: "empty drop column",
			doc:  "cyto_path: g\ncoord_path: c\nout_path_nodes: n\nout_path_edges: e\ncols_to_drop: ['']\n",
		},
		{
			name: "not yaml",
			doc:  "cyto_path: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cyto_path: g\ncoord_path: c\nout_path_nodes: n\nout_path_edges: e\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "g", cfg.CytoPath)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
