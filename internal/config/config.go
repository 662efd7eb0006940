// Package config handles configuration loading and defaults.
package config

import (
	"os"

	"github.com/woozymasta/cytogis/internal/gis"
	"github.com/woozymasta/cytogis/internal/places"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the configuration file structure.
type Config struct {
	CytoPath     string `yaml:"cyto_path"      validate:"required"`
	CoordPath    string `yaml:"coord_path"     validate:"required"`
	OutPathNodes string `yaml:"out_path_nodes" validate:"required"`
	OutPathEdges string `yaml:"out_path_edges" validate:"required"`

	// coordinate table layout
	Delimiter   string   `yaml:"delimiter,omitempty"     validate:"len=1"`
	PlaceCol    string   `yaml:"place_col,omitempty"     validate:"required"`
	LatLongCols []string `yaml:"lat_long_cols,omitempty" validate:"len=2,dive,required"`
	ColsToDrop  []string `yaml:"cols_to_drop,omitempty"  validate:"omitempty,dive,required"`

	NodePropsDrop []string `yaml:"node_props_drop,omitempty"`

	// read id_original, source_original and target_original
	Processed bool `yaml:"processed,omitempty"`
	Indent    bool `yaml:"indent,omitempty"`
	Shapefile bool `yaml:"shapefile,omitempty"`
}

// Default returns a configuration with the conventional table layout.
func Default() Config {
	def := places.DefaultOptions()
	return Config{
		Delimiter:   def.Delimiter,
		PlaceCol:    def.PlaceCol,
		LatLongCols: []string{def.LatCol, def.LonCol},
		Indent:      true,
	}
}

// Load reads, defaults and validates the YAML configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes a YAML configuration document over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required fields and the coordinate column pair.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Options maps the configuration onto pipeline options.
func (c *Config) Options() gis.Options {
	opts := gis.Options{
		GraphPath: c.CytoPath,
		CoordPath: c.CoordPath,
		Table: places.Options{
			Delimiter: c.Delimiter,
			PlaceCol:  c.PlaceCol,
			Drop:      c.ColsToDrop,
		},
		Processed: c.Processed,
		NodeDrop:  c.NodePropsDrop,
	}

	if len(c.LatLongCols) == 2 {
		opts.Table.LatCol, opts.Table.LonCol = c.LatLongCols[0], c.LatLongCols[1]
	}

	return opts
}
