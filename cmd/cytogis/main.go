package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/cytogis/internal/config"
	"github.com/woozymasta/cytogis/internal/geo"
	"github.com/woozymasta/cytogis/internal/gis"
	"github.com/woozymasta/cytogis/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"     env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	EnvFile    string `short:"e" long:"env-file"   description:"Optional .env file read before flags" default:".env"`
	Processed  bool   `short:"p" long:"processed"  env:"PROCESSED"   description:"Read *_original identifiers (clustered graphs)"`
	Shapefile  bool   `short:"s" long:"shapefile"  description:"Also write Shapefiles next to the GeoJSON outputs"`
	NodesOnly  bool   `short:"n" long:"nodes-only" description:"Generate node layer only"`
	EdgesOnly  bool   `short:"E" long:"edges-only" description:"Generate edge layer only"`
}

func main() {
	loadEnv(os.Args[1:])

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.ConfigFile).Msg("Failed to load configuration")
	}

	if err := run(cfg, opts); err != nil {
		log.Fatal().Err(err).Msg("Conversion failed")
	}

	log.Info().Msg("Process finished")
}

// loadEnv reads the env file named by --env-file (or .env) so that env-tagged
// options can be set from it. A missing file is not an error.
func loadEnv(args []string) {
	path := ".env"
	for i, arg := range args {
		switch {
		case (arg == "-e" || arg == "--env-file") && i+1 < len(args):
			path = args[i+1]
		case strings.HasPrefix(arg, "--env-file="):
			path = strings.TrimPrefix(arg, "--env-file=")
		}
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("path", path).Msg("Failed to read env file")
	}
}

func run(cfg *config.Config, opts Options) error {
	if opts.Processed {
		cfg.Processed = true
	}
	if opts.Shapefile {
		cfg.Shapefile = true
	}

	doNodes, doEdges := true, true
	if opts.NodesOnly && !opts.EdgesOnly {
		doEdges = false
	} else if opts.EdgesOnly && !opts.NodesOnly {
		doNodes = false
	}

	manager, err := gis.New(cfg.Options())
	if err != nil {
		return err
	}

	if doEdges {
		log.Info().Msg("Processing edges")

		edges, stats, err := manager.EdgeFeatures()
		if err != nil {
			return err
		}
		if err := write(cfg, cfg.OutPathEdges, edges); err != nil {
			return err
		}

		log.Info().
			Str("path", cfg.OutPathEdges).
			Int("lines", stats.Emitted).
			Int("unresolved", stats.Unresolved).
			Msg("Edges done")
	}

	if doNodes {
		log.Info().Msg("Processing nodes")

		nodes, stats, err := manager.NodeFeatures()
		if err != nil {
			return err
		}
		if err := write(cfg, cfg.OutPathNodes, nodes); err != nil {
			return err
		}

		log.Info().
			Str("path", cfg.OutPathNodes).
			Int("points", stats.Emitted).
			Int("unlocated", stats.Unlocated).
			Msg("Nodes done")
	}

	return nil
}

func write(cfg *config.Config, path string, fc *geo.Collection) error {
	if err := geo.WriteGeoJSON(path, fc, cfg.Indent); err != nil {
		return err
	}

	if !cfg.Shapefile {
		return nil
	}

	shpPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".shp"
	if err := geo.WriteShapefile(shpPath, fc); err != nil {
		if errors.Is(err, geo.ErrEmptyCollection) {
			log.Warn().Str("path", shpPath).Msg("No features, Shapefile skipped")
			return nil
		}
		return err
	}

	return nil
}
