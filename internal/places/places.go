// Package places loads the coordinate table that maps place names to
// geographic coordinates.
package places

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/woozymasta/cytogis/internal/input"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

// Placeholder is the value the upstream export writes for unknown coordinates.
const Placeholder = "undefined"

var (
	// ErrUnknownColumn is returned when a configured column is not in the table header.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidCoordinate is returned when a coordinate cell is not a number.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrInvalidDelimiter is returned when the delimiter is not a single character.
	ErrInvalidDelimiter = errors.New("delimiter must be a single character")
)

// naValues are the cell values treated as missing, matching the defaults of
// the spreadsheet tooling the tables are usually produced with.
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// Options controls how a coordinate table is read.
type Options struct {
	Delimiter string
	PlaceCol  string
	LatCol    string
	LonCol    string
	Drop      []string
}

// DefaultOptions returns the conventional table layout: ';' separated with
// Ort, Lat and Len columns.
func DefaultOptions() Options {
	return Options{
		Delimiter: ";",
		PlaceCol:  "Ort",
		LatCol:    "Lat",
		LonCol:    "Len",
	}
}

// Table maps place names to [lon, lat] points.
type Table struct {
	coords map[string]orb.Point
	order  []string
}

// Lookup returns the coordinates of a place.
func (t *Table) Lookup(name string) (orb.Point, bool) {
	p, ok := t.coords[name]
	return p, ok
}

// Has reports whether name is a known place.
func (t *Table) Has(name string) bool {
	_, ok := t.coords[name]
	return ok
}

// Len returns the number of known places.
func (t *Table) Len() int { return len(t.coords) }

// Names returns the known places in order of first appearance.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Load opens and parses the coordinate table at path.
func Load(path string, opts Options) (*Table, error) {
	f, err := input.Open(input.RoleCoordinates, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	t, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("coordinates file %q: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Int("places", t.Len()).
		Msg("Coordinate table loaded")

	return t, nil
}

// Read parses a coordinate table from r.
func Read(r io.Reader, opts Options) (*Table, error) {
	opts = withDefaults(opts)

	comma, size := utf8.DecodeRuneInString(opts.Delimiter)
	if size != len(opts.Delimiter) || comma == utf8.RuneError {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDelimiter, opts.Delimiter)
	}

	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &Table{coords: map[string]orb.Point{}}, nil
	}

	head := rows[0]
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], "\ufeff")
	}

	idx := func(col string) int {
		for i, h := range head {
			if h == col {
				return i
			}
		}
		return -1
	}

	dropped := make(map[int]bool, len(opts.Drop))
	for _, col := range opts.Drop {
		i := idx(col)
		if i < 0 {
			return nil, fmt.Errorf("%w: cannot drop %q", ErrUnknownColumn, col)
		}
		dropped[i] = true
	}

	placeIdx, latIdx, lonIdx := idx(opts.PlaceCol), idx(opts.LatCol), idx(opts.LonCol)
	for _, col := range []string{opts.PlaceCol, opts.LatCol, opts.LonCol} {
		if i := idx(col); i < 0 || dropped[i] {
			return nil, fmt.Errorf("%w: %q is required", ErrUnknownColumn, col)
		}
	}

	t := &Table{coords: make(map[string]orb.Point)}
	incomplete, placeholders := 0, 0

	for n, row := range rows[1:] {
		if hasMissing(row, len(head), dropped) {
			incomplete++
			continue
		}

		latRaw, lonRaw := row[latIdx], row[lonIdx]
		if latRaw == Placeholder || lonRaw == Placeholder {
			placeholders++
			continue
		}

		// header is line 1
		line := n + 2
		lat, err := parseCoordinate(latRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d column %q: %q", ErrInvalidCoordinate, line, opts.LatCol, latRaw)
		}
		lon, err := parseCoordinate(lonRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d column %q: %q", ErrInvalidCoordinate, line, opts.LonCol, lonRaw)
		}

		name := row[placeIdx]
		if _, ok := t.coords[name]; !ok {
			t.order = append(t.order, name)
		}
		t.coords[name] = orb.Point{lon, lat}
	}

	log.Trace().
		Int("rows", len(rows)-1).
		Int("incomplete", incomplete).
		Int("undefined", placeholders).
		Int("places", len(t.coords)).
		Msg("Coordinate rows filtered")

	return t, nil
}

// hasMissing reports whether any kept column of row is missing or an NA marker.
func parseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func hasMissing(row []string, width int, dropped map[int]bool) bool {
	for i := 0; i < width; i++ {
		if dropped[i] {
			continue
		}
		if i >= len(row) {
			return true
		}
		if _, na := naValues[row[i]]; na {
			return true
		}
	}
	return false
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.Delimiter == "" {
		opts.Delimiter = def.Delimiter
	}
	if opts.PlaceCol == "" {
		opts.PlaceCol = def.PlaceCol
	}
	if opts.LatCol == "" {
		opts.LatCol = def.LatCol
	}
	if opts.LonCol == "" {
		opts.LonCol = def.LonCol
	}
	return opts
}
