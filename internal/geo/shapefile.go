package geo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

const (
	dbfNameLen  = 10
	dbfFieldLen = 254
)

var (
	// ErrEmptyCollection is returned when there is nothing to derive a shape type from.
	ErrEmptyCollection = errors.New("collection has no features")

	// ErrMixedGeometry is returned when features do not share one geometry type.
	ErrMixedGeometry = errors.New("shapefile needs a single geometry type")
)

// WriteShapefile writes the collection as an ESRI Shapefile (.shp, .shx,
// .dbf) at path. Points become a POINT layer and LineStrings a POLYLINE
// layer; properties are stored as text attributes.
func WriteShapefile(path string, c *Collection) error {
	if c.Len() == 0 {
		return ErrEmptyCollection
	}

	shapeType, err := shapeTypeOf(c)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	keys, fields := attributeFields(c)

	w, err := shp.Create(path, shapeType)
	if err != nil {
		return err
	}

	err = writeRecords(w, c, keys, fields)
	w.Close()
	if err != nil {
		return err
	}

	// go-shp names the attribute table "<base>dbf", without the dot.
	base := path
	if strings.HasSuffix(strings.ToLower(base), ".shp") {
		base = base[:len(base)-len(".shp")]
	}
	if err := os.Rename(base+"dbf", base+".dbf"); err != nil {
		return fmt.Errorf("attribute table: %w", err)
	}

	log.Debug().
		Str("path", path).
		Int("features", c.Len()).
		Int("fields", len(fields)).
		Msg("Shapefile written")

	return nil
}

func writeRecords(w *shp.Writer, c *Collection, keys []string, fields []shp.Field) error {
	if err := w.SetFields(fields); err != nil {
		return err
	}

	for _, f := range c.Features() {
		row := int(w.Write(toShape(f.Geometry)))

		for i, key := range keys {
			val := clip(attrText(f.Properties[key]), int(fields[i].Size))
			if err := w.WriteAttribute(row, i, val); err != nil {
				return fmt.Errorf("feature %d attribute %q: %w", row, key, err)
			}
		}
	}

	return nil
}

func shapeTypeOf(c *Collection) (shp.ShapeType, error) {
	var kind string
	for _, f := range c.Features() {
		t := f.Geometry.GeoJSONType()
		if kind == "" {
			kind = t
		} else if t != kind {
			return 0, fmt.Errorf("%w: %s and %s", ErrMixedGeometry, kind, t)
		}
	}

	switch kind {
	case "Point":
		return shp.POINT, nil
	case "LineString":
		return shp.POLYLINE, nil
	default:
		return 0, fmt.Errorf("unsupported geometry %s", kind)
	}
}

func toShape(g orb.Geometry) shp.Shape {
	switch t := g.(type) {
	case orb.Point:
		return &shp.Point{X: t[0], Y: t[1]}
	case orb.LineString:
		part := make([]shp.Point, len(t))
		for i, p := range t {
			part[i] = shp.Point{X: p[0], Y: p[1]}
		}
		return shp.NewPolyLine([][]shp.Point{part})
	}
	return &shp.Null{}
}

// attributeFields derives DBF text fields from the union of property keys.
// Names are cut to the DBF limit and de-duplicated with a numeric suffix.
func attributeFields(c *Collection) ([]string, []shp.Field) {
	width := make(map[string]int)
	for _, f := range c.Features() {
		for key, val := range f.Properties {
			n := len(attrText(val))
			if w, ok := width[key]; !ok || n > w {
				width[key] = n
			}
		}
	}

	keys := make([]string, 0, len(width))
	for key := range width {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	used := make(map[string]bool, len(keys))
	fields := make([]shp.Field, len(keys))
	for i, key := range keys {
		size := min(max(width[key], 1), dbfFieldLen)
		fields[i] = shp.StringField(fieldName(key, used), uint8(size))
	}

	return keys, fields
}

func fieldName(key string, used map[string]bool) string {
	name := clip(key, dbfNameLen)
	for n := 1; used[name]; n++ {
		suffix := strconv.Itoa(n)
		name = clip(key, dbfNameLen-len(suffix)) + suffix
	}
	used[name] = true
	return name
}

func attrText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// clip shortens s to at most n bytes without splitting a rune.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
