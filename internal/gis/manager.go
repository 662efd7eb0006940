// Package gis turns a graph export and a coordinate table into GeoJSON node
// and edge layers.
package gis

import (
	"github.com/woozymasta/cytogis/internal/geo"
	"github.com/woozymasta/cytogis/internal/graph"
	"github.com/woozymasta/cytogis/internal/places"

	"github.com/rs/zerolog/log"
)

// Options configures a Manager.
type Options struct {
	GraphPath string
	CoordPath string
	Table     places.Options

	// NodeDrop lists node data keys left out of Point properties.
	NodeDrop []string

	// Processed selects the *_original identifier fields for nodes and edges.
	Processed bool
}

// NodeStats counts the outcome of a node run.
type NodeStats struct {
	Total     int
	Emitted   int
	Unlocated int
}

// EdgeStats counts the outcome of an edge run. Unresolved edges have at least
// one endpoint missing from the coordinate table.
type EdgeStats struct {
	Total      int
	Emitted    int
	Unresolved int
}

// Manager holds the loaded graph and coordinate table. It is not safe for
// concurrent use, but its methods only read the loaded data.
type Manager struct {
	doc   *graph.Document
	table *places.Table
	drop  []string
	mode  graph.Mode
}

// New loads the graph and the coordinate table described by opts.
func New(opts Options) (*Manager, error) {
	doc, err := graph.Load(opts.GraphPath)
	if err != nil {
		return nil, err
	}

	table, err := places.Load(opts.CoordPath, opts.Table)
	if err != nil {
		return nil, err
	}

	m := NewFromData(doc, table, opts)

	log.Info().
		Str("graph", opts.GraphPath).
		Str("coordinates", opts.CoordPath).
		Str("mode", m.mode.String()).
		Int("nodes", len(doc.Nodes)).
		Int("edges", len(doc.Edges)).
		Int("known_places", table.Len()).
		Msg("Inputs loaded")

	return m, nil
}

// NewFromData builds a Manager over already loaded inputs. Paths in opts are
// ignored.
func NewFromData(doc *graph.Document, table *places.Table, opts Options) *Manager {
	return &Manager{
		doc:   doc,
		table: table,
		drop:  opts.NodeDrop,
		mode:  graph.ModeFor(opts.Processed),
	}
}

// KnownPlaces returns the number of places with coordinates.
func (m *Manager) KnownPlaces() int { return m.table.Len() }

// NodeFeatures builds one Point per node that has a usable latitude. The
// coordinate table is not consulted.
func (m *Manager) NodeFeatures() (*geo.Collection, NodeStats, error) {
	fc := geo.NewCollection()
	stats := NodeStats{Total: len(m.doc.Nodes)}

	for i, el := range m.doc.Nodes {
		if lat, _ := el.Text("lat"); !geo.Located(lat) {
			stats.Unlocated++
			continue
		}

		node, err := graph.ParseNode(el, i, m.mode)
		if err != nil {
			return nil, stats, err
		}

		f, err := geo.NodePoint(node, m.drop)
		if err != nil {
			return nil, stats, err
		}

		fc.Append(f)
		stats.Emitted++
	}

	log.Debug().
		Int("nodes", stats.Total).
		Int("points", stats.Emitted).
		Int("unlocated", stats.Unlocated).
		Msg("Node features built")

	return fc, stats, nil
}

// EdgeFeatures builds one LineString per edge whose source and target are
// both known places. Other edges are counted as unresolved and left out.
func (m *Manager) EdgeFeatures() (*geo.Collection, EdgeStats, error) {
	idx, err := graph.Aggregate(m.doc.Edges, m.mode)
	if err != nil {
		return nil, EdgeStats{}, err
	}

	fc := geo.NewCollection()
	stats := EdgeStats{Total: idx.Len()}

	idx.Each(func(source string, conn graph.Connection) {
		from, okFrom := m.table.Lookup(source)
		to, okTo := m.table.Lookup(conn.Target)
		if !okFrom || !okTo {
			stats.Unresolved++
			log.Trace().
				Str("source", source).
				Str("target", conn.Target).
				Msg("Edge endpoint has no coordinates, skipped")
			return
		}

		fc.Append(geo.EdgeLine(source, conn.Target, conn.Weight, from, to))
		stats.Emitted++
	})

	log.Debug().
		Int("edges", stats.Total).
		Int("lines", stats.Emitted).
		Int("unresolved", stats.Unresolved).
		Msg("Edge features built")

	return fc, stats, nil
}
