// Package graph reads Cytoscape JSON exports and turns their elements into
// explicit node and edge records.
package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/woozymasta/cytogis/internal/input"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNoElements is returned for documents without an "elements" object.
	ErrNoElements = errors.New("document has no elements")

	// ErrMissingField is returned when a record lacks a field the operation needs.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidField is returned when a field is present but has the wrong type.
	ErrInvalidField = errors.New("invalid field")
)

// Element is a node or edge as exported, with its data object left untyped.
type Element struct {
	Data map[string]any `json:"data"`
}

// Document holds the element lists of a graph export.
type Document struct {
	Nodes []Element
	Edges []Element
}

type cyjsRoot struct {
	Elements *struct {
		Nodes []Element `json:"nodes"`
		Edges []Element `json:"edges"`
	} `json:"elements"`
}

// Load opens and decodes the graph export at path.
func Load(path string) (*Document, error) {
	f, err := input.Open(input.RoleGraph, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("graph file %q: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Int("nodes", len(doc.Nodes)).
		Int("edges", len(doc.Edges)).
		Msg("Graph loaded")

	return doc, nil
}

// Decode reads a graph export from r. Numbers in data objects are kept as
// json.Number so they are written back unchanged.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var root cyjsRoot
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	if root.Elements == nil {
		return nil, ErrNoElements
	}

	return &Document{
		Nodes: root.Elements.Nodes,
		Edges: root.Elements.Edges,
	}, nil
}

// DecodeBytes is Decode for an in-memory document.
func DecodeBytes(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}
