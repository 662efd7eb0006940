package graph

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Mode selects which identifier fields are read from elements.
type Mode int

const (
	// ModeRaw reads id, source and target.
	ModeRaw Mode = iota
	// ModeProcessed reads id_original, source_original and target_original,
	// which survive clustering steps that rename the live identifiers.
	ModeProcessed
)

// ModeFor maps the processed flag to a Mode.
func ModeFor(processed bool) Mode {
	if processed {
		return ModeProcessed
	}
	return ModeRaw
}

func (m Mode) String() string {
	if m == ModeProcessed {
		return "processed"
	}
	return "raw"
}

// NodeIDField returns the data key holding a node's name.
func (m Mode) NodeIDField() string {
	if m == ModeProcessed {
		return "id_original"
	}
	return "id"
}

// EdgeFields returns the data keys holding an edge's source and target.
func (m Mode) EdgeFields() (source, target string) {
	if m == ModeProcessed {
		return "source_original", "target_original"
	}
	return "source", "target"
}

// FieldError reports a problem with one field of one element.
type FieldError struct {
	Err   error
	Kind  string
	Field string
	Index int
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s #%d: %v %q", e.Kind, e.Index, e.Err, e.Field)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Node is a graph node with its identifier resolved.
type Node struct {
	Props map[string]any
	Name  string
	Lat   string
	Lng   string
}

// Edge is a graph edge with its endpoints resolved.
type Edge struct {
	Source string
	Target string
	Weight float64
}

// Text returns a data field rendered as a string.
func (el Element) Text(key string) (string, bool) {
	return text(el.Data[key])
}

// ParseNode builds a Node from the i-th node element.
func ParseNode(el Element, i int, mode Mode) (Node, error) {
	field := mode.NodeIDField()
	name, ok := text(el.Data[field])
	if !ok {
		return Node{}, &FieldError{Kind: "node", Index: i, Field: field, Err: ErrMissingField}
	}

	lat, _ := text(el.Data["lat"])
	lng, _ := text(el.Data["lng"])

	return Node{
		Name:  name,
		Lat:   lat,
		Lng:   lng,
		Props: el.Data,
	}, nil
}

// ParseEdge builds an Edge from the i-th edge element.
func ParseEdge(el Element, i int, mode Mode) (Edge, error) {
	srcField, tgtField := mode.EdgeFields()

	src, ok := text(el.Data[srcField])
	if !ok {
		return Edge{}, &FieldError{Kind: "edge", Index: i, Field: srcField, Err: ErrMissingField}
	}
	tgt, ok := text(el.Data[tgtField])
	if !ok {
		return Edge{}, &FieldError{Kind: "edge", Index: i, Field: tgtField, Err: ErrMissingField}
	}

	raw, present := el.Data["weight"]
	if !present || raw == nil {
		return Edge{}, &FieldError{Kind: "edge", Index: i, Field: "weight", Err: ErrMissingField}
	}
	weight, ok := number(raw)
	if !ok {
		return Edge{}, &FieldError{Kind: "edge", Index: i, Field: "weight", Err: ErrInvalidField}
	}

	return Edge{Source: src, Target: tgt, Weight: weight}, nil
}

// text renders identifier-like values as strings. Absent and null values
// report false.
func text(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return fmt.Sprint(t), true
	}
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}
