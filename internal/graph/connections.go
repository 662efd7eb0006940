package graph

// Connection is one outgoing edge of a source place.
type Connection struct {
	Target string
	Weight float64
}

// ConnectionIndex groups outgoing connections by source, keeping the order in
// which sources and their targets first appear in the edge list.
type ConnectionIndex struct {
	targets map[string][]Connection
	sources []string
	edges   int
}

// Aggregate groups the edge elements by source. No edge is dropped; an edge
// that cannot be parsed fails the whole aggregation.
func Aggregate(edges []Element, mode Mode) (*ConnectionIndex, error) {
	idx := &ConnectionIndex{targets: make(map[string][]Connection)}

	for i, el := range edges {
		e, err := ParseEdge(el, i, mode)
		if err != nil {
			return nil, err
		}

		if _, seen := idx.targets[e.Source]; !seen {
			idx.sources = append(idx.sources, e.Source)
		}
		idx.targets[e.Source] = append(idx.targets[e.Source], Connection{Target: e.Target, Weight: e.Weight})
		idx.edges++
	}

	return idx, nil
}

// Sources returns the distinct sources in first-seen order.
func (c *ConnectionIndex) Sources() []string {
	out := make([]string, len(c.sources))
	copy(out, c.sources)
	return out
}

// Targets returns the connections of source in edge order.
func (c *ConnectionIndex) Targets(source string) []Connection {
	return c.targets[source]
}

// Len returns the number of aggregated edges.
func (c *ConnectionIndex) Len() int { return c.edges }

// Each calls fn for every edge, grouped by source.
func (c *ConnectionIndex) Each(fn func(source string, conn Connection)) {
	for _, src := range c.sources {
		for _, conn := range c.targets[src] {
			fn(src, conn)
		}
	}
}
