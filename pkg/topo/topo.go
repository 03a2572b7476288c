// Package topo models a SAS fabric topology as a directed graph.
//
// The digraph is built once per run from a deserialized snapshot
// ([topoxml.Document]), consulted read-only by the layout engine, and
// discarded after rendering. It is not safe for concurrent mutation, which
// never happens: the pipeline is a single sequential pass.
package topo

import (
	"maps"
	"slices"

	"github.com/sasutils/sastopo2svg/pkg/errors"
)

// Kind names the four SAS fabric component kinds.
type Kind string

// Vertex kinds in SAS scheme topology.
const (
	KindInitiator Kind = "initiator"
	KindPort      Kind = "port"
	KindExpander  Kind = "expander"
	KindTarget    Kind = "target"
)

// IconFile returns the icon asset path for the kind, relative to the
// output directory. An unrecognized kind is a fatal input error.
func (k Kind) IconFile() (string, error) {
	switch k {
	case KindInitiator:
		return "assets/icons/initiator.png", nil
	case KindPort:
		return "assets/icons/port.png", nil
	case KindExpander:
		return "assets/icons/expander.png", nil
	case KindTarget:
		return "assets/icons/target.png", nil
	default:
		return "", errors.New(errors.ErrCodeMalformedInput, "unexpected vertex kind %q", string(k))
	}
}

// Property is a display property attached to a vertex. Array-typed source
// values are pre-joined with commas before storage. Immutable once created.
type Property struct {
	Name  string
	Value string
}

// Vertex is one fabric component.
//
// OutgoingEdges is nil for a vertex whose snapshot record had no edge
// list, and an empty non-nil slice for a record with an empty list. Both
// mean "no downstream edges"; the distinction mirrors the snapshot.
//
// Vertices carry no geometry: placement is computed separately by
// [pkg/layout] and keyed by FMRI, so a vertex can never be read in a
// half-laid-out state.
type Vertex struct {
	FMRI          string     // fabric-assigned identifier, the graph key
	Kind          Kind       // one of the four component kinds
	Instance      uint64     // decoded from the snapshot's hex instance string
	Properties    []Property // display properties in snapshot order
	OutgoingEdges []string   // FMRIs of directly-connected downstream vertices
}

// IsLeaf reports whether the vertex has no downstream edges.
func (v *Vertex) IsLeaf() bool { return len(v.OutgoingEdges) == 0 }

// Digraph is the in-memory topology graph.
type Digraph struct {
	// Host metadata, passed through from the snapshot unchanged.
	ProductID string
	Nodename  string
	OSVersion string
	Timestamp string

	vertices   map[string]*Vertex
	initiators []string // discovery order, drives deterministic layout
}

// NewDigraph creates an empty digraph carrying the given host metadata.
func NewDigraph(productID, nodename, osVersion, timestamp string) *Digraph {
	return &Digraph{
		ProductID: productID,
		Nodename:  nodename,
		OSVersion: osVersion,
		Timestamp: timestamp,
		vertices:  make(map[string]*Vertex),
	}
}

// AddVertex inserts a vertex, recording it as an initiator when its kind
// matches. Returns a MalformedInput error for an empty or duplicate FMRI.
func (g *Digraph) AddVertex(v *Vertex) error {
	if v.FMRI == "" {
		return errors.New(errors.ErrCodeMalformedInput, "vertex has empty fmri")
	}
	if _, exists := g.vertices[v.FMRI]; exists {
		return errors.New(errors.ErrCodeMalformedInput, "duplicate vertex fmri %q", v.FMRI)
	}
	g.vertices[v.FMRI] = v
	if v.Kind == KindInitiator {
		g.initiators = append(g.initiators, v.FMRI)
	}
	return nil
}

// Vertex returns the vertex with the given FMRI and true, or nil and
// false if not found.
func (g *Digraph) Vertex(fmri string) (*Vertex, bool) {
	v, ok := g.vertices[fmri]
	return v, ok
}

// Initiators returns the FMRIs of initiator vertices in discovery order.
// These are the layout roots. The returned slice is a read-only view.
func (g *Digraph) Initiators() []string { return g.initiators }

// FMRIs returns every vertex FMRI in sorted order, for exporters that
// need a deterministic iteration independent of snapshot order.
func (g *Digraph) FMRIs() []string {
	return slices.Sorted(maps.Keys(g.vertices))
}

// VertexCount returns the number of vertices in the graph.
func (g *Digraph) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the total number of outgoing edges across all vertices.
func (g *Digraph) EdgeCount() int {
	n := 0
	for _, v := range g.vertices {
		n += len(v.OutgoingEdges)
	}
	return n
}

// Validate checks that every edge target resolves to a known vertex.
// A dangling reference is a LookupFailure naming the missing FMRI.
func (g *Digraph) Validate() error {
	for _, v := range g.vertices {
		for _, edge := range v.OutgoingEdges {
			if _, ok := g.vertices[edge]; !ok {
				return errors.New(errors.ErrCodeLookupFailure,
					"vertex %q references unknown edge target %q", v.FMRI, edge)
			}
		}
	}
	return nil
}
