// Package layout computes layered placements for topology digraphs.
//
// Layering walks the digraph depth-first from every initiator and assigns
// each visited vertex to a depth column (1 = the initiators themselves).
// Placement then turns column assignments into pixel coordinates on a
// uniform grid, which the renderers consume.
//
// A vertex reachable through multiple paths at equal depth is appended to
// that column once per visit. The duplicates inflate the column height and
// therefore the canvas size; this mirrors the snapshot tooling this
// renderer replaces and keeps diagrams comparable across versions.
package layout

import (
	"github.com/sasutils/sastopo2svg/pkg/errors"
	"github.com/sasutils/sastopo2svg/pkg/topo"
)

// Columns maps a depth (1-based) to the FMRIs visited at that depth, in
// DFS visitation order across all roots processed in root-list order.
type Columns map[int][]string

// Layering is the result of the depth-first walk.
type Layering struct {
	// MaxDepth is the longest root-to-leaf path length.
	MaxDepth int
	// MaxHeight is the largest column occupancy over depths 1..MaxDepth.
	MaxHeight int
	// Columns holds the per-depth visitation lists.
	Columns Columns
}

// Layer walks the digraph from every initiator and assigns vertices to
// depth columns.
//
// An edge target missing from the digraph is a LookupFailure. Revisiting
// a vertex already on the active path is a CycleDetected failure; the
// snapshot claims to be a DAG and a cycle would otherwise recurse without
// bound.
func Layer(g *topo.Digraph) (Layering, error) {
	l := Layering{Columns: Columns{}}
	onPath := make(map[string]bool)

	for _, fmri := range g.Initiators() {
		vtx, ok := g.Vertex(fmri)
		if !ok {
			return Layering{}, errors.New(errors.ErrCodeLookupFailure,
				"no vertex with initiator fmri %q", fmri)
		}
		depth, err := visit(g, vtx, l.Columns, 0, onPath)
		if err != nil {
			return Layering{}, err
		}
		if depth > l.MaxDepth {
			l.MaxDepth = depth
		}
	}

	for depth := 1; depth <= l.MaxDepth; depth++ {
		if h := len(l.Columns[depth]); h > l.MaxHeight {
			l.MaxHeight = h
		}
	}
	return l, nil
}

// visit places vtx at depth+1 and recurses into its outgoing edges,
// returning the maximum depth reached in this subtree.
func visit(g *topo.Digraph, vtx *topo.Vertex, cols Columns, depth int, onPath map[string]bool) (int, error) {
	if onPath[vtx.FMRI] {
		return 0, errors.New(errors.ErrCodeCycleDetected,
			"vertex %q is part of a cycle", vtx.FMRI)
	}
	onPath[vtx.FMRI] = true
	defer delete(onPath, vtx.FMRI)

	maxDepth := depth + 1
	cols[maxDepth] = append(cols[maxDepth], vtx.FMRI)

	for _, edge := range vtx.OutgoingEdges {
		next, ok := g.Vertex(edge)
		if !ok {
			return 0, errors.New(errors.ErrCodeLookupFailure,
				"vertex %q references unknown edge target %q", vtx.FMRI, edge)
		}
		rc, err := visit(g, next, cols, depth+1, onPath)
		if err != nil {
			return 0, err
		}
		if rc > maxDepth {
			maxDepth = rc
		}
	}
	return maxDepth, nil
}
