// Package io exports the topology digraph in machine-readable form.
package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/sasutils/sastopo2svg/pkg/errors"
	"github.com/sasutils/sastopo2svg/pkg/topo"
)

type graph struct {
	ProductID string   `json:"product_id"`
	Nodename  string   `json:"nodename"`
	OSVersion string   `json:"os_version"`
	Timestamp string   `json:"timestamp"`
	Vertices  []vertex `json:"vertices"`
	Edges     []edge   `json:"edges"`
}

type vertex struct {
	FMRI       string            `json:"fmri"`
	Kind       string            `json:"kind"`
	Instance   uint64            `json:"instance"`
	Properties map[string]string `json:"properties,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes the digraph as JSON and writes it to w. Vertices are
// emitted in sorted FMRI order and edges follow each source vertex's edge
// list, so equal graphs produce byte-equal output.
func WriteJSON(g *topo.Digraph, w io.Writer) error {
	out := graph{
		ProductID: g.ProductID,
		Nodename:  g.Nodename,
		OSVersion: g.OSVersion,
		Timestamp: g.Timestamp,
		Vertices:  make([]vertex, 0, g.VertexCount()),
		Edges:     make([]edge, 0, g.EdgeCount()),
	}

	for _, fmri := range g.FMRIs() {
		vtx, _ := g.Vertex(fmri)
		v := vertex{FMRI: vtx.FMRI, Kind: string(vtx.Kind), Instance: vtx.Instance}
		if len(vtx.Properties) > 0 {
			v.Properties = make(map[string]string, len(vtx.Properties))
			for _, p := range vtx.Properties {
				v.Properties[p.Name] = p.Value
			}
		}
		out.Vertices = append(out.Vertices, v)

		for _, target := range vtx.OutgoingEdges {
			out.Edges = append(out.Edges, edge{From: fmri, To: target})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode topology")
	}
	return nil
}

// ExportJSON writes the digraph to a JSON file at path.
func ExportJSON(g *topo.Digraph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIOFailure, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
