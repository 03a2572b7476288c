// Package dot renders the topology as a Graphviz node-link diagram, an
// alternative to the fixed-grid layout for fabrics where automatic edge
// routing reads better.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/sasutils/sastopo2svg/pkg/errors"
	"github.com/sasutils/sastopo2svg/pkg/topo"
)

// kindFill distinguishes the component kinds by node color.
var kindFill = map[topo.Kind]string{
	topo.KindInitiator: "lightblue",
	topo.KindPort:      "white",
	topo.KindExpander:  "lightyellow",
	topo.KindTarget:    "lightgrey",
}

// ToDOT converts a topology digraph to Graphviz DOT. Initiators rank at
// the left and edges flow toward targets. The result can be rendered with
// [RenderSVG].
func ToDOT(g *topo.Digraph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph sastopo {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, fmri := range g.FMRIs() {
		vtx, _ := g.Vertex(fmri)
		attrs := fmtAttrs(vtx)
		fmt.Fprintf(&buf, "  %q [%s];\n", fmri, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, fmri := range g.FMRIs() {
		vtx, _ := g.Vertex(fmri)
		for _, edge := range vtx.OutgoingEdges {
			fmt.Fprintf(&buf, "  %q -> %q;\n", fmri, edge)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(v *topo.Vertex) []string {
	label := fmt.Sprintf("%s\n%s", v.Kind, v.FMRI)
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill, ok := kindFill[v.Kind]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%s", fill))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return buf.Bytes(), nil
}
