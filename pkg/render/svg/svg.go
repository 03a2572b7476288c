// Package svg emits the layered topology diagram as an SVG document.
//
// The emitter is pure: it consumes the digraph and a completed
// [layout.Placement] and produces bytes. Node elements for every depth
// column are emitted before any connector, and connectors read the target
// geometry out of the placement, so emission order can never observe a
// vertex that has not been placed.
package svg

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/sasutils/sastopo2svg/pkg/layout"
	"github.com/sasutils/sastopo2svg/pkg/topo"
)

// script is the embedded ECMAScript that populates the host-information
// and vertex-property tables when a node is clicked.
//
//go:embed sastopo.js
var script string

// connectorStub is the length of the horizontal segment leaving a
// vertex's right edge before edge routing begins.
const connectorStub = 50

// Render emits the SVG document for a placed digraph.
//
// Element order: script, filter, hidden host-properties element, then one
// group per vertex in depth-then-column order, then the connector lines
// in the same traversal order. An unrecognized vertex kind fails the
// render; nothing is emitted partially to the caller.
func Render(g *topo.Digraph, p layout.Placement) ([]byte, error) {
	var buf bytes.Buffer

	l := p.Layering
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" overflow="scroll" viewBox="0 0 %d %d">`+"\n",
		100*l.MaxDepth, 250*l.MaxHeight)

	fmt.Fprintf(&buf, "  <script type=\"application/ecmascript\"><![CDATA[%s]]></script>\n", script)
	buf.WriteString("  <filter id=\"linear\">\n")
	buf.WriteString("    <feColorMatrix type=\"matrix\" values=\"1 0 0 1.9 -2.2 0 1 0 0.0 0.3 0 0 1 0 0.5 0 0 0 1 0.2\" />\n")
	buf.WriteString("  </filter>\n")

	renderHostProps(&buf, g)

	if err := renderVertices(&buf, g, p); err != nil {
		return nil, err
	}
	renderConnectors(&buf, g, p)

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// renderHostProps emits a hidden element carrying the snapshot metadata.
// The embedded script reads its attributes to fill the host table.
func renderHostProps(buf *bytes.Buffer, g *topo.Digraph) {
	fmt.Fprintf(buf,
		"  <rect x=\"1\" y=\"1\" width=\"1\" height=\"1\" visibility=\"hidden\" id=\"hostprops\" product-id=\"%s\" nodename=\"%s\" os-version=\"%s\" timestamp=\"%s\" />\n",
		escape(g.ProductID), escape(g.Nodename), escape(g.OSVersion), escape(g.Timestamp))
}

func renderVertices(buf *bytes.Buffer, g *topo.Digraph, p layout.Placement) error {
	l := p.Layering
	for depth := 1; depth <= l.MaxDepth; depth++ {
		for _, fmri := range l.Columns[depth] {
			vtx, ok := g.Vertex(fmri)
			if !ok {
				// Placement was computed from this graph; a miss here is
				// unreachable short of caller error.
				continue
			}
			box := p.Boxes[fmri]

			icon, err := vtx.Kind.IconFile()
			if err != nil {
				return err
			}

			fmt.Fprintf(buf, "  <g onclick=\"showInfo(evt)\" name=\"%s\" fmri=\"%s\"", escape(string(vtx.Kind)), escape(fmri))
			for _, prop := range vtx.Properties {
				fmt.Fprintf(buf, " %s=\"%s\"", prop.Name, escape(prop.Value))
			}
			buf.WriteString(">\n")
			fmt.Fprintf(buf, "    <image href=\"%s\" x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" />\n",
				icon, box.X, box.Y, box.Width, box.Height)
			buf.WriteString("  </g>\n")
		}
	}
	return nil
}

// renderConnectors draws the edges: a short stub leaving the source's
// right edge, then per downstream edge a vertical segment to the target's
// vertical center and a horizontal segment into its left edge.
func renderConnectors(buf *bytes.Buffer, g *topo.Digraph, p layout.Placement) {
	l := p.Layering
	for depth := 1; depth <= l.MaxDepth; depth++ {
		for _, fmri := range l.Columns[depth] {
			vtx, ok := g.Vertex(fmri)
			if !ok || len(vtx.OutgoingEdges) == 0 {
				continue
			}
			box := p.Boxes[fmri]

			stubX := box.Right() + connectorStub
			stubY := box.MidY()
			line(buf, box.Right(), stubY, stubX, stubY)

			for _, edge := range vtx.OutgoingEdges {
				target := p.Boxes[edge]
				line(buf, stubX, stubY, stubX, target.MidY())
				line(buf, stubX, target.MidY(), target.X, target.MidY())
			}
		}
	}
}

func line(buf *bytes.Buffer, x1, y1, x2, y2 int) {
	fmt.Fprintf(buf, "  <line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\" stroke=\"black\" stroke-width=\"2\" />\n",
		x1, y1, x2, y2)
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string { return attrEscaper.Replace(s) }
