// Package html emits the viewer page that hosts the topology diagram.
//
// The page embeds the SVG in an iframe sized from the placement canvas and
// carries the two tables the diagram's script populates: host information
// on load and vertex properties on click.
package html

import (
	"bytes"
	"fmt"

	"github.com/sasutils/sastopo2svg/pkg/layout"
)

// SVGFileName is the diagram file the iframe points at. The wrapper and
// the diagram are written side by side, so the reference is relative.
const SVGFileName = "sastopo.svg"

// Render emits the HTML wrapper for a placed topology.
func Render(p layout.Placement) []byte {
	var buf bytes.Buffer

	buf.WriteString("<!DOCTYPE html>\n")
	buf.WriteString("<html>\n<head>\n")
	buf.WriteString("  <title>SAS Topology</title>\n")
	buf.WriteString("  <style>\n")
	buf.WriteString("    body { font-family: sans-serif; }\n")
	buf.WriteString("    table { border-collapse: collapse; margin-bottom: 1em; }\n")
	buf.WriteString("    th, td { border: 1px solid #888; padding: 4px 12px; text-align: left; }\n")
	buf.WriteString("    th { background-color: #ddd; }\n")
	buf.WriteString("    iframe { border: 1px solid #888; }\n")
	buf.WriteString("  </style>\n")
	buf.WriteString("</head>\n<body>\n")
	buf.WriteString("  <h1>SAS Topology</h1>\n")

	buf.WriteString("  <h2>Host Information</h2>\n")
	buf.WriteString("  <table id=\"hostinfo\">\n")
	buf.WriteString("    <tr><th>Property</th><th>Value</th></tr>\n")
	buf.WriteString("  </table>\n")

	buf.WriteString("  <h2>Vertex Properties</h2>\n")
	buf.WriteString("  <table id=\"vtxprops\">\n")
	buf.WriteString("    <tr><th>Property</th><th>Value</th></tr>\n")
	buf.WriteString("  </table>\n")

	fmt.Fprintf(&buf, "  <iframe src=\"%s\" width=\"%d\" height=\"%d\"></iframe>\n",
		SVGFileName, p.CanvasWidth, p.CanvasHeight)

	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}
