// Package topoxml deserializes SAS topology snapshots from their XML form.
//
// A snapshot is a directed graph of fabric components serialized as nested
// name-value lists (nvlists). This package only maps the XML onto typed Go
// structs; interpreting the tree into a digraph is done by [pkg/topo].
//
// # Shape
//
// The document root carries the host metadata as attributes and a list of
// vertex records. Each vertex has an FMRI, a kind name, a hex instance
// string, an optional outgoing-edge list, and a set of property groups
// encoded as nvlists:
//
//	<topo-digraph product-id="..." nodename="..." os-version="..." timestamp="...">
//	  <vertices>
//	    <vertex fmri="sas://..." name="initiator" instance="0x0">
//	      <propgroups>
//	        <nvlist>
//	          <nvpair name="name" type="string" value="authority"/>
//	          <nvpair name="values" type="nvlist-array">
//	            <nvlist>
//	              <nvpair name="name" type="string" value="server-id"/>
//	              <nvpair name="value" type="string" value="coke"/>
//	            </nvlist>
//	          </nvpair>
//	        </nvlist>
//	      </propgroups>
//	      <outgoing-edges>
//	        <edge fmri="sas://...:port=0"/>
//	      </outgoing-edges>
//	    </vertex>
//	  </vertices>
//	</topo-digraph>
package topoxml

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/sasutils/sastopo2svg/pkg/errors"
)

// Well-known nvpair names used by the snapshot schema.
const (
	// PGName is the nvpair holding a property group's name.
	PGName = "name"
	// PGVals is the nvpair holding a property group's value list.
	PGVals = "values"
	// PropName is the nvpair holding a property's name.
	PropName = "name"
	// PropValue is the nvpair holding a property's value (scalar or array).
	PropValue = "value"
)

// Document is the deserialized form of a topology snapshot.
type Document struct {
	XMLName   xml.Name `xml:"topo-digraph"`
	ProductID string   `xml:"product-id,attr"`
	Nodename  string   `xml:"nodename,attr"`
	OSVersion string   `xml:"os-version,attr"`
	Timestamp string   `xml:"timestamp,attr"`
	Vertices  []Vertex `xml:"vertices>vertex"`
}

// Vertex is one raw vertex record.
//
// OutgoingEdges is nil when the element is absent, which marks a leaf.
// An empty element and an absent element both mean "no downstream edges",
// but the distinction is preserved for the graph builder.
type Vertex struct {
	FMRI          string    `xml:"fmri,attr"`
	Name          string    `xml:"name,attr"`
	Instance      string    `xml:"instance,attr"`
	PropGroups    []NVList  `xml:"propgroups>nvlist"`
	OutgoingEdges *EdgeList `xml:"outgoing-edges"`
}

// EdgeList wraps the outgoing-edge element so that its presence is
// distinguishable from an empty edge set.
type EdgeList struct {
	Edges []Edge `xml:"edge"`
}

// Edge references a downstream vertex by FMRI.
type Edge struct {
	FMRI string `xml:"fmri,attr"`
}

// NVList is a generic name-value list node.
type NVList struct {
	Pairs []NVPair `xml:"nvpair"`
}

// NVPair is one entry in an nvlist. Exactly one of the three payload
// shapes is populated: a scalar value attribute, an array of element
// children, or a list of nested nvlists. Use [NVPair.Shape] or the typed
// accessors instead of probing the fields directly.
type NVPair struct {
	Name     string   `xml:"name,attr"`
	Type     string   `xml:"type,attr"`
	Value    string   `xml:"value,attr"`
	Elements []NVPair `xml:"nvpair"`
	Lists    []NVList `xml:"nvlist"`
}

// Shape identifies which payload variant an nvpair carries.
type Shape int

const (
	// ShapeScalar means the pair carries a single string value.
	ShapeScalar Shape = iota
	// ShapeArray means the pair carries an array of element values.
	ShapeArray
	// ShapeLists means the pair carries nested nvlists.
	ShapeLists
)

// Shape reports the payload variant of the pair. Nested nvlists win over
// array elements, which win over the scalar attribute; a pair with no
// payload at all reports ShapeScalar with an empty value.
func (p NVPair) Shape() Shape {
	switch {
	case len(p.Lists) > 0:
		return ShapeLists
	case len(p.Elements) > 0:
		return ShapeArray
	default:
		return ShapeScalar
	}
}

// Scalar returns the pair's scalar value. ok is false when the pair
// carries an array or nested nvlists instead.
func (p NVPair) Scalar() (value string, ok bool) {
	if p.Shape() != ShapeScalar {
		return "", false
	}
	return p.Value, true
}

// Array returns the values of the pair's array elements. ok is false when
// the pair is not array-shaped.
func (p NVPair) Array() (values []string, ok bool) {
	if p.Shape() != ShapeArray {
		return nil, false
	}
	values = make([]string, len(p.Elements))
	for i, e := range p.Elements {
		values[i] = e.Value
	}
	return values, true
}

// Nested returns the pair's nested nvlists. ok is false when the pair is
// not list-shaped.
func (p NVPair) Nested() (lists []NVList, ok bool) {
	if p.Shape() != ShapeLists {
		return nil, false
	}
	return p.Lists, true
}

// String renders a compact single-line form of the nvlist, used in
// malformed-input errors so the offending node is visible in the message.
func (l NVList) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, p := range l.Pairs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString("}")
	return sb.String()
}

// String renders a compact single-line form of the nvpair.
func (p NVPair) String() string {
	switch p.Shape() {
	case ShapeArray:
		vals, _ := p.Array()
		return fmt.Sprintf("%s=[%s]", p.Name, strings.Join(vals, " "))
	case ShapeLists:
		parts := make([]string, len(p.Lists))
		for i, l := range p.Lists {
			parts[i] = l.String()
		}
		return fmt.Sprintf("%s=(%s)", p.Name, strings.Join(parts, " "))
	default:
		return fmt.Sprintf("%s=%q", p.Name, p.Value)
	}
}

// Parse decodes a snapshot document from XML bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode topology XML")
	}
	return &doc, nil
}

// ParseFile reads and decodes the snapshot at path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIOFailure, err, "read %s", path)
	}
	return Parse(data)
}
