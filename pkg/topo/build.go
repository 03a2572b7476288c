package topo

import (
	"strconv"
	"strings"

	"github.com/sasutils/sastopo2svg/pkg/errors"
	"github.com/sasutils/sastopo2svg/pkg/topoxml"
)

// protocolGroup is the property group whose only payload is an nvlist
// form of the vertex FMRI. The FMRI is already carried on the vertex, so
// the group is skipped unconditionally.
const protocolGroup = "protocol"

// Build walks a deserialized snapshot once and constructs the digraph.
//
// Vertex and property order in the result mirrors snapshot order exactly.
// Build fails with MalformedInput on schema violations and with
// LookupFailure when an edge references an FMRI absent from the snapshot.
func Build(doc *topoxml.Document) (*Digraph, error) {
	g := NewDigraph(doc.ProductID, doc.Nodename, doc.OSVersion, doc.Timestamp)

	for i := range doc.Vertices {
		v, err := buildVertex(&doc.Vertices[i])
		if err != nil {
			return nil, err
		}
		if err := g.AddVertex(v); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func buildVertex(raw *topoxml.Vertex) (*Vertex, error) {
	instance, err := parseInstance(raw.Instance)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err,
			"vertex %q has invalid instance %q", raw.FMRI, raw.Instance)
	}

	v := &Vertex{
		FMRI:     raw.FMRI,
		Kind:     Kind(raw.Name),
		Instance: instance,
	}

	// nil stays nil for a record with no edge list; a present but empty
	// list becomes an empty non-nil slice.
	if raw.OutgoingEdges != nil {
		v.OutgoingEdges = make([]string, 0, len(raw.OutgoingEdges.Edges))
		for _, e := range raw.OutgoingEdges.Edges {
			v.OutgoingEdges = append(v.OutgoingEdges, e.FMRI)
		}
	}

	for _, pg := range raw.PropGroups {
		if err := collectGroupProps(v, pg); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// collectGroupProps appends the display properties of one property group
// to the vertex. A group with a name but no resolvable value list is
// structurally present but carries nothing displayable and is skipped.
func collectGroupProps(v *Vertex, pg topoxml.NVList) error {
	var name string
	var props []topoxml.NVList

	for _, pair := range pg.Pairs {
		switch pair.Name {
		case topoxml.PGName:
			if s, ok := pair.Scalar(); ok {
				name = s
			}
		case topoxml.PGVals:
			if lists, ok := pair.Nested(); ok {
				props = lists
			}
		default:
			return errors.New(errors.ErrCodeMalformedInput,
				"vertex %q: unexpected nvpair %q in propgroup %s", v.FMRI, pair.Name, pg)
		}
	}

	if name == "" {
		return errors.New(errors.ErrCodeMalformedInput,
			"vertex %q: propgroup without %s: %s", v.FMRI, topoxml.PGName, pg)
	}
	if props == nil || name == protocolGroup {
		return nil
	}

	for _, propNvl := range props {
		prop, err := ParseProperty(propNvl)
		if err != nil {
			return err
		}
		v.Properties = append(v.Properties, prop)
	}
	return nil
}

// parseInstance decodes the hexadecimal instance field, stripping the
// leading two-character radix marker (e.g. "0x").
func parseInstance(s string) (uint64, error) {
	if len(s) < 3 {
		return 0, errors.New(errors.ErrCodeMalformedInput, "instance too short")
	}
	n, err := strconv.ParseUint(strings.ToLower(s[2:]), 16, 64)
	if err != nil {
		return 0, err
	}
	return n, nil
}
