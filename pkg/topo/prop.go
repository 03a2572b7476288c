package topo

import (
	"strings"

	"github.com/sasutils/sastopo2svg/pkg/errors"
	"github.com/sasutils/sastopo2svg/pkg/topoxml"
)

// ParseProperty extracts a display property from one property nvlist.
//
// The nvlist is expected to carry a name pair and a value pair. An
// array-shaped value is flattened into a single comma-delimited string.
// Any other pair names are ignored. A property whose name or value cannot
// be resolved is a MalformedInput error carrying the offending nvlist.
func ParseProperty(nvl topoxml.NVList) (Property, error) {
	var name, value *string

	for _, pair := range nvl.Pairs {
		switch pair.Name {
		case topoxml.PropName:
			if v, ok := pair.Scalar(); ok {
				name = &v
			}
		case topoxml.PropValue:
			switch pair.Shape() {
			case topoxml.ShapeArray:
				vals, _ := pair.Array()
				joined := strings.Join(vals, ",")
				value = &joined
			case topoxml.ShapeScalar:
				v, _ := pair.Scalar()
				value = &v
			}
		}
	}

	if name == nil || value == nil {
		return Property{}, errors.New(errors.ErrCodeMalformedInput,
			"malformed property value nvlist: %s", nvl)
	}
	return Property{Name: *name, Value: *value}, nil
}
