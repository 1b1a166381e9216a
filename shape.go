package vsx

import (
	"context"
	"encoding/json"
	"strconv"
)

// Shape represents a single master definition within a stencil. Names are
// not unique; duplicates within and across stencils are expected and
// meaningful for health checks.
type Shape struct {
	ID          int64  `json:"id"`
	StencilPath string `json:"stencilPath"`
	Name        string `json:"name"`

	// Width and Height are in the stencil's drawing units. Nil when the
	// source format does not declare dimensions.
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`

	// Geometry is the ordered primitive sequence extracted from the master.
	// Nil when the master has no parseable geometry; a preview can still be
	// synthesized from the name in that case.
	Geometry []Segment `json:"geometry,omitempty"`

	// Properties holds the master's custom property cells.
	Properties Properties `json:"properties,omitempty"`
}

// Validate returns an error if the shape contains invalid fields.
func (s *Shape) Validate() error {
	if s.StencilPath == "" {
		return Errorf(EINVALID, "shape stencil path required")
	}
	if s.Name == "" {
		return Errorf(EINVALID, "shape name required")
	}
	return nil
}

// Segment operations, mirroring the Visio geometry row types they are
// extracted from.
const (
	SegMoveTo = "move"
	SegLineTo = "line"
	SegArcTo  = "arc"
)

// Segment is a single geometry primitive. X and Y are the end point; Bow is
// the arc's bow distance and is zero for moves and lines.
type Segment struct {
	Op  string  `json:"op"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Bow float64 `json:"bow,omitempty"`
}

// PropertyKind discriminates the closed set of property value types.
type PropertyKind string

// Property value kinds.
const (
	PropertyString PropertyKind = "string"
	PropertyNumber PropertyKind = "number"
	PropertyBool   PropertyKind = "bool"
)

// PropertyValue is a scalar custom property value. Exactly one of the value
// fields is meaningful, selected by Kind.
type PropertyValue struct {
	Kind   PropertyKind
	String string
	Number float64
	Bool   bool
}

// StringPropertyValue returns a string-kinded property value.
func StringPropertyValue(s string) PropertyValue {
	return PropertyValue{Kind: PropertyString, String: s}
}

// NumberPropertyValue returns a number-kinded property value.
func NumberPropertyValue(n float64) PropertyValue {
	return PropertyValue{Kind: PropertyNumber, Number: n}
}

// BoolPropertyValue returns a bool-kinded property value.
func BoolPropertyValue(b bool) PropertyValue {
	return PropertyValue{Kind: PropertyBool, Bool: b}
}

// Text returns the value rendered as a string, used for filtering and
// display.
func (v PropertyValue) Text() string {
	switch v.Kind {
	case PropertyNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case PropertyBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.String
	}
}

// MarshalJSON encodes the value as a bare JSON scalar.
func (v PropertyValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case PropertyNumber:
		return json.Marshal(v.Number)
	case PropertyBool:
		return json.Marshal(v.Bool)
	default:
		return json.Marshal(v.String)
	}
}

// UnmarshalJSON decodes a bare JSON scalar into the matching kind.
func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = BoolPropertyValue(b)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = NumberPropertyValue(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return Errorf(EINVALID, "property value must be a string, number or bool")
	}
	*v = StringPropertyValue(s)
	return nil
}

// Properties is a string-keyed map of scalar property values. Insertion
// order is irrelevant.
type Properties map[string]PropertyValue

// ShapeService represents a service for reading cataloged shapes.
type ShapeService interface {
	// FindShapeByID retrieves a shape including geometry and properties.
	// Returns ENOTFOUND if the shape does not exist.
	FindShapeByID(ctx context.Context, id int64) (*Shape, error)

	// FindShapesByStencil retrieves all shapes of a stencil ordered by name.
	FindShapesByStencil(ctx context.Context, stencilPath string) ([]*Shape, error)
}
