package model

import (
	"strings"

	"github.com/matzehuels/textuml/pkg/errors"
)

// Kind is the UML relationship kind between two entities.
type Kind string

// Relationship kinds understood by the renderer.
const (
	KindInheritance Kind = "inheritance"
	KindComposition Kind = "composition"
	KindAggregation Kind = "aggregation"
	KindAssociation Kind = "association"
	KindUsage       Kind = "usage"
)

// Kinds lists all known relationship kinds in display order.
var Kinds = []Kind{KindInheritance, KindComposition, KindAggregation, KindAssociation, KindUsage}

// DefaultColor is used for relationships of unknown kind that carry no color.
const DefaultColor = "#333333"

var kindStyles = map[Kind]struct{ color, label string }{
	KindInheritance: {"#4CAF50", "inherits"},
	KindComposition: {"#F44336", "consists of"},
	KindAggregation: {"#FF9800", "has"},
	KindAssociation: {"#9E9E9E", "uses"},
	KindUsage:       {"#2196F3", "uses"},
}

// ParseKind normalizes s to a Kind. Unknown values are returned as-is
// (lower-cased) so they survive a round trip; they render as solid lines.
func ParseKind(s string) Kind {
	return Kind(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether k is one of [Kinds].
func (k Kind) Known() bool {
	_, ok := kindStyles[k]
	return ok
}

// Dashed reports whether edges of this kind are stroked with a dash pattern.
// Only associations are dashed.
func (k Kind) Dashed() bool { return k == KindAssociation }

// Color returns the default display color for k.
func (k Kind) Color() string {
	if s, ok := kindStyles[k]; ok {
		return s.color
	}
	return DefaultColor
}

// Label returns the default display label for k.
func (k Kind) Label() string {
	if s, ok := kindStyles[k]; ok {
		return s.label
	}
	return string(k)
}

// Entity is a named class-like concept with an ordered attribute list.
type Entity struct {
	Name       string   `json:"name"`
	Attributes []string `json:"attributes,omitempty"`
}

// Relationship is a directed, typed link from Source to Target.
type Relationship struct {
	Source string `json:"source" yaml:"source" toml:"source" msgpack:"source"`
	Target string `json:"target" yaml:"target" toml:"target" msgpack:"target"`
	Kind   Kind   `json:"type" yaml:"type" toml:"type" msgpack:"type"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty" msgpack:"label,omitempty"`
	Color  string `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty" msgpack:"color,omitempty"`
}

// WithDefaults returns a copy of r with an empty color or label replaced by
// the defaults of its kind.
func (r Relationship) WithDefaults() Relationship {
	r.Kind = ParseKind(string(r.Kind))
	if r.Color == "" {
		r.Color = r.Kind.Color()
	}
	if r.Label == "" {
		r.Label = r.Kind.Label()
	}
	return r
}

// Position is the top-left corner assigned to an entity box.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Diagram is the declarative description of one class diagram.
type Diagram struct {
	Classes       []string            `json:"classes" yaml:"classes" toml:"classes" msgpack:"classes"`
	Attributes    map[string][]string `json:"attributes" yaml:"attributes" toml:"attributes" msgpack:"attributes"`
	Relationships []Relationship      `json:"relationships" yaml:"relationships" toml:"relationships" msgpack:"relationships"`
}

// Entities returns the classes of d in order, paired with their attributes.
func (d *Diagram) Entities() []Entity {
	out := make([]Entity, 0, len(d.Classes))
	for _, name := range d.Classes {
		out = append(out, Entity{Name: name, Attributes: d.Attributes[name]})
	}
	return out
}

// AttributesOf returns the full, untruncated attribute list of name.
func (d *Diagram) AttributesOf(name string) []string {
	if d.Attributes == nil {
		return nil
	}
	return d.Attributes[name]
}

// Has reports whether name is one of the diagram's classes.
func (d *Diagram) Has(name string) bool {
	for _, c := range d.Classes {
		if c == name {
			return true
		}
	}
	return false
}

// Validate checks that every class name is non-empty and unique.
// Relationship endpoints are deliberately not checked.
func (d *Diagram) Validate() error {
	seen := make(map[string]struct{}, len(d.Classes))
	for i, name := range d.Classes {
		if strings.TrimSpace(name) == "" {
			return errors.New(errors.ErrCodeInvalidDiagram, "class %d has an empty name", i)
		}
		if _, dup := seen[name]; dup {
			return errors.New(errors.ErrCodeInvalidDiagram, "duplicate class name %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy of d.
func (d *Diagram) Clone() *Diagram {
	if d == nil {
		return nil
	}
	out := &Diagram{
		Classes:       append([]string(nil), d.Classes...),
		Relationships: append([]Relationship(nil), d.Relationships...),
	}
	if d.Attributes != nil {
		out.Attributes = make(map[string][]string, len(d.Attributes))
		for name, attrs := range d.Attributes {
			out.Attributes[name] = append([]string(nil), attrs...)
		}
	}
	return out
}

// Normalize fills relationship defaults and ensures Attributes is non-nil.
// It modifies d in place and returns it for chaining.
func (d *Diagram) Normalize() *Diagram {
	if d.Attributes == nil {
		d.Attributes = make(map[string][]string)
	}
	for i, r := range d.Relationships {
		d.Relationships[i] = r.WithDefaults()
	}
	return d
}
