// Package summary aggregates counts over an extracted diagram for display
// next to the rendered scene.
package summary

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/matzehuels/textuml/pkg/model"
)

// Summary holds the counts shown alongside a diagram.
type Summary struct {
	EntityCount         int           `json:"entity_count"`
	TotalAttributeCount int           `json:"total_attribute_count"`
	RelationshipCount   int           `json:"relationship_count"`
	PerEntity           []EntityCount `json:"per_entity"`
}

// EntityCount is the attribute count of one entity.
type EntityCount struct {
	Name       string `json:"name"`
	Attributes int    `json:"attributes"`
}

// Summarize counts the entities, attributes and relationships of d.
//
// Attribute counts are the full extracted lengths; the five-row limit of the
// renderer does not apply here. TotalAttributeCount sums every list in the
// attribute map, including lists keyed by names that are not classes.
func Summarize(d *model.Diagram) Summary {
	if d == nil {
		return Summary{PerEntity: []EntityCount{}}
	}
	s := Summary{
		EntityCount:       len(d.Classes),
		RelationshipCount: len(d.Relationships),
		PerEntity:         make([]EntityCount, 0, len(d.Classes)),
	}
	for _, attrs := range d.Attributes {
		s.TotalAttributeCount += len(attrs)
	}
	for _, name := range d.Classes {
		s.PerEntity = append(s.PerEntity, EntityCount{Name: name, Attributes: len(d.AttributesOf(name))})
	}
	return s
}

// Format renders s as plain text, one line per entity after a header line:
//
//	3 classes, 5 attributes, 2 relationships
//	  Student: 3 attributes
func Format(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, %s, %s\n",
		Count(s.EntityCount, "class"),
		Count(s.TotalAttributeCount, "attribute"),
		Count(s.RelationshipCount, "relationship"))
	for _, e := range s.PerEntity {
		fmt.Fprintf(&b, "  %s: %s\n", e.Name, Count(e.Attributes, "attribute"))
	}
	return b.String()
}

// Count returns "n word" with word pluralised unless n is 1.
func Count(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %s", n, inflect.Pluralize(word))
}
