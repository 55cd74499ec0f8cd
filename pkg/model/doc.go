// Package model defines the class-diagram data that flows from extraction into
// layout and rendering.
//
// A [Diagram] is the declarative description of one diagram: an ordered list
// of entity (class) names, the attribute names of each entity, and a list of
// typed [Relationship] values between entities. It is the exact shape returned
// by the extraction service and the shape accepted by the render command in
// JSON, YAML, or TOML form:
//
//	{
//	  "classes": ["Student", "Person"],
//	  "attributes": {"Student": ["name", "age"], "Person": ["address"]},
//	  "relationships": [
//	    {"source": "Student", "target": "Person", "type": "inheritance",
//	     "label": "inherits", "color": "#4CAF50"}
//	  ]
//	}
//
// Relationships may reference names that are not in the class list. Such
// relationships are kept in the model and dropped later by the renderer; the
// model never rejects them.
package model
