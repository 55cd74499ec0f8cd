// Package io reads and writes declarative diagram descriptions.
//
// # Formats
//
// A description holds the same three fields an extractor returns, in JSON,
// YAML or TOML. The format is chosen from the file extension:
//
//	{
//	  "classes": ["Person", "Student"],
//	  "attributes": {"Student": ["name", "age"]},
//	  "relationships": [
//	    {"source": "Student", "target": "Person", "type": "inheritance"}
//	  ]
//	}
//
// The YAML and TOML renditions use the same keys. Relationship "label" and
// "color" are optional and default per kind.
//
// # Import
//
// Use [ReadFile] to load a description from disk, or [Read] with an explicit
// [Format] for any io.Reader. Both normalize and validate the result: duplicate
// or empty class names are rejected, dangling relationships are kept (the
// renderer drops them).
//
// # Export
//
// [WriteFile] and [Write] produce descriptions that [ReadFile] accepts again,
// so an extraction can be saved, edited by hand and re-rendered with
// "textuml render".
package io
