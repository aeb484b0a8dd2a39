// Package io reads and writes class diagram definition files.
//
// # Overview
//
// A [Definition] is the declarative form of a diagram: plain structs with
// json, toml, yaml and bson tags. It is what users write by hand, what the
// HTTP API accepts, and what the document store persists. [Definition.Build]
// turns it into an immutable [classdiagram.Diagram]; [FromDiagram] goes the
// other way.
//
// # File Format
//
// The same keys are used in every encoding. In TOML:
//
//	title = "Zoo"
//	note = "Generated from the zoo service"
//
//	[[classes]]
//	id = "Animal"
//	annotation = "abstract"
//	style = "base"
//	note = "Every animal has an age"
//
//	  [[classes.members]]
//	  kind = "attribute"
//	  name = "age"
//	  type = "int"
//	  visibility = "private"
//
//	  [[classes.members]]
//	  kind = "method"
//	  name = "speak"
//	  type = "string"
//	  visibility = "public"
//	  parameters = ["int volume"]
//
//	[[classes]]
//	id = "Duck"
//	namespace = "Birds"
//	link = "https://example.com/duck"
//	tooltip = "Duck docs"
//
//	[[relationships]]
//	from = "Duck"
//	to = "Animal"
//	type = "inheritance"
//
//	[[relationships]]
//	from = "Zoo"
//	to = "Animal"
//	type = "aggregation"
//	cardinality_from = "1"
//	cardinality_to = "many"
//	label = "houses"
//
//	[[styles]]
//	name = "base"
//	declarations = ["fill:#f9f", "stroke:#333"]
//
//	[[assignments]]
//	style = "base"
//	classes = ["Duck"]
//
// Members render in the order listed. The older "attributes" and "methods"
// lists are still read and render after "members".
//
// Visibility, relationship types and cardinalities accept either the Mermaid
// token ("-", "--|>", "0..1") or a name ("private", "inheritance",
// "zero_or_one").
//
// # Reading and Writing
//
//	def, err := io.ImportFile("zoo.toml")
//	d, err := def.Build()
//	err = io.ExportFile(def, "zoo.yaml")
//
// Decoders reject unknown keys. Decode failures carry the INVALID_DEFINITION
// error code; model validation failures keep their own code (for example
// INVALID_MEMBER) and are prefixed with the offending entity.
//
// [classdiagram.Diagram]: github.com/matzehuels/classdiagram/pkg/classdiagram
package io
