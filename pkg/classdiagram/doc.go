// Package classdiagram builds Mermaid class diagrams as immutable values and
// renders them to diagram source text.
//
// # Model
//
// A [Diagram] holds [Class] values grouped by namespace, [Relationship] edges,
// [Note] annotations, [StyleClass] definitions and [StyleAssignment] lines.
// Classes own their [Member] lines (attributes and methods), an optional note
// and an optional click [Interaction].
//
// Every type is a value: constructors validate their input and return an
// error, and With*/Add* methods return modified copies. A Relationship refers
// to its endpoints by identifier only, so it stays valid no matter how the
// referenced Class values evolve.
//
// # Usage
//
//	animal, _ := classdiagram.NewClass("Animal", classdiagram.WithAnnotation("abstract"))
//	age, _ := classdiagram.NewAttribute("age", classdiagram.WithType("int"), classdiagram.WithVisibility(classdiagram.Private))
//	animal = animal.AddMember(age)
//
//	duck, _ := classdiagram.NewClass("Duck")
//	rel, _ := classdiagram.Relate(duck, animal, classdiagram.Inheritance)
//
//	d := classdiagram.New().AddClass(animal, duck).AddRelationship(rel)
//	fmt.Println(d.Render())
//
// # Output
//
// Render emits, in order: the title front matter, comment lines, the
// classDiagram keyword, the diagram note, each namespace group in order of
// first appearance, relationships, notes, cssClass assignments and classDef
// lines. Output uses two-space indentation and contains only Mermaid syntax;
// embedding it in HTML or Markdown is the job of package render.
//
// Quoted text (notes, tooltips, labels) has double quotes replaced with the
// #quot; entity code and line breaks replaced with \n.
package classdiagram
