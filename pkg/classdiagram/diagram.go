package classdiagram

import (
	"slices"
	"strconv"
	"strings"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

const (
	// Keyword is the first line of every class diagram.
	Keyword = "classDiagram"

	// Indentation is one nesting level of output.
	Indentation = "  "
)

// Diagram is the aggregate root: classes grouped by namespace, relationships,
// notes and style classes.
//
// A Diagram is an immutable value. Every With*/Add* method returns a new
// Diagram whose slices never alias the receiver's, so concurrent readers and
// earlier holders never observe a change. The zero value is an empty diagram.
type Diagram struct {
	title       string
	comment     string
	note        Note
	hasNote     bool
	classes     []Class
	relations   []Relationship
	notes       []Note
	styles      []StyleClass
	assignments []StyleAssignment
}

// New returns an empty diagram.
func New() Diagram { return Diagram{} }

// =============================================================================
// Copy-on-write builders
// =============================================================================

// WithTitle returns a copy of d with the given title. An empty title removes it.
// The title renders as a front matter block ("---\ntitle: Zoo\n---") above
// the classDiagram keyword, quoted when YAML would misread it.
func (d Diagram) WithTitle(title string) (Diagram, error) {
	if err := errs.ValidateText(errs.ErrCodeInvalidName, "diagram title", title); err != nil {
		return d, err
	}
	d.title = title
	return d, nil
}

// WithComment returns a copy of d with a source comment emitted as %% lines
// before the keyword. Multi-line comments are allowed.
func (d Diagram) WithComment(comment string) Diagram {
	d.comment = comment
	return d
}

// WithNote returns a copy of d with a diagram-level note, rendered directly
// after the keyword line.
func (d Diagram) WithNote(text string) (Diagram, error) {
	n, err := NewNote(text)
	if err != nil {
		return d, err
	}
	d.note = n
	d.hasNote = true
	return d, nil
}

// AddClass returns a copy of d with classes appended in order.
func (d Diagram) AddClass(classes ...Class) Diagram {
	d.classes = append(slices.Clip(d.classes), classes...)
	return d
}

// WithClasses returns a copy of d whose classes are replaced.
func (d Diagram) WithClasses(classes ...Class) Diagram {
	d.classes = slices.Clone(classes)
	return d
}

// AddRelationship returns a copy of d with relationships appended in order.
func (d Diagram) AddRelationship(relationships ...Relationship) Diagram {
	d.relations = append(slices.Clip(d.relations), relationships...)
	return d
}

// WithRelationships returns a copy of d whose relationships are replaced.
func (d Diagram) WithRelationships(relationships ...Relationship) Diagram {
	d.relations = slices.Clone(relationships)
	return d
}

// AddNote returns a copy of d with notes appended. Notes may be unattached or
// attached to any class identifier.
func (d Diagram) AddNote(notes ...Note) Diagram {
	d.notes = append(slices.Clip(d.notes), notes...)
	return d
}

// WithNotes returns a copy of d whose notes are replaced.
func (d Diagram) WithNotes(notes ...Note) Diagram {
	d.notes = slices.Clone(notes)
	return d
}

// DefineStyleClass returns a copy of d with s registered. Redefining an
// existing name replaces its declarations but keeps its original position.
func (d Diagram) DefineStyleClass(s StyleClass) Diagram {
	styles := slices.Clone(d.styles)
	if i := slices.IndexFunc(styles, func(x StyleClass) bool { return x.name == s.name }); i >= 0 {
		styles[i] = s
	} else {
		styles = append(styles, s)
	}
	d.styles = styles
	return d
}

// AddStyleAssignment returns a copy of d with cssClass assignments appended.
func (d Diagram) AddStyleAssignment(assignments ...StyleAssignment) Diagram {
	d.assignments = append(slices.Clip(d.assignments), assignments...)
	return d
}

// AssignStyle is a shorthand for NewStyleAssignment followed by AddStyleAssignment.
func (d Diagram) AssignStyle(style string, classIDs ...string) (Diagram, error) {
	a, err := NewStyleAssignment(style, classIDs...)
	if err != nil {
		return d, err
	}
	return d.AddStyleAssignment(a), nil
}

// =============================================================================
// Accessors
// =============================================================================

// Title returns the diagram title.
func (d Diagram) Title() string { return d.title }

// Comment returns the diagram source comment.
func (d Diagram) Comment() string { return d.comment }

// Note returns the diagram-level note and whether one is set.
func (d Diagram) Note() (Note, bool) { return d.note, d.hasNote }

// Classes returns a copy of all classes in insertion order.
func (d Diagram) Classes() []Class { return slices.Clone(d.classes) }

// Class returns the first class with the given identifier.
func (d Diagram) Class(id string) (Class, bool) {
	for _, c := range d.classes {
		if c.id == id {
			return c, true
		}
	}
	return Class{}, false
}

// Namespaces returns the namespace keys in order of first appearance.
// The default namespace is the empty string.
func (d Diagram) Namespaces() []string {
	var out []string
	for _, c := range d.classes {
		if !slices.Contains(out, c.namespace) {
			out = append(out, c.namespace)
		}
	}
	return out
}

// ClassesIn returns the classes of one namespace in insertion order.
func (d Diagram) ClassesIn(namespace string) []Class {
	var out []Class
	for _, c := range d.classes {
		if c.namespace == namespace {
			out = append(out, c)
		}
	}
	return out
}

// Relationships returns a copy of the relationships in insertion order.
func (d Diagram) Relationships() []Relationship { return slices.Clone(d.relations) }

// Notes returns a copy of the diagram notes in insertion order.
func (d Diagram) Notes() []Note { return slices.Clone(d.notes) }

// StyleClasses returns a copy of the style classes in definition order.
func (d Diagram) StyleClasses() []StyleClass { return slices.Clone(d.styles) }

// StyleAssignments returns a copy of the cssClass assignments.
func (d Diagram) StyleAssignments() []StyleAssignment { return slices.Clone(d.assignments) }

// =============================================================================
// Rendering
// =============================================================================

// Render returns the diagram source text. Output is deterministic: the same
// Diagram always renders to identical bytes. Empty sections produce no lines.
func (d Diagram) Render() string {
	var lines []string

	if d.title != "" {
		lines = append(lines, "---", "title: "+frontMatterValue(d.title), "---")
	}
	lines = append(lines, renderComment("", d.comment)...)
	lines = append(lines, Keyword)
	if d.hasNote {
		lines = append(lines, d.note.Render(Indentation))
	}

	for _, ns := range d.Namespaces() {
		lines = append(lines, d.renderNamespace(ns)...)
	}
	for _, r := range d.relations {
		lines = append(lines, r.Render(Indentation))
	}
	for _, n := range d.notes {
		lines = append(lines, n.Render(Indentation))
	}
	for _, a := range d.assignments {
		lines = append(lines, a.Render(Indentation))
	}
	for _, s := range d.styles {
		lines = append(lines, s.Render(Indentation))
	}

	return strings.Join(lines, "\n")
}

// String implements fmt.Stringer.
func (d Diagram) String() string { return d.Render() }

// renderNamespace renders one namespace group. Default-namespace classes are
// rendered with their notes and clicks inline; named namespaces only accept
// class statements in their body, so attachments follow the closing brace.
func (d Diagram) renderNamespace(ns string) []string {
	classes := d.ClassesIn(ns)
	if ns == "" {
		var lines []string
		for _, c := range classes {
			lines = append(lines, c.renderBlock(Indentation)...)
			lines = append(lines, c.renderAttachments(Indentation)...)
		}
		return lines
	}

	lines := []string{Indentation + "namespace " + ns + " {"}
	var attachments []string
	for _, c := range classes {
		lines = append(lines, c.renderBlock(Indentation+Indentation)...)
		attachments = append(attachments, c.renderAttachments(Indentation)...)
	}
	lines = append(lines, Indentation+"}")
	return append(lines, attachments...)
}

// frontMatterValue quotes title text that YAML would otherwise misread.
func frontMatterValue(s string) string {
	if strings.ContainsAny(s, ":#'\"[]{}&*!|>%@`") || strings.TrimSpace(s) != s {
		return strconv.Quote(s)
	}
	return s
}
