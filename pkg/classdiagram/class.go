package classdiagram

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

// Class is a named box in the diagram owning an ordered list of members.
//
// Class values are immutable: every With*/Add* method returns a modified
// copy and leaves the receiver untouched, so a Class may be shared freely
// between a Diagram and any number of Relationship constructors.
type Class struct {
	id          string
	label       string
	namespace   string
	annotation  string
	style       string
	comment     string
	members     []Member
	note        Note
	hasNote     bool
	interaction Interaction
}

// ClassOption configures a Class during construction.
type ClassOption func(*Class)

// WithLabel sets the display text shown in the box instead of the identifier.
func WithLabel(label string) ClassOption {
	return func(c *Class) { c.label = label }
}

// WithAnnotation sets the stereotype, e.g. "interface". Surrounding angle
// brackets are optional.
func WithAnnotation(annotation string) ClassOption {
	return func(c *Class) {
		a := strings.TrimSpace(annotation)
		if strings.HasPrefix(a, "<<") && strings.HasSuffix(a, ">>") && len(a) >= 4 {
			a = strings.TrimSpace(a[2 : len(a)-2])
		}
		c.annotation = a
	}
}

// WithNamespace places the class inside the named namespace block.
func WithNamespace(namespace string) ClassOption {
	return func(c *Class) { c.namespace = namespace }
}

// WithStyle references a style class by name.
func WithStyle(styleClass string) ClassOption {
	return func(c *Class) { c.style = styleClass }
}

// WithComment attaches a source comment emitted as %% lines above the class.
func WithComment(comment string) ClassOption {
	return func(c *Class) { c.comment = comment }
}

// NewClass creates a class with the given identifier. The identifier is the
// token used by relationships, notes and click directives.
func NewClass(id string, opts ...ClassOption) (Class, error) {
	c := Class{id: id}
	for _, opt := range opts {
		opt(&c)
	}
	if err := c.validate(); err != nil {
		return Class{}, err
	}
	return c, nil
}

func (c Class) validate() error {
	if err := validateIdentifier(errs.ErrCodeInvalidName, "class name", c.id); err != nil {
		return err
	}
	if err := errs.ValidateText(errs.ErrCodeInvalidName, "class label", c.label); err != nil {
		return err
	}
	if c.namespace != "" {
		if err := validateIdentifier(errs.ErrCodeInvalidName, "namespace", c.namespace); err != nil {
			return err
		}
	}
	if err := errs.ValidateText(errs.ErrCodeInvalidName, "annotation", c.annotation); err != nil {
		return err
	}
	if c.style != "" {
		if err := validateStyleName(c.style); err != nil {
			return err
		}
	}
	return nil
}

// validateIdentifier checks a token that is emitted unquoted: class ids,
// namespace keys and the class references in relationships and notes.
func validateIdentifier(code errs.Code, what, id string) error {
	if err := errs.ValidateName(code, what, id); err != nil {
		return err
	}
	if strings.ContainsAny(id, " \t{}\"") {
		return errs.New(code, "%s cannot contain spaces, braces or quotes: %q", what, id)
	}
	return nil
}

// =============================================================================
// Accessors
// =============================================================================

// ID returns the class identifier.
func (c Class) ID() string { return c.id }

// Label returns the display label, empty when unset.
func (c Class) Label() string { return c.label }

// Namespace returns the namespace key, empty for the default namespace.
func (c Class) Namespace() string { return c.namespace }

// Annotation returns the stereotype without angle brackets.
func (c Class) Annotation() string { return c.annotation }

// StyleClass returns the referenced style class name.
func (c Class) StyleClass() string { return c.style }

// Comment returns the attached source comment.
func (c Class) Comment() string { return c.comment }

// Members returns a copy of the class members in insertion order.
func (c Class) Members() []Member { return slices.Clone(c.members) }

// Note returns the attached note and whether one is set.
func (c Class) Note() (Note, bool) { return c.note, c.hasNote }

// Interaction returns the attached click interaction and whether one is set.
func (c Class) Interaction() (Interaction, bool) { return c.interaction, !c.interaction.IsZero() }

// =============================================================================
// Copy-on-write builders
// =============================================================================

// AddMember returns a copy of c with members appended.
func (c Class) AddMember(members ...Member) Class {
	c.members = append(slices.Clip(c.members), members...)
	return c
}

// WithMembers returns a copy of c whose members are replaced by members.
func (c Class) WithMembers(members ...Member) Class {
	c.members = slices.Clone(members)
	return c
}

// WithNote returns a copy of c with a note attached to it.
func (c Class) WithNote(text string) (Class, error) {
	n, err := NewNoteFor(c.id, text)
	if err != nil {
		return c, err
	}
	c.note = n
	c.hasNote = true
	return c, nil
}

// WithInteraction returns a copy of c that is clickable.
func (c Class) WithInteraction(i Interaction) Class {
	c.interaction = i
	return c
}

// WithStyleClass returns a copy of c referencing the named style class.
func (c Class) WithStyleClass(name string) (Class, error) {
	if err := validateStyleName(name); err != nil {
		return c, err
	}
	c.style = name
	return c, nil
}

// =============================================================================
// Rendering
// =============================================================================

// Render returns the class block followed by its note and click lines.
func (c Class) Render(indent string) string {
	lines := c.renderBlock(indent)
	lines = append(lines, c.renderAttachments(indent)...)
	return strings.Join(lines, "\n")
}

func (c Class) renderBlock(indent string) []string {
	var lines []string
	lines = append(lines, renderComment(indent, c.comment)...)

	var header strings.Builder
	header.WriteString(indent)
	header.WriteString("class ")
	header.WriteString(c.id)
	if c.label != "" {
		header.WriteString("[" + quote(c.label) + "]")
	}
	if c.style != "" {
		header.WriteString(":::")
		header.WriteString(c.style)
	}
	header.WriteString(" {")
	lines = append(lines, header.String())

	inner := indent + Indentation
	if c.annotation != "" {
		lines = append(lines, inner+"<<"+c.annotation+">>")
	}
	for _, m := range c.members {
		lines = append(lines, m.Render(inner))
	}
	return append(lines, indent+"}")
}

// renderAttachments returns the note and click lines owned by the class.
// They reference the class by identifier and are valid anywhere outside a
// namespace body.
func (c Class) renderAttachments(indent string) []string {
	var lines []string
	if c.hasNote {
		lines = append(lines, c.note.Render(indent))
	}
	if !c.interaction.IsZero() {
		lines = append(lines, c.interaction.Render(indent, c.id))
	}
	return lines
}

// renderComment emits one %% line per comment line.
func renderComment(indent, comment string) []string {
	if strings.TrimSpace(comment) == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimRight(line, "\r \t")
		if line == "" {
			lines = append(lines, indent+"%%")
			continue
		}
		lines = append(lines, indent+"%% "+line)
	}
	return lines
}
