package classdiagram

import (
	"strings"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

// Note is a free-text annotation, either at diagram scope or attached to a class.
type Note struct {
	text   string
	target string // class identifier; empty for a diagram-scope note
}

// NewNote creates a diagram-scope note.
func NewNote(text string) (Note, error) {
	if strings.TrimSpace(text) == "" {
		return Note{}, errs.New(errs.ErrCodeInvalidNote, "note text cannot be empty")
	}
	return Note{text: text}, nil
}

// NewNoteFor creates a note attached to the class with the given identifier.
func NewNoteFor(classID, text string) (Note, error) {
	if err := validateIdentifier(errs.ErrCodeInvalidNote, "note target", classID); err != nil {
		return Note{}, err
	}
	n, err := NewNote(text)
	if err != nil {
		return Note{}, err
	}
	n.target = classID
	return n, nil
}

// Text returns the note text as supplied.
func (n Note) Text() string { return n.text }

// Target returns the attached class identifier, empty for diagram-scope notes.
func (n Note) Target() string { return n.target }

// Render returns `note "text"` or `note for Target "text"` prefixed with indent.
func (n Note) Render(indent string) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString("note")
	if n.target != "" {
		b.WriteString(" for ")
		b.WriteString(n.target)
	}
	b.WriteByte(' ')
	b.WriteString(quote(n.text))
	return b.String()
}

// textEscaper rewrites characters that would end a quoted string or the line.
// #quot; is the engine's own entity code; \n is its line-break syntax.
var textEscaper = strings.NewReplacer(
	`"`, "#quot;",
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// quote wraps s in double quotes after dialect-level escaping.
func quote(s string) string {
	return `"` + textEscaper.Replace(s) + `"`
}
