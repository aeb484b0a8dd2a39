package classdiagram

import (
	"strings"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

// Interaction makes a rendered class clickable: a hyperlink or a callback.
type Interaction struct {
	action  ActionType
	target  string
	tooltip string
}

// NewLink creates an href interaction. tooltip may be empty.
func NewLink(url, tooltip string) (Interaction, error) {
	if err := errs.ValidateURL(url); err != nil {
		return Interaction{}, err
	}
	if err := errs.ValidateText(errs.ErrCodeInvalidInteraction, "tooltip", tooltip); err != nil {
		return Interaction{}, err
	}
	return Interaction{action: Link, target: url, tooltip: tooltip}, nil
}

// NewCallback creates a call interaction. expr is emitted verbatim,
// e.g. "showDetails()". tooltip may be empty.
func NewCallback(expr, tooltip string) (Interaction, error) {
	if err := errs.ValidateName(errs.ErrCodeInvalidInteraction, "callback", expr); err != nil {
		return Interaction{}, err
	}
	if err := errs.ValidateText(errs.ErrCodeInvalidInteraction, "tooltip", tooltip); err != nil {
		return Interaction{}, err
	}
	return Interaction{action: Callback, target: expr, tooltip: tooltip}, nil
}

// Action returns the interaction kind.
func (i Interaction) Action() ActionType { return i.action }

// Target returns the URL or the callback expression.
func (i Interaction) Target() string { return i.target }

// Tooltip returns the tooltip text, empty when unset.
func (i Interaction) Tooltip() string { return i.tooltip }

// IsZero reports whether i is the zero Interaction.
func (i Interaction) IsZero() bool { return i.action == "" }

// Render returns the click directive for classID prefixed with indent.
// Link targets are quoted; callback expressions are emitted raw.
func (i Interaction) Render(indent, classID string) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString("click ")
	b.WriteString(classID)
	b.WriteByte(' ')
	b.WriteString(string(i.action))
	b.WriteByte(' ')
	if i.action == Link {
		b.WriteString(`"` + i.target + `"`)
	} else {
		b.WriteString(i.target)
	}
	if i.tooltip != "" {
		b.WriteByte(' ')
		b.WriteString(quote(i.tooltip))
	}
	return b.String()
}
