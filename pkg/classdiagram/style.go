package classdiagram

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

// Declaration is a single CSS-like property/value pair.
type Declaration struct {
	Property string
	Value    string
}

func (d Declaration) String() string { return d.Property + ":" + d.Value }

// StyleClass is a named, ordered set of declarations rendered as a classDef line.
type StyleClass struct {
	name  string
	decls []Declaration
}

// NewStyleClass creates a style class from ordered declarations.
func NewStyleClass(name string, decls ...Declaration) (StyleClass, error) {
	if err := validateStyleName(name); err != nil {
		return StyleClass{}, err
	}
	if len(decls) == 0 {
		return StyleClass{}, errs.New(errs.ErrCodeInvalidStyle, "style class %s has no declarations", name)
	}
	for _, d := range decls {
		if err := validateDeclaration(name, d); err != nil {
			return StyleClass{}, err
		}
	}
	return StyleClass{name: name, decls: slices.Clone(decls)}, nil
}

// ParseStyleClass creates a style class from comma-joined CSS text such as
// "fill:#f9f,stroke:#333,stroke-width:4px". Commas inside parentheses,
// as in rgb(1,2,3), do not split declarations. A trailing semicolon is ignored.
func ParseStyleClass(name, css string) (StyleClass, error) {
	css = strings.TrimSuffix(strings.TrimSpace(css), ";")
	var decls []Declaration
	for _, part := range splitDeclarations(css) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := ParseDeclaration(part)
		if err != nil {
			return StyleClass{}, errs.Wrap(errs.ErrCodeInvalidStyle, err, "style class %s", name)
		}
		decls = append(decls, d)
	}
	return NewStyleClass(name, decls...)
}

// ParseDeclaration parses a single "property:value" pair.
func ParseDeclaration(s string) (Declaration, error) {
	prop, value, ok := strings.Cut(s, ":")
	prop, value = strings.TrimSpace(prop), strings.TrimSpace(value)
	if !ok || prop == "" || value == "" {
		return Declaration{}, errs.New(errs.ErrCodeInvalidStyle, "invalid declaration %q (want property:value)", s)
	}
	return Declaration{Property: prop, Value: value}, nil
}

func splitDeclarations(css string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range css {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, css[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, css[start:])
}

// Name returns the style class name.
func (s StyleClass) Name() string { return s.name }

// Declarations returns a copy of the declarations in definition order.
func (s StyleClass) Declarations() []Declaration { return slices.Clone(s.decls) }

// CSS returns the declarations joined as "k1:v1,k2:v2".
func (s StyleClass) CSS() string {
	parts := make([]string, len(s.decls))
	for i, d := range s.decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, ",")
}

// Render returns the classDef line prefixed with indent.
func (s StyleClass) Render(indent string) string {
	return indent + "classDef " + s.name + " " + s.CSS() + ";"
}

// StyleAssignment applies a style class to classes from outside their
// declarations, rendered as a cssClass line.
type StyleAssignment struct {
	style   string
	classes []string
}

// NewStyleAssignment assigns the named style class to the given class identifiers.
func NewStyleAssignment(style string, classIDs ...string) (StyleAssignment, error) {
	if err := validateStyleName(style); err != nil {
		return StyleAssignment{}, err
	}
	if len(classIDs) == 0 {
		return StyleAssignment{}, errs.New(errs.ErrCodeInvalidStyle, "style assignment %s has no classes", style)
	}
	for _, id := range classIDs {
		if err := validateIdentifier(errs.ErrCodeInvalidStyle, "class name", id); err != nil {
			return StyleAssignment{}, err
		}
		if strings.Contains(id, ",") {
			return StyleAssignment{}, errs.New(errs.ErrCodeInvalidStyle, "class name %q cannot be used in a style assignment", id)
		}
	}
	return StyleAssignment{style: style, classes: slices.Clone(classIDs)}, nil
}

// Style returns the assigned style class name.
func (a StyleAssignment) Style() string { return a.style }

// Classes returns a copy of the class identifiers.
func (a StyleAssignment) Classes() []string { return slices.Clone(a.classes) }

// Render returns `cssClass "A,B" style` prefixed with indent.
func (a StyleAssignment) Render(indent string) string {
	return indent + `cssClass "` + strings.Join(a.classes, ",") + `" ` + a.style
}

func validateStyleName(name string) error {
	if err := errs.ValidateName(errs.ErrCodeInvalidStyle, "style class name", name); err != nil {
		return err
	}
	if strings.ContainsAny(name, " \t,;:{}\"") {
		return errs.New(errs.ErrCodeInvalidStyle, "invalid style class name: %q", name)
	}
	return nil
}

func validateDeclaration(style string, d Declaration) error {
	if strings.TrimSpace(d.Property) == "" || strings.TrimSpace(d.Value) == "" {
		return errs.New(errs.ErrCodeInvalidStyle, "style class %s has an empty declaration", style)
	}
	if strings.ContainsAny(d.Property, ":,;") || strings.Contains(d.Value, ";") {
		return errs.New(errs.ErrCodeInvalidStyle, "style class %s has an invalid declaration %q", style, d.String())
	}
	// A bare comma would split the value when the classDef line is read back.
	if len(splitDeclarations(d.Value)) > 1 {
		return errs.New(errs.ErrCodeInvalidStyle, "style class %s: comma outside parentheses in %q", style, d.String())
	}
	if err := errs.ValidateText(errs.ErrCodeInvalidStyle, "declaration", d.String()); err != nil {
		return err
	}
	return nil
}
