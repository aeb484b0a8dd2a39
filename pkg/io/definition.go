package io

import (
	"fmt"

	"github.com/matzehuels/classdiagram/pkg/classdiagram"
	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

// Definition is the serialized form of a class diagram. The same structure is
// read from TOML, YAML and JSON files and stored as a BSON document.
type Definition struct {
	Title         string            `json:"title,omitempty" toml:"title,omitempty" yaml:"title,omitempty" bson:"title,omitempty"`
	Comment       string            `json:"comment,omitempty" toml:"comment,omitempty" yaml:"comment,omitempty" bson:"comment,omitempty"`
	Note          string            `json:"note,omitempty" toml:"note,omitempty" yaml:"note,omitempty" bson:"note,omitempty"`
	Classes       []ClassDef        `json:"classes,omitempty" toml:"classes,omitempty" yaml:"classes,omitempty" bson:"classes,omitempty"`
	Relationships []RelationshipDef `json:"relationships,omitempty" toml:"relationships,omitempty" yaml:"relationships,omitempty" bson:"relationships,omitempty"`
	Notes         []NoteDef         `json:"notes,omitempty" toml:"notes,omitempty" yaml:"notes,omitempty" bson:"notes,omitempty"`
	Styles        []StyleDef        `json:"styles,omitempty" toml:"styles,omitempty" yaml:"styles,omitempty" bson:"styles,omitempty"`
	Assignments   []AssignmentDef   `json:"assignments,omitempty" toml:"assignments,omitempty" yaml:"assignments,omitempty" bson:"assignments,omitempty"`
}

// ClassDef describes one class. Link and Callback are mutually exclusive.
//
// Members lists attributes and methods in render order. Attributes and
// Methods are the older split form; their entries render after Members,
// attributes first.
type ClassDef struct {
	ID         string      `json:"id" toml:"id" yaml:"id" bson:"id"`
	Label      string      `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
	Annotation string      `json:"annotation,omitempty" toml:"annotation,omitempty" yaml:"annotation,omitempty" bson:"annotation,omitempty"`
	Namespace  string      `json:"namespace,omitempty" toml:"namespace,omitempty" yaml:"namespace,omitempty" bson:"namespace,omitempty"`
	Style      string      `json:"style,omitempty" toml:"style,omitempty" yaml:"style,omitempty" bson:"style,omitempty"`
	Comment    string      `json:"comment,omitempty" toml:"comment,omitempty" yaml:"comment,omitempty" bson:"comment,omitempty"`
	Note       string      `json:"note,omitempty" toml:"note,omitempty" yaml:"note,omitempty" bson:"note,omitempty"`
	Link       string      `json:"link,omitempty" toml:"link,omitempty" yaml:"link,omitempty" bson:"link,omitempty"`
	Callback   string      `json:"callback,omitempty" toml:"callback,omitempty" yaml:"callback,omitempty" bson:"callback,omitempty"`
	Tooltip    string      `json:"tooltip,omitempty" toml:"tooltip,omitempty" yaml:"tooltip,omitempty" bson:"tooltip,omitempty"`
	Members    []MemberDef `json:"members,omitempty" toml:"members,omitempty" yaml:"members,omitempty" bson:"members,omitempty"`
	Attributes []MemberDef `json:"attributes,omitempty" toml:"attributes,omitempty" yaml:"attributes,omitempty" bson:"attributes,omitempty"`
	Methods    []MemberDef `json:"methods,omitempty" toml:"methods,omitempty" yaml:"methods,omitempty" bson:"methods,omitempty"`
}

// MemberDef describes an attribute or a method. Kind is "attribute" or
// "method" and is required in ClassDef.Members. Visibility accepts a mark
// ("+") or a name ("public"). For methods, Type is the return type.
type MemberDef struct {
	Kind       string   `json:"kind,omitempty" toml:"kind,omitempty" yaml:"kind,omitempty" bson:"kind,omitempty"`
	Name       string   `json:"name" toml:"name" yaml:"name" bson:"name"`
	Type       string   `json:"type,omitempty" toml:"type,omitempty" yaml:"type,omitempty" bson:"type,omitempty"`
	Visibility string   `json:"visibility,omitempty" toml:"visibility,omitempty" yaml:"visibility,omitempty" bson:"visibility,omitempty"`
	Parameters []string `json:"parameters,omitempty" toml:"parameters,omitempty" yaml:"parameters,omitempty" bson:"parameters,omitempty"`
}

// RelationshipDef describes an edge. Type accepts an arrow ("--|>") or a
// name ("inheritance"); cardinalities likewise.
type RelationshipDef struct {
	From            string `json:"from" toml:"from" yaml:"from" bson:"from"`
	To              string `json:"to" toml:"to" yaml:"to" bson:"to"`
	Type            string `json:"type" toml:"type" yaml:"type" bson:"type"`
	Label           string `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
	CardinalityFrom string `json:"cardinality_from,omitempty" toml:"cardinality_from,omitempty" yaml:"cardinality_from,omitempty" bson:"cardinality_from,omitempty"`
	CardinalityTo   string `json:"cardinality_to,omitempty" toml:"cardinality_to,omitempty" yaml:"cardinality_to,omitempty" bson:"cardinality_to,omitempty"`
}

// NoteDef describes a note, attached to a class when For is set.
type NoteDef struct {
	Text string `json:"text" toml:"text" yaml:"text" bson:"text"`
	For  string `json:"for,omitempty" toml:"for,omitempty" yaml:"for,omitempty" bson:"for,omitempty"`
}

// StyleDef describes a style class either as raw CSS ("fill:#f9f,stroke:#333")
// or as an ordered list of "property:value" declarations. When both are set
// the declarations follow the CSS.
type StyleDef struct {
	Name         string   `json:"name" toml:"name" yaml:"name" bson:"name"`
	CSS          string   `json:"css,omitempty" toml:"css,omitempty" yaml:"css,omitempty" bson:"css,omitempty"`
	Declarations []string `json:"declarations,omitempty" toml:"declarations,omitempty" yaml:"declarations,omitempty" bson:"declarations,omitempty"`
}

// AssignmentDef applies a style class to classes by identifier.
type AssignmentDef struct {
	Style   string   `json:"style" toml:"style" yaml:"style" bson:"style"`
	Classes []string `json:"classes" toml:"classes" yaml:"classes" bson:"classes"`
}

// Build converts the definition into a diagram.
//
// Errors keep the code of the underlying validation failure (for example
// INVALID_MEMBER) and are prefixed with the entity that caused them.
func (def Definition) Build() (classdiagram.Diagram, error) {
	d := classdiagram.New().WithComment(def.Comment)

	var err error
	if d, err = d.WithTitle(def.Title); err != nil {
		return d, err
	}
	if def.Note != "" {
		if d, err = d.WithNote(def.Note); err != nil {
			return d, fmt.Errorf("diagram note: %w", err)
		}
	}

	for i, cd := range def.Classes {
		c, err := cd.build()
		if err != nil {
			return d, fmt.Errorf("class %s: %w", entityName(cd.ID, i), err)
		}
		d = d.AddClass(c)
	}

	for i, rd := range def.Relationships {
		r, err := rd.build()
		if err != nil {
			return d, fmt.Errorf("relationship %d (%s -> %s): %w", i, rd.From, rd.To, err)
		}
		d = d.AddRelationship(r)
	}

	for i, nd := range def.Notes {
		var n classdiagram.Note
		var err error
		if nd.For != "" {
			n, err = classdiagram.NewNoteFor(nd.For, nd.Text)
		} else {
			n, err = classdiagram.NewNote(nd.Text)
		}
		if err != nil {
			return d, fmt.Errorf("note %d: %w", i, err)
		}
		d = d.AddNote(n)
	}

	for i, sd := range def.Styles {
		s, err := sd.build()
		if err != nil {
			return d, fmt.Errorf("style %s: %w", entityName(sd.Name, i), err)
		}
		d = d.DefineStyleClass(s)
	}

	for i, ad := range def.Assignments {
		if d, err = d.AssignStyle(ad.Style, ad.Classes...); err != nil {
			return d, fmt.Errorf("assignment %d: %w", i, err)
		}
	}

	return d, nil
}

func (cd ClassDef) build() (classdiagram.Class, error) {
	c, err := classdiagram.NewClass(cd.ID,
		classdiagram.WithLabel(cd.Label),
		classdiagram.WithAnnotation(cd.Annotation),
		classdiagram.WithNamespace(cd.Namespace),
		classdiagram.WithStyle(cd.Style),
		classdiagram.WithComment(cd.Comment),
	)
	if err != nil {
		return c, err
	}

	for _, md := range cd.Members {
		kind, err := classdiagram.ParseMemberKind(md.Kind)
		if err != nil {
			return c, fmt.Errorf("member %s: %w", md.Name, err)
		}
		m, err := md.build(kind)
		if err != nil {
			return c, fmt.Errorf("%s %s: %w", kind, md.Name, err)
		}
		c = c.AddMember(m)
	}
	for _, group := range []struct {
		kind classdiagram.MemberKind
		defs []MemberDef
	}{
		{classdiagram.KindAttribute, cd.Attributes},
		{classdiagram.KindMethod, cd.Methods},
	} {
		for _, md := range group.defs {
			if md.Kind != "" && md.Kind != group.kind.String() {
				return c, fmt.Errorf("%s %s: %w", group.kind, md.Name,
					errs.New(errs.ErrCodeInvalidMember, "kind %q listed under %ss", md.Kind, group.kind))
			}
			m, err := md.build(group.kind)
			if err != nil {
				return c, fmt.Errorf("%s %s: %w", group.kind, md.Name, err)
			}
			c = c.AddMember(m)
		}
	}

	if cd.Note != "" {
		if c, err = c.WithNote(cd.Note); err != nil {
			return c, err
		}
	}

	switch {
	case cd.Link != "" && cd.Callback != "":
		return c, errs.New(errs.ErrCodeInvalidInteraction, "link and callback are mutually exclusive")
	case cd.Link != "":
		i, err := classdiagram.NewLink(cd.Link, cd.Tooltip)
		if err != nil {
			return c, err
		}
		c = c.WithInteraction(i)
	case cd.Callback != "":
		i, err := classdiagram.NewCallback(cd.Callback, cd.Tooltip)
		if err != nil {
			return c, err
		}
		c = c.WithInteraction(i)
	case cd.Tooltip != "":
		return c, errs.New(errs.ErrCodeInvalidInteraction, "tooltip requires a link or callback")
	}
	return c, nil
}

func (md MemberDef) build(kind classdiagram.MemberKind) (classdiagram.Member, error) {
	vis, err := classdiagram.ParseVisibility(md.Visibility)
	if err != nil {
		return classdiagram.Member{}, err
	}
	opts := []classdiagram.MemberOption{
		classdiagram.WithVisibility(vis),
		classdiagram.WithType(md.Type),
	}
	if len(md.Parameters) > 0 {
		opts = append(opts, classdiagram.WithParameters(md.Parameters...))
	}
	if kind == classdiagram.KindMethod {
		return classdiagram.NewMethod(md.Name, opts...)
	}
	return classdiagram.NewAttribute(md.Name, opts...)
}

func (rd RelationshipDef) build() (classdiagram.Relationship, error) {
	typ, err := classdiagram.ParseRelationshipType(rd.Type)
	if err != nil {
		return classdiagram.Relationship{}, err
	}
	from, err := classdiagram.ParseCardinality(rd.CardinalityFrom)
	if err != nil {
		return classdiagram.Relationship{}, err
	}
	to, err := classdiagram.ParseCardinality(rd.CardinalityTo)
	if err != nil {
		return classdiagram.Relationship{}, err
	}
	return classdiagram.NewRelationship(rd.From, rd.To, typ,
		classdiagram.WithCardinality(from, to),
		classdiagram.WithRelationLabel(rd.Label),
	)
}

func (sd StyleDef) build() (classdiagram.StyleClass, error) {
	var decls []classdiagram.Declaration
	if sd.CSS != "" {
		s, err := classdiagram.ParseStyleClass(sd.Name, sd.CSS)
		if err != nil {
			return s, err
		}
		decls = s.Declarations()
	}
	for _, raw := range sd.Declarations {
		decl, err := classdiagram.ParseDeclaration(raw)
		if err != nil {
			return classdiagram.StyleClass{}, err
		}
		decls = append(decls, decl)
	}
	return classdiagram.NewStyleClass(sd.Name, decls...)
}

func entityName(name string, index int) string {
	if name == "" {
		return fmt.Sprintf("#%d", index)
	}
	return name
}

// FromDiagram converts a diagram back into its serialized form. Building the
// result yields a diagram that renders identically.
func FromDiagram(d classdiagram.Diagram) Definition {
	def := Definition{Title: d.Title(), Comment: d.Comment()}
	if n, ok := d.Note(); ok {
		def.Note = n.Text()
	}

	for _, c := range d.Classes() {
		cd := ClassDef{
			ID:         c.ID(),
			Label:      c.Label(),
			Annotation: c.Annotation(),
			Namespace:  c.Namespace(),
			Style:      c.StyleClass(),
			Comment:    c.Comment(),
		}
		for _, m := range c.Members() {
			cd.Members = append(cd.Members, MemberDef{
				Kind:       m.Kind().String(),
				Name:       m.Name(),
				Type:       m.Type(),
				Visibility: string(m.Visibility()),
				Parameters: m.Parameters(),
			})
		}
		if n, ok := c.Note(); ok {
			cd.Note = n.Text()
		}
		if i, ok := c.Interaction(); ok {
			if i.Action() == classdiagram.Link {
				cd.Link = i.Target()
			} else {
				cd.Callback = i.Target()
			}
			cd.Tooltip = i.Tooltip()
		}
		def.Classes = append(def.Classes, cd)
	}

	for _, r := range d.Relationships() {
		from, to := r.Cardinality()
		def.Relationships = append(def.Relationships, RelationshipDef{
			From:            r.From(),
			To:              r.To(),
			Type:            r.Type().Name(),
			Label:           r.Label(),
			CardinalityFrom: string(from),
			CardinalityTo:   string(to),
		})
	}

	for _, n := range d.Notes() {
		def.Notes = append(def.Notes, NoteDef{Text: n.Text(), For: n.Target()})
	}

	for _, s := range d.StyleClasses() {
		sd := StyleDef{Name: s.Name()}
		for _, decl := range s.Declarations() {
			sd.Declarations = append(sd.Declarations, decl.String())
		}
		def.Styles = append(def.Styles, sd)
	}

	for _, a := range d.StyleAssignments() {
		def.Assignments = append(def.Assignments, AssignmentDef{Style: a.Style(), Classes: a.Classes()})
	}

	return def
}
