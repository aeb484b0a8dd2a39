package classdiagram

import (
	"strings"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

// Relationship is a directed edge between two classes, referenced by identifier.
// Endpoints need not be registered in the diagram.
type Relationship struct {
	from     string
	to       string
	typ      RelationshipType
	label    string
	cardFrom Cardinality
	cardTo   Cardinality
}

// RelationshipOption configures a Relationship during construction.
type RelationshipOption func(*Relationship)

// WithRelationLabel sets the text shown next to the edge.
func WithRelationLabel(label string) RelationshipOption {
	return func(r *Relationship) { r.label = label }
}

// WithCardinality sets the multiplicity at each end. Either may be empty.
func WithCardinality(from, to Cardinality) RelationshipOption {
	return func(r *Relationship) {
		r.cardFrom = from
		r.cardTo = to
	}
}

// NewRelationship creates an edge from the class identified by fromID to the
// class identified by toID.
func NewRelationship(fromID, toID string, typ RelationshipType, opts ...RelationshipOption) (Relationship, error) {
	r := Relationship{from: fromID, to: toID, typ: typ}
	for _, opt := range opts {
		opt(&r)
	}

	if err := validateIdentifier(errs.ErrCodeInvalidRelationship, "relationship source", r.from); err != nil {
		return Relationship{}, err
	}
	if err := validateIdentifier(errs.ErrCodeInvalidRelationship, "relationship target", r.to); err != nil {
		return Relationship{}, err
	}
	if !r.typ.Valid() {
		return Relationship{}, errs.New(errs.ErrCodeInvalidRelationship, "invalid relationship type %q", r.typ)
	}
	if !r.cardFrom.Valid() || !r.cardTo.Valid() {
		return Relationship{}, errs.New(errs.ErrCodeInvalidRelationship,
			"invalid cardinality %q/%q on %s %s %s", r.cardFrom, r.cardTo, r.from, r.typ, r.to)
	}
	if err := errs.ValidateText(errs.ErrCodeInvalidRelationship, "relationship label", r.label); err != nil {
		return Relationship{}, err
	}
	return r, nil
}

// Relate creates an edge between two classes using their identifiers.
func Relate(from, to Class, typ RelationshipType, opts ...RelationshipOption) (Relationship, error) {
	return NewRelationship(from.ID(), to.ID(), typ, opts...)
}

// From returns the source class identifier.
func (r Relationship) From() string { return r.from }

// To returns the target class identifier.
func (r Relationship) To() string { return r.to }

// Type returns the arrow token.
func (r Relationship) Type() RelationshipType { return r.typ }

// Label returns the edge label, empty when unset.
func (r Relationship) Label() string { return r.label }

// Cardinality returns the multiplicities at the source and target ends.
func (r Relationship) Cardinality() (from, to Cardinality) { return r.cardFrom, r.cardTo }

// Render returns the relationship line prefixed with indent:
//
//	A "1" --> "*" B : label
func (r Relationship) Render(indent string) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(r.from)
	if r.cardFrom != "" {
		b.WriteString(` "` + string(r.cardFrom) + `"`)
	}
	b.WriteByte(' ')
	b.WriteString(string(r.typ))
	if r.cardTo != "" {
		b.WriteString(` "` + string(r.cardTo) + `"`)
	}
	b.WriteByte(' ')
	b.WriteString(r.to)
	if r.label != "" {
		b.WriteString(" : ")
		b.WriteString(r.label)
	}
	return b.String()
}
