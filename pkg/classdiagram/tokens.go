package classdiagram

import (
	"strings"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

// =============================================================================
// Visibility
// =============================================================================

// Visibility is a member visibility mark. The zero value renders nothing.
type Visibility string

// Visibility marks.
const (
	Public    Visibility = "+"
	Private   Visibility = "-"
	Protected Visibility = "#"
	Internal  Visibility = "~"
)

var visibilityNames = map[string]Visibility{
	"public":    Public,
	"private":   Private,
	"protected": Protected,
	"internal":  Internal,
	"package":   Internal,
}

// Valid reports whether v is empty or one of the four visibility marks.
func (v Visibility) Valid() bool {
	switch v {
	case "", Public, Private, Protected, Internal:
		return true
	}
	return false
}

func (v Visibility) String() string { return string(v) }

// ParseVisibility accepts a symbolic name ("private") or the mark itself ("-").
// An empty string parses to the zero Visibility.
func ParseVisibility(s string) (Visibility, error) {
	if s == "" {
		return "", nil
	}
	if v := Visibility(s); v.Valid() {
		return v, nil
	}
	if v, ok := visibilityNames[normalizeName(s)]; ok {
		return v, nil
	}
	return "", errs.New(errs.ErrCodeInvalidMember, "unknown visibility: %q", s)
}

// =============================================================================
// RelationshipType
// =============================================================================

// RelationshipType is the arrow token between two classes.
type RelationshipType string

// Relationship arrows.
const (
	Aggregation RelationshipType = "--o"
	Association RelationshipType = "-->"
	Composition RelationshipType = "--*"
	DashedLink  RelationshipType = ".."
	Dependency  RelationshipType = "..>"
	Inheritance RelationshipType = "--|>"
	Realization RelationshipType = "..|>"
	SolidLink   RelationshipType = "--"
)

// RelationshipTypes lists every arrow in declaration order.
var RelationshipTypes = []RelationshipType{
	Aggregation, Association, Composition, DashedLink,
	Dependency, Inheritance, Realization, SolidLink,
}

var relationshipNames = map[string]RelationshipType{
	"aggregation": Aggregation,
	"association": Association,
	"composition": Composition,
	"dashedlink":  DashedLink,
	"dependency":  Dependency,
	"inheritance": Inheritance,
	"realization": Realization,
	"solidlink":   SolidLink,
}

// Valid reports whether t is one of the eight arrow tokens.
func (t RelationshipType) Valid() bool {
	for _, rt := range RelationshipTypes {
		if t == rt {
			return true
		}
	}
	return false
}

func (t RelationshipType) String() string { return string(t) }

// Name returns the symbolic name of the arrow, e.g. "inheritance".
func (t RelationshipType) Name() string {
	for name, rt := range relationshipNames {
		if rt == t {
			return name
		}
	}
	return ""
}

// ParseRelationshipType accepts a symbolic name ("inheritance", "dashed-link")
// or the arrow token ("--|>").
func ParseRelationshipType(s string) (RelationshipType, error) {
	if t := RelationshipType(s); t.Valid() {
		return t, nil
	}
	if t, ok := relationshipNames[normalizeName(s)]; ok {
		return t, nil
	}
	return "", errs.New(errs.ErrCodeInvalidRelationship, "unknown relationship type: %q", s)
}

// =============================================================================
// Cardinality
// =============================================================================

// Cardinality is a multiplicity annotation on one end of a relationship.
// The zero value renders nothing.
type Cardinality string

// Cardinalities.
const (
	Many      Cardinality = "*"
	N         Cardinality = "n"
	OneOrMore Cardinality = "1..*"
	OneToN    Cardinality = "1..n"
	Only1     Cardinality = "1"
	ZeroOrOne Cardinality = "0..1"
	ZeroToN   Cardinality = "0..n"
)

// Cardinalities lists every cardinality in declaration order.
var Cardinalities = []Cardinality{Many, N, OneOrMore, OneToN, Only1, ZeroOrOne, ZeroToN}

var cardinalityNames = map[string]Cardinality{
	"many":      Many,
	"n":         N,
	"oneormore": OneOrMore,
	"oneton":    OneToN,
	"only1":     Only1,
	"one":       Only1,
	"zeroorone": ZeroOrOne,
	"zeroton":   ZeroToN,
}

// Valid reports whether c is empty or one of the known cardinalities.
func (c Cardinality) Valid() bool {
	if c == "" {
		return true
	}
	for _, known := range Cardinalities {
		if c == known {
			return true
		}
	}
	return false
}

func (c Cardinality) String() string { return string(c) }

// ParseCardinality accepts a symbolic name ("zero_or_one") or the literal ("0..1").
// An empty string parses to the zero Cardinality.
func ParseCardinality(s string) (Cardinality, error) {
	if c := Cardinality(s); c.Valid() {
		return c, nil
	}
	if c, ok := cardinalityNames[normalizeName(s)]; ok {
		return c, nil
	}
	return "", errs.New(errs.ErrCodeInvalidRelationship, "unknown cardinality: %q", s)
}

// =============================================================================
// ActionType
// =============================================================================

// ActionType is the kind of a click interaction.
type ActionType string

// Interaction kinds.
const (
	Callback ActionType = "call"
	Link     ActionType = "href"
)

// Valid reports whether a is Callback or Link.
func (a ActionType) Valid() bool {
	return a == Callback || a == Link
}

func (a ActionType) String() string { return string(a) }

// normalizeName lowercases s and drops separators so "Zero_Or-One" matches "zeroorone".
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}
