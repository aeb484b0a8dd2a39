package classdiagram

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

// MemberKind distinguishes the two member variants.
type MemberKind int

const (
	KindAttribute MemberKind = iota
	KindMethod
)

func (k MemberKind) String() string {
	if k == KindMethod {
		return "method"
	}
	return "attribute"
}

// ParseMemberKind parses "attribute" or "method".
func ParseMemberKind(s string) (MemberKind, error) {
	switch normalizeName(s) {
	case "attribute":
		return KindAttribute, nil
	case "method":
		return KindMethod, nil
	}
	return KindAttribute, errs.New(errs.ErrCodeInvalidMember, "invalid member kind %q (want attribute or method)", s)
}

// Member is one line of a class body: an attribute or a method.
// Members are immutable once constructed.
type Member struct {
	kind       MemberKind
	name       string
	typ        string // attribute type or method return type
	visibility Visibility
	params     []string
}

// MemberOption configures a Member during construction.
type MemberOption func(*memberConfig)

type memberConfig struct {
	typ        string
	visibility Visibility
	params     []string
	hasParams  bool
}

// WithVisibility sets the member's visibility mark.
func WithVisibility(v Visibility) MemberOption {
	return func(c *memberConfig) { c.visibility = v }
}

// WithType sets the attribute type, or the return type of a method.
func WithType(t string) MemberOption {
	return func(c *memberConfig) { c.typ = t }
}

// WithParameters sets the method parameter descriptions, rendered comma-joined.
// Only valid for methods.
func WithParameters(params ...string) MemberOption {
	return func(c *memberConfig) {
		c.params = slices.Clone(params)
		c.hasParams = true
	}
}

// NewAttribute creates an attribute member.
func NewAttribute(name string, opts ...MemberOption) (Member, error) {
	return newMember(KindAttribute, name, opts)
}

// NewMethod creates a method member.
func NewMethod(name string, opts ...MemberOption) (Member, error) {
	return newMember(KindMethod, name, opts)
}

func newMember(kind MemberKind, name string, opts []MemberOption) (Member, error) {
	var cfg memberConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := errs.ValidateName(errs.ErrCodeInvalidMember, kind.String()+" name", name); err != nil {
		return Member{}, err
	}
	if err := errs.ValidateText(errs.ErrCodeInvalidMember, kind.String()+" type", cfg.typ); err != nil {
		return Member{}, err
	}
	if !cfg.visibility.Valid() {
		return Member{}, errs.New(errs.ErrCodeInvalidMember, "invalid visibility %q for %s", cfg.visibility, name)
	}
	if kind == KindAttribute && cfg.hasParams {
		return Member{}, errs.New(errs.ErrCodeInvalidMember, "attribute %s cannot have parameters", name)
	}
	for _, p := range cfg.params {
		if err := errs.ValidateText(errs.ErrCodeInvalidMember, "parameter", p); err != nil {
			return Member{}, err
		}
	}

	return Member{
		kind:       kind,
		name:       name,
		typ:        cfg.typ,
		visibility: cfg.visibility,
		params:     cfg.params,
	}, nil
}

// Kind reports whether m is an attribute or a method.
func (m Member) Kind() MemberKind { return m.kind }

// Name returns the member name.
func (m Member) Name() string { return m.name }

// Type returns the attribute type or method return type.
func (m Member) Type() string { return m.typ }

// Visibility returns the visibility mark, empty when unset.
func (m Member) Visibility() Visibility { return m.visibility }

// Parameters returns a copy of the method parameters.
func (m Member) Parameters() []string { return slices.Clone(m.params) }

// Render returns the member line prefixed with indent.
func (m Member) Render(indent string) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(string(m.visibility))

	if m.kind == KindMethod {
		b.WriteString(m.name)
		b.WriteByte('(')
		b.WriteString(strings.Join(m.params, ", "))
		b.WriteByte(')')
		if m.typ != "" {
			b.WriteByte(' ')
			b.WriteString(m.typ)
		}
		return b.String()
	}

	if m.typ != "" {
		b.WriteString(m.typ)
		b.WriteByte(' ')
	}
	b.WriteString(m.name)
	return b.String()
}
