package classdiagram

import (
	"strings"
	"testing"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

func mustAttribute(t *testing.T, name string, opts ...MemberOption) Member {
	t.Helper()
	m, err := NewAttribute(name, opts...)
	if err != nil {
		t.Fatalf("NewAttribute(%q): %v", name, err)
	}
	return m
}

func mustMethod(t *testing.T, name string, opts ...MemberOption) Member {
	t.Helper()
	m, err := NewMethod(name, opts...)
	if err != nil {
		t.Fatalf("NewMethod(%q): %v", name, err)
	}
	return m
}

func TestMemberRender(t *testing.T) {
	tests := []struct {
		name   string
		member func(t *testing.T) Member
		indent string
		want   string
	}{
		{
			name: "private typed attribute",
			member: func(t *testing.T) Member {
				return mustAttribute(t, "attribute", WithType("string"), WithVisibility(Private))
			},
			want: "-string attribute",
		},
		{
			name:   "bare attribute",
			member: func(t *testing.T) Member { return mustAttribute(t, "age") },
			indent: "  ",
			want:   "  age",
		},
		{
			name: "generic attribute",
			member: func(t *testing.T) Member {
				return mustAttribute(t, "items", WithType("List~int~"), WithVisibility(Protected))
			},
			want: "#List~int~ items",
		},
		{
			name:   "method without parameters",
			member: func(t *testing.T) Member { return mustMethod(t, "run") },
			want:   "run()",
		},
		{
			name: "public method with parameters and return type",
			member: func(t *testing.T) Member {
				return mustMethod(t, "mate", WithVisibility(Public), WithParameters("Animal other", "int times"), WithType("bool"))
			},
			indent: "    ",
			want:   "    +mate(Animal other, int times) bool",
		},
		{
			name: "internal method",
			member: func(t *testing.T) Member {
				return mustMethod(t, "reset", WithVisibility(Internal))
			},
			want: "~reset()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.member(t).Render(tt.indent)
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMemberRenderContainsNameOnce(t *testing.T) {
	for _, v := range []Visibility{"", Public, Private, Protected, Internal} {
		m := mustAttribute(t, "field", WithType("Type"), WithVisibility(v))
		got := m.Render("  ")
		if strings.Count(got, "field") != 1 {
			t.Errorf("Render() = %q, want name exactly once", got)
		}
		if !strings.HasPrefix(got, "  "+string(v)+"Type") {
			t.Errorf("Render() = %q, want visibility directly before type", got)
		}
	}
}

func TestNewMemberValidation(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (Member, error)
	}{
		{"empty attribute name", func() (Member, error) { return NewAttribute("") }},
		{"blank method name", func() (Member, error) { return NewMethod("  ") }},
		{"newline in name", func() (Member, error) { return NewAttribute("a\nb") }},
		{"newline in type", func() (Member, error) { return NewAttribute("a", WithType("x\ny")) }},
		{"unknown visibility", func() (Member, error) { return NewAttribute("a", WithVisibility("!")) }},
		{"attribute parameters", func() (Member, error) { return NewAttribute("a", WithParameters("int x")) }},
		{"control char in parameter", func() (Member, error) { return NewMethod("a", WithParameters("int\tx")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errs.Is(err, errs.ErrCodeInvalidMember) {
				t.Errorf("code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidMember)
			}
		})
	}
}

func TestMemberParametersAreCopied(t *testing.T) {
	params := []string{"int a"}
	m := mustMethod(t, "f", WithParameters(params...))
	params[0] = "changed"
	if got := m.Render(""); got != "f(int a)" {
		t.Errorf("Render() = %q, caller slice leaked into member", got)
	}

	out := m.Parameters()
	out[0] = "changed"
	if got := m.Render(""); got != "f(int a)" {
		t.Errorf("Render() = %q, Parameters() leaked internal slice", got)
	}
}

func TestMemberKind(t *testing.T) {
	if k := mustAttribute(t, "a").Kind(); k != KindAttribute || k.String() != "attribute" {
		t.Errorf("Kind() = %v, want attribute", k)
	}
	if k := mustMethod(t, "a").Kind(); k != KindMethod || k.String() != "method" {
		t.Errorf("Kind() = %v, want method", k)
	}
}

func TestParseMemberKind(t *testing.T) {
	tests := []struct {
		in      string
		want    MemberKind
		wantErr bool
	}{
		{"attribute", KindAttribute, false},
		{"Method", KindMethod, false},
		{" method ", KindMethod, false},
		{"", KindAttribute, true},
		{"field", KindAttribute, true},
	}

	for _, tt := range tests {
		got, err := ParseMemberKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMemberKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidMember) {
			t.Errorf("ParseMemberKind(%q) code = %v", tt.in, errs.GetCode(err))
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMemberKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
