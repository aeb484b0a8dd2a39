package classdiagram

import (
	"testing"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

func mustClass(t *testing.T, id string, opts ...ClassOption) Class {
	t.Helper()
	c, err := NewClass(id, opts...)
	if err != nil {
		t.Fatalf("NewClass(%q): %v", id, err)
	}
	return c
}

func TestClassRenderEmpty(t *testing.T) {
	c := mustClass(t, "TestClass")
	want := "  class TestClass {\n  }"
	if got := c.Render("  "); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestClassRender(t *testing.T) {
	field := mustAttribute(t, "name", WithType("string"), WithVisibility(Private))
	speak := mustMethod(t, "speak", WithVisibility(Public), WithType("string"))

	tests := []struct {
		name  string
		class func(t *testing.T) Class
		want  string
	}{
		{
			name: "label and style",
			class: func(t *testing.T) Class {
				return mustClass(t, "Animal", WithLabel("An animal"), WithStyle("highlight"))
			},
			want: "class Animal[\"An animal\"]:::highlight {\n}",
		},
		{
			name: "annotation before members",
			class: func(t *testing.T) Class {
				return mustClass(t, "Shape", WithAnnotation("<<interface>>")).AddMember(field, speak)
			},
			want: "class Shape {\n  <<interface>>\n  -string name\n  +speak() string\n}",
		},
		{
			name: "comment lines",
			class: func(t *testing.T) Class {
				return mustClass(t, "Duck", WithComment("first\nsecond"))
			},
			want: "%% first\n%% second\nclass Duck {\n}",
		},
		{
			name: "note and link follow the block",
			class: func(t *testing.T) Class {
				c, err := mustClass(t, "Duck").WithNote(`says "quack"`)
				if err != nil {
					t.Fatal(err)
				}
				link, err := NewLink("https://example.com/duck", "Docs")
				if err != nil {
					t.Fatal(err)
				}
				return c.WithInteraction(link)
			},
			want: "class Duck {\n}\nnote for Duck \"says #quot;quack#quot;\"\nclick Duck href \"https://example.com/duck\" \"Docs\"",
		},
		{
			name: "callback without tooltip",
			class: func(t *testing.T) Class {
				cb, err := NewCallback("showDuck()", "")
				if err != nil {
					t.Fatal(err)
				}
				return mustClass(t, "Duck").WithInteraction(cb)
			},
			want: "class Duck {\n}\nclick Duck call showDuck()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.class(t).Render(""); got != tt.want {
				t.Errorf("Render() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestClassCopyOnWrite(t *testing.T) {
	a := mustAttribute(t, "a")
	b := mustAttribute(t, "b")

	base := mustClass(t, "C").AddMember(a)
	left := base.AddMember(b)
	right := base.AddMember(a)

	if n := len(base.Members()); n != 1 {
		t.Errorf("base members = %d, want 1", n)
	}
	if got := left.Members()[1].Name(); got != "b" {
		t.Errorf("left second member = %q, want b", got)
	}
	if got := right.Members()[1].Name(); got != "a" {
		t.Errorf("right second member = %q, want a", got)
	}

	noted, err := base.WithNote("hi")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := base.Note(); ok {
		t.Error("WithNote mutated the receiver")
	}
	if n, ok := noted.Note(); !ok || n.Target() != "C" {
		t.Errorf("Note() = %+v, %v; want note for C", n, ok)
	}

	styled, err := base.WithStyleClass("hot")
	if err != nil {
		t.Fatal(err)
	}
	if base.StyleClass() != "" || styled.StyleClass() != "hot" {
		t.Errorf("StyleClass() base=%q styled=%q", base.StyleClass(), styled.StyleClass())
	}
}

func TestClassMembersReturnsCopy(t *testing.T) {
	c := mustClass(t, "C").AddMember(mustAttribute(t, "a"))
	members := c.Members()
	members[0] = mustAttribute(t, "z")
	if got := c.Members()[0].Name(); got != "a" {
		t.Errorf("Members()[0] = %q, want a", got)
	}
}

func TestNewClassValidation(t *testing.T) {
	tests := []struct {
		name string
		id   string
		opts []ClassOption
		code errs.Code
	}{
		{"empty name", "", nil, errs.ErrCodeInvalidName},
		{"blank name", "   ", nil, errs.ErrCodeInvalidName},
		{"space in name", "My Class", nil, errs.ErrCodeInvalidName},
		{"brace in name", "A{", nil, errs.ErrCodeInvalidName},
		{"newline in label", "A", []ClassOption{WithLabel("x\ny")}, errs.ErrCodeInvalidName},
		{"blank namespace", "A", []ClassOption{WithNamespace(" ")}, errs.ErrCodeInvalidName},
		{"space in namespace", "A", []ClassOption{WithNamespace("My NS")}, errs.ErrCodeInvalidName},
		{"brace in namespace", "A", []ClassOption{WithNamespace("NS{")}, errs.ErrCodeInvalidName},
		{"bad style", "A", []ClassOption{WithStyle("a b")}, errs.ErrCodeInvalidStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClass(tt.id, tt.opts...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("code = %v, want %v", errs.GetCode(err), tt.code)
			}
		})
	}
}

func TestClassWithNoteValidation(t *testing.T) {
	c := mustClass(t, "C")
	if _, err := c.WithNote(" "); !errs.Is(err, errs.ErrCodeInvalidNote) {
		t.Errorf("WithNote(blank) error = %v, want %v", err, errs.ErrCodeInvalidNote)
	}
}

func TestInteractionValidation(t *testing.T) {
	if _, err := NewLink("javascript:alert(1)", ""); !errs.Is(err, errs.ErrCodeInvalidInteraction) {
		t.Errorf("NewLink(javascript) error = %v", err)
	}
	if _, err := NewCallback("", "tip"); !errs.Is(err, errs.ErrCodeInvalidInteraction) {
		t.Errorf("NewCallback(empty) error = %v", err)
	}
	if _, err := NewLink("/docs", "a\tb"); !errs.Is(err, errs.ErrCodeInvalidInteraction) {
		t.Errorf("NewLink(tab tooltip) error = %v", err)
	}
}
