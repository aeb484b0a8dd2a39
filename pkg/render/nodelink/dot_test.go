package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/classdiagram/pkg/classdiagram"
)

func testDiagram(t *testing.T) classdiagram.Diagram {
	t.Helper()
	animal, err := classdiagram.NewClass("Animal", classdiagram.WithAnnotation("abstract"))
	if err != nil {
		t.Fatal(err)
	}
	age, err := classdiagram.NewAttribute("age", classdiagram.WithType("int"), classdiagram.WithVisibility(classdiagram.Private))
	if err != nil {
		t.Fatal(err)
	}
	speak, err := classdiagram.NewMethod("speak", classdiagram.WithType("string"))
	if err != nil {
		t.Fatal(err)
	}
	animal = animal.AddMember(age, speak)

	duck, err := classdiagram.NewClass("Duck", classdiagram.WithNamespace("Birds"))
	if err != nil {
		t.Fatal(err)
	}
	rel, err := classdiagram.Relate(duck, animal, classdiagram.Inheritance, classdiagram.WithRelationLabel("is a"))
	if err != nil {
		t.Fatal(err)
	}
	owns, err := classdiagram.NewRelationship("Zoo", "Animal", classdiagram.Aggregation,
		classdiagram.WithCardinality(classdiagram.Only1, classdiagram.Many))
	if err != nil {
		t.Fatal(err)
	}
	return classdiagram.New().AddClass(animal, duck).AddRelationship(rel, owns)
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testDiagram(t), Options{})

	for _, want := range []string{
		"digraph G {",
		`"Animal" [label="{\<\<abstract\>\>\nAnimal}"];`,
		`subgraph "cluster_1" {`,
		`label="Birds";`,
		`"Duck" [label="{Duck}"];`,
		`"Duck" -> "Animal" [arrowhead=empty, label="is a"];`,
		`"Zoo" -> "Animal" [arrowhead=odiamond, taillabel="1", headlabel="*"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "age") {
		t.Error("non-detailed output should not list members")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testDiagram(t), Options{Detailed: true})
	want := `"Animal" [label="{\<\<abstract\>\>\nAnimal|-int age\l|speak() string\l}"];`
	if !strings.Contains(dot, want) {
		t.Errorf("ToDOT() missing %q\n%s", want, dot)
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(classdiagram.New(), Options{})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT() = %q", dot)
	}
	if strings.Contains(dot, "->") {
		t.Error("empty diagram should have no edges")
	}
}

func TestQuoteID(t *testing.T) {
	if got, want := quoteID(`a"b`), `"a\"b"`; got != want {
		t.Errorf("quoteID() = %s, want %s", got, want)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	svg := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(svg))
	if !strings.HasPrefix(got, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}

	plain := []byte("<svg></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}
