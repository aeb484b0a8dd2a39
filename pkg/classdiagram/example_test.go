package classdiagram_test

import (
	"fmt"

	"github.com/matzehuels/classdiagram/pkg/classdiagram"
)

func Example() {
	animal, _ := classdiagram.NewClass("Animal", classdiagram.WithAnnotation("abstract"))
	age, _ := classdiagram.NewAttribute("age",
		classdiagram.WithType("int"),
		classdiagram.WithVisibility(classdiagram.Private))
	speak, _ := classdiagram.NewMethod("speak",
		classdiagram.WithVisibility(classdiagram.Public),
		classdiagram.WithType("string"))
	animal = animal.AddMember(age, speak)

	duck, _ := classdiagram.NewClass("Duck")
	rel, _ := classdiagram.Relate(duck, animal, classdiagram.Inheritance)

	d := classdiagram.New().AddClass(animal, duck).AddRelationship(rel)
	fmt.Println(d.Render())
	// Output:
	// classDiagram
	//   class Animal {
	//     <<abstract>>
	//     -int age
	//     +speak() string
	//   }
	//   class Duck {
	//   }
	//   Duck --|> Animal
}

func ExampleRelationship_Render() {
	r, _ := classdiagram.NewRelationship("Customer", "Order", classdiagram.Association,
		classdiagram.WithCardinality(classdiagram.Only1, classdiagram.Many),
		classdiagram.WithRelationLabel("places"))
	fmt.Println(r.Render(""))
	// Output:
	// Customer "1" --> "*" Order : places
}

func ExampleParseStyleClass() {
	s, _ := classdiagram.ParseStyleClass("warning", "fill:#fdd, stroke:rgb(200,0,0)")
	fmt.Println(s.Render(""))
	// Output:
	// classDef warning fill:#fdd,stroke:rgb(200,0,0);
}
