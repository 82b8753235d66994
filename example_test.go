package picograph_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aretw0/picograph"
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/dsl"
)

func ExampleEngine_Compile() {
	b := dsl.New()
	b.Add("init", "on_init").Then("ball")
	b.Add("ball", "circ").Set("x", 10).Set("y", 20).Set("r", 4)

	src, err := picograph.New().Compile(context.Background(), b.Build())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(src)
	// Output:
	// function _init()
	//   circ(10, 20, 4)
	// end
}

func ExampleEngine_CompileDocument() {
	doc := []byte(`
nodes:
  - {id: draw, definitionId: on_draw}
  - {id: clear, definitionId: cls}
  - {id: hello, definitionId: print, properties: {text: "hello", x: 40, y: 60, col: 7}}
connections:
  - {fromNode: draw, fromPin: then, toNode: clear, toPin: exec}
  - {fromNode: clear, fromPin: then, toNode: hello, toPin: exec}
`)

	src, err := picograph.New().CompileDocument(context.Background(), doc)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(src)
	// Output:
	// function _draw()
	//   cls()
	//   print("hello", 40, 60, 7)
	// end
}

func ExampleEngine_Compile_error() {
	b := dsl.New()
	b.Add("a", "on_update")
	b.Add("b", "on_update")

	_, err := picograph.New().Compile(context.Background(), b.Build())

	var dup *domain.DuplicateEntryPointError
	if errors.As(err, &dup) {
		fmt.Println(dup.EventName, dup.NodeIDs)
	}
	// Output:
	// _update [a b]
}
