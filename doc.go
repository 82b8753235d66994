/*
Package picograph compiles visual node graphs into PICO-8 Lua programs.

A graph is a set of node instances joined by two kinds of connections. Exec connections
order statements. Value connections carry expressions from one node into another's input.
Each entry node (On Init, On Update, On Draw or a named Function) becomes one top-level
Lua function. The compiler walks the exec chain from there, inlining pure value nodes
and reusing the locals bound by statement nodes.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/picograph"
		"github.com/aretw0/picograph/pkg/dsl"
	)

	func main() {
		b := dsl.New()
		b.Add("init", "on_init").Then("ball")
		b.Add("ball", "circ").Set("x", 10).Set("y", 20).Set("r", 4)

		engine := picograph.New()
		src, err := engine.Compile(context.Background(), b.Build())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(src)
		// function _init()
		//   circ(10, 20, 4)
		// end
	}

Graphs can also be read from JSON or YAML documents with CompileDocument.
Errors belong to a fixed taxonomy in pkg/domain and can be matched with errors.Is and errors.As.
*/
package picograph
