/*
Package dsl provides a fluent builder for constructing picograph graphs in Go.

It is an alternative to writing the JSON or YAML document by hand, useful for tests,
generated content and IDE autocompletion.

Example usage:

	b := dsl.New()

	b.Add("draw", "on_draw").Then("clear")
	b.Add("clear", "cls").Then("ball")
	b.Add("ball", "circfill").
		Set("x", 64).
		Set("y", 64).
		Set("r", 8).
		From("col", "colour", "value")
	b.Add("colour", "number").Set("value", 8)

	g := b.Build()
	// pass g to picograph.Engine.Compile
*/
package dsl
