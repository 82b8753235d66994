/*
Package nodes is the built-in PICO-8 node catalogue.

Each module pairs a static pin/property schema with a one-line emission rule that maps
onto a single PICO-8 call, operator or block. Call-style nodes accept every argument
either through a connected value pin or through an inspector property of the same id;
arguments left out are dropped from the end of the call or replaced by a placeholder
when a later one is given.

The catalogue is built fresh by Catalogue and handed to the compiler explicitly:

	cat := nodes.Catalogue()
	c := compiler.New(cat)
*/
package nodes
