// Package lua turns arbitrary user text and values into valid Lua identifiers and literals,
// and reconstructs PICO-8 style calls with trailing optional arguments.
//
// Everything here is a pure function of its input, so the compiler can call it freely
// while walking a graph.
package lua
