// Package graph holds the read-only, indexed view of a user graph the compiler walks.
//
// Build validates a domain.Graph against the catalogue (known definitions, declared pins,
// compatible kinds, single fan-in) and indexes its connections by pin so every lookup the
// compiler performs is a map access.
package graph
