/*
Package domain contains the core data model of the picograph compiler.

It defines node definitions (the static schema of a catalogue entry), node instances placed
in a user graph, the connections between their pins, and the error taxonomy raised while
compiling. This package is kept pure and free of external dependencies like I/O or
persistence.

# Key Entities

  - NodeDefinition: Catalogue schema shared by many instances (pins, properties, event).
  - NodeInstance: A placed node with concrete property values.
  - Connection: A directed edge from an output pin to an input pin.
  - Graph: The immutable snapshot handed to the compiler.
*/
package domain
