// Package source loads supply chain datasets from files and databases.
//
// # References
//
// [Open] picks an implementation from the reference string:
//
//   - a path ending in .json, .yaml or .yml, or a file:// URI: [File]
//   - mongodb:// or mongodb+srv://: [Mongo], reading an items and a
//     connections collection
//   - neo4j://, neo4j+s:// or bolt://: [Neo4j], reading labeled nodes as
//     items and the relationships between them as connections
//
// # Reloading
//
// Every call to [Source.Load] reads the backing store again, so a server
// can reload a source and hand the result to the model, which diffs it
// against the previous data. [File] additionally exposes its path for file
// watching.
//
// # Records
//
// Database documents and node properties are converted to the same flat
// records the file formats use (see package io), so id normalization and
// field preservation behave identically for every source.
package source
