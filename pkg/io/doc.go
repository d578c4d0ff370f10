// Package io reads and writes supply chain datasets as JSON or YAML.
//
// # Format
//
// A dataset has two top-level lists of flat records:
//
//	{
//	  "items": [
//	    {"id": 10, "name": "Metals"},
//	    {"id": 1, "name": "Cu", "parentId": 10},
//	    {"id": 2, "name": "Zn", "parentId": 10}
//	  ],
//	  "connections": [
//	    {"sourceId": 1, "targetId": 2, "amount": 5}
//	  ]
//	}
//
// The same structure is accepted as YAML. Numeric ids are normalized to
// their decimal string form, so 1 and "1" name the same item.
//
// # Item Fields
//
// Recognized keys are id (required), parentId, name, className, width and
// height. Every other key is preserved in [chain.Item.Fields] and written
// back on export.
//
// # Connection Fields
//
// Recognized keys are sourceId and targetId (both required), name and
// className. Other keys are preserved in [chain.Connection.Fields].
//
// # Lenient Import
//
// Records without a usable id are skipped rather than failing the import:
// the engine tolerates malformed data the same way it tolerates dangling
// connections. [Read] reports how many records were skipped.
//
// # Formats
//
// [FormatFromPath] picks the format from a file extension (.json, .yaml,
// .yml). [Import] and [Export] work on file paths; [Read] and [Write] on
// streams.
package io
