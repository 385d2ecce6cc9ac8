// Package io provides JSON import and export for resolved layouts and
// their reference graphs.
//
// # Result Documents
//
// A [Document] holds the resolved units table and the resolved points, both
// in resolution order:
//
//	{
//	  "units": [
//	    {"name": "U", "value": 19.05},
//	    {"name": "u", "value": 19}
//	  ],
//	  "points": [
//	    {"name": "home", "x": 0, "y": 0, "r": 0},
//	    {"name": "mirror_home", "x": -40, "y": 0, "r": 0, "mirrored": true}
//	  ]
//	}
//
// Use [ExportJSON] or [WriteJSON] to write a document and [ImportJSON] or
// [ReadJSON] to read one back. A document read back can seed a later
// resolution through [Document.PointMap].
//
// # Reference Graphs
//
// [WriteGraph] and [ReadGraph] serialize a [dag.DAG] as "nodes" and "edges"
// arrays:
//
//	{
//	  "nodes": [{"id": "home"}, {"id": "thumb", "row": 1}],
//	  "edges": [{"from": "home", "to": "thumb", "at": "points.thumb.ref"}]
//	}
//
// ReadGraph rejects duplicate IDs, unknown edge endpoints and cycles.
//
// # Concurrency
//
// All functions are safe to call concurrently with other readers of the
// same graph or document.
//
// [dag.DAG]: github.com/matzehuels/keygrid/pkg/dag.DAG
package io
