// Package tree defines the weighted category tree that feeds a Sankey
// diagram, and reads it from JSON or YAML.
//
// # Format
//
// A tree is a single root object. Every node may carry a "distribution"
// array of child nodes:
//
//	{
//	  "id": 1,
//	  "name": "All Events",
//	  "count": 10000,
//	  "tooltip": "10K | 100%",
//	  "color": "#2763EC",
//	  "distribution": [
//	    {"id": 2, "name": "Allow", "count": 8500, "color": "#34C759", "delta": "+4%"},
//	    {"id": 3, "name": "Deny", "count": 1500, "color": "#FF3B30", "distribution": null}
//	  ]
//	}
//
// The same shape is accepted as YAML. Identifiers are opaque and need not be
// unique. A null entry inside "distribution" is kept as a nil child so that
// downstream traversal can skip it.
//
// Counts are only decoded here; rejecting negative or non-finite counts is
// the job of [sankey.Flatten].
//
// [sankey.Flatten]: github.com/matzehuels/sankey/pkg/sankey.Flatten
package tree
