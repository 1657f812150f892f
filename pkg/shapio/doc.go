// Package shapio provides the JSON wire format for explanations.
//
// This package defines the canonical serialization of an
// [github.com/jmaspons/shapviz/pkg/explain.Explanation], used for files,
// API requests, and the explanation store.
//
// # Wire Format
//
// Explanations serialize to a single JSON object:
//
//	{
//	  "baseline": 4,
//	  "columns": ["x", "y"],
//	  "values": [[1, -1], [-1, 1]],
//	  "features": [
//	    {"name": "x", "strings": ["a", "b"]},
//	    {"name": "y", "numbers": [100, 10]}
//	  ],
//	  "interactions": [[[...], ...], ...]
//	}
//
// Feature columns are either numeric ("numbers") or string-valued
// ("strings"). Missing numeric display values are encoded as null and
// decoded back to NaN, since JSON has no NaN literal. The "interactions"
// field is present only when the explanation carries an interaction grid.
//
// # Round Trips
//
// Reading always funnels through the explain constructor, so a decoded
// document gets the exact same validation as one built in process: a file
// with duplicate columns or a malformed interaction tensor fails to load
// with the corresponding explain error.
//
// Common operations:
//
//	data, _ := shapio.Marshal(exp)        // Explanation → []byte
//	exp, _ := shapio.Read(bytes.NewReader(data))
//	shapio.Export(exp, "explanation.json")
//	exp, _ := shapio.Import("explanation.json")
package shapio
