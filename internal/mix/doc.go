// Package mix encodes and decodes Smart Mix filter definitions.
//
// # Overview
//
// A Smart Mix is a saved set of filters that the MusicSimilarity plugin uses
// to pick tracks. The editor keeps the filters as a Criteria value and the
// server stores them as a flat JSON object, the MixDefinition.
//
// # Wire Format
//
//	{
//	  "format": "text",
//	  "minduration": 120,   // only when > 0
//	  "maxbpm": 140,        // only when > 0
//	  "happy": "y",         // "y" present, "n" absent, omitted when unset
//	  "genre": ["Rock"]     // only when non-empty
//	}
//
// A definition that would contain only "format" is not worth saving;
// Criteria.Encode reports this with a false second result.
//
// # Decoding
//
// Decode is the inverse of Encode for every written field. Range bounds that
// are missing decode to zero, attributes that are missing decode to Unset, and
// genres that are not in the current server vocabulary are dropped.
//
// Older plugin versions stored attributes as slider values from 0 to 100 with
// 50 meaning "no filter". Those values are still read: above 50 decodes to
// Present, 1 to 49 decodes to Absent. They are never written.
package mix
