// Package ir provides the RDF quad model shared by every rdfpipe component.
//
// This package contains value types and their canonical text form only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Values are comparable with == (IRI, BNode and Literal are plain value
//     types), so Quad can be used directly as a map key.
//   - A nil Quad.C is the default graph.
//   - FormatTerm is injective and never emits a byte below 0x20, which makes
//     Quad.Key a total order consistent with component-wise comparison.
//   - Minted identifiers are derived from content only (no clocks, no random
//     sources), so repeated runs over the same input mint the same IRIs.
package ir
