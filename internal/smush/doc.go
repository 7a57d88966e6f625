// Package smush rewrites owl:sameAs-linked nodes to one canonical
// representative per cluster.
//
// The processor makes two passes. The first buffers the stream and unions
// the endpoints of every owl:sameAs statement into clusters; the second,
// run on Close, rewrites each buffered quad. Representative choice needs the
// whole cluster, so nothing is emitted before the input ends.
package smush
