// Package chunkdown splits a CommonMark + GFM document into an ordered
// sequence of markdown chunks suitable for embedding or feeding to a
// language model. Each chunk is itself valid markdown: headings stay
// attached to the content they introduce, lists and tables are kept whole
// when they fit, links and images are never cut mid-construct, and natural
// sentence boundaries are preferred over arbitrary cuts.
//
// The package is a pure function of its inputs: a single call to
// Chunkdown.SplitText owns every intermediate structure it builds and
// performs no I/O, no concurrency and no network access.
package chunkdown
