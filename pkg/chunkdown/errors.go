package chunkdown

import "errors"

// Input shape errors: a structural splitter was handed a node that is
// not the kind it splits (splitTable also returns ErrNotATable for a
// table with no header row). The structural splitters are unexported
// and reached only through processNode's type switch, so SplitText does
// not return these in normal flow.
var (
	ErrNotAList       = errors.New("chunkdown: expected a list node")
	ErrNotATable      = errors.New("chunkdown: expected a table node with a header row")
	ErrNotABlockquote = errors.New("chunkdown: expected a blockquote node")

	// ErrInvalidOptions is returned by New when SplitterOptions fails
	// validation (chunk_size < 1 or max_overflow_ratio < 1.0).
	ErrInvalidOptions = errors.New("chunkdown: invalid splitter options")
)
