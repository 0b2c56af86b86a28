package chunkdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"go.uber.org/zap"
)

// Chunkdown splits markdown documents into ordered chunks per
// SplitterOptions. Build one with New and reuse it across calls to
// SplitText; it holds no per-call state.
type Chunkdown struct {
	options SplitterOptions
	parser  goldmark.Markdown
	logger  *zap.Logger
}

// New validates options and returns a ready-to-use Chunkdown.
func New(options SplitterOptions, logger *zap.Logger) (*Chunkdown, error) {
	if err := options.normalize(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chunkdown{
		options: options,
		parser:  newParser(),
		logger:  logger,
	}, nil
}

// SplitText implements the library's single public operation (spec
// §6): parse markdown, optionally normalize link/image reference
// style (§4.9), shape the result into a section hierarchy (§4.2),
// split it (§4.4-4.8), and return the ordered chunks, each one valid
// markdown on its own.
func (c *Chunkdown) SplitText(markdown string) ([]string, error) {
	source := []byte(markdown)
	doc, pc := parseMarkdownWithContext(c.parser, source)

	normalizeReferences(doc, source, pc, c.options.Rules)

	top := buildHierarchy(doc)
	sections := groupOrphanSections(top.Children)
	var typed []*Section
	for _, child := range sections {
		if s, ok := child.(*Section); ok {
			typed = append(typed, s)
		}
	}

	// Spec §4.4's entry algorithm has no sibling-merge step at this
	// level: merge_sibling_sections is only invoked from inside
	// merge_parent_with_descendants, over a section's own nested
	// children, once that section itself doesn't fit alone. Each
	// top-level section is processed independently here.
	var chunks []string
	for _, s := range typed {
		cs, err := c.processSection(s, source)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, cs...)
	}

	return c.finalize(chunks)
}

// finalize trims each chunk, drops ones left blank, and re-runs the
// text splitter on any chunk that still exceeds MaxRawSize, the
// defensive post-filter pass SPEC_FULL.md §6 adds on top of the
// in-line size checks the tree and text splitters already perform.
func (c *Chunkdown) finalize(chunks []string) ([]string, error) {
	var out []string
	for _, chunk := range chunks {
		trimmed := strings.TrimSpace(chunk)
		if trimmed == "" {
			continue
		}
		if c.options.MaxRawSize != nil && len(chunk) > *c.options.MaxRawSize {
			split, err := c.splitMarkdown(chunk)
			if err != nil {
				return nil, err
			}
			out = append(out, split...)
			continue
		}
		out = append(out, trimmed+"\n")
	}
	return out, nil
}

// processNode dispatches a single block to its structural splitter, or
// to the text splitter for anything without one (spec §9's
// process_node).
func (c *Chunkdown) processNode(n ast.Node, source []byte) ([]string, error) {
	switch n.(type) {
	case *ast.List:
		return c.splitList(n, source)
	case *extast.Table:
		return c.splitTable(n, source)
	case *ast.Blockquote:
		return c.splitBlockquote(n, source)
	default:
		return c.splitText(n, source)
	}
}

// packNodes implements the generic container-adapter packer spec §9
// describes: it greedily groups consecutive nodes into one chunk while
// they fit together, and falls back to processNode for any single node
// that alone exceeds the allowed size.
func (c *Chunkdown) packNodes(nodes []ast.Node, source []byte) ([]string, error) {
	var out []string
	var run []ast.Node

	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		md, err := serializeNodes(run, source)
		if err != nil {
			return err
		}
		out = append(out, md)
		run = nil
		return nil
	}

	for _, n := range nodes {
		candidate := append(append([]ast.Node{}, run...), n)
		md, err := serializeNodes(candidate, source)
		if err != nil {
			return nil, err
		}
		if c.options.isWithinAllowed(ContentSize(md, nil), RawSize(md, nil)) {
			run = candidate
			continue
		}

		if len(run) > 0 {
			if err := flush(); err != nil {
				return nil, err
			}
		}

		alone, err := serializeNodes([]ast.Node{n}, source)
		if err != nil {
			return nil, err
		}
		if c.options.isWithinAllowed(ContentSize(alone, nil), RawSize(alone, nil)) {
			run = []ast.Node{n}
			continue
		}

		sub, err := c.processNode(n, source)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}
