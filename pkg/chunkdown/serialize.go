package chunkdown

import (
	"bytes"

	markdownfmt "github.com/Kunde21/markdownfmt/v3/markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmtext "github.com/yuin/goldmark/text"
)

// newParser builds the shared CommonMark + GFM parser every entry point
// in this package uses: tables, strikethrough, task lists and autolinks
// (spec §1), plus auto heading IDs so headings carry a stable fragment.
func newParser() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			extension.Linkify,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRenderer(markdownfmt.NewRenderer()),
	)
}

// parseMarkdown parses markdown into an AST whose nodes carry byte
// offsets, the external parser collaborator spec §6 requires.
func parseMarkdown(md goldmark.Markdown, source []byte) ast.Node {
	doc, _ := parseMarkdownWithContext(md, source)
	return doc
}

// parseMarkdownWithContext parses markdown the same way parseMarkdown
// does, but also returns the parser.Context goldmark populated along
// the way. Link-reference definitions ("[label]: /url") are consumed
// entirely into that context during parsing — goldmark's block parser
// registers each one via Context.AddReference and removes the defining
// lines from the tree, so no ast.Definition (or any other) node for
// them ever reaches the AST. normalizeReferences (spec §4.9) needs this
// context to tell which reference labels the source actually defined.
func parseMarkdownWithContext(md goldmark.Markdown, source []byte) (ast.Node, parser.Context) {
	reader := gmtext.NewReader(source)
	pc := parser.NewContext()
	doc := md.Parser().Parse(reader, parser.WithContext(pc))
	return doc, pc
}

// serializeNode renders an AST node back to markdown using the
// markdownfmt renderer, the external serializer collaborator spec §6
// requires. It preserves html leaf nodes verbatim, which
// normalizeReferences relies on to re-emit an unused definition line
// unchanged.
func serializeNode(n ast.Node, source []byte) (string, error) {
	md := newParser()
	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, source, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
