package chunkdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"
)

const sectionFixture = `# Title

Intro paragraph.

## First

Body one.

## Second

Body two.

### Nested

Deep body.
`

func TestBuildHierarchyNestsByHeadingLevel(t *testing.T) {
	doc := parseMarkdown(newParser(), []byte(sectionFixture))
	top := buildHierarchy(doc)

	require.Len(t, top.Children, 1)
	title, ok := top.Children[0].(*Section)
	require.True(t, ok)
	require.NotNil(t, title.Heading)
	assert.Equal(t, 1, title.Heading.Level)

	blocks, nested := immediateContent(title)
	assert.Len(t, blocks, 1, "intro paragraph stays directly under Title")
	require.Len(t, nested, 2)
	assert.Equal(t, 2, nested[0].Heading.Level)
	assert.Equal(t, 2, nested[1].Heading.Level)

	_, secondNested := immediateContent(nested[1])
	require.Len(t, secondNested, 1)
	assert.Equal(t, 3, secondNested[0].Heading.Level)
}

func TestGroupOrphanSectionsWrapsBareNodes(t *testing.T) {
	md := "Leading text with no heading.\n\nMore text.\n"
	doc := parseMarkdown(newParser(), []byte(md))
	var bare []interface{}
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		bare = append(bare, c)
	}

	grouped := groupOrphanSections(bare)
	require.Len(t, grouped, 1)
	s, ok := grouped[0].(*Section)
	require.True(t, ok)
	assert.True(t, s.IsOrphan())
	assert.Len(t, s.Children, 2)
}

func TestFlattenSectionPreservesOrder(t *testing.T) {
	doc := parseMarkdown(newParser(), []byte(sectionFixture))
	top := buildHierarchy(doc)
	title := top.Children[0].(*Section)

	var nodes []ast.Node
	flattenSection(title, &nodes)

	require.NotEmpty(t, nodes)
	heading, ok := nodes[0].(*ast.Heading)
	require.True(t, ok)
	assert.Equal(t, 1, heading.Level)
}
