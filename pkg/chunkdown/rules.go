package chunkdown

import (
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// ruleKeyFor maps a goldmark node to the spec-level rule key used to look
// it up in SplitterOptions.Rules. goldmark collapses a few distinctions
// the spec's data model keeps separate:
//
//   - emphasis/strong are both *ast.Emphasis, distinguished only by Level.
//   - link/linkReference (and image/imageReference) are indistinguishable
//     once parsed: goldmark resolves reference-style links to the same
//     *ast.Link/*ast.Image node as inline-style ones. ruleKeyFor always
//     returns the inline name ("link"/"image"); canSplitNode additionally
//     consults the "linkReference"/"imageReference" key so a rule set on
//     either name still protects the node (see canSplitNode).
func ruleKeyFor(node ast.Node) (string, bool) {
	switch n := node.(type) {
	case *ast.Heading:
		return "heading", true
	case *ast.Link:
		return "link", true
	case *ast.Image:
		return "image", true
	case *ast.CodeSpan:
		return "inlineCode", true
	case *ast.Emphasis:
		if n.Level >= 2 {
			return "strong", true
		}
		return "emphasis", true
	case *extast.Strikethrough:
		return "delete", true
	case *ast.List:
		return "list", true
	case *extast.Table:
		return "table", true
	case *ast.Blockquote:
		return "blockquote", true
	default:
		return "", false
	}
}

// referenceAliasFor returns the companion "*Reference" rule key that also
// governs a link/image node, per the collapse documented on ruleKeyFor.
func referenceAliasFor(key string) (string, bool) {
	switch key {
	case "link":
		return "linkReference", true
	case "image":
		return "imageReference", true
	default:
		return "", false
	}
}

// resolveRule looks up the rule for key, falling back to the "formatting"
// key for emphasis/strong/delete per spec §4.3.
func resolveRule(rules map[string]NodeRule, key string) (NodeRule, bool) {
	if r, ok := rules[key]; ok {
		return r, true
	}
	switch key {
	case "emphasis", "strong", "delete":
		if r, ok := rules["formatting"]; ok {
			return r, true
		}
	}
	return NodeRule{}, false
}

// canSplitNode implements spec §4.3's can_split_node: true means the node
// may be split, false means it is a hard-protected range.
func canSplitNode(rules map[string]NodeRule, node ast.Node, contentSize int) bool {
	key, ok := ruleKeyFor(node)
	if !ok {
		return true
	}

	rule, found := resolveRule(rules, key)
	// A rule set on the reference-style alias protects the node too,
	// since goldmark does not preserve which surface form produced it.
	if alias, hasAlias := referenceAliasFor(key); hasAlias {
		if aliasRule, aliasFound := resolveRule(rules, alias); aliasFound {
			if !found || splitAllows(rule, contentSize) {
				rule, found = aliasRule, true
			} else {
				// keep the stricter of the two when both are set
				if !splitAllows(aliasRule, contentSize) {
					return false
				}
			}
		}
	}
	if !found {
		return true
	}
	return splitAllows(rule, contentSize)
}

// splitAllows evaluates a single NodeRule's Split field against a content
// size, per the resolution table in spec §4.3.
func splitAllows(rule NodeRule, contentSize int) bool {
	if rule.Split == nil {
		return true
	}
	switch rule.Split.Kind {
	case SplitNever:
		return false
	case SplitAllow:
		return true
	case SplitBySize:
		return contentSize > rule.Split.Size
	default:
		return true
	}
}

// penaltyFor returns the fixed penalty spec §4.8(b) assigns to a
// penalized-range candidate node kind. Heading is deliberately absent
// from the spec's penalty table; see DESIGN.md for the resolution this
// implementation uses (0, i.e. no extra discouragement beyond the
// boundary's own weight) when a heading is explicitly made splittable.
func penaltyFor(key string) float64 {
	switch key {
	case "link", "linkReference", "image", "imageReference", "inlineCode":
		return 50
	case "emphasis", "strong", "delete":
		return 30
	default:
		return 0
	}
}
