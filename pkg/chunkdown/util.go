package chunkdown

import "strings"

// prefixLines prepends prefix to every non-empty line of s and puts the
// prefix minus its trailing spaces on every empty line, trimming
// trailing newlines so the result ends cleanly. Used when re-wrapping
// an already-serialized chunk inside a blockquote that the AST-level
// splitters couldn't re-wrap directly (spec §4.7).
func prefixLines(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = strings.TrimRight(prefix, " ")
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n") + "\n"
}
