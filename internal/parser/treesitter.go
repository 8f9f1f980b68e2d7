package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// treeSitterBackend holds a compiled tree-sitter grammar for one language.
type treeSitterBackend struct {
	language *sitter.Language
	lang     Language
}

func newTreeSitterBackend(language *sitter.Language, lang Language) *treeSitterBackend {
	return &treeSitterBackend{
		language: language,
		lang:     lang,
	}
}

// parse runs the grammar over source and returns the syntax tree.
// A nil tree means the source could not be parsed at all.
func (b *treeSitterBackend) parse(source []byte) *sitter.Tree {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(b.language)
	return parser.Parse(source, nil)
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// nodeSpan returns the 1-based inclusive line span of a node.
func nodeSpan(node *sitter.Node) (startLine, endLine int) {
	return int(node.StartPosition().Row) + 1, int(node.EndPosition().Row) + 1
}

// childrenOfKind returns all direct children with the given node kind.
func childrenOfKind(node *sitter.Node, kind string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			results = append(results, child)
		}
	}
	return results
}

// firstChildOfKind returns the first direct child with the given node kind.
func firstChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// stripStringQuotes removes Python string prefixes and surrounding quotes
// from a string literal's raw text.
func stripStringQuotes(raw string) string {
	s := strings.TrimLeft(raw, "rRbBuUfF")
	for _, q := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

// cleanDocComment normalizes an extracted documentation string: trims
// surrounding blank space and removes common leading indentation from
// continuation lines.
func cleanDocComment(doc string) string {
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	// Find the smallest indentation across non-empty continuation lines.
	margin := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}

	if margin > 0 {
		for i, line := range lines[1:] {
			if len(line) >= margin {
				lines[i+1] = line[margin:]
			}
		}
	}

	return strings.Trim(strings.Join(lines, "\n"), "\n ")
}
