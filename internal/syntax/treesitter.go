package syntax

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Dialect selects the grammar used to parse an artifact.
type Dialect int

const (
	// TypeScript covers .ts, .d.ts, .mts, .cts and plain .js artifacts.
	TypeScript Dialect = iota
	// TSX covers .tsx and .jsx artifacts.
	TSX
)

// Languages are immutable once built and safe to share between parsers.
var languages = map[Dialect]*sitter.Language{
	TypeScript: sitter.NewLanguage(typescript.LanguageTypescript()),
	TSX:        sitter.NewLanguage(typescript.LanguageTSX()),
}

// DialectFor picks the dialect from a file name.
func DialectFor(path string) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".jsx":
		return TSX
	default:
		return TypeScript
	}
}

// atomicKinds are copied verbatim instead of being descended into.
var atomicKinds = map[string]bool{
	"string":                true,
	"template_string":       true,
	"template_literal_type": true,
	"number":                true,
	"regex":                 true,
	"comment":               true,
}

// parseTree runs tree-sitter over source and hands the root to visit.
// The native tree and parser are released when visit returns.
func parseTree(source []byte, dialect Dialect, visit func(root *sitter.Node)) {
	lang, ok := languages[dialect]
	if !ok {
		return
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(lang)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return
	}
	defer tree.Close()

	visit(tree.RootNode())
}

// mirror copies a tree-sitter subtree into an owned Node tree.
func mirror(node *sitter.Node, source []byte) *Node {
	if node == nil {
		return nil
	}

	m := &Node{
		Kind:  node.Kind(),
		Named: node.IsNamed(),
		Start: int(node.StartByte()),
		End:   int(node.EndByte()),
	}

	if node.ChildCount() == 0 || atomicKinds[m.Kind] {
		m.Text = extractNodeText(node, source)
		return m
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		m.Children = append(m.Children, mirror(child, source))
	}
	return m
}

// extractNodeText extracts the text content of a tree-sitter node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// findChildByKinds finds the first child whose kind is one of kinds.
func findChildByKinds(node *sitter.Node, kinds ...string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		for _, kind := range kinds {
			if child.Kind() == kind {
				return child
			}
		}
	}
	return nil
}

// findChildrenByType finds all child nodes with the given type.
func findChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child != nil && child.Kind() == nodeType {
			results = append(results, child)
		}
	}
	return results
}
