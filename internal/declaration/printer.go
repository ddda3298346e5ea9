package declaration

import (
	"strings"

	"github.com/mvp-joe/typekeep/internal/syntax"
)

const indentUnit = "  "

// PrintStatement prints name and its type as an ambient export statement.
// Runtime forms are normalized to this shape; initializers are never printed.
func PrintStatement(name string, typ *syntax.Node) string {
	return "export declare const " + name + ": " + PrintType(typ) + ";"
}

// PrintType prints a type node canonically. Object types are laid out one
// member per line; everything else is its token sequence with canonical
// spacing. Comments are dropped. Printing the re-parse of the output yields
// the same output.
func PrintType(typ *syntax.Node) string {
	if typ == nil {
		return ""
	}
	return printNode(typ, 0)
}

func printNode(n *syntax.Node, depth int) string {
	if n.IsLeaf() {
		return n.Text
	}
	if n.Kind == "object_type" {
		return printObject(n, depth)
	}

	var b strings.Builder
	prev := ""
	for _, child := range n.Children {
		if child.IsComment() {
			continue
		}
		part := printNode(child, depth)
		if part == "" {
			continue
		}
		if prev != "" {
			b.WriteString(separator(n.Kind, prev, part))
		}
		b.WriteString(part)
		prev = part
	}
	return b.String()
}

func printObject(n *syntax.Node, depth int) string {
	members := n.NamedChildren()
	if len(members) == 0 {
		return "{}"
	}

	pad := strings.Repeat(indentUnit, depth+1)

	var b strings.Builder
	b.WriteString("{\n")
	for _, member := range members {
		b.WriteString(pad)
		b.WriteString(printNode(member, depth+1))
		b.WriteString(";\n")
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString("}")
	return b.String()
}

// separator decides the whitespace between two adjacent printed parts of a
// node of kind parent.
func separator(parent, prev, next string) string {
	if parent == "conditional_type" {
		return " "
	}

	for _, open := range []string{"(", "[", "<", ".", "..."} {
		if strings.HasSuffix(prev, open) {
			return ""
		}
	}
	if strings.HasPrefix(next, "...") {
		return " "
	}

	switch next[0] {
	case ',', ';', ')', ']', '.', '!', ':', '?':
		return ""
	case '>':
		if next == ">" {
			return ""
		}
	case '[':
		if parent == "array_type" || parent == "lookup_type" {
			return ""
		}
	case '<':
		if parent == "method_signature" || parent == "function_signature" {
			return ""
		}
	case '(':
		if parent == "method_signature" || parent == "function_signature" || prev == "import" ||
			(strings.HasSuffix(prev, ">") && !strings.HasSuffix(prev, "=>")) {
			return ""
		}
	}

	switch parent {
	case "generic_type", "unary_expression":
		return ""
	}
	return " "
}
