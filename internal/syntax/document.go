package syntax

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// StatementKind tags a top-level statement.
type StatementKind int

const (
	// OtherStatement is anything that is not a variable statement, including
	// statements tree-sitter could not parse cleanly.
	OtherStatement StatementKind = iota
	// VariableStatement is a const/let/var declaration, optionally exported
	// and optionally ambient (declare).
	VariableStatement
)

// Document is the parsed form of one artifact. It is never mutated after Parse.
type Document struct {
	Source     string
	Statements []Statement
}

// Statement is one top-level statement.
type Statement struct {
	Kind     StatementKind
	Exported bool
	Ambient  bool
	Keyword  string // const, let or var
	Bindings []Binding
	Start    int
	End      int
}

// Binding is a single identifier declared by a variable statement.
type Binding struct {
	Name        string
	Annotation  *Node // the type inside ": T", nil when absent
	Initializer *Node // the expression after "=", nil when absent
}

// DeclaredType returns the explicit annotation, or failing that the type
// asserted on the initializer (x as T, x satisfies T, <T>x).
func (b *Binding) DeclaredType() *Node {
	if b.Annotation != nil {
		return b.Annotation
	}
	return AssertedType(b.Initializer)
}

// AssertedType returns the outermost type assertion of expr, or nil.
// "as const" asserts no type.
func AssertedType(expr *Node) *Node {
	for expr != nil && expr.Kind == "parenthesized_expression" {
		expr = expr.FirstNamed()
	}
	if expr == nil {
		return nil
	}

	switch expr.Kind {
	case "as_expression", "satisfies_expression":
		last := expr.LastChild()
		if last == nil || !last.Named || last == expr.FirstNamed() {
			return nil
		}
		return last
	case "type_assertion":
		args := expr.ChildOfKind("type_arguments")
		if args == nil {
			return nil
		}
		return args.FirstNamed()
	}
	return nil
}

// Parse parses TypeScript source. It never fails: input tree-sitter cannot
// make sense of yields fewer (or no) variable statements.
func Parse(text string) *Document {
	return ParseDialect(text, TypeScript)
}

// ParseDialect parses source with the grammar for dialect.
func ParseDialect(text string, dialect Dialect) *Document {
	doc := &Document{Source: text}
	source := []byte(text)

	parseTree(source, dialect, func(root *sitter.Node) {
		for i := 0; i < int(root.ChildCount()); i++ {
			child := root.Child(uint(i))
			if child == nil || !child.IsNamed() || child.Kind() == "comment" {
				continue
			}
			doc.Statements = append(doc.Statements, readStatement(child, source))
		}
	})

	return doc
}

// readStatement recognises export / declare / const|let|var wrappers.
func readStatement(node *sitter.Node, source []byte) Statement {
	stmt := Statement{
		Kind:  OtherStatement,
		Start: int(node.StartByte()),
		End:   int(node.EndByte()),
	}
	if node.IsError() || node.HasError() {
		return stmt
	}

	decl := node
	if decl.Kind() == "export_statement" {
		stmt.Exported = true
		decl = findChildByKinds(decl, "ambient_declaration", "lexical_declaration", "variable_declaration")
		if decl == nil {
			return stmt
		}
	}

	if decl.Kind() == "ambient_declaration" {
		stmt.Ambient = true
		decl = findChildByKinds(decl, "lexical_declaration", "variable_declaration")
		if decl == nil {
			return stmt
		}
	}

	switch decl.Kind() {
	case "lexical_declaration", "variable_declaration":
	default:
		return stmt
	}

	stmt.Kind = VariableStatement
	stmt.Keyword = declarationKeyword(decl, source)
	for _, declarator := range findChildrenByType(decl, "variable_declarator") {
		if binding, ok := readBinding(declarator, source); ok {
			stmt.Bindings = append(stmt.Bindings, binding)
		}
	}
	return stmt
}

func declarationKeyword(decl *sitter.Node, source []byte) string {
	if decl.Kind() == "variable_declaration" {
		return "var"
	}
	if kind := decl.ChildByFieldName("kind"); kind != nil {
		return extractNodeText(kind, source)
	}
	if decl.ChildCount() > 0 {
		return extractNodeText(decl.Child(0), source)
	}
	return ""
}

// readBinding reads a declarator with a plain identifier name. Destructuring
// patterns are not bindings of a single name and are skipped.
func readBinding(declarator *sitter.Node, source []byte) (Binding, bool) {
	nameNode := declarator.ChildByFieldName("name")
	if nameNode == nil || nameNode.Kind() != "identifier" {
		return Binding{}, false
	}

	binding := Binding{Name: extractNodeText(nameNode, source)}

	if typeNode := declarator.ChildByFieldName("type"); typeNode != nil {
		binding.Annotation = annotationType(mirror(typeNode, source))
	}
	if valueNode := declarator.ChildByFieldName("value"); valueNode != nil {
		binding.Initializer = mirror(valueNode, source)
	}

	return binding, true
}

// annotationType unwraps ": T" to T.
func annotationType(annotation *Node) *Node {
	if annotation == nil {
		return nil
	}
	if annotation.Kind != "type_annotation" {
		return annotation
	}
	return annotation.FirstNamed()
}
