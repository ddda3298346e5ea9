package syntax

// TypeKind distinguishes the type expression shapes the classifier cares about.
type TypeKind int

const (
	// OtherType is any type that is neither a plain reference nor an object literal.
	OtherType TypeKind = iota
	// TypeReference is a bare (Name) or qualified (ns.Name) reference without type arguments.
	TypeReference
	// ObjectTypeLiteral is a { ... } type, including the empty {}.
	ObjectTypeLiteral
)

func (k TypeKind) String() string {
	switch k {
	case TypeReference:
		return "reference"
	case ObjectTypeLiteral:
		return "object"
	default:
		return "other"
	}
}

// TypeExpr is the classified view of a type node.
type TypeExpr struct {
	Kind      TypeKind
	Qualifier string // "ns" in ns.Name, empty for bare references
	Name      string // terminal identifier of a reference
	Node      *Node
}

// ClassifyType classifies a type node. Parenthesized types are looked through.
func ClassifyType(n *Node) TypeExpr {
	for n != nil && n.Kind == "parenthesized_type" {
		n = n.FirstNamed()
	}
	if n == nil {
		return TypeExpr{Kind: OtherType}
	}

	switch n.Kind {
	case "type_identifier":
		return TypeExpr{Kind: TypeReference, Name: n.Flatten(), Node: n}
	case "nested_type_identifier":
		named := n.NamedChildren()
		if len(named) < 2 {
			break
		}
		return TypeExpr{
			Kind:      TypeReference,
			Qualifier: named[0].Flatten(),
			Name:      named[len(named)-1].Flatten(),
			Node:      n,
		}
	case "object_type":
		return TypeExpr{Kind: ObjectTypeLiteral, Node: n}
	}

	return TypeExpr{Kind: OtherType, Node: n}
}
