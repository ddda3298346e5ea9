package syntax

import "strings"

// Node is an owned copy of a tree-sitter node. It outlives the native tree,
// which is closed before Parse returns.
type Node struct {
	Kind  string
	Named bool

	// Text is set for leaves and for literals copied verbatim (strings,
	// numbers, template literals). Interior nodes carry their text in Children.
	Text string

	// Byte offsets into the parsed source.
	Start int
	End   int

	Children []*Node
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// IsComment reports whether the node is a comment.
func (n *Node) IsComment() bool {
	return n.Kind == "comment"
}

// NamedChildren returns the named, non-comment children in source order.
func (n *Node) NamedChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Named && !c.IsComment() {
			out = append(out, c)
		}
	}
	return out
}

// FirstNamed returns the first named, non-comment child.
func (n *Node) FirstNamed() *Node {
	for _, c := range n.Children {
		if c.Named && !c.IsComment() {
			return c
		}
	}
	return nil
}

// LastChild returns the last non-comment child, named or not.
func (n *Node) LastChild() *Node {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if !n.Children[i].IsComment() {
			return n.Children[i]
		}
	}
	return nil
}

// ChildOfKind returns the first direct child with the given kind.
func (n *Node) ChildOfKind(kind string) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Flatten concatenates the leaf text under n without separators or comments.
// Used for dotted names such as the module part of a qualified type.
func (n *Node) Flatten() string {
	if n.IsLeaf() {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		if c.IsComment() {
			continue
		}
		b.WriteString(c.Flatten())
	}
	return b.String()
}
