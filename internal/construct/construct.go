// Package construct models the two field-bearing constructs the assist
// operates on: struct literals (value construction) and struct patterns
// (destructuring). The variant set is closed — each variant carries a
// capability table naming its node type, where its type reference lives,
// which child kinds are orderable fields, and how to extract a field's key.
package construct

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/evanrichards/field-sorter-rs/internal/edit"
)

// Kind identifies the construct variant.
type Kind int

const (
	// Literal is a value construction: `Foo { bar: 0, foo: 1 }`.
	Literal Kind = iota
	// Pattern is a destructuring pattern: `Foo { ref mut bar, .. }`.
	Pattern
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Pattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// Field is one orderable field entry of a construct, annotated with the
// key used to rank it against the type's declaration order.
type Field struct {
	Node *sitter.Node
	Key  string
}

// variant is the capability table for one construct kind.
type variant struct {
	kind Kind
	// nodeType is the tree-sitter node type of the construct itself.
	nodeType string
	// typeRefField is the construct's field holding its type reference.
	typeRefField string
	// body returns the node whose direct children are the field entries.
	body func(n *sitter.Node) *sitter.Node
	// fieldTypes are the child node types that count as orderable fields.
	// Structural children (braces, commas, `..` markers, comments) are
	// absent and therefore never enter the reorder.
	fieldTypes map[string]bool
	// key extracts the ranking key from a field child.
	key func(n *sitter.Node, content []byte) string
}

var variants = []variant{
	{
		kind:         Literal,
		nodeType:     "struct_expression",
		typeRefField: "name",
		body: func(n *sitter.Node) *sitter.Node {
			return n.ChildByFieldName("body")
		},
		fieldTypes: map[string]bool{
			"field_initializer":           true,
			"shorthand_field_initializer": true,
		},
		key: literalKey,
	},
	{
		kind:         Pattern,
		nodeType:     "struct_pattern",
		typeRefField: "type",
		body: func(n *sitter.Node) *sitter.Node {
			return n
		},
		fieldTypes: map[string]bool{
			"field_pattern": true,
		},
		key: patternKey,
	},
}

// literalKey extracts the key of a literal field: the field name token if
// the field has one, otherwise the text of its value expression (the
// shorthand form, where the binding name doubles as the key).
func literalKey(n *sitter.Node, content []byte) string {
	if name := n.ChildByFieldName("field"); name != nil {
		return text(name, content)
	}
	if value := n.ChildByFieldName("value"); value != nil {
		return text(value, content)
	}
	// Shorthand initializer: the identifier is the value expression.
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "identifier" {
			return text(child, content)
		}
	}
	return ""
}

// patternKey extracts the bound name of a pattern field. Both the
// `name: pat` and the shorthand `ref mut name` forms expose the name
// through the same grammar field.
func patternKey(n *sitter.Node, content []byte) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return text(name, content)
	}
	return ""
}

func text(n *sitter.Node, content []byte) string {
	return string(content[n.StartByte():n.EndByte()])
}

// Construct is a recognized field-bearing node together with its variant
// capabilities.
type Construct struct {
	Node *sitter.Node
	v    *variant
}

// Cast recognizes a node as a construct, or returns nil.
func Cast(n *sitter.Node) *Construct {
	for i := range variants {
		if n.Type() == variants[i].nodeType {
			return &Construct{Node: n, v: &variants[i]}
		}
	}
	return nil
}

// FindAt returns the innermost construct whose range contains the offset,
// or nil if the offset is not inside any construct.
func FindAt(root *sitter.Node, offset uint32) *Construct {
	var best *Construct

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		r := edit.Range{Start: n.StartByte(), End: n.EndByte()}
		if !r.Contains(offset) {
			return
		}
		if c := Cast(n); c != nil {
			best = c
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}

	walk(root)
	return best
}

// FindAll returns every construct in the tree in source order.
func FindAll(root *sitter.Node) []*Construct {
	var results []*Construct

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if c := Cast(n); c != nil {
			results = append(results, c)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}

	walk(root)
	return results
}

// Kind returns the construct variant.
func (c *Construct) Kind() Kind {
	return c.v.kind
}

// TypeRef returns the construct's type-reference node, or nil when the
// source is too malformed to carry one.
func (c *Construct) TypeRef() *sitter.Node {
	return c.Node.ChildByFieldName(c.v.typeRefField)
}

// Range returns the byte range of the whole construct.
func (c *Construct) Range() edit.Range {
	return edit.Range{Start: c.Node.StartByte(), End: c.Node.EndByte()}
}

// Fields returns the construct's orderable fields in source order, each
// with its extraction key. Structural children such as the rest marker
// `..`, a functional-update base, commas, and comments are excluded: they
// are never reordered. An empty result means the assist is not applicable.
func (c *Construct) Fields(content []byte) []Field {
	body := c.v.body(c.Node)
	if body == nil {
		return nil
	}

	var fields []Field
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		if !c.v.fieldTypes[child.Type()] {
			continue
		}
		fields = append(fields, Field{
			Node: child,
			Key:  c.v.key(child, content),
		})
	}
	return fields
}
