// Package semantics resolves type references to struct declarations. The
// assist consumes the Resolver capability; Index is the concrete per-file
// implementation backed by the declarations visible in one syntax tree.
package semantics

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Resolver maps a type-reference node to the ordered field names of the
// struct it denotes. The boolean is false when the reference does not
// resolve to a struct with named fields — an enum variant, a tuple or
// unit struct, a union, or an unknown name.
type Resolver interface {
	StructFields(typeRef *sitter.Node) ([]string, bool)
}

// Index is a file-local Resolver over struct declarations. It is built
// once per invocation and never cached across invocations; the syntax
// tree and source it reads stay owned by the caller.
type Index struct {
	content []byte
	structs map[string][]string
}

// NewIndex walks the tree and records every struct declaration that has
// named fields, keyed by its declared name.
func NewIndex(root *sitter.Node, content []byte) *Index {
	ix := &Index{
		content: content,
		structs: make(map[string][]string),
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "struct_item" {
			ix.record(n)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}

	walk(root)
	return ix
}

func (ix *Index) record(item *sitter.Node) {
	name := item.ChildByFieldName("name")
	body := item.ChildByFieldName("body")
	if name == nil || body == nil || body.Type() != "field_declaration_list" {
		// Tuple and unit structs have no named fields to rank against.
		return
	}

	// A declared field list may be empty; record it anyway so the name
	// resolves (the assist then bails on zero ranked fields).
	fields := []string{}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		decl := body.NamedChild(i)
		if decl.Type() != "field_declaration" {
			continue
		}
		if fieldName := decl.ChildByFieldName("name"); fieldName != nil {
			fields = append(fields, ix.text(fieldName))
		}
	}

	ix.structs[ix.text(name)] = fields
}

// StructFields resolves the type reference through the index. Only names
// recorded as field structs resolve; anything else is unresolved, which
// makes the assist not applicable.
func (ix *Index) StructFields(typeRef *sitter.Node) ([]string, bool) {
	name := referenceName(typeRef)
	if name == nil {
		return nil, false
	}
	fields, ok := ix.structs[ix.text(name)]
	return fields, ok
}

// referenceName reduces a type reference to its final path segment:
// `Foo`, `module::Foo`, and `Foo::<T>` all resolve by `Foo`. Enum-variant
// paths like `E::V` reduce to `V`, which never names a struct declaration
// and therefore stays unresolved.
func referenceName(typeRef *sitter.Node) *sitter.Node {
	if typeRef == nil {
		return nil
	}
	switch typeRef.Type() {
	case "type_identifier", "identifier":
		return typeRef
	case "scoped_type_identifier", "scoped_identifier":
		return referenceName(typeRef.ChildByFieldName("name"))
	case "generic_type_with_turbofish", "generic_type":
		return referenceName(typeRef.ChildByFieldName("type"))
	default:
		return nil
	}
}

func (ix *Index) text(n *sitter.Node) string {
	return string(ix.content[n.StartByte():n.EndByte()])
}
