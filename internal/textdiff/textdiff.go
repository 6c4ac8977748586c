// Package textdiff computes minimal token-level replacements between two
// syntax-tree nodes. It is the diff primitive behind the reorder assist:
// given the node currently occupying a slot and the node that belongs
// there, it produces the smallest set of byte-range edits (addressed into
// the old node's range) that rewrite the slot.
package textdiff

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/evanrichards/field-sorter-rs/internal/edit"
)

// Diff returns replacements that turn the text at oldNode's range into
// newNode's text.
//
// When both nodes have the same leaf-token shape (same count, same token
// types), only the leaves whose text differs are replaced, one replacement
// per leaf. Everything between the old node's tokens — spacing, the `:`
// separator, `ref`/`mut` markers — is left alone, so two fields with a
// similar textual shape exchange just their differing tokens. When the
// shapes differ the whole old range is replaced by the new node's text,
// shrunk by the common prefix and suffix of the two texts.
func Diff(oldNode, newNode *sitter.Node, content []byte) []edit.Replacement {
	oldLeaves := leaves(oldNode)
	newLeaves := leaves(newNode)

	if sameShape(oldLeaves, newLeaves) {
		var reps []edit.Replacement
		for i, oldLeaf := range oldLeaves {
			newLeaf := newLeaves[i]
			oldText := content[oldLeaf.StartByte():oldLeaf.EndByte()]
			newText := content[newLeaf.StartByte():newLeaf.EndByte()]
			if string(oldText) == string(newText) {
				continue
			}
			reps = append(reps, edit.Replacement{
				Range:   edit.Range{Start: oldLeaf.StartByte(), End: oldLeaf.EndByte()},
				NewText: append([]byte(nil), newText...),
			})
		}
		return reps
	}

	return replaceTrimmed(oldNode, newNode, content)
}

// leaves collects the node's leaf tokens in source order. Anonymous tokens
// (punctuation, keywords) count: they are part of the slot's shape.
func leaves(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		count := int(n.ChildCount())
		if count == 0 {
			out = append(out, n)
			return
		}
		for i := 0; i < count; i++ {
			walk(n.Child(i))
		}
	}

	walk(node)
	return out
}

func sameShape(a, b []*sitter.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type() != b[i].Type() {
			return false
		}
	}
	return true
}

// replaceTrimmed emits a single replacement of the old range by the new
// text, with the common prefix and suffix of the two texts trimmed off so
// the edit touches only the differing middle.
func replaceTrimmed(oldNode, newNode *sitter.Node, content []byte) []edit.Replacement {
	oldText := content[oldNode.StartByte():oldNode.EndByte()]
	newText := content[newNode.StartByte():newNode.EndByte()]

	if string(oldText) == string(newText) {
		return nil
	}

	limit := len(oldText)
	if len(newText) < limit {
		limit = len(newText)
	}

	prefix := 0
	for prefix < limit && oldText[prefix] == newText[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < limit-prefix &&
		oldText[len(oldText)-1-suffix] == newText[len(newText)-1-suffix] {
		suffix++
	}

	return []edit.Replacement{{
		Range: edit.Range{
			Start: oldNode.StartByte() + uint32(prefix),
			End:   oldNode.EndByte() - uint32(suffix),
		},
		NewText: append([]byte(nil), newText[prefix:len(newText)-suffix]...),
	}}
}
