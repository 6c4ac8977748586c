// Package assist implements the reorder-fields refactoring: given a
// cursor position inside a struct literal or struct pattern, it produces
// the minimal edit script that rearranges the fields present in that
// construct into the order they are declared in the struct definition.
//
// The whole pipeline is stateless and request-scoped. There are exactly
// two outcomes: a non-nil edit script, or nil meaning the assist is not
// applicable (no construct at the cursor, unresolvable type, no orderable
// fields, or the fields are already in declaration order). Malformed
// input degrades to nil; there is no error surface.
package assist

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/evanrichards/field-sorter-rs/internal/construct"
	"github.com/evanrichards/field-sorter-rs/internal/edit"
	"github.com/evanrichards/field-sorter-rs/internal/semantics"
	"github.com/evanrichards/field-sorter-rs/internal/textdiff"
)

// unrankedSentinel sorts every field whose key is not a declared field
// name after all ranked fields. The sort is stable, so unranked fields
// keep their relative source order among themselves.
const unrankedSentinel = int(^uint(0) >> 1)

// ReorderAt runs the assist for the construct at the given byte offset.
// Returns nil when the assist is not applicable.
func ReorderAt(root *sitter.Node, content []byte, offset uint32, res semantics.Resolver) *edit.Script {
	c := construct.FindAt(root, offset)
	if c == nil {
		return nil
	}
	return Reorder(c, content, res)
}

// Reorder runs the assist for one construct. Returns nil when the assist
// is not applicable.
func Reorder(c *construct.Construct, content []byte, res semantics.Resolver) *edit.Script {
	ranks, ok := fieldRanks(c, res)
	if !ok {
		return nil
	}

	fields := c.Fields(content)
	if len(fields) == 0 {
		return nil
	}

	sorted := sortedByRank(fields, ranks)
	if sameOrder(fields, sorted) {
		return nil
	}

	return synthesize(c, fields, sorted, content)
}

// fieldRanks resolves the construct's type reference and builds the
// name-to-declaration-index table. Resolution is attempted once; an
// unresolvable reference makes the whole assist not applicable.
func fieldRanks(c *construct.Construct, res semantics.Resolver) (map[string]int, bool) {
	typeRef := c.TypeRef()
	if typeRef == nil {
		return nil, false
	}
	names, ok := res.StructFields(typeRef)
	if !ok {
		return nil, false
	}
	ranks := make(map[string]int, len(names))
	for i, name := range names {
		ranks[name] = i
	}
	return ranks, true
}

// sortedByRank stably sorts the fields by declaration rank. Declared
// names are unique, so ties can only occur among unranked fields, which
// retain their source order — this is what makes the assist idempotent
// and its output independent of sort internals.
func sortedByRank(fields []construct.Field, ranks map[string]int) []construct.Field {
	sorted := make([]construct.Field, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rankOf(sorted[i], ranks) < rankOf(sorted[j], ranks)
	})
	return sorted
}

func rankOf(f construct.Field, ranks map[string]int) int {
	if rank, ok := ranks[f.Key]; ok {
		return rank
	}
	return unrankedSentinel
}

// sameOrder reports whether sorting left every field in its original
// slot. Fields of one construct occupy disjoint ranges, so start offsets
// identify nodes.
func sameOrder(original, sorted []construct.Field) bool {
	for i := range original {
		if original[i].Node.StartByte() != sorted[i].Node.StartByte() {
			return false
		}
	}
	return true
}

// synthesize pairs each slot's current occupant with the field that
// belongs there and accumulates the minimal per-slot replacements. Diffing
// slot-by-slot, instead of deleting and reinserting whole field texts,
// keeps edits small when the outgoing and incoming field share textual
// shape, and leaves every non-field token untouched.
func synthesize(c *construct.Construct, original, sorted []construct.Field, content []byte) *edit.Script {
	script := &edit.Script{Focus: c.Range()}

	for i := range original {
		if original[i].Node.StartByte() == sorted[i].Node.StartByte() {
			continue
		}
		reps := textdiff.Diff(original[i].Node, sorted[i].Node, content)
		script.Replacements = append(script.Replacements, reps...)
	}

	sort.Slice(script.Replacements, func(i, j int) bool {
		return script.Replacements[i].Range.Start < script.Replacements[j].Range.Start
	})

	return script
}
