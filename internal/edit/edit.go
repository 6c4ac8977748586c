// Package edit defines the byte-range replacement script produced by the
// reorder assist and the splice logic that applies it to source text.
package edit

import "sort"

// Range is a half-open byte range [Start, End) into the source text.
type Range struct {
	Start uint32
	End   uint32
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() uint32 {
	return r.End - r.Start
}

// Contains reports whether the offset falls inside the range. The end
// offset is included so a cursor sitting on a closing brace still counts.
func (r Range) Contains(offset uint32) bool {
	return r.Start <= offset && offset <= r.End
}

// Replacement substitutes the bytes covered by Range with NewText.
type Replacement struct {
	Range   Range
	NewText []byte
}

// Script is an ordered set of non-overlapping replacements plus the range
// of the construct they belong to. Focus is reported back to the caller so
// it can re-select or highlight the changed region.
type Script struct {
	Replacements []Replacement
	Focus        Range
}

// Apply returns a copy of content with every replacement spliced in.
// Replacements are applied from the end of the text backwards so earlier
// offsets stay valid while later ones are rewritten.
func (s *Script) Apply(content []byte) []byte {
	reps := make([]Replacement, len(s.Replacements))
	copy(reps, s.Replacements)
	sort.Slice(reps, func(i, j int) bool {
		return reps[i].Range.Start > reps[j].Range.Start
	})

	result := make([]byte, len(content))
	copy(result, content)

	for _, rep := range reps {
		before := result[:rep.Range.Start]
		after := result[rep.Range.End:]
		spliced := make([]byte, 0, len(before)+len(rep.NewText)+len(after))
		spliced = append(spliced, before...)
		spliced = append(spliced, rep.NewText...)
		spliced = append(spliced, after...)
		result = spliced
	}

	return result
}
