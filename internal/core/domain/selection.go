package domain

import "slices"

// SelectionKey is the durable storage key holding the selected asset IDs.
const SelectionKey = "selected-assets"

// SelectionSet is the ordered, duplicate-free collection of selected asset IDs.
// Insertion order is preserved. Values are immutable: Toggle returns a new set
// and never modifies the receiver.
type SelectionSet struct {
	ids []AssetID
}

// NewSelectionSet builds a set from ids, keeping the first occurrence of
// each duplicate.
func NewSelectionSet(ids ...AssetID) SelectionSet {
	if len(ids) == 0 {
		return SelectionSet{}
	}
	out := make([]AssetID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return SelectionSet{ids: out}
}

// Contains reports whether id is a member of the set.
func (s SelectionSet) Contains(id AssetID) bool {
	return slices.Contains(s.ids, id)
}

// Toggle flips the membership of id. A member is removed with the remaining
// IDs keeping their relative order; a non-member is appended last.
func (s SelectionSet) Toggle(id AssetID) SelectionSet {
	if idx := slices.Index(s.ids, id); idx >= 0 {
		out := make([]AssetID, 0, len(s.ids)-1)
		out = append(out, s.ids[:idx]...)
		out = append(out, s.ids[idx+1:]...)
		return SelectionSet{ids: out}
	}
	out := make([]AssetID, 0, len(s.ids)+1)
	out = append(out, s.ids...)
	out = append(out, id)
	return SelectionSet{ids: out}
}

// Len returns the number of selected IDs.
func (s SelectionSet) Len() int {
	return len(s.ids)
}

// IsEmpty reports whether nothing is selected.
func (s SelectionSet) IsEmpty() bool {
	return len(s.ids) == 0
}

// IDs returns a copy of the selected IDs in insertion order.
// The result is never nil so it serialises as an empty JSON array.
func (s SelectionSet) IDs() []AssetID {
	out := make([]AssetID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Strings returns the selected IDs as plain strings, the persisted shape.
func (s SelectionSet) Strings() []string {
	out := make([]string, len(s.ids))
	for i, id := range s.ids {
		out[i] = string(id)
	}
	return out
}

// Equal reports whether both sets hold the same IDs in the same order.
func (s SelectionSet) Equal(other SelectionSet) bool {
	return slices.Equal(s.ids, other.ids)
}
