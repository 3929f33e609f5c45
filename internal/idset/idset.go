// Package idset is cvs2git's analogue of reposurgeon's
// fastOrderedIntSet (surgeon/inner.go): an ordered, deduplicated
// collection backed by github.com/emirpasic/gods' linked hash set.
//
// Several edge lists in the item graph (a node's branch_ids, tag_ids,
// branch_commit_ids, and a container's root-id set) need both
// deduplication and a stable iteration order: adjust_parents's search
// over a revision's branch children (spec.md §4.7 step 5) depends on
// branches being scanned in the order they sprouted. A bare
// map[ID]struct{} cannot give us that; this type can.
package idset

import (
	orderedset "github.com/emirpasic/gods/sets/linkedhashset"
)

// Set holds string-valued ids (cvsgraph.NodeID is a defined string
// type) in insertion order with no duplicates.
type Set struct {
	inner *orderedset.Set
}

// New builds a Set, optionally seeded with ids in the given order.
func New(ids ...string) *Set {
	s := orderedset.New()
	for _, id := range ids {
		s.Add(id)
	}
	return &Set{inner: s}
}

// Size returns the number of ids in the set.
func (s *Set) Size() int {
	return s.inner.Size()
}

// Values returns the ids in insertion order.
func (s *Set) Values() []string {
	raw := s.inner.Values()
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = v.(string)
	}
	return out
}

// Contains reports whether id is a member.
func (s *Set) Contains(id string) bool {
	return s.inner.Contains(id)
}

// Add appends id to the set if not already present, preserving the
// position of an existing member.
func (s *Set) Add(id string) {
	s.inner.Add(id)
}

// Remove deletes id from the set. Reports whether it was present.
func (s *Set) Remove(id string) bool {
	if !s.inner.Contains(id) {
		return false
	}
	s.inner.Remove(id)
	return true
}

// Clone returns an independent copy preserving order.
func (s *Set) Clone() *Set {
	return New(s.Values()...)
}
