package cvsgraph

import (
	"fmt"

	"github.com/timofonic-git/cvs2git/internal/idset"
	"github.com/timofonic-git/cvs2git/internal/xerr"
)

// FileItems owns the forest of items for one file: an id-to-node arena
// plus the set of root ids (spec.md §4.1). Edges are ids, never
// structural pointers, so deletion is a local, arena-level operation
// (spec.md §9 "Cyclic references via ids").
type FileItems struct {
	FileID      string
	TrunkSymbol string

	nodes map[NodeID]Item
	roots *idset.Set
}

// NewFileItems builds an empty container for one file.
func NewFileItems(fileID, trunkSymbol string) *FileItems {
	return &FileItems{
		FileID:      fileID,
		TrunkSymbol: trunkSymbol,
		nodes:       make(map[NodeID]Item),
		roots:       idset.New(),
	}
}

// Add inserts a node into the arena. It does not touch the root set;
// callers add to the root set explicitly when the node has no parent.
func (f *FileItems) Add(item Item) {
	f.nodes[item.ID()] = item
}

// Get resolves an id to its node, or nil if id is null or unknown.
func (f *FileItems) Get(id NodeID) Item {
	if id == NullID {
		return nil
	}
	return f.nodes[id]
}

// MustGet resolves an id, raising a fatal invariant violation
// (spec.md §7, §8 property 1) if it does not resolve and is not null.
func (f *FileItems) MustGet(id NodeID) Item {
	item := f.Get(id)
	if item == nil && id != NullID {
		xerr.Throw(xerr.ClassFatal, "dangling id %q in file %s", id, f.FileID)
	}
	return item
}

// Revision resolves id as a *Revision, fatally if it is some other
// kind of node (several passes require this, e.g. spec.md §4.7 step 3).
func (f *FileItems) Revision(id NodeID) *Revision {
	item := f.MustGet(id)
	if item == nil {
		return nil
	}
	rev, ok := item.(*Revision)
	if !ok {
		xerr.Throw(xerr.ClassFatal, "expected %q to be a Revision in file %s", id, f.FileID)
	}
	return rev
}

// Remove deletes a node from the arena. Forbidden for ids still in the
// root set -- the caller must update the root set first (spec.md §4.1).
func (f *FileItems) Remove(id NodeID) {
	if f.roots.Contains(string(id)) {
		xerr.Throw(xerr.ClassFatal, "refusing to remove root id %q from file %s before it is unrooted", id, f.FileID)
	}
	delete(f.nodes, id)
}

// Contains reports whether id resolves in the container.
func (f *FileItems) Contains(id NodeID) bool {
	_, ok := f.nodes[id]
	return ok
}

// Roots returns the current root ids. The returned set is a live
// handle -- use AddRoot/RemoveRoot to mutate it.
func (f *FileItems) Roots() *idset.Set {
	return f.roots
}

// AddRoot promotes id to the root set.
func (f *FileItems) AddRoot(id NodeID) {
	f.roots.Add(string(id))
}

// RemoveRoot demotes id out of the root set, typically right before
// deleting it or attaching a new parent edge to it.
func (f *FileItems) RemoveRoot(id NodeID) {
	f.roots.Remove(string(id))
}

// IterValues returns every node currently in the arena. Iteration
// order is unspecified, per spec.md §4.1.
func (f *FileItems) IterValues() []Item {
	out := make([]Item, 0, len(f.nodes))
	for _, item := range f.nodes {
		out = append(out, item)
	}
	return out
}

// serialForm is the (file-id, trunk-symbol-id, node-list) round-trip
// shape spec.md §4.1 calls for; deliberately not exported as JSON tags
// since persistence format is an external collaborator's concern
// (spec.md §1 non-goals) -- this just fixes the Go-level contract a
// collaborator's codec would marshal.
type serialForm struct {
	FileID      string
	TrunkSymbol string
	Nodes       []Item
}

// Snapshot produces the round-trippable form of this container.
func (f *FileItems) Snapshot() serialForm {
	return serialForm{FileID: f.FileID, TrunkSymbol: f.TrunkSymbol, Nodes: f.IterValues()}
}

// Restore rebuilds a container from a snapshot, re-deriving the root
// set from the nodes themselves (spec.md §4.1: "reconstruction
// re-derives the root set from the nodes") rather than trusting a
// persisted root list.
func Restore(snap serialForm) *FileItems {
	f := NewFileItems(snap.FileID, snap.TrunkSymbol)
	for _, item := range snap.Nodes {
		f.Add(item)
	}
	for _, item := range snap.Nodes {
		switch n := item.(type) {
		case *Revision:
			if n.PrevID == NullID {
				f.AddRoot(n.id)
			}
		case *BranchNode:
			if n.FirstCommitID == NullID {
				f.AddRoot(n.id)
			}
		}
	}
	return f
}

// String gives a short diagnostic summary, modeled on reposurgeon's
// habit of giving every structural type a compact String().
func (f *FileItems) String() string {
	return fmt.Sprintf("<FileItems %s: %d nodes, %d roots>", f.FileID, len(f.nodes), f.roots.Size())
}
