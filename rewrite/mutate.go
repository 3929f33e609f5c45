package rewrite

import (
	"github.com/timofonic-git/cvs2git/cvsgraph"
	"github.com/timofonic-git/cvs2git/internal/idset"
	"github.com/timofonic-git/cvs2git/internal/journal"
	"github.com/timofonic-git/cvs2git/symbols"
)

// MutateSymbols implements spec.md §4.6: every symbol node whose
// declared symbol_db type disagrees with its node kind is replaced in
// place (same id) with the correct kind.
//
// Idempotent by construction (spec.md §8 law: "running mutate_symbols
// twice is a no-op after the first run") -- once a node's kind matches
// its symbol's declared kind, the loop below has nothing left to do
// for it.
func MutateSymbols(c *cvsgraph.FileItems, store symbols.Store, j *journal.Journal) {
	for _, item := range c.IterValues() {
		switch n := item.(type) {
		case *cvsgraph.BranchNode:
			sym, ok := store.Get(n.SymbolID)
			if !ok || sym.Kind != symbols.KindTag {
				continue
			}
			if n.HasCommits() {
				j.Policy("branch %s cannot be excluded: it has commits", n.SymbolID)
				return
			}
			tag := cvsgraph.ReplaceWithTagNode(n)
			c.Add(tag)
			swapSproutKind(c, n.SourceID, tag.ID(), false)

		case *cvsgraph.TagNode:
			sym, ok := store.Get(n.SymbolID)
			if !ok || sym.Kind != symbols.KindBranch {
				continue
			}
			branch := cvsgraph.ReplaceWithBranchNode(n)
			c.Add(branch)
			swapSproutKind(c, n.SourceID, branch.ID(), true)
		}
	}
}

// swapSproutKind moves id from the source's tag_ids to branch_ids (or
// vice versa), appending it at the end of the destination list -- the
// "two disjoint lists plus helper routines that move an id atomically"
// design note (spec.md §9). Its position among the old siblings is not
// kept.
func swapSproutKind(c *cvsgraph.FileItems, sourceID, id cvsgraph.NodeID, nowBranch bool) {
	carrier, ok := c.Get(sourceID).(cvsgraph.SubitemCarrier)
	if !ok {
		return
	}
	if nowBranch {
		carrier.TagIDs().Remove(string(id))
		carrier.BranchIDs().Add(string(id))
	} else {
		carrier.BranchIDs().Remove(string(id))
		carrier.TagIDs().Add(string(id))
	}
}

// RefineSymbols implements spec.md §4.6: retags each symbol's own
// content-subtype as *Noop when its ultimate revision source is not a
// Modification. This is state belonging to the symbol node itself
// (spec.md §9's "re-architect as an explicit tagged variant field on
// the node"), never the source revision's own, independently-derived
// position-type (spec.md §3: purely a function of that revision's own
// linear (this-is-mod, prev-is-mod) pair).
func RefineSymbols(c *cvsgraph.FileItems, j *journal.Journal) {
	for _, item := range c.IterValues() {
		switch n := item.(type) {
		case *cvsgraph.TagNode:
			n.Noop = refineOne(c, n.SourceID, j)
		case *cvsgraph.BranchNode:
			n.Noop = refineOne(c, n.SourceID, j)
		}
	}
}

// refineOne resolves a symbol's ultimate revision source and reports
// whether that source is not a Modification.
func refineOne(c *cvsgraph.FileItems, sourceID cvsgraph.NodeID, j *journal.Journal) bool {
	rev := resolveToRevision(c, sourceID, j)
	if rev == nil {
		return false
	}
	return rev.ContentType != cvsgraph.Modification
}

// resolveToRevision walks a symbol's source chain through any
// intervening branch nodes (spec.md §4.6: "following branch→branch
// chains via source_id") until it lands on the revision it was
// ultimately sourced from.
func resolveToRevision(c *cvsgraph.FileItems, id cvsgraph.NodeID, j *journal.Journal) *cvsgraph.Revision {
	seen := idset.New()
	for id != cvsgraph.NullID {
		if seen.Contains(string(id)) {
			j.Fatal("cycle in symbol source chain starting at %q", id)
			return nil
		}
		seen.Add(string(id))
		switch n := c.Get(id).(type) {
		case *cvsgraph.Revision:
			return n
		case *cvsgraph.BranchNode:
			id = n.SourceID
		default:
			j.Fatal("unresolved symbol source %q", id)
			return nil
		}
	}
	return nil
}
