package rewrite

import (
	"github.com/timofonic-git/cvs2git/cvsgraph"
	"github.com/timofonic-git/cvs2git/internal/journal"
	"github.com/timofonic-git/cvs2git/symbols"
)

// AdjustParents implements spec.md §4.7: walks every LOD in leaf-to-
// trunk order (the same order IterLODs already yields) and, for each
// tag or branch child, grafts it onto its preferred parent when that
// parent is a sibling branch of its current source (for a branch child,
// only one listed before the child itself).
//
// Stable by construction (spec.md §8 law): once a symbol's source_lod
// matches its preferred parent's LOD, step 2 below skips it on every
// subsequent run.
func AdjustParents(c *cvsgraph.FileItems, store symbols.Store, j *journal.Journal) {
	cvsgraph.IterLODs(c, func(lod *cvsgraph.LODItems) {
		for _, tid := range lod.ChildTags {
			adjustOneSymbol(c, tid, false, store, j)
		}
		for _, bid := range lod.ChildBranches {
			adjustOneSymbol(c, bid, true, store, j)
		}
	})
}

func adjustOneSymbol(c *cvsgraph.FileItems, symID cvsgraph.NodeID, isBranch bool, store symbols.Store, j *journal.Journal) {
	if !c.Contains(symID) {
		return
	}

	var symbolID string
	var sourceID cvsgraph.NodeID
	var sourceLOD cvsgraph.LOD
	switch n := c.Get(symID).(type) {
	case *cvsgraph.TagNode:
		symbolID, sourceID, sourceLOD = n.SymbolID, n.SourceID, n.SourceLOD
	case *cvsgraph.BranchNode:
		symbolID, sourceID, sourceLOD = n.SymbolID, n.SourceID, n.SourceLOD
	default:
		return
	}

	sym, ok := store.Get(symbolID)
	if !ok || sym.PreferredParentID == "" {
		return // silent no-op: no preferred parent on file
	}
	preferred, ok := store.Get(sym.PreferredParentID)
	if !ok {
		return // silent no-op: preferred parent absent
	}

	var preferredLOD cvsgraph.LOD
	switch preferred.Kind {
	case symbols.KindTrunk:
		preferredLOD = cvsgraph.Trunk
	case symbols.KindBranch:
		preferredLOD = cvsgraph.Branch(preferred.Name)
	default:
		return // silent no-op: preferred parent is not a LOD-bearing symbol
	}

	if sourceLOD.Equal(preferredLOD) {
		return // step 2: already parented correctly
	}
	if preferredLOD.IsTrunk {
		return // step 4: grafting onto Trunk is disallowed
	}

	source, ok := c.Get(sourceID).(*cvsgraph.Revision)
	if !ok {
		j.Fatal("adjust_parents: source %q of symbol %q is not a Revision", sourceID, symbolID)
		return
	}

	parentBranch := scanForParent(c, source, symID, isBranch, preferred.Name, j, symbolID)
	if parentBranch == nil {
		return
	}

	graftOnto(c, symID, isBranch, source, parentBranch)
	j.Info("reparented symbol %q onto %q", symbolID, parentBranch.SymbolID)
}

// scanForParent implements spec.md §4.7 step 5. For a tag, any
// position of the preferred parent among source.branch_ids succeeds.
// For a branch, only a preferred parent listed strictly before
// cvs_branch itself is eligible.
func scanForParent(c *cvsgraph.FileItems, source *cvsgraph.Revision, cvsBranchID cvsgraph.NodeID, isBranch bool, preferredName string, j *journal.Journal, symbolID string) *cvsgraph.BranchNode {
	ids := source.BranchIDs().Values()

	if !isBranch {
		for _, bidStr := range ids {
			bn, ok := c.Get(cvsgraph.NodeID(bidStr)).(*cvsgraph.BranchNode)
			if ok && bn.SymbolID == preferredName {
				return bn
			}
		}
		return nil // silent no-op: preferred parent not a sibling here
	}

	sawSelf := false
	for _, bidStr := range ids {
		bid := cvsgraph.NodeID(bidStr)
		if bid == cvsBranchID {
			sawSelf = true
			break // must stop before reaching cvs_branch itself
		}
		bn, ok := c.Get(bid).(*cvsgraph.BranchNode)
		if ok && bn.SymbolID == preferredName {
			return bn
		}
	}
	if !sawSelf {
		j.Fatal("adjust_parents: branch %q is not listed among its own source's branch_ids", symbolID)
	}
	return nil // cvs_branch appeared first, or preferred parent absent: skip
}

func graftOnto(c *cvsgraph.FileItems, symID cvsgraph.NodeID, isBranch bool, source *cvsgraph.Revision, parent *cvsgraph.BranchNode) {
	newLOD := cvsgraph.Branch(parent.SymbolID)
	if isBranch {
		source.BranchIDs().Remove(string(symID))
		parent.BranchIDs().Add(string(symID))
		bn := c.Get(symID).(*cvsgraph.BranchNode)
		bn.SourceID = parent.ID()
		bn.SourceLOD = newLOD
		return
	}
	source.TagIDs().Remove(string(symID))
	parent.TagIDs().Add(string(symID))
	tn := c.Get(symID).(*cvsgraph.TagNode)
	tn.SourceID = parent.ID()
	tn.SourceLOD = newLOD
}
