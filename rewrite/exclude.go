package rewrite

import (
	"github.com/timofonic-git/cvs2git/collab"
	"github.com/timofonic-git/cvs2git/cvsgraph"
	"github.com/timofonic-git/cvs2git/internal/journal"
	"github.com/timofonic-git/cvs2git/symbols"
)

// ExcludeTag implements spec.md §4.5's "exclude a tag": remove it from
// the container and from its source's tag_ids.
func ExcludeTag(c *cvsgraph.FileItems, tagID cvsgraph.NodeID) {
	tag, ok := c.Get(tagID).(*cvsgraph.TagNode)
	if !ok {
		return
	}
	detachSproutFromSource(c, tag.SourceID, tagID, false)
	c.RemoveRoot(tagID)
	c.Remove(tagID)
}

func detachSproutFromSource(c *cvsgraph.FileItems, sourceID, sproutID cvsgraph.NodeID, isBranch bool) {
	switch src := c.Get(sourceID).(type) {
	case *cvsgraph.Revision:
		if isBranch {
			src.BranchIDs().Remove(string(sproutID))
		} else {
			src.TagIDs().Remove(string(sproutID))
		}
	case *cvsgraph.BranchNode:
		if isBranch {
			src.BranchIDs().Remove(string(sproutID))
		} else {
			src.TagIDs().Remove(string(sproutID))
		}
	}
}

func deleteSubtree(c *cvsgraph.FileItems, id cvsgraph.NodeID) {
	switch n := c.Get(id).(type) {
	case *cvsgraph.TagNode:
		c.RemoveRoot(id)
		c.Remove(id)
	case *cvsgraph.BranchNode:
		for _, tid := range n.TagIDs().Values() {
			deleteSubtree(c, cvsgraph.NodeID(tid))
		}
		for _, bid := range n.BranchIDs().Values() {
			deleteSubtree(c, cvsgraph.NodeID(bid))
		}
		cur := n.FirstCommitID
		for cur != cvsgraph.NullID && c.Contains(cur) {
			next := c.Revision(cur).NextID
			deleteRevisionSprouts(c, cur)
			c.RemoveRoot(cur)
			c.Remove(cur)
			cur = next
		}
		c.RemoveRoot(id)
		c.Remove(id)
	}
}

func deleteRevisionSprouts(c *cvsgraph.FileItems, revID cvsgraph.NodeID) {
	rev := c.Revision(revID)
	for _, tid := range rev.TagIDs().Values() {
		deleteSubtree(c, cvsgraph.NodeID(tid))
	}
	for _, bid := range rev.BranchIDs().Values() {
		deleteSubtree(c, cvsgraph.NodeID(bid))
	}
}

// ExcludeBranchLOD implements spec.md §4.5's "exclude a branch LOD".
// It reports whether a contiguous NTDBR prefix survived (the "NTDBRs
// remain" signal that tells ExcludeNonTrunk to run GraftNTDBRToTrunk
// afterward).
func ExcludeBranchLOD(c *cvsgraph.FileItems, lod *cvsgraph.LODItems, j *journal.Journal) bool {
	ntdbrPrefix := 0
	for _, rid := range lod.Revisions {
		if !c.Revision(rid).DefaultBranchRevision {
			break
		}
		ntdbrPrefix++
	}

	if ntdbrPrefix > 0 {
		if ntdbrPrefix < len(lod.Revisions) {
			boundary := c.Revision(lod.Revisions[ntdbrPrefix-1])
			boundary.NextID = cvsgraph.NullID
			for _, rid := range lod.Revisions[ntdbrPrefix:] {
				if !c.Contains(rid) {
					continue
				}
				deleteRevisionSprouts(c, rid)
				c.RemoveRoot(rid)
				c.Remove(rid)
			}
		}
		return true
	}

	// No NTDBR prefix: delete every revision on the LOD and, if
	// present, the branch node itself.
	for _, rid := range lod.Revisions {
		if !c.Contains(rid) {
			continue
		}
		rev := c.Revision(rid)
		if rev.DefaultBranchNext != cvsgraph.NullID && c.Contains(rev.DefaultBranchNext) {
			next12 := c.Revision(rev.DefaultBranchNext)
			next12.DefaultBranchPrev = cvsgraph.NullID
			if next12.PrevID == cvsgraph.NullID {
				c.AddRoot(next12.ID())
			}
		}
	}

	if lod.BranchNode != nil {
		if src, ok := c.Get(lod.BranchNode.SourceID).(*cvsgraph.Revision); ok {
			src.BranchIDs().Remove(string(lod.BranchNode.ID()))
			src.BranchCommitIDs().Remove(string(lod.BranchNode.FirstCommitID))
		}
	} else if len(lod.Revisions) > 0 {
		c.RemoveRoot(lod.Revisions[0])
	}

	for _, rid := range lod.Revisions {
		if !c.Contains(rid) {
			continue
		}
		deleteRevisionSprouts(c, rid)
		c.RemoveRoot(rid)
		c.Remove(rid)
	}
	if lod.BranchNode != nil {
		c.RemoveRoot(lod.BranchNode.ID())
		c.Remove(lod.BranchNode.ID())
	}

	return false
}

// GraftNTDBRToTrunk implements spec.md §4.5's "graft NTDBRs to trunk":
// find the (at most one) orphaned LOD made up entirely of NTDBRs with
// no remaining branch node or children, and weld it onto Trunk's 1.2.
// Reports whether a graft happened.
func GraftNTDBRToTrunk(c *cvsgraph.FileItems, j *journal.Journal) bool {
	var target *cvsgraph.LODItems
	for _, rootStr := range c.Roots().Values() {
		id := cvsgraph.NodeID(rootStr)
		rev, ok := c.Get(id).(*cvsgraph.Revision)
		if !ok || !rev.DefaultBranchRevision {
			continue
		}
		items := cvsgraph.LODItemsFrom(c, nil, id)
		if items.BranchNode != nil || len(items.ChildBranches) != 0 || len(items.ChildTags) != 0 {
			continue
		}
		allNTDBR := true
		for _, rid := range items.Revisions {
			if !c.Revision(rid).DefaultBranchRevision {
				allNTDBR = false
				break
			}
		}
		if allNTDBR {
			target = items
			break
		}
	}
	if target == nil {
		return false
	}

	j.Info("grafting %d NTDBR revision(s) onto Trunk for file %s", len(target.Revisions), c.FileID)

	last := target.Revisions[len(target.Revisions)-1]
	lastRev := c.Revision(last)
	rev12ID := lastRev.DefaultBranchNext

	for _, rid := range target.Revisions {
		r := c.Revision(rid)
		r.DefaultBranchRevision = false
		r.LOD = cvsgraph.Trunk
		for _, bid := range r.BranchIDs().Values() {
			retargetSprout(c, cvsgraph.NodeID(bid), rid, cvsgraph.Trunk)
		}
		for _, tid := range r.TagIDs().Values() {
			retargetSprout(c, cvsgraph.NodeID(tid), rid, cvsgraph.Trunk)
		}
	}

	if rev12ID != cvsgraph.NullID && c.Contains(rev12ID) {
		rev12 := c.Revision(rev12ID)
		lastRev.DefaultBranchNext = cvsgraph.NullID
		rev12.DefaultBranchPrev = cvsgraph.NullID
		lastRev.NextID = rev12ID
		rev12.PrevID = last
		c.RemoveRoot(rev12ID)
	}

	return true
}

// ExcludeNonTrunk implements spec.md §4.5's first public entry point:
// every tag and every non-Trunk LOD is excluded, grafting any
// surviving NTDBR chain afterward.
func ExcludeNonTrunk(c *cvsgraph.FileItems, j *journal.Journal) {
	for _, item := range c.IterValues() {
		if _, ok := item.(*cvsgraph.TagNode); ok {
			ExcludeTag(c, item.ID())
		}
	}

	ntdbrsRemain := false
	cvsgraph.IterLODs(c, func(lod *cvsgraph.LODItems) {
		if lod.LOD.IsTrunk {
			return
		}
		if ExcludeBranchLOD(c, lod, j) {
			ntdbrsRemain = true
		}
	})

	if ntdbrsRemain {
		GraftNTDBRToTrunk(c, j)
	}
}

// Excluder gates exclusion per spec.md §4.5's second public entry
// point, FilterExcludedSymbols: a symbol is excluded only when the
// symbol store marks it ExcludedSymbol.
type Excluder = symbols.Store

// FilterExcludedSymbols implements spec.md §4.5: same traversal as
// ExcludeNonTrunk, but gated per item on ExcludedSymbol membership,
// notifying excluder afterward.
func FilterExcludedSymbols(c *cvsgraph.FileItems, store symbols.Store, excluder collab.RevisionExcluder, file collab.CVSFile, j *journal.Journal) {
	changed := false

	isExcluded := func(symbolID string) bool {
		sym, ok := store.Get(symbolID)
		return ok && sym.Kind == symbols.KindExcluded
	}

	for _, item := range c.IterValues() {
		tag, ok := item.(*cvsgraph.TagNode)
		if !ok || !isExcluded(tag.SymbolID) {
			continue
		}
		ExcludeTag(c, tag.ID())
		changed = true
	}

	ntdbrsRemain := false
	cvsgraph.IterLODs(c, func(lod *cvsgraph.LODItems) {
		if lod.LOD.IsTrunk || lod.BranchNode == nil {
			return
		}
		if !isExcluded(lod.BranchNode.SymbolID) {
			return
		}
		if ExcludeBranchLOD(c, lod, j) {
			ntdbrsRemain = true
		}
		changed = true
	})

	if ntdbrsRemain {
		if GraftNTDBRToTrunk(c, j) {
			changed = true
		}
	}

	if changed {
		excluder.ProcessFile(c)
	} else {
		excluder.SkipFile(file)
	}
}
