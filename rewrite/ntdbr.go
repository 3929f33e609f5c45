// Package rewrite implements the structural rewrite passes of
// spec.md §4: import normalization, unneeded-delete removal, symbol
// exclusion/grafting, symbol mutation/refinement, and parent
// adjustment. Each pass is a function over a *cvsgraph.FileItems,
// mirroring the teacher's habit of implementing one business rule per
// top-level function rather than one do-everything method
// (surgeon/inner.go's many small Commit/Tag methods).
package rewrite

import (
	"github.com/timofonic-git/cvs2git/cvsgraph"
	"github.com/timofonic-git/cvs2git/internal/journal"
	"github.com/timofonic-git/cvs2git/symbols"
)

// AdjustNTDBRs implements spec.md §4.3: normalizes the vendor-branch
// revisions that CVS import semantics place on 1.1.1 so they can later
// be grafted onto Trunk.
//
// ntdbrs lists the non-trunk default-branch revision ids on 1.1.1 in
// chain order. fileImported indicates the file came in via `cvs
// import`. rev12 is 1.2's id, or cvsgraph.NullID if trunk has no
// second revision yet.
func AdjustNTDBRs(c *cvsgraph.FileItems, ntdbrs []cvsgraph.NodeID, fileImported bool, rev12 cvsgraph.NodeID, j *journal.Journal) {
	if len(ntdbrs) == 0 {
		return
	}

	if fileImported {
		adjustFirstNTDBR(c, ntdbrs[0], j)
	}

	for _, id := range ntdbrs {
		c.Revision(id).DefaultBranchRevision = true
	}

	if rev12 != cvsgraph.NullID && c.Contains(rev12) {
		last := ntdbrs[len(ntdbrs)-1]
		lastRev := c.Revision(last)
		rev12Rev := c.Revision(rev12)

		lastRev.DefaultBranchNext = rev12
		rev12Rev.DefaultBranchPrev = last
		rev12Rev.PositionType = symbols.PositionTypeFor(rev12Rev.ContentType == cvsgraph.Modification, lastRev.ContentType == cvsgraph.Modification)
	}
}

// adjustFirstNTDBR implements step 1: only fires when the first NTDBR
// is literally 1.1.1.1, a contentless Modification, with a real 1.1
// predecessor to delete.
func adjustFirstNTDBR(c *cvsgraph.FileItems, firstID cvsgraph.NodeID, j *journal.Journal) {
	first := c.Revision(firstID)
	if first.Rev != "1.1.1.1" || first.ContentType != cvsgraph.Modification || first.DeltaTextExists {
		return
	}
	if first.FirstOnBranch == cvsgraph.NullID {
		return
	}
	branchNode, ok := c.Get(first.FirstOnBranch).(*cvsgraph.BranchNode)
	if !ok {
		return
	}
	old11, ok := c.Get(branchNode.SourceID).(*cvsgraph.Revision)
	if !ok || old11.Rev != "1.1" {
		return
	}

	// Transfer 1.1's sprouts onto 1.1.1.1.
	for _, bid := range old11.BranchIDs().Values() {
		retargetSprout(c, cvsgraph.NodeID(bid), firstID, first.LOD)
		first.BranchIDs().Add(bid)
	}
	for _, tid := range old11.TagIDs().Values() {
		retargetSprout(c, cvsgraph.NodeID(tid), firstID, first.LOD)
		first.TagIDs().Add(tid)
	}
	for _, bcid := range old11.BranchCommitIDs().Values() {
		first.BranchCommitIDs().Add(bcid)
		if bc := c.Revision(cvsgraph.NodeID(bcid)); bc.FirstOnBranch != cvsgraph.NullID {
			if bn, ok := c.Get(bc.FirstOnBranch).(*cvsgraph.BranchNode); ok {
				bn.SourceID = firstID
				bn.SourceLOD = first.LOD
			}
		}
	}

	j.Info("deleting dead-on-import revision 1.1 for file %s, promoting %s", c.FileID, first.Rev)

	// Delete 1.1, promote 1.1.1.1 to root.
	c.RemoveRoot(old11.ID())
	c.Remove(old11.ID())
	c.RemoveRoot(branchNode.ID())
	c.Remove(branchNode.ID())
	first.FirstOnBranch = cvsgraph.NullID
	first.PrevID = cvsgraph.NullID
	first.LOD = cvsgraph.Trunk
	c.AddRoot(firstID)

	first.PositionType = symbols.PositionTypeFor(true, false)
}

// retargetSprout updates a tag or branch node's source pointers after
// its source revision moves.
func retargetSprout(c *cvsgraph.FileItems, id, newSourceID cvsgraph.NodeID, newLOD cvsgraph.LOD) {
	switch n := c.Get(id).(type) {
	case *cvsgraph.TagNode:
		n.SourceID = newSourceID
		n.SourceLOD = newLOD
	case *cvsgraph.BranchNode:
		n.SourceID = newSourceID
		n.SourceLOD = newLOD
	}
}
