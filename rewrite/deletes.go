package rewrite

import (
	"fmt"
	"regexp"
	"time"

	"github.com/timofonic-git/cvs2git/collab"
	"github.com/timofonic-git/cvs2git/cvsgraph"
	"github.com/timofonic-git/cvs2git/internal/journal"
)

// initialBranchAddRE matches the source VCS's generated log message
// for a branch's synthetic first revision (spec.md §4.4, second rule).
// Known source defect (spec.md §9 note b), deliberately preserved:
// this does not tolerate a renamed input file, since the file name the
// pattern captures must equal the current basename exactly.
var initialBranchAddRE = regexp.MustCompile(`^file (.*) was added on branch .* on \d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}( [+-]\d{4})?\n$`)

const ntdbrSimultaneityWindow = 2 * time.Second

// RemoveUnneededDeletes implements spec.md §4.4's first rule: a
// trunk 1.1 that only exists because of CVS's own bookkeeping around
// branch creation is deleted, at most once per file.
func RemoveUnneededDeletes(c *cvsgraph.FileItems, meta collab.MetadataStore, file collab.CVSFile, j *journal.Journal) {
	for _, rootStr := range c.Roots().Values() {
		id := cvsgraph.NodeID(rootStr)
		rev, ok := c.Get(id).(*cvsgraph.Revision)
		if !ok {
			continue
		}
		if deleteUnneededRoot(c, rev, meta, file, j) {
			return // at most one deletion per file
		}
	}
}

func deleteUnneededRoot(c *cvsgraph.FileItems, rev *cvsgraph.Revision, meta collab.MetadataStore, file collab.CVSFile, j *journal.Journal) bool {
	if rev.ContentType != cvsgraph.Noop || rev.Rev != "1.1" || !rev.LOD.IsTrunk {
		return false
	}
	if rev.DefaultBranchRevision || rev.ClosedSymbols.Size() != 0 {
		return false
	}

	branchIDs := rev.BranchIDs().Values()
	if len(branchIDs) == 0 {
		return false
	}

	entry, ok := meta.Get(rev.MetaID)
	if !ok {
		return false
	}

	matched := false
	for _, bidStr := range branchIDs {
		bn, ok := c.Get(cvsgraph.NodeID(bidStr)).(*cvsgraph.BranchNode)
		if !ok || !bn.HasCommits() {
			continue
		}
		want := fmt.Sprintf("file %s was initially added on branch %s.\n", file.Basename, bn.SymbolID)
		if entry.Log == want {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	j.Info("removing dead-on-add revision 1.1 for file %s", c.FileID)

	c.RemoveRoot(rev.ID())
	if rev.NextID != cvsgraph.NullID {
		c.AddRoot(rev.NextID)
		c.Revision(rev.NextID).PrevID = cvsgraph.NullID
	}
	for _, bidStr := range rev.BranchIDs().Values() {
		bid := cvsgraph.NodeID(bidStr)
		bn := c.Get(bid).(*cvsgraph.BranchNode)
		if bn.HasCommits() {
			c.AddRoot(bn.FirstCommitID)
			c.Revision(bn.FirstCommitID).FirstOnBranch = cvsgraph.NullID
			c.Revision(bn.FirstCommitID).PrevID = cvsgraph.NullID
		}
		c.Remove(bid)
	}
	for _, tidStr := range rev.TagIDs().Values() {
		c.Remove(cvsgraph.NodeID(tidStr))
	}
	c.Remove(rev.ID())
	return true
}

// RemoveInitialBranchDeletes implements spec.md §4.4's second rule: a
// branch's synthetic Absent first revision, created by CVS at the
// moment the branch was cut, is collapsed away.
func RemoveInitialBranchDeletes(c *cvsgraph.FileItems, meta collab.MetadataStore, file collab.CVSFile, j *journal.Journal) {
	for _, item := range c.IterValues() {
		bn, ok := item.(*cvsgraph.BranchNode)
		if !ok || bn.SourceID == cvsgraph.NullID || !bn.HasCommits() {
			continue
		}
		tryRemoveInitialBranchDelete(c, bn, meta, file, j)
	}
}

func tryRemoveInitialBranchDelete(c *cvsgraph.FileItems, bn *cvsgraph.BranchNode, meta collab.MetadataStore, file collab.CVSFile, j *journal.Journal) {
	if !c.Contains(bn.ID()) {
		return
	}
	first := c.Revision(bn.FirstCommitID)
	if first.ContentType != cvsgraph.Absent {
		return
	}
	if first.BranchIDs().Size() != 0 || first.TagIDs().Size() != 0 {
		return
	}
	source, ok := c.Get(bn.SourceID).(*cvsgraph.Revision)
	if !ok {
		return
	}
	delta := first.Time.Sub(source.Time)
	if delta < 0 {
		delta = -delta
	}
	if delta > ntdbrSimultaneityWindow {
		return
	}

	entry, ok := meta.Get(first.MetaID)
	if !ok {
		return
	}
	m := initialBranchAddRE.FindStringSubmatch(entry.Log)
	if m == nil || m[1] != file.Basename {
		return
	}

	j.Info("removing synthetic branch-add revision %s on branch %s for file %s", first.Rev, bn.SymbolID, c.FileID)

	second := cvsgraph.NullID
	if first.NextID != cvsgraph.NullID {
		second = first.NextID
	}

	source.BranchIDs().Remove(string(bn.ID()))
	source.BranchCommitIDs().Remove(string(first.ID()))

	c.RemoveRoot(bn.ID())
	c.Remove(bn.ID())
	c.Remove(first.ID())

	if second != cvsgraph.NullID {
		sec := c.Revision(second)
		sec.PrevID = cvsgraph.NullID
		sec.FirstOnBranch = cvsgraph.NullID
		c.AddRoot(second)
	}
}
