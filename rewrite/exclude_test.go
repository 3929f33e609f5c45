package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timofonic-git/cvs2git/collab"
	"github.com/timofonic-git/cvs2git/cvsgraph"
	"github.com/timofonic-git/cvs2git/internal/journal"
	"github.com/timofonic-git/cvs2git/symbols"
)

type fakeExcluder struct {
	processed []string
	skipped   []string
}

func (f *fakeExcluder) ProcessFile(c *cvsgraph.FileItems) { f.processed = append(f.processed, c.FileID) }
func (f *fakeExcluder) SkipFile(file collab.CVSFile)      { f.skipped = append(f.skipped, file.ID) }

// buildTagScenario: a trunk revision 1.1 with a tag REL1_0 attached.
func buildTagScenario() (*cvsgraph.FileItems, *cvsgraph.Revision, *cvsgraph.TagNode) {
	c := cvsgraph.NewFileItems("q.c,v", "trunk")
	r := cvsgraph.NewRevision()
	r.Rev = "1.1"
	r.LOD = cvsgraph.Trunk

	tag := cvsgraph.NewTagNode()
	tag.SymbolID = "REL1_0"
	tag.SourceID = r.ID()
	tag.SourceLOD = cvsgraph.Trunk
	r.TagIDs().Add(string(tag.ID()))

	c.Add(r)
	c.Add(tag)
	c.AddRoot(r.ID())
	return c, r, tag
}

func TestExcludeTagRemovesNodeAndBacklink(t *testing.T) {
	c, r, tag := buildTagScenario()

	ExcludeTag(c, tag.ID())

	assert.False(t, c.Contains(tag.ID()))
	assert.False(t, r.TagIDs().Contains(string(tag.ID())))
}

// buildBranchLODScenario builds trunk 1.1 -> 1.2 with a side branch
// "exp" sprouting from 1.1, carrying one commit 1.1.1.1.
func buildBranchLODScenario() (*cvsgraph.FileItems, *cvsgraph.Revision, *cvsgraph.Revision, *cvsgraph.BranchNode, *cvsgraph.Revision) {
	c := cvsgraph.NewFileItems("w.c,v", "trunk")

	r11 := cvsgraph.NewRevision()
	r11.Rev = "1.1"
	r11.LOD = cvsgraph.Trunk

	r12 := cvsgraph.NewRevision()
	r12.Rev = "1.2"
	r12.LOD = cvsgraph.Trunk
	r11.NextID = r12.ID()
	r12.PrevID = r11.ID()

	branch := cvsgraph.NewBranchNode()
	branch.SymbolID = "exp"
	branch.SourceID = r11.ID()
	branch.SourceLOD = cvsgraph.Trunk

	r111 := cvsgraph.NewRevision()
	r111.Rev = "1.1.1.1"
	r111.LOD = cvsgraph.Branch("exp")
	r111.FirstOnBranch = branch.ID()
	branch.FirstCommitID = r111.ID()
	branch.NextID = r111.ID()

	r11.BranchIDs().Add(string(branch.ID()))

	for _, item := range []cvsgraph.Item{r11, r12, branch, r111} {
		c.Add(item)
	}
	c.AddRoot(r11.ID())

	return c, r11, r12, branch, r111
}

func TestExcludeBranchLODDeletesWholeLOD(t *testing.T) {
	c, r11, _, branch, r111 := buildBranchLODScenario()
	j := journal.New(journal.DefaultConfig(), c.FileID)

	lod := cvsgraph.GetLODItems(c, branch)
	require.NotNil(t, lod)

	remain := ExcludeBranchLOD(c, lod, j)

	assert.False(t, remain)
	assert.False(t, c.Contains(branch.ID()))
	assert.False(t, c.Contains(r111.ID()))
	assert.False(t, r11.BranchIDs().Contains(string(branch.ID())))
}

func TestExcludeNonTrunkLeavesOnlyTrunk(t *testing.T) {
	c, _, _, _, _ := buildBranchLODScenario()
	j := journal.New(journal.DefaultConfig(), c.FileID)

	ExcludeNonTrunk(c, j)

	cvsgraph.IterLODs(c, func(lod *cvsgraph.LODItems) {
		assert.True(t, lod.LOD.IsTrunk, "only Trunk should remain")
	})
}

func TestFilterExcludedSymbolsSkipsWhenNothingMatches(t *testing.T) {
	c, _, _, _, _ := buildBranchLODScenario()
	store := symbols.MapStore{}
	excl := &fakeExcluder{}
	file := collab.CVSFile{ID: c.FileID}
	j := journal.New(journal.DefaultConfig(), c.FileID)

	FilterExcludedSymbols(c, store, excl, file, j)

	assert.Equal(t, []string{c.FileID}, excl.skipped)
	assert.Empty(t, excl.processed)
}

func TestFilterExcludedSymbolsProcessesWhenMatched(t *testing.T) {
	c, _, _, branch, _ := buildBranchLODScenario()
	store := symbols.MapStore{
		"exp": symbols.Symbol{ID: "exp", Kind: symbols.KindExcluded, Name: "exp"},
	}
	excl := &fakeExcluder{}
	file := collab.CVSFile{ID: c.FileID}
	j := journal.New(journal.DefaultConfig(), c.FileID)

	FilterExcludedSymbols(c, store, excl, file, j)

	assert.Equal(t, []string{c.FileID}, excl.processed)
	assert.False(t, c.Contains(branch.ID()))
}
