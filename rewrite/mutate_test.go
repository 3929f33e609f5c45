package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timofonic-git/cvs2git/cvsgraph"
	"github.com/timofonic-git/cvs2git/internal/journal"
	"github.com/timofonic-git/cvs2git/symbols"
)

func TestMutateSymbolsBranchWithoutCommitsBecomesTag(t *testing.T) {
	c := cvsgraph.NewFileItems("m.c,v", "trunk")

	r := cvsgraph.NewRevision()
	r.Rev = "1.1"
	r.LOD = cvsgraph.Trunk

	branch := cvsgraph.NewBranchNode()
	branch.SymbolID = "REL1_0"
	branch.SourceID = r.ID()
	branch.SourceLOD = cvsgraph.Trunk
	r.BranchIDs().Add(string(branch.ID()))

	c.Add(r)
	c.Add(branch)
	c.AddRoot(r.ID())

	store := symbols.MapStore{
		"REL1_0": symbols.Symbol{ID: "REL1_0", Kind: symbols.KindTag, Name: "REL1_0"},
	}
	j := journal.New(journal.DefaultConfig(), c.FileID)

	MutateSymbols(c, store, j)

	item := c.Get(branch.ID())
	_, isTag := item.(*cvsgraph.TagNode)
	assert.True(t, isTag, "branch node should have been replaced by a tag node")
	assert.True(t, r.TagIDs().Contains(string(branch.ID())))
	assert.False(t, r.BranchIDs().Contains(string(branch.ID())))
}

func TestMutateSymbolsBranchWithCommitsCannotBecomeTag(t *testing.T) {
	c := cvsgraph.NewFileItems("m2.c,v", "trunk")

	r := cvsgraph.NewRevision()
	r.Rev = "1.1"
	r.LOD = cvsgraph.Trunk

	branch := cvsgraph.NewBranchNode()
	branch.SymbolID = "REL1_0"
	branch.SourceID = r.ID()

	first := cvsgraph.NewRevision()
	first.Rev = "1.1.1.1"
	first.LOD = cvsgraph.Branch("REL1_0")
	branch.FirstCommitID = first.ID()
	branch.NextID = first.ID()

	r.BranchIDs().Add(string(branch.ID()))

	c.Add(r)
	c.Add(branch)
	c.Add(first)
	c.AddRoot(r.ID())

	store := symbols.MapStore{
		"REL1_0": symbols.Symbol{ID: "REL1_0", Kind: symbols.KindTag, Name: "REL1_0"},
	}
	j := journal.New(journal.DefaultConfig(), c.FileID)

	assert.Panics(t, func() { MutateSymbols(c, store, j) })
}

func TestRefineSymbolsMarksNoopWhenSourceNotModification(t *testing.T) {
	c := cvsgraph.NewFileItems("n.c,v", "trunk")

	r := cvsgraph.NewRevision()
	r.Rev = "1.1"
	r.LOD = cvsgraph.Trunk
	r.ContentType = cvsgraph.Absent
	r.PositionType = cvsgraph.Add

	tag := cvsgraph.NewTagNode()
	tag.SymbolID = "REL1_0"
	tag.SourceID = r.ID()
	tag.SourceLOD = cvsgraph.Trunk
	r.TagIDs().Add(string(tag.ID()))

	c.Add(r)
	c.Add(tag)
	c.AddRoot(r.ID())

	j := journal.New(journal.DefaultConfig(), c.FileID)
	RefineSymbols(c, j)

	assert.True(t, tag.Noop, "tag's own content-subtype should be noop")
	assert.Equal(t, cvsgraph.Add, r.PositionType, "the source revision's own position-type must be untouched")
}

func TestRefineSymbolsResolvesThroughBranchChain(t *testing.T) {
	c := cvsgraph.NewFileItems("o.c,v", "trunk")

	r := cvsgraph.NewRevision()
	r.Rev = "1.1"
	r.LOD = cvsgraph.Trunk
	r.ContentType = cvsgraph.Modification
	r.PositionType = cvsgraph.Add

	mid := cvsgraph.NewBranchNode()
	mid.SymbolID = "MID"
	mid.SourceID = r.ID()

	leaf := cvsgraph.NewBranchNode()
	leaf.SymbolID = "LEAF"
	leaf.SourceID = mid.ID()

	c.Add(r)
	c.Add(mid)
	c.Add(leaf)
	c.AddRoot(r.ID())

	j := journal.New(journal.DefaultConfig(), c.FileID)
	rev := resolveToRevision(c, leaf.ID(), j)
	require.NotNil(t, rev)
	assert.Equal(t, r.ID(), rev.ID())
}

// TestRefineSymbolsDoesNotCorruptUnrelatedRevisionPositionType guards
// against retagging a symbol's own noop-ness by writing through to the
// position-type of whatever revision it happens to sprout from: a real
// deletion following a real modification must stay Delete even though
// it also sources an unrelated tag.
func TestRefineSymbolsDoesNotCorruptUnrelatedRevisionPositionType(t *testing.T) {
	c := cvsgraph.NewFileItems("p.c,v", "trunk")

	r := cvsgraph.NewRevision()
	r.Rev = "1.2"
	r.LOD = cvsgraph.Trunk
	r.ContentType = cvsgraph.Absent
	r.PositionType = cvsgraph.Delete

	tag := cvsgraph.NewTagNode()
	tag.SymbolID = "UNRELATED"
	tag.SourceID = r.ID()
	tag.SourceLOD = cvsgraph.Trunk
	r.TagIDs().Add(string(tag.ID()))

	c.Add(r)
	c.Add(tag)
	c.AddRoot(r.ID())

	j := journal.New(journal.DefaultConfig(), c.FileID)
	RefineSymbols(c, j)

	assert.True(t, tag.Noop)
	assert.Equal(t, cvsgraph.Delete, r.PositionType, "an unrelated tag must not demote the revision's own position-type")
}
