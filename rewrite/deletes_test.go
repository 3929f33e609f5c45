package rewrite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timofonic-git/cvs2git/collab"
	"github.com/timofonic-git/cvs2git/cvsgraph"
	"github.com/timofonic-git/cvs2git/internal/journal"
)

type fakeMeta map[string]collab.LogEntry

func (m fakeMeta) Get(id string) (collab.LogEntry, bool) {
	e, ok := m[id]
	return e, ok
}

func TestRemoveUnneededDeletesDeadOnAdd(t *testing.T) {
	c := cvsgraph.NewFileItems("bar.c,v", "trunk")
	file := collab.CVSFile{ID: "f1", Basename: "bar.c"}

	r11 := cvsgraph.NewRevision()
	r11.Rev = "1.1"
	r11.LOD = cvsgraph.Trunk
	r11.ContentType = cvsgraph.Noop
	r11.MetaID = "m1"

	branch := cvsgraph.NewBranchNode()
	branch.SymbolID = "rel1"
	branch.SourceID = r11.ID()

	r111 := cvsgraph.NewRevision()
	r111.Rev = "1.1.1.1"
	r111.LOD = cvsgraph.Branch("rel1")
	branch.FirstCommitID = r111.ID()
	branch.NextID = r111.ID()
	r111.FirstOnBranch = branch.ID()

	r11.BranchIDs().Add(string(branch.ID()))

	for _, item := range []cvsgraph.Item{r11, branch, r111} {
		c.Add(item)
	}
	c.AddRoot(r11.ID())

	meta := fakeMeta{"m1": collab.LogEntry{Log: "file bar.c was initially added on branch rel1.\n"}}
	j := journal.New(journal.DefaultConfig(), c.FileID)

	RemoveUnneededDeletes(c, meta, file, j)

	assert.False(t, c.Contains(r11.ID()))
	require.True(t, c.Contains(r111.ID()))
	assert.Equal(t, cvsgraph.NullID, c.Revision(r111.ID()).FirstOnBranch)
	assert.Contains(t, c.Roots().Values(), string(r111.ID()))
}

func TestRemoveInitialBranchDeleteCollapsesSyntheticAdd(t *testing.T) {
	c := cvsgraph.NewFileItems("baz.c,v", "trunk")
	file := collab.CVSFile{ID: "f2", Basename: "baz.c"}

	source := cvsgraph.NewRevision()
	source.Rev = "1.3"
	source.LOD = cvsgraph.Trunk
	source.Time = time.Unix(5000, 0)

	branch := cvsgraph.NewBranchNode()
	branch.SymbolID = "rel2"
	branch.SourceID = source.ID()

	synth := cvsgraph.NewRevision()
	synth.Rev = "1.3.2.1"
	synth.LOD = cvsgraph.Branch("rel2")
	synth.ContentType = cvsgraph.Absent
	synth.Time = time.Unix(5001, 0)
	synth.MetaID = "m2"
	synth.FirstOnBranch = branch.ID()
	branch.FirstCommitID = synth.ID()
	branch.NextID = synth.ID()

	real := cvsgraph.NewRevision()
	real.Rev = "1.3.2.2"
	real.LOD = cvsgraph.Branch("rel2")
	synth.NextID = real.ID()
	real.PrevID = synth.ID()

	source.BranchIDs().Add(string(branch.ID()))
	source.BranchCommitIDs().Add(string(synth.ID()))

	for _, item := range []cvsgraph.Item{source, branch, synth, real} {
		c.Add(item)
	}
	c.AddRoot(source.ID())

	meta := fakeMeta{"m2": collab.LogEntry{Log: "file baz.c was added on branch rel2 on 2020-01-01 00:00:00\n"}}
	j := journal.New(journal.DefaultConfig(), c.FileID)

	RemoveInitialBranchDeletes(c, meta, file, j)

	assert.False(t, c.Contains(synth.ID()))
	assert.False(t, c.Contains(branch.ID()))
	require.True(t, c.Contains(real.ID()))
	assert.Equal(t, cvsgraph.NullID, c.Revision(real.ID()).PrevID)
	assert.Contains(t, c.Roots().Values(), string(real.ID()))
	assert.False(t, source.BranchIDs().Contains(string(branch.ID())))
}
