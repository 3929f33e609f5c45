package cvsgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGetRemove(t *testing.T) {
	c := NewFileItems("foo.c,v", "trunk")
	r := NewRevision()
	r.Rev = "1.1"
	r.LOD = Trunk
	c.Add(r)

	require.True(t, c.Contains(r.ID()))
	got := c.Revision(r.ID())
	assert.Equal(t, "1.1", got.Rev)

	c.Remove(r.ID())
	assert.False(t, c.Contains(r.ID()))
}

func TestRemoveRootIsForbidden(t *testing.T) {
	c := NewFileItems("foo.c,v", "trunk")
	r := NewRevision()
	c.Add(r)
	c.AddRoot(r.ID())

	assert.Panics(t, func() { c.Remove(r.ID()) })

	c.RemoveRoot(r.ID())
	assert.NotPanics(t, func() { c.Remove(r.ID()) })
}

func TestMustGetDanglingIDIsFatal(t *testing.T) {
	c := NewFileItems("foo.c,v", "trunk")
	assert.Panics(t, func() { c.MustGet(NewNodeID()) })
}

func TestMustGetNullIsNotFatal(t *testing.T) {
	c := NewFileItems("foo.c,v", "trunk")
	assert.NotPanics(t, func() {
		assert.Nil(t, c.MustGet(NullID))
	})
}

func TestRevisionWrongKindIsFatal(t *testing.T) {
	c := NewFileItems("foo.c,v", "trunk")
	b := NewBranchNode()
	c.Add(b)
	assert.Panics(t, func() { c.Revision(b.ID()) })
}

func TestRestoreRederivesRoots(t *testing.T) {
	c := NewFileItems("foo.c,v", "trunk")
	r1 := NewRevision()
	r1.Rev = "1.1"
	r1.LOD = Trunk
	r2 := NewRevision()
	r2.Rev = "1.2"
	r2.LOD = Trunk
	r1.NextID = r2.ID()
	r2.PrevID = r1.ID()
	c.Add(r1)
	c.Add(r2)
	c.AddRoot(r1.ID())

	restored := Restore(c.Snapshot())
	assert.Equal(t, []string{string(r1.ID())}, restored.Roots().Values())
	assert.True(t, restored.Contains(r2.ID()))
}
