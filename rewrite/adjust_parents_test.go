package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/timofonic-git/cvs2git/cvsgraph"
	"github.com/timofonic-git/cvs2git/internal/journal"
	"github.com/timofonic-git/cvs2git/symbols"
)

// buildReparentScenario builds trunk 1.1 carrying, in listed order,
// branch nodes "B" (the preferred parent) then "C" (cvs_branch), so
// C's preferred parent B is an eligible, earlier-listed sibling.
func buildReparentScenario() (*cvsgraph.FileItems, *cvsgraph.Revision, *cvsgraph.BranchNode, *cvsgraph.BranchNode) {
	c := cvsgraph.NewFileItems("p.c,v", "trunk")

	r := cvsgraph.NewRevision()
	r.Rev = "1.1"
	r.LOD = cvsgraph.Trunk

	b := cvsgraph.NewBranchNode()
	b.SymbolID = "B"
	b.SourceID = r.ID()
	b.SourceLOD = cvsgraph.Trunk

	cb := cvsgraph.NewBranchNode()
	cb.SymbolID = "C"
	cb.SourceID = r.ID()
	cb.SourceLOD = cvsgraph.Trunk

	r.BranchIDs().Add(string(b.ID()))
	r.BranchIDs().Add(string(cb.ID()))

	c.Add(r)
	c.Add(b)
	c.Add(cb)
	c.AddRoot(r.ID())

	return c, r, b, cb
}

func TestAdjustParentsGraftsOntoEligiblePreferredParent(t *testing.T) {
	c, r, b, cb := buildReparentScenario()
	store := symbols.MapStore{
		"B": symbols.Symbol{ID: "B", Kind: symbols.KindBranch, Name: "B"},
		"C": symbols.Symbol{ID: "C", Kind: symbols.KindBranch, Name: "C", PreferredParentID: "B"},
	}
	j := journal.New(journal.DefaultConfig(), c.FileID)

	AdjustParents(c, store, j)

	assert.False(t, r.BranchIDs().Contains(string(cb.ID())))
	assert.True(t, b.BranchIDs().Contains(string(cb.ID())))
	assert.Equal(t, cvsgraph.Branch("B"), cb.SourceLOD)
	assert.Equal(t, b.ID(), cb.SourceID)
}

func TestAdjustParentsSkipsWhenAlreadyParented(t *testing.T) {
	c, _, b, cb := buildReparentScenario()
	cb.SourceID = b.ID()
	cb.SourceLOD = cvsgraph.Branch("B")
	store := symbols.MapStore{
		"B": symbols.Symbol{ID: "B", Kind: symbols.KindBranch, Name: "B"},
		"C": symbols.Symbol{ID: "C", Kind: symbols.KindBranch, Name: "C", PreferredParentID: "B"},
	}
	j := journal.New(journal.DefaultConfig(), c.FileID)

	before := cb.SourceID
	AdjustParents(c, store, j)
	assert.Equal(t, before, cb.SourceID)
}

func TestAdjustParentsSkipsWhenPreferredParentIsTrunk(t *testing.T) {
	c, _, b, _ := buildReparentScenario()

	// A second-level branch "D" sprouting off "B", whose preferred
	// parent is Trunk -- step 4 must refuse to graft onto Trunk.
	d := cvsgraph.NewBranchNode()
	d.SymbolID = "D"
	d.SourceID = b.ID()
	d.SourceLOD = cvsgraph.Branch("B")
	b.BranchIDs().Add(string(d.ID()))
	c.Add(d)

	store := symbols.MapStore{
		"trunk": symbols.Symbol{ID: "trunk", Kind: symbols.KindTrunk},
		"D":     symbols.Symbol{ID: "D", Kind: symbols.KindBranch, Name: "D", PreferredParentID: "trunk"},
	}
	j := journal.New(journal.DefaultConfig(), c.FileID)

	AdjustParents(c, store, j)
	assert.True(t, b.BranchIDs().Contains(string(d.ID())))
	assert.Equal(t, cvsgraph.Branch("B"), d.SourceLOD)
}
