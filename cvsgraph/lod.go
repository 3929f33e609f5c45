package cvsgraph

// LODItems is the computed value describing one line of development's
// items: its originating branch node (nil for Trunk, or an orphaned
// branch whose branch node a prior pass deleted), its linear chain of
// revisions in prev/next order, and the symbols sprouting off them
// (spec.md §4.2).
type LODItems struct {
	LOD           LOD
	BranchNode    *BranchNode
	Revisions     []NodeID
	ChildBranches []NodeID
	ChildTags     []NodeID
}

func lodOf(branchNode *BranchNode, revisions []NodeID, c *FileItems) LOD {
	if len(revisions) > 0 {
		return c.Revision(revisions[0]).LOD
	}
	if branchNode != nil {
		return Branch(branchNode.SymbolID)
	}
	return Trunk
}

// collectChain walks the prev/next chain starting at firstID,
// tolerating a chain whose tail was deleted mid-walk (the traversal
// contract only guarantees consistency within the current frame and
// already-yielded siblings -- spec.md §4.2, §9 "Traversal under
// mutation").
func collectChain(c *FileItems, firstID NodeID) []NodeID {
	var out []NodeID
	cur := firstID
	for cur != NullID {
		if !c.Contains(cur) {
			break
		}
		out = append(out, cur)
		cur = c.Revision(cur).NextID
	}
	return out
}

// sproutsOf gathers the branch and tag sprouts directly carried by a
// SubitemCarrier, skipping ids that no longer resolve (a sibling
// deletion can race a still-running scan of the same revision's
// sprout lists).
func sproutsOf(c *FileItems, carrier SubitemCarrier) (branches []NodeID, tags []NodeID) {
	for _, s := range carrier.BranchIDs().Values() {
		id := NodeID(s)
		if c.Contains(id) {
			branches = append(branches, id)
		}
	}
	for _, s := range carrier.TagIDs().Values() {
		id := NodeID(s)
		if c.Contains(id) {
			tags = append(tags, id)
		}
	}
	return branches, tags
}

// GetLODItems computes the LODItems for a single line of development
// without recursing into its children -- the non-recursive half of
// spec.md §4.2's "two-sided use". branchNode is nil for Trunk.
func GetLODItems(c *FileItems, branchNode *BranchNode) *LODItems {
	first := NullID
	if branchNode != nil {
		first = branchNode.FirstCommitID
	} else {
		// Trunk's root revision is looked up by the caller and passed
		// via collectChain below in the iteration path; for a direct
		// call on Trunk we search the root set for the Trunk revision.
		for _, rootStr := range c.Roots().Values() {
			id := NodeID(rootStr)
			if rev, ok := c.Get(id).(*Revision); ok && rev.LOD.IsTrunk {
				first = id
				break
			}
		}
	}
	return LODItemsFrom(c, branchNode, first)
}

// LODItemsFrom computes the LODItems for the line of development
// rooted at firstRevID (branchNode's first commit, or an arbitrary
// root revision for an orphaned LOD that has no branch node at all --
// the shape rewrite.GraftNTDBRToTrunk needs to inspect, spec.md §4.5).
func LODItemsFrom(c *FileItems, branchNode *BranchNode, firstRevID NodeID) *LODItems {
	revisions := collectChain(c, firstRevID)

	var childBranches, childTags []NodeID
	if branchNode != nil {
		bs, ts := sproutsOf(c, branchNode)
		childBranches = append(childBranches, bs...)
		childTags = append(childTags, ts...)
	}
	for _, revID := range revisions {
		bs, ts := sproutsOf(c, c.Revision(revID))
		childBranches = append(childBranches, bs...)
		childTags = append(childTags, ts...)
	}

	return &LODItems{
		LOD:           lodOf(branchNode, revisions, c),
		BranchNode:    branchNode,
		Revisions:     revisions,
		ChildBranches: childBranches,
		ChildTags:     childTags,
	}
}

// IterLODs yields an LODItems for every line of development reachable
// from the current root set, in depth-first, leaf-first order
// (spec.md §4.2). visit may delete nodes within the subtree it was
// just handed, or in already-yielded siblings; mutating anything
// strictly above the current frame is undefined, matching the
// teacher's own snapshot-and-tolerate-missing-ids approach to
// traversal under concurrent structural edits (spec.md §9).
func IterLODs(c *FileItems, visit func(*LODItems)) {
	rootIDs := c.Roots().Values() // snapshot taken at iteration start
	for _, idStr := range rootIDs {
		id := NodeID(idStr)
		if !c.Contains(id) {
			continue
		}
		switch n := c.Get(id).(type) {
		case *Revision:
			walkLOD(c, nil, id, visit)
		case *BranchNode:
			walkLOD(c, n, n.FirstCommitID, visit)
		}
	}
}

func walkLOD(c *FileItems, branchNode *BranchNode, firstRevID NodeID, visit func(*LODItems)) {
	revisions := collectChain(c, firstRevID)

	var childBranches, childTags []NodeID

	recurseSprouts := func(carrier SubitemCarrier) {
		for _, s := range carrier.BranchIDs().Values() {
			bid := NodeID(s)
			if !c.Contains(bid) {
				continue
			}
			bn, ok := c.Get(bid).(*BranchNode)
			if !ok {
				continue
			}
			walkLOD(c, bn, bn.FirstCommitID, visit) // recurse first: leaf-first
			if c.Contains(bid) {                    // recursion may have deleted it
				childBranches = append(childBranches, bid)
			}
		}
		for _, s := range carrier.TagIDs().Values() {
			tid := NodeID(s)
			if c.Contains(tid) {
				childTags = append(childTags, tid)
			}
		}
	}

	if branchNode != nil {
		recurseSprouts(branchNode)
	}
	for _, revID := range revisions {
		if !c.Contains(revID) {
			continue
		}
		recurseSprouts(c.Revision(revID))
	}

	visit(&LODItems{
		LOD:           lodOf(branchNode, revisions, c),
		BranchNode:    branchNode,
		Revisions:     revisions,
		ChildBranches: childBranches,
		ChildTags:     childTags,
	})
}
