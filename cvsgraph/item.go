// Package cvsgraph implements the per-file item graph: the in-memory,
// mutable-field, id-addressed forest of revisions, branch sprouts, and
// tag sprouts that the rewrite passes operate on (spec.md §3).
//
// The teacher's Event/CommitLike interfaces (surgeon/inner.go ~L4858,
// ~L4929) are the model for Item here: a small capability-style
// interface implemented by several concrete struct kinds rather than
// one struct mutating its own Go type at runtime, per the "in-place
// class mutation" design note.
package cvsgraph

import (
	"time"

	"github.com/google/uuid"
	"github.com/timofonic-git/cvs2git/internal/idset"
)

// NodeID identifies a node uniquely within the lifetime of one file's
// graph. Generated with uuid.New() at construction, per DOMAIN STACK:
// a process-local counter would collide across independently-ingested
// files if a container is ever serialized and reloaded.
type NodeID string

// NullID is the zero value of NodeID and stands for a null edge.
const NullID NodeID = ""

// NewNodeID mints a fresh, globally unique node id.
func NewNodeID() NodeID {
	return NodeID(uuid.NewString())
}

// ContentType is a revision's content-status tag (spec.md §3).
type ContentType uint8

const (
	Modification ContentType = iota
	Absent
	Noop
)

func (c ContentType) String() string {
	switch c {
	case Modification:
		return "Modification"
	case Absent:
		return "Absent"
	case Noop:
		return "Noop"
	default:
		return "Unknown"
	}
}

// PositionType is derived from (this-is-mod, prev-is-mod) by the
// shared transition table in package symbols (spec.md §6).
type PositionType uint8

const (
	Add PositionType = iota
	Change
	Delete
	NoopAdd
	NoopChange
	NoopDelete
)

func (p PositionType) String() string {
	switch p {
	case Add:
		return "Add"
	case Change:
		return "Change"
	case Delete:
		return "Delete"
	case NoopAdd:
		return "NoopAdd"
	case NoopChange:
		return "NoopChange"
	case NoopDelete:
		return "NoopDelete"
	default:
		return "Unknown"
	}
}

// LOD identifies a line of development: Trunk, or a named branch.
// Two LOD values are the same LOD iff IsTrunk matches and, for
// branches, Name matches.
type LOD struct {
	Name    string
	IsTrunk bool
}

// Trunk is the one LOD every file's graph is rooted from.
var Trunk = LOD{IsTrunk: true}

// Branch returns the LOD for a named branch.
func Branch(name string) LOD {
	return LOD{Name: name}
}

func (l LOD) Equal(other LOD) bool {
	return l.IsTrunk == other.IsTrunk && (l.IsTrunk || l.Name == other.Name)
}

func (l LOD) String() string {
	if l.IsTrunk {
		return "Trunk"
	}
	return l.Name
}

// Item is the common capability set every node in a file's graph
// implements (spec.md §3: "polymorphic over capability set").
type Item interface {
	ID() NodeID
	// LODOf returns the line of development this node lives on.
	LODOf() LOD
}

// SubitemCarrier is implemented by node kinds that can host outgoing
// symbol sprouts: revisions and branch nodes (spec.md §3 table).
type SubitemCarrier interface {
	Item
	BranchIDs() *idset.Set
	TagIDs() *idset.Set
	BranchCommitIDs() *idset.Set
}

// Revision is one revision of a file on one LOD (spec.md §3).
type Revision struct {
	id NodeID

	Rev      string // e.g. "1.2", "1.1.1.1"
	LOD      LOD
	Time     time.Time
	MetaID   string // key into the metadata store

	ContentType  ContentType
	PositionType PositionType

	DeltaTextExists       bool
	DefaultBranchRevision bool

	PrevID NodeID
	NextID NodeID

	// FirstOnBranch is this revision's own branch node's id when this
	// revision is the first commit on its branch (invariant 3).
	FirstOnBranch NodeID

	DefaultBranchPrev NodeID
	DefaultBranchNext NodeID

	branchIDs       *idset.Set
	tagIDs          *idset.Set
	branchCommitIDs *idset.Set

	// ClosedSymbols tracks symbols whose interval recorder (§4.8)
	// closing landed on this revision, consulted by
	// remove_unneeded_deletes (§4.4).
	ClosedSymbols *idset.Set
}

// NewRevision allocates a Revision with a fresh id and empty sprout
// sets.
func NewRevision() *Revision {
	return &Revision{
		id:              NewNodeID(),
		branchIDs:       idset.New(),
		tagIDs:          idset.New(),
		branchCommitIDs: idset.New(),
		ClosedSymbols:   idset.New(),
	}
}

func (r *Revision) ID() NodeID         { return r.id }
func (r *Revision) LODOf() LOD         { return r.LOD }
func (r *Revision) BranchIDs() *idset.Set       { return r.branchIDs }
func (r *Revision) TagIDs() *idset.Set          { return r.tagIDs }
func (r *Revision) BranchCommitIDs() *idset.Set { return r.branchCommitIDs }

// IsRoot reports whether this revision has no predecessor on its LOD.
func (r *Revision) IsRoot() bool { return r.PrevID == NullID }

// IsDelete reports the position-type family used by §4.8's "is c_rev
// a delete" check.
func (r *Revision) IsDelete() bool {
	return r.PositionType == Delete || r.PositionType == NoopDelete
}

// BranchNode is the sprouting point of a branch on a source revision
// (spec.md §3). It can itself carry sprouts once grafted-onto by
// adjust_parents (§4.7 step 6), and tracks NextID so mutate_symbols
// (§4.6) can check "branch with commits cannot be excluded".
type BranchNode struct {
	id NodeID

	SymbolID      string
	SourceLOD     LOD
	SourceID      NodeID
	FirstCommitID NodeID

	// NextID mirrors a revision's successor pointer but for a branch
	// node standing in for its own (possibly absent) first commit;
	// non-null here means the branch has commits.
	NextID NodeID

	// Noop is this symbol's own content-subtype (spec.md §4.6's
	// refine_symbols), independent of the position-type of whatever
	// revision it happens to sprout from.
	Noop bool

	branchIDs       *idset.Set
	tagIDs          *idset.Set
	branchCommitIDs *idset.Set
}

func NewBranchNode() *BranchNode {
	return newBranchNodeWithID(NewNodeID())
}

func newBranchNodeWithID(id NodeID) *BranchNode {
	return &BranchNode{
		id:              id,
		branchIDs:       idset.New(),
		tagIDs:          idset.New(),
		branchCommitIDs: idset.New(),
	}
}

// ReplaceWithBranchNode implements the "mutate a tag into a branch"
// half of spec.md §4.6: builds a fresh, commitless BranchNode carrying
// t's id, symbol, and source pointers, for the caller to re-Add in t's
// place.
func ReplaceWithBranchNode(t *TagNode) *BranchNode {
	b := newBranchNodeWithID(t.id)
	b.SymbolID = t.SymbolID
	b.SourceLOD = t.SourceLOD
	b.SourceID = t.SourceID
	b.Noop = t.Noop
	return b
}

func (b *BranchNode) ID() NodeID         { return b.id }
func (b *BranchNode) LODOf() LOD         { return Branch(b.SymbolID) }
func (b *BranchNode) BranchIDs() *idset.Set       { return b.branchIDs }
func (b *BranchNode) TagIDs() *idset.Set          { return b.tagIDs }
func (b *BranchNode) BranchCommitIDs() *idset.Set { return b.branchCommitIDs }

// HasCommits reports whether this branch's first revision exists.
func (b *BranchNode) HasCommits() bool { return b.NextID != NullID }

// TagNode is a tag attached to a source revision (spec.md §3).
type TagNode struct {
	id NodeID

	SymbolID  string
	SourceLOD LOD
	SourceID  NodeID

	// Noop is this symbol's own content-subtype (spec.md §4.6's
	// refine_symbols), independent of the position-type of whatever
	// revision it happens to sprout from.
	Noop bool
}

func NewTagNode() *TagNode {
	return newTagNodeWithID(NewNodeID())
}

func newTagNodeWithID(id NodeID) *TagNode {
	return &TagNode{id: id}
}

// ReplaceWithTagNode implements the "mutate a branch into a tag" half
// of spec.md §4.6: builds a fresh TagNode carrying b's id, symbol, and
// source pointers, for the caller to re-Add in b's place. The caller
// must have already verified b.HasCommits() is false.
func ReplaceWithTagNode(b *BranchNode) *TagNode {
	t := newTagNodeWithID(b.id)
	t.SymbolID = b.SymbolID
	t.SourceLOD = b.SourceLOD
	t.SourceID = b.SourceID
	t.Noop = b.Noop
	return t
}

func (t *TagNode) ID() NodeID { return t.id }
func (t *TagNode) LODOf() LOD { return t.SourceLOD }

var (
	_ Item           = (*Revision)(nil)
	_ Item           = (*BranchNode)(nil)
	_ Item           = (*TagNode)(nil)
	_ SubitemCarrier = (*Revision)(nil)
	_ SubitemCarrier = (*BranchNode)(nil)
)
