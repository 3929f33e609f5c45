// Package symbols defines the collaborator interface for the symbol
// store (spec.md §6: symbol_db) and the small lookup tables shared by
// several rewrite passes.
package symbols

import "github.com/timofonic-git/cvs2git/cvsgraph"

// Kind distinguishes the four symbol_db.get() result shapes spec.md
// §6 enumerates.
type Kind uint8

const (
	KindTrunk Kind = iota
	KindBranch
	KindTag
	KindExcluded
)

// Symbol is the read-only view the symbol store hands back for one
// symbol id. Branch and Tag carry a Name and a PreferredParentID hint
// (spec.md §4.7); Trunk and Excluded carry neither.
type Symbol struct {
	ID               string
	Kind             Kind
	Name             string
	PreferredParentID string
}

// Store is the read-only collaborator interface the core consumes
// (spec.md §6: "symbol_db.get(id) -> Trunk | Branch{...} | Tag{...} |
// ExcludedSymbol"). Resolving, persisting, and populating this store
// from the source VCS is an external collaborator's job (spec.md §1).
type Store interface {
	Get(id string) (Symbol, bool)
}

// MapStore is a trivial in-memory Store, useful for tests and for
// collaborators that have already materialized the whole symbol table.
type MapStore map[string]Symbol

func (m MapStore) Get(id string) (Symbol, bool) {
	s, ok := m[id]
	return s, ok
}

// contentKey is the (this-is-mod, prev-is-mod) pair the position-type
// transition table (spec.md §6) is keyed on.
type contentKey struct {
	thisMod bool
	prevMod bool
}

// positionTable is the single small lookup behind PositionTypeFor, which
// rewrite.AdjustNTDBRs (spec.md §4.3) calls for both 1.1.1.1 and 1.2:
// "Position-type of a revision = lookup((this_is_modification: bool,
// prev_is_modification: bool))".
var positionTable = map[contentKey]cvsgraph.PositionType{
	{thisMod: true, prevMod: true}:   cvsgraph.Change,
	{thisMod: true, prevMod: false}:  cvsgraph.Add,
	{thisMod: false, prevMod: true}:  cvsgraph.Delete,
	{thisMod: false, prevMod: false}: cvsgraph.NoopDelete,
}

// PositionTypeFor looks up a revision's position-type from whether it
// and its predecessor are Modifications. A revision with no
// predecessor is treated as prevMod=false (nothing to continue from),
// matching spec.md §4.3 step 1's (is-mod, prev-is-mod=false) usage for
// a promoted-to-root 1.1.1.1.
func PositionTypeFor(thisMod, prevMod bool) cvsgraph.PositionType {
	return positionTable[contentKey{thisMod: thisMod, prevMod: prevMod}]
}

// NoopVariant maps a normal position-type to its *Noop counterpart and
// back. rewrite.RefineSymbols does not call it: it records a symbol's
// content-subtype in the symbol node's own Noop field instead.
func NoopVariant(p cvsgraph.PositionType, wantNoop bool) cvsgraph.PositionType {
	switch p {
	case cvsgraph.Add, cvsgraph.NoopAdd:
		if wantNoop {
			return cvsgraph.NoopAdd
		}
		return cvsgraph.Add
	case cvsgraph.Change, cvsgraph.NoopChange:
		if wantNoop {
			return cvsgraph.NoopChange
		}
		return cvsgraph.Change
	case cvsgraph.Delete, cvsgraph.NoopDelete:
		if wantNoop {
			return cvsgraph.NoopDelete
		}
		return cvsgraph.Delete
	default:
		return p
	}
}
