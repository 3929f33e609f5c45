// Package openings implements the opening/closing interval recorder
// and the pairings database of spec.md §4.8 and §6: the streaming sink
// that turns a chronologically-replayed, svn-revnum-assigned stream of
// rewritten revisions into the half-open copy-source intervals the
// downstream symbol-filler consumes.
package openings

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/timofonic-git/cvs2git/internal/journal"
)

// Tags is the read side of the pairings database: a flat name-to-name
// mapping loaded once from a PAIRINGS_LIST file (spec.md §6, "Read
// side: whole file loaded into a mapping name -> name").
type Tags map[string]string

// Get implements the PairingsReader interface the recorder consumes.
func (t Tags) Get(name string) (string, bool) {
	b, ok := t[name]
	return b, ok
}

// LoadPairings parses a PAIRINGS_LIST file. A symbol name appearing
// more than once is a Warning (spec.md §7: overwriting a pre-existing
// entry in a user-provided symbol-mapping table continues, it does not
// abort); the later line wins.
func LoadPairings(r io.Reader, j *journal.Journal) (Tags, error) {
	tags := Tags{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		if _, exists := tags[fields[0]]; exists {
			j.Warn("overwriting pairings entry for %s", fields[0])
		}
		tags[fields[0]] = fields[1]
	}
	return tags, scanner.Err()
}

// Store is the write side of the pairings database (spec.md §6): for
// every (current_branch, branches, tags) observation, tally
// score[s][b] for each symbol s sprouting at that revision and each
// candidate branch b it could be paired with.
type Store struct {
	scores      map[string]map[string]int64
	branchOrder map[string][]string
	branchSeen  map[string]map[string]bool
	symbolOrder []string
	symbolSeen  map[string]bool
}

// NewStore builds an empty pairings tally.
func NewStore() *Store {
	return &Store{
		scores:      make(map[string]map[string]int64),
		branchOrder: make(map[string][]string),
		branchSeen:  make(map[string]map[string]bool),
		symbolSeen:  make(map[string]bool),
	}
}

// Observe tallies one revision's symbol/branch co-occurrence (spec.md
// §6, "Write side"). currentBranch may be empty when the revision has
// no current line of development to pair against (e.g. the revision
// itself lives on Trunk).
func (s *Store) Observe(currentBranch string, branches, tags []string) {
	for _, sym := range branches {
		s.observeOne(sym, currentBranch, branches)
	}
	for _, sym := range tags {
		s.observeOne(sym, currentBranch, branches)
	}
}

func (s *Store) observeOne(sym, currentBranch string, branches []string) {
	s.registerSymbol(sym)
	if currentBranch != "" {
		s.bump(sym, currentBranch)
	}
	for _, b := range branches {
		if b != sym {
			s.bump(sym, b)
		}
	}
}

func (s *Store) registerSymbol(sym string) {
	if s.symbolSeen[sym] {
		return
	}
	s.symbolSeen[sym] = true
	s.symbolOrder = append(s.symbolOrder, sym)
	s.scores[sym] = make(map[string]int64)
	s.branchSeen[sym] = make(map[string]bool)
}

func (s *Store) bump(sym, branch string) {
	if !s.branchSeen[sym][branch] {
		s.branchSeen[sym][branch] = true
		s.branchOrder[sym] = append(s.branchOrder[sym], branch)
	}
	s.scores[sym][branch]++
}

// Best implements spec.md §6's argmax with the deterministic tie-break
// pinned by the §9 design note: descending score, then first-seen
// order. Iterating branchOrder in insertion order and only replacing
// the leader on a strictly greater score gives exactly that rule.
func (s *Store) Best(sym string) (string, bool) {
	order, ok := s.branchOrder[sym]
	if !ok || len(order) == 0 {
		return "", false
	}
	best := order[0]
	bestScore := s.scores[sym][best]
	for _, b := range order[1:] {
		if sc := s.scores[sym][b]; sc > bestScore {
			best, bestScore = b, sc
		}
	}
	return best, true
}

// WritePairingsList writes the PAIRINGS_LIST output: one line per
// symbol with a nonempty score map, symbols in first-seen order
// (spec.md §6).
func (s *Store) WritePairingsList(w io.Writer) error {
	for _, sym := range s.symbolOrder {
		best, ok := s.Best(sym)
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", sym, best); err != nil {
			return err
		}
	}
	return nil
}
