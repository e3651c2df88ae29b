// Package automaton builds the deterministic finite-state acceptors that
// drive multi-term filter execution (spec.md §4.2): exact, wildcard,
// Levenshtein and regex term languages over bytes ∪ {ρ}, where ρ is the
// "any other byte" transition.
//
// Grounded on golucene's core/util/automaton package (Automaton's
// int-array state/transition encoding, createState/addTransition/
// setAccept naming) — that port never finished its DFA construction
// (daciukMihov.go, regexp.go and most of operations.go are stubs that
// panic("not implemented yet")), so the construction logic here is
// built fresh in its idiom rather than adapted from working source.
package automaton

import "fmt"

// deadState is the sink: no transition out of it ever leads to an
// accept state.
const deadState = -1

// transitionRange is one explicit byte-range transition out of a state.
// Ranges belonging to the same state are kept sorted and non-overlapping
// by construction; Validate re-checks this.
type transitionRange struct {
	min, max byte
	dest     int
}

// Acceptor is a deterministic, epsilon-free automaton over byte ∪ {ρ}.
// States are plain ints; state 0 is always the start state. An
// accepting state may carry a one-byte payload (e.g. the Levenshtein
// edit distance achieved at that state).
type Acceptor struct {
	ranges  [][]transitionRange // per state, sorted by min
	rho     []int               // per state, dest for "any other byte", or deadState
	accept  []bool
	payload []byte // meaningful only where accept[state] is true
}

// NumStates returns the number of states, including state 0.
func (a *Acceptor) NumStates() int { return len(a.accept) }

// IsAccept reports whether state is an accepting state.
func (a *Acceptor) IsAccept(state int) bool {
	return state >= 0 && state < len(a.accept) && a.accept[state]
}

// Payload returns the accepting state's payload byte and true, or
// (0, false) if the state does not carry one.
func (a *Acceptor) Payload(state int) (byte, bool) {
	if !a.IsAccept(state) {
		return 0, false
	}
	return a.payload[state], true
}

// IsDead reports whether state is the dead/sink state: no term reaches
// an accepting state through it. A term iterator uses this to prune an
// entire subtree of the term dictionary once Step returns it.
func (a *Acceptor) IsDead(state int) bool { return state == deadState }

// Step returns the destination state for reading byte b from state, or
// deadState if there is no such transition.
func (a *Acceptor) Step(state int, b byte) int {
	if state < 0 || state >= len(a.ranges) {
		return deadState
	}
	rs := a.ranges[state]
	// Small per-state range counts in practice; linear scan beats the
	// bookkeeping of a binary search.
	for _, r := range rs {
		if b >= r.min && b <= r.max {
			return r.dest
		}
	}
	return a.rho[state]
}

// Run reports whether term is accepted, and if so the payload of the
// accepting state reached (0 if none).
func (a *Acceptor) Run(term []byte) (accepted bool, payload byte) {
	state := 0
	for _, b := range term {
		state = a.Step(state, b)
		if state == deadState {
			return false, 0
		}
	}
	p, _ := a.Payload(state)
	return a.IsAccept(state), p
}

// CanMatch reports whether any accepting state is reachable from state
// (including state itself). Used by a term iterator to prune subtrees
// of the term dictionary that cannot lead anywhere useful.
func (a *Acceptor) CanMatch(state int) bool {
	if state == deadState {
		return false
	}
	seen := make([]bool, len(a.accept))
	stack := []int{state}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s == deadState || seen[s] {
			continue
		}
		seen[s] = true
		if a.accept[s] {
			return true
		}
		for _, r := range a.ranges[s] {
			stack = append(stack, r.dest)
		}
		if a.rho[s] != deadState {
			stack = append(stack, a.rho[s])
		}
	}
	return false
}

// Validate checks that the acceptor is deterministic (at most one
// transition per (state, byte), which our representation guarantees
// structurally) and epsilon-free (also structural, since Acceptor has
// no epsilon-transition field at all). It additionally checks internal
// consistency of the range encoding: per state, ranges must be sorted,
// non-overlapping, and not overlap the state's own ρ-range semantics by
// construction. A failure here means a builder produced a malformed
// Acceptor and the caller must degrade the filter to an empty result
// per spec.md §4.2 rather than propagate an error.
func (a *Acceptor) Validate() error {
	for s, rs := range a.ranges {
		for i, r := range rs {
			if r.min > r.max {
				return fmt.Errorf("automaton: state %d has inverted range [%d,%d]", s, r.min, r.max)
			}
			if i > 0 && rs[i-1].max >= r.min {
				return fmt.Errorf("automaton: state %d has overlapping/unsorted ranges", s)
			}
		}
	}
	return nil
}

func assert(ok bool) {
	if !ok {
		panic("assert fail")
	}
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
