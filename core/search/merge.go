// Package search implements the acceptor-driven multi-term filter
// execution engine: bounded term-statistics collection, two-phase
// scoring, and the scored document disjunction (spec.md §4.4-§4.7).
//
// Grounded on the teacher's core/search package for the surrounding
// idiom (collect.go's container/heap-based PriorityQueue for top-K
// selection, docs.go's DocIdSetIterator-style state machine, query.go's
// Query/Weight split) — adapted from golucene's TermQuery/BooleanQuery
// model to the acceptor-driven MultiTermQuery this spec calls for.
package search

import "fmt"

// MergePolicy combines the scores contributed by several scored
// iterators for the same document (spec.md §4.6). Multi-term filters
// default to MAX per spec.md §4.6.
type MergePolicy int

const (
	MergeSum MergePolicy = iota
	MergeMax
	MergeMin
	MergeNoop
)

func (m MergePolicy) String() string {
	switch m {
	case MergeSum:
		return "SUM"
	case MergeMax:
		return "MAX"
	case MergeMin:
		return "MIN"
	case MergeNoop:
		return "NOOP"
	default:
		return fmt.Sprintf("MergePolicy(%d)", int(m))
	}
}

// Merge combines acc (the running merged score) with next (one more
// contributing iterator's score).
func (m MergePolicy) Merge(acc, next float32) float32 {
	switch m {
	case MergeSum:
		return acc + next
	case MergeMax:
		if next > acc {
			return next
		}
		return acc
	case MergeMin:
		if next < acc {
			return next
		}
		return acc
	case MergeNoop:
		return acc
	default:
		return acc
	}
}

// Identity returns the value Merge should be seeded with before the
// first contribution, so that Merge(Identity(), x) == x.
func (m MergePolicy) Identity() float32 {
	switch m {
	case MergeMin:
		return maxFloat32
	case MergeMax:
		return -maxFloat32
	default:
		return 0
	}
}

const maxFloat32 = 3.402823466e+38
