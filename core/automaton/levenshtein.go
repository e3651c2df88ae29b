package automaton

// ParametricDescription captures the (maxDistance, withTranspositions)
// parameters needed to generate a Levenshtein NFA for any query term.
// Real Lucene precomputes a table of integer "characteristic vectors"
// keyed purely by (d, t) so the same table services every query term;
// we keep that interface — see core/ldesc, which caches descriptions by
// (d, t) exactly as spec.md §4.9/§5 describes — but generate the
// per-term NFA directly from the description rather than from a
// minimized Unicode parametric table, since our alphabet is raw bytes.
type ParametricDescription struct {
	MaxDistance        int
	WithTranspositions bool
}

// NewParametricDescription validates (d, t) and returns the description,
// or (nil, false) if the parameters are unsupported. spec.md §4.2: "If
// the description for (d,t) is unavailable, the filter degrades to
// empty."
func NewParametricDescription(maxDistance int, withTranspositions bool) (*ParametricDescription, bool) {
	if maxDistance < 1 || maxDistance > 2 {
		return nil, false
	}
	return &ParametricDescription{MaxDistance: maxDistance, WithTranspositions: withTranspositions}, true
}

// Generate builds the Levenshtein acceptor for term under this
// description's parameters.
func (d *ParametricDescription) Generate(term []byte) *Acceptor {
	return newLevenshteinAcceptor(term, d.MaxDistance, d.WithTranspositions)
}

// NewLevenshtein builds the edit-distance acceptor for term. When
// maxDistance is 0, per spec.md §4.2 the construction bypasses the
// parametric table entirely and reduces to an exact-term filter. The
// bool result is false if the (maxDistance, withTranspositions)
// parameters have no available description, in which case the caller
// must degrade the filter to empty.
func NewLevenshtein(term []byte, maxDistance int, withTranspositions bool) (*Acceptor, bool) {
	if maxDistance == 0 {
		return NewExact(term), true
	}
	desc, ok := NewParametricDescription(maxDistance, withTranspositions)
	if !ok {
		return nil, false
	}
	return desc.Generate(term), true
}

// levKey identifies one NFA state: i is the query-term byte position
// consumed so far, e the edit-distance budget spent. A pending
// transposition additionally carries the byte it still expects before
// it may advance past position i+2.
type levKey struct {
	i, e    int
	pending bool
	expect  byte
}

// newLevenshteinAcceptor builds the classic Levenshtein (optionally
// Damerau with adjacent transpositions) NFA over term — match,
// substitute, insert, delete, and (if enabled) transpose edges — then
// determinizes it. Accepting states carry the minimum edit distance
// achieved as their payload, per spec.md §3's AcceptedTerm.key formula.
func newLevenshteinAcceptor(term []byte, d int, transpositions bool) *Acceptor {
	L := len(term)
	n := newNFA()
	ids := map[levKey]int{}
	get := func(k levKey) (int, bool) {
		if id, ok := ids[k]; ok {
			return id, false
		}
		id := n.addState()
		ids[k] = id
		return id, true
	}

	startKey := levKey{i: 0, e: 0}
	startID, _ := get(startKey)
	queue := []levKey{startKey}

	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		src := ids[k]

		if k.pending {
			dst, fresh := get(levKey{i: k.i + 2, e: k.e})
			n.addByte(src, dst, k.expect)
			if fresh {
				queue = append(queue, levKey{i: k.i + 2, e: k.e})
			}
			continue
		}

		if k.i == L {
			n.setAccept(src, byte(k.e))
			// Still allow trailing insertions to be absorbed within
			// budget, so e.g. "bar" with d=1 also accepts "barr".
			if k.e < d {
				dst, fresh := get(levKey{i: k.i, e: k.e + 1})
				n.addAny(src, dst)
				if fresh {
					queue = append(queue, levKey{i: k.i, e: k.e + 1})
				}
			}
			continue
		}

		// exact match, no error cost.
		dst, fresh := get(levKey{i: k.i + 1, e: k.e})
		n.addByte(src, dst, term[k.i])
		if fresh {
			queue = append(queue, levKey{i: k.i + 1, e: k.e})
		}

		if k.e < d {
			// substitution.
			dst, fresh := get(levKey{i: k.i + 1, e: k.e + 1})
			n.addAny(src, dst)
			if fresh {
				queue = append(queue, levKey{i: k.i + 1, e: k.e + 1})
			}
			// insertion: candidate has an extra byte not in term.
			dst, fresh = get(levKey{i: k.i, e: k.e + 1})
			n.addAny(src, dst)
			if fresh {
				queue = append(queue, levKey{i: k.i, e: k.e + 1})
			}
			// deletion: term has a byte the candidate omits.
			dst, fresh = get(levKey{i: k.i + 1, e: k.e + 1})
			n.addEpsilon(src, dst)
			if fresh {
				queue = append(queue, levKey{i: k.i + 1, e: k.e + 1})
			}
			// transposition of term[i], term[i+1].
			if transpositions && k.i+1 < L {
				pk := levKey{i: k.i, e: k.e + 1, pending: true, expect: term[k.i]}
				dst, fresh = get(pk)
				n.addByte(src, dst, term[k.i+1])
				if fresh {
					queue = append(queue, pk)
				}
			}
		}
	}

	return n.determinize(startID)
}
