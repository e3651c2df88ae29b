package automaton

// NewExact builds a single-path DFA accepting exactly term and nothing
// else.
func NewExact(term []byte) *Acceptor {
	b := NewBuilder()
	state := b.CreateState()
	for _, c := range term {
		next := b.CreateState()
		b.AddTransition(state, next, c)
		state = next
	}
	b.SetAccept(state, true)
	return b.Build()
}
