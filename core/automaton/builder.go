package automaton

// Builder assembles an Acceptor one state at a time, mirroring the
// teacher's createState/addTransition/setAccept discipline
// (core/util/automaton/automaton.go) adapted to our explicit-range +
// rho encoding instead of the teacher's flat int-array scheme.
type Builder struct {
	ranges  [][]transitionRange
	rho     []int
	accept  []bool
	payload []byte
}

func NewBuilder() *Builder {
	return &Builder{}
}

// CreateState allocates a new state, initially non-accepting with no
// transitions, and returns its id.
func (b *Builder) CreateState() int {
	b.ranges = append(b.ranges, nil)
	b.rho = append(b.rho, deadState)
	b.accept = append(b.accept, false)
	b.payload = append(b.payload, 0)
	return len(b.ranges) - 1
}

func (b *Builder) SetAccept(state int, accept bool) {
	b.accept[state] = accept
}

func (b *Builder) SetPayload(state int, payload byte) {
	b.payload[state] = payload
}

// AddTransition adds a transition on the single byte label.
func (b *Builder) AddTransition(source, dest int, label byte) {
	b.AddTransitionRange(source, dest, label, label)
}

// AddTransitionRange adds a transition for every byte in [min, max].
// Ranges added to the same source must not overlap any range already
// present for that source (panics on violation — this is a programming
// error in the builder caller, not a runtime/user-facing failure).
func (b *Builder) AddTransitionRange(source, dest int, min, max byte) {
	assert2(min <= max, "inverted range [%d,%d]", min, max)
	rs := b.ranges[source]
	for _, r := range rs {
		assert2(max < r.min || min > r.max, "overlapping transition on state %d: [%d,%d] vs [%d,%d]", source, min, max, r.min, r.max)
	}
	rs = append(rs, transitionRange{min, max, dest})
	// keep sorted by min for Step's scan and Validate's check.
	for i := len(rs) - 1; i > 0 && rs[i-1].min > rs[i].min; i-- {
		rs[i-1], rs[i] = rs[i], rs[i-1]
	}
	b.ranges[source] = rs
}

// AddRho sets the "any other byte" transition out of source.
func (b *Builder) AddRho(source, dest int) {
	b.rho[source] = dest
}

// Build freezes the builder into an Acceptor.
func (b *Builder) Build() *Acceptor {
	return &Acceptor{
		ranges:  b.ranges,
		rho:     b.rho,
		accept:  b.accept,
		payload: b.payload,
	}
}
