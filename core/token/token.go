// Package token defines the attribute bag shared by every analyzer stage.
package token

// MaxPosition is the sentinel meaning "not yet positioned": after a
// Reset and before its first token, a stage's last emitted position is
// this value rather than a real position. A stage whose Next returns
// false keeps the last position it emitted.
const MaxPosition = ^uint32(0)

// Attributes holds the per-token state an analyzer publishes after a
// successful Next call. This is a fixed struct rather than a dynamic,
// type-keyed attribute map: the set of things a token can carry (term
// bytes, position increment, offsets, an optional payload) is small and
// closed, so there is nothing a map buys us that a struct doesn't.
type Attributes struct {
	// Term is the token's text. Callers must not retain a slice of this
	// across the next call to Next/Reset; copy if you need to keep it.
	Term []byte
	// PosInc is the position increment relative to the previous token.
	// Zero means "same position as previous token".
	PosInc uint32
	// OffsetStart and OffsetEnd are byte offsets into the original
	// top-level input text.
	OffsetStart uint32
	OffsetEnd   uint32
	// Payload is optional, analyzer-specific data attached to the term
	// (e.g. a synonym weight). Nil when absent.
	Payload []byte
}

// Reset clears the attributes to an empty token with position
// increment 1 (the one field not reset to its zero value). Analyzers call
// this before publishing a fresh token so stale payloads don't leak.
func (a *Attributes) Reset() {
	a.Term = nil
	a.PosInc = 1
	a.OffsetStart = 0
	a.OffsetEnd = 0
	a.Payload = nil
}

// CopyFrom overwrites a with a copy of other's term and payload bytes,
// so a may outlive the next call to the producing analyzer.
func (a *Attributes) CopyFrom(other *Attributes) {
	a.Term = append(a.Term[:0], other.Term...)
	a.PosInc = other.PosInc
	a.OffsetStart = other.OffsetStart
	a.OffsetEnd = other.OffsetEnd
	if other.Payload == nil {
		a.Payload = nil
	} else {
		a.Payload = append(a.Payload[:0], other.Payload...)
	}
}
