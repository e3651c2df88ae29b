// Package analysis implements the lazy token-producer contract shared by
// every analyzer stage, and the PipelineTokenStream that composes them.
//
// Grounded on golucene's analysis/Analyzer.java and analysis/TokenStream.java
// port (core/analysis/analyzer.go, core/analysis/tokenStream.go), generalized
// per the fixed-attribute-bag design (see core/token).
package analysis

import (
	"fmt"

	"github.com/op/go-logging"

	"github.com/elfringham/iresearch/core/token"
)

var log = logging.MustGetLogger("analysis")

// Analyzer is a lazy token producer: Reset(input) primes the stream on a
// new piece of text, then repeated calls to Next() advance it one token
// at a time. Attributes() exposes the current token's attributes; its
// contents are only valid immediately after a Next() call that returned
// true.
type Analyzer interface {
	// Reset primes the analyzer on a new input. It does not pull a
	// token; the first Next() call does that.
	Reset(input string) error
	// Next advances to the next token, returning false once the input
	// is exhausted. Attributes() always describes the token most
	// recently produced; callers that need to retain a token's values
	// across the following Next() call must copy them out first (see
	// token.Attributes.CopyFrom).
	Next() (bool, error)
	// Attributes returns the attribute bag this analyzer writes into.
	// The same instance is reused across calls to Next().
	Attributes() *token.Attributes
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
