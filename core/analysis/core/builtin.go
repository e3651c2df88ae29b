// Package core provides the small set of built-in analyzer stages
// (lowercase, whitespace, delimiter, stop-word) registered by default,
// grounded on golucene's core/analysis/core stop-word set and its
// whitespace/lowercase tokenizer family (core/analysis/core originally
// carried LowerCaseFilter, WhitespaceTokenizer and StopFilter as three
// separate Java-style classes; here each is one Analyzer stage so it
// composes through analysis.PipelineTokenStream).
package core

import (
	"strings"
	"unicode"

	"github.com/elfringham/iresearch/core/token"
)

// EnglishStopWords is an unmodifiable set of common English words that
// are not usually useful for searching.
var EnglishStopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true, "be": true, "but": true, "by": true,
	"for": true, "if": true, "in": true, "into": true, "is": true, "it": true,
	"no": true, "not": true, "of": true, "on": true, "or": true, "such": true,
	"that": true, "the": true, "their": true, "then": true, "there": true, "these": true,
	"they": true, "this": true, "to": true, "was": true, "will": true, "with": true,
}

// LowercaseAnalyzer emits the entire input as a single lowercased token.
// As a pipeline stage it does not split its input further; it exists to
// normalize the term text of whatever stage feeds it.
type LowercaseAnalyzer struct {
	input string
	done  bool
	attrs token.Attributes
}

func NewLowercaseAnalyzer() *LowercaseAnalyzer { return &LowercaseAnalyzer{} }

func (a *LowercaseAnalyzer) Reset(input string) error {
	a.input = input
	a.done = false
	return nil
}

func (a *LowercaseAnalyzer) Next() (bool, error) {
	if a.done || len(a.input) == 0 {
		return false, nil
	}
	a.done = true
	a.attrs.Reset()
	a.attrs.Term = []byte(strings.ToLower(a.input))
	a.attrs.PosInc = 1
	a.attrs.OffsetStart = 0
	a.attrs.OffsetEnd = uint32(len(a.input))
	return true, nil
}

func (a *LowercaseAnalyzer) Attributes() *token.Attributes { return &a.attrs }

// WhitespaceAnalyzer splits its input on runs of Unicode whitespace,
// emitting one token per non-empty run.
type WhitespaceAnalyzer struct {
	input string
	pos   int
	attrs token.Attributes
}

func NewWhitespaceAnalyzer() *WhitespaceAnalyzer { return &WhitespaceAnalyzer{} }

func (a *WhitespaceAnalyzer) Reset(input string) error {
	a.input = input
	a.pos = 0
	return nil
}

func (a *WhitespaceAnalyzer) Next() (bool, error) {
	for a.pos < len(a.input) && unicode.IsSpace(rune(a.input[a.pos])) {
		a.pos++
	}
	if a.pos >= len(a.input) {
		return false, nil
	}
	start := a.pos
	for a.pos < len(a.input) && !unicode.IsSpace(rune(a.input[a.pos])) {
		a.pos++
	}
	a.attrs.Reset()
	a.attrs.Term = []byte(a.input[start:a.pos])
	a.attrs.PosInc = 1
	a.attrs.OffsetStart = uint32(start)
	a.attrs.OffsetEnd = uint32(a.pos)
	return true, nil
}

func (a *WhitespaceAnalyzer) Attributes() *token.Attributes { return &a.attrs }

// DelimiterAnalyzer splits its input on a literal delimiter string,
// emitting one token per field, including empty fields (position
// increment 1 throughout, matching the scenario in spec.md §8.1).
type DelimiterAnalyzer struct {
	delim string
	input string
	pos   int
	attrs token.Attributes
}

func NewDelimiterAnalyzer(delim string) *DelimiterAnalyzer {
	assert2(len(delim) > 0, "delimiter must not be empty")
	return &DelimiterAnalyzer{delim: delim}
}

func (a *DelimiterAnalyzer) Reset(input string) error {
	a.input = input
	a.pos = 0
	return nil
}

func (a *DelimiterAnalyzer) Next() (bool, error) {
	if a.pos > len(a.input) {
		return false, nil
	}
	start := a.pos
	rest := a.input[start:]
	idx := strings.Index(rest, a.delim)
	var end int
	if idx < 0 {
		end = len(a.input)
		a.pos = len(a.input) + 1 // sentinel: one past end, stop next call
	} else {
		end = start + idx
		a.pos = end + len(a.delim)
	}
	a.attrs.Reset()
	a.attrs.Term = []byte(a.input[start:end])
	a.attrs.PosInc = 1
	a.attrs.OffsetStart = uint32(start)
	a.attrs.OffsetEnd = uint32(end)
	return true, nil
}

func (a *DelimiterAnalyzer) Attributes() *token.Attributes { return &a.attrs }

// StopAnalyzer rejects input found in a stop-word set, and otherwise
// emits the entire input as one token. Used as a downstream pipeline
// stage after a tokenizer has already isolated a candidate word.
type StopAnalyzer struct {
	stopWords map[string]bool
	input     string
	done      bool
	attrs     token.Attributes
}

func NewStopAnalyzer(stopWords map[string]bool) *StopAnalyzer {
	if stopWords == nil {
		stopWords = EnglishStopWords
	}
	return &StopAnalyzer{stopWords: stopWords}
}

func (a *StopAnalyzer) Reset(input string) error {
	a.input = input
	a.done = false
	return nil
}

func (a *StopAnalyzer) Next() (bool, error) {
	if a.done {
		return false, nil
	}
	a.done = true
	if a.stopWords[strings.ToLower(a.input)] {
		return false, nil
	}
	a.attrs.Reset()
	a.attrs.Term = []byte(a.input)
	a.attrs.PosInc = 1
	a.attrs.OffsetStart = 0
	a.attrs.OffsetEnd = uint32(len(a.input))
	return true, nil
}

func (a *StopAnalyzer) Attributes() *token.Attributes { return &a.attrs }

func assert2(ok bool, msg string) {
	if !ok {
		panic(msg)
	}
}
