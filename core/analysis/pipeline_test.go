package analysis

import (
	"testing"

	acore "github.com/elfringham/iresearch/core/analysis/core"
	"github.com/elfringham/iresearch/core/token"
)

type tokOut struct {
	term       string
	posInc     uint32
	start, end uint32
}

func drain(t *testing.T, p *PipelineTokenStream, input string) []tokOut {
	t.Helper()
	if err := p.Reset(input); err != nil {
		t.Fatalf("Reset(%q): %v", input, err)
	}
	var out []tokOut
	for {
		ok, err := p.Next()
		if err != nil {
			t.Fatalf("Next(): %v", err)
		}
		if !ok {
			break
		}
		a := p.Attributes()
		out = append(out, tokOut{string(a.Term), a.PosInc, a.OffsetStart, a.OffsetEnd})
	}
	return out
}

func TestPipelineIdentityLaw(t *testing.T) {
	p := NewPipelineTokenStream(acore.NewWhitespaceAnalyzer())

	direct := acore.NewWhitespaceAnalyzer()
	if err := direct.Reset("hello world"); err != nil {
		t.Fatal(err)
	}

	got := drain(t, p, "hello world")
	var want []tokOut
	for {
		ok, err := direct.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		a := direct.Attributes()
		want = append(want, tokOut{string(a.Term), a.PosInc, a.OffsetStart, a.OffsetEnd})
	}

	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPipelineDelimiterLowercase(t *testing.T) {
	p := NewPipelineTokenStream(
		acore.NewDelimiterAnalyzer("-"),
		acore.NewLowercaseAnalyzer(),
	)

	got := drain(t, p, "Aa-Bb")
	if len(got) != 2 {
		t.Fatalf("got %d tokens, want 2: %+v", len(got), got)
	}
	if got[0] != (tokOut{"aa", 1, 0, 2}) {
		t.Errorf("token 0 = %+v, want {aa 1 0 2}", got[0])
	}
	if got[1] != (tokOut{"bb", 1, 3, 5}) {
		t.Errorf("token 1 = %+v, want {bb 1 3 5}", got[1])
	}
}

func TestPipelineOffsetLaw(t *testing.T) {
	p := NewPipelineTokenStream(
		acore.NewWhitespaceAnalyzer(),
		acore.NewLowercaseAnalyzer(),
	)
	input := "The Quick Brown Fox"
	for _, tok := range drain(t, p, input) {
		if tok.start > tok.end || tok.end > uint32(len(input)) {
			t.Errorf("offset law violated for %+v on input %q", tok, input)
		}
	}
}

func TestPipelineStopWordDropsTerm(t *testing.T) {
	p := NewPipelineTokenStream(
		acore.NewWhitespaceAnalyzer(),
		acore.NewStopAnalyzer(nil),
	)
	got := drain(t, p, "the quick fox")
	var terms []string
	for _, tok := range got {
		terms = append(terms, tok.term)
	}
	if len(terms) != 2 || terms[0] != "quick" || terms[1] != "fox" {
		t.Errorf("got terms %v, want [quick fox]", terms)
	}
}

func TestPipelineFromJSON(t *testing.T) {
	doc := []byte(`{
		"pipeline": [
			{ "type": "delimiter", "properties": { "delimiter": "-" } },
			{ "type": "lowercase" }
		]
	}`)
	p, err := NewPipelineFromJSON(doc)
	if err != nil {
		t.Fatalf("NewPipelineFromJSON: %v", err)
	}
	got := drain(t, p, "Aa-Bb")
	if len(got) != 2 || got[0].term != "aa" || got[1].term != "bb" {
		t.Fatalf("got %+v", got)
	}
}

func TestPipelineFromJSONUnknownType(t *testing.T) {
	doc := []byte(`{"pipeline":[{"type":"nonexistent"}]}`)
	_, err := NewPipelineFromJSON(doc)
	if err == nil {
		t.Fatal("expected config error for unknown analyzer type")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("got error type %T, want *ConfigError", err)
	}
}

func TestPipelineFromJSONMissingPipeline(t *testing.T) {
	_, err := NewPipelineFromJSON([]byte(`{}`))
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("got error type %T, want *ConfigError", err)
	}
}

// twoShotAnalyzer emits exactly two tokens per Reset, regardless of the
// input text, so a test can drive a stage through the "pull the same
// stage again without resetting it" path pullUpward takes once a
// downstream stage is exhausted.
type twoShotAnalyzer struct {
	term1, term2     string
	posInc1, posInc2 uint32
	done1, done2     bool
	attrs            token.Attributes
}

func (a *twoShotAnalyzer) Reset(string) error {
	a.done1, a.done2 = false, false
	return nil
}

func (a *twoShotAnalyzer) Next() (bool, error) {
	switch {
	case !a.done1:
		a.done1 = true
		a.attrs.Term, a.attrs.PosInc = []byte(a.term1), a.posInc1
	case !a.done2:
		a.done2 = true
		a.attrs.Term, a.attrs.PosInc = []byte(a.term2), a.posInc2
	default:
		return false, nil
	}
	return true, nil
}

func (a *twoShotAnalyzer) Attributes() *token.Attributes { return &a.attrs }

// TestPipelineThreeStageRollbackAppliesOnce exercises a 3-stage cascade
// where, within a single downward pass, both downstream resets satisfy
// the "downstream stage rolled back to position 0 while upstream held
// position" condition. Hoisting upstreamHeldPosition out of the loop and
// applying the rollback compensation once (OR'd across iterations)
// instead of once per satisfying iteration is what this pins down: the
// naive per-iteration version would add the compensation twice here.
//
// Stage a holds position on its second token (posInc 0); stages b and c
// each reach a positive lastPos from an earlier pull of their own second
// token, so by the time a's second token triggers a fresh cascade
// through both of them, each one's reset-to-position-0 transition
// independently satisfies the rollback condition.
func TestPipelineThreeStageRollbackAppliesOnce(t *testing.T) {
	a := &twoShotAnalyzer{term1: "a1", posInc1: 1, term2: "a2", posInc2: 0}
	b := &twoShotAnalyzer{term1: "b1", posInc1: 0, term2: "b2", posInc2: 1}
	c := &twoShotAnalyzer{term1: "c1", posInc1: 1, term2: "c2", posInc2: 1}
	p := NewPipelineTokenStream(a, b, c)

	got := drain(t, p, "irrelevant")

	want := []struct {
		term   string
		posInc uint32
	}{
		{"c1", 0},
		{"c2", 1},
		{"c1", 1},
		{"c2", 1},
		{"c1", 0}, // the rollback-once token; a naive per-iteration fix would emit 1 here
		{"c2", 1},
		{"c1", 1},
		{"c2", 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].term != w.term || got[i].posInc != w.posInc {
			t.Errorf("token %d: got {%q %d}, want {%q %d}", i, got[i].term, got[i].posInc, w.term, w.posInc)
		}
	}
}
