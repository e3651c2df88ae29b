package automaton

import "testing"

func TestExactAcceptsOnlyTerm(t *testing.T) {
	a := NewExact([]byte("bar"))
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	cases := map[string]bool{
		"bar":  true,
		"ba":   false,
		"barr": false,
		"baz":  false,
		"":     false,
	}
	for term, want := range cases {
		got, _ := a.Run([]byte(term))
		if got != want {
			t.Errorf("Run(%q) = %v, want %v", term, got, want)
		}
	}
}

func TestLevenshteinZeroDistanceDecaysToExact(t *testing.T) {
	a, ok := NewLevenshtein([]byte("bar"), 0, false)
	if !ok {
		t.Fatal("NewLevenshtein(d=0) returned ok=false")
	}
	if accepted, _ := a.Run([]byte("bar")); !accepted {
		t.Error("expected exact term to be accepted at d=0")
	}
	if accepted, _ := a.Run([]byte("baz")); accepted {
		t.Error("expected a single substitution to be rejected at d=0")
	}
}

func TestLevenshteinScenario(t *testing.T) {
	// spec.md §8 scenario 3: term "bar", max_distance=1, no
	// transpositions; {bar:0, baz:1, bbar:1, barr:1, br:1} all accepted,
	// everything further away rejected.
	a, ok := NewLevenshtein([]byte("bar"), 1, false)
	if !ok {
		t.Fatal("NewLevenshtein returned ok=false")
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	want := map[string]byte{
		"bar":  0,
		"baz":  1,
		"bbar": 1,
		"barr": 1,
		"br":   1,
	}
	for term, dist := range want {
		accepted, payload := a.Run([]byte(term))
		if !accepted {
			t.Errorf("Run(%q): expected accept", term)
			continue
		}
		if payload != dist {
			t.Errorf("Run(%q): payload = %d, want %d", term, payload, dist)
		}
	}

	reject := []string{"quux", "bazaar", "b", "barren"}
	for _, term := range reject {
		if accepted, _ := a.Run([]byte(term)); accepted {
			t.Errorf("Run(%q): expected reject at distance 1", term)
		}
	}
}

func TestLevenshteinWithTranspositions(t *testing.T) {
	a, ok := NewLevenshtein([]byte("bar"), 1, true)
	if !ok {
		t.Fatal("NewLevenshtein returned ok=false")
	}
	accepted, payload := a.Run([]byte("bra"))
	if !accepted {
		t.Fatal("expected transposed term \"bra\" to be accepted")
	}
	if payload != 1 {
		t.Errorf("payload = %d, want 1 for a single adjacent transposition", payload)
	}
}

func TestLevenshteinWithoutTranspositionsCostsTwo(t *testing.T) {
	// Without transpositions enabled, "bra" from "bar" costs 2 edits
	// (substitute + substitute, or delete + insert), not 1 — so it must
	// be rejected by a max_distance=1 acceptor.
	a, ok := NewLevenshtein([]byte("bar"), 1, false)
	if !ok {
		t.Fatal("NewLevenshtein returned ok=false")
	}
	if accepted, _ := a.Run([]byte("bra")); accepted {
		t.Error("expected \"bra\" to be rejected at distance 1 without transpositions")
	}
}

func TestWildcardScenario(t *testing.T) {
	// spec.md §8 scenario 2: pattern "a%bce_d".
	a := NewWildcard([]byte("a%bce_d"))
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	accept := []string{"azbce1d", "abcexd", "azzzbcexd"}
	for _, term := range accept {
		if ok, _ := a.Run([]byte(term)); !ok {
			t.Errorf("Run(%q): expected accept", term)
		}
	}

	reject := []string{"azbce1d1", "azbce11d", "abce", "abcd"}
	for _, term := range reject {
		if ok, _ := a.Run([]byte(term)); ok {
			t.Errorf("Run(%q): expected reject", term)
		}
	}
}

func TestWildcardEscape(t *testing.T) {
	a := NewWildcard([]byte(`100\%`))
	if ok, _ := a.Run([]byte("100%")); !ok {
		t.Error(`expected "100%" to be accepted by pattern 100\%`)
	}
	if ok, _ := a.Run([]byte("100x")); ok {
		t.Error(`expected "100x" to be rejected by pattern 100\%`)
	}
}

func TestWildcardUnderscoreMatchesExactlyOneByte(t *testing.T) {
	a := NewWildcard([]byte("a_c"))
	if ok, _ := a.Run([]byte("abc")); !ok {
		t.Error(`expected "abc" to match "a_c"`)
	}
	if ok, _ := a.Run([]byte("ac")); ok {
		t.Error(`expected "ac" (no byte for "_") to be rejected by "a_c"`)
	}
	if ok, _ := a.Run([]byte("abbc")); ok {
		t.Error(`expected "abbc" to be rejected by "a_c"`)
	}
}

func TestRegexLiteralAndAny(t *testing.T) {
	a, err := NewRegex([]byte("a.c"))
	if err != nil {
		t.Fatalf("NewRegex: %v", err)
	}
	if ok, _ := a.Run([]byte("abc")); !ok {
		t.Error(`expected "abc" to match "a.c"`)
	}
	if ok, _ := a.Run([]byte("ac")); ok {
		t.Error(`expected "ac" to be rejected by "a.c"`)
	}
}

func TestRegexStarAndPlus(t *testing.T) {
	star, err := NewRegex([]byte("ab.*"))
	if err != nil {
		t.Fatalf("NewRegex: %v", err)
	}
	if ok, _ := star.Run([]byte("ab")); !ok {
		t.Error(`expected "ab" to match "ab.*"`)
	}
	if ok, _ := star.Run([]byte("abxyz")); !ok {
		t.Error(`expected "abxyz" to match "ab.*"`)
	}

	plus, err := NewRegex([]byte("ab.+"))
	if err != nil {
		t.Fatalf("NewRegex: %v", err)
	}
	if ok, _ := plus.Run([]byte("ab")); ok {
		t.Error(`expected "ab" (nothing after prefix) to be rejected by "ab.+"`)
	}
	if ok, _ := plus.Run([]byte("abx")); !ok {
		t.Error(`expected "abx" to match "ab.+"`)
	}
}

func TestRegexRejectsUnsupportedSyntax(t *testing.T) {
	for _, pattern := range []string{"a|b", "a(b)", "[abc]", "a?", "^a$"} {
		if _, err := NewRegex([]byte(pattern)); err == nil {
			t.Errorf("NewRegex(%q): expected error for unsupported syntax", pattern)
		}
	}
}

func TestCanMatchPrunesDeadStates(t *testing.T) {
	a := NewExact([]byte("bar"))
	if !a.CanMatch(0) {
		t.Error("expected start state to be able to match")
	}
	dead := a.Step(0, 'z')
	if a.CanMatch(dead) {
		t.Error("expected dead state to never match")
	}
}
