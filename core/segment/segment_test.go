package segment

import (
	"testing"

	"github.com/elfringham/iresearch/core/automaton"
)

func buildSegment() *Reader {
	r := NewReader("seg-0")
	terms := map[string][]int{
		"bar":    {1, 2},
		"baz":    {3},
		"bbar":   {4},
		"barr":   {5},
		"br":     {6},
		"foo":    {7},
		"foobar": {8},
		"foa":    {9},
		"foabar": {10},
	}
	for term, docs := range terms {
		for _, d := range docs {
			r.Index("text", []byte(term), d)
		}
	}
	return r
}

func TestPlainIteratorVisitsAllTermsInOrder(t *testing.T) {
	r := buildSegment()
	tr, ok := r.Field("text")
	if !ok {
		t.Fatal("expected field \"text\" to exist")
	}
	it := tr.Iterator()
	var got []string
	for it.Next() {
		got = append(got, string(it.Value()))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("terms not strictly increasing: %v", got)
		}
	}
	if len(got) != 9 {
		t.Fatalf("got %d terms, want 9: %v", len(got), got)
	}
}

func TestFieldAbsentReturnsFalse(t *testing.T) {
	r := buildSegment()
	if _, ok := r.Field("nope"); ok {
		t.Error("expected absent field to report ok=false")
	}
}

func TestAcceptorTermIteratorWildcardScenario(t *testing.T) {
	// spec.md §8 scenario 2: wildcard "foo%" over
	// {foo, foobar, foa, foabar} visits exactly {foo, foobar}.
	r := NewReader("seg-1")
	for _, term := range []string{"foo", "foobar", "foa", "foabar"} {
		r.Index("text", []byte(term), 1)
	}
	tr, _ := r.Field("text")
	acc := automaton.NewWildcard([]byte("foo%"))

	it := tr.IteratorMatching(acc)
	visited := map[string]bool{}
	for it.Next() {
		visited[string(it.Value())] = true
	}
	want := map[string]bool{"foo": true, "foobar": true}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v, want %v", visited, want)
	}
	for term := range want {
		if !visited[term] {
			t.Errorf("expected %q to be visited", term)
		}
	}
}

func TestAcceptorTermIteratorLevenshteinScenario(t *testing.T) {
	r := buildSegment()
	tr, _ := r.Field("text")
	acc, ok := automaton.NewLevenshtein([]byte("bar"), 1, false)
	if !ok {
		t.Fatal("NewLevenshtein returned ok=false")
	}

	it := tr.IteratorMatching(acc)
	got := map[string]byte{}
	for it.Next() {
		payload, hasPayload := it.Payload()
		if !hasPayload {
			t.Errorf("expected %q to carry a payload", it.Value())
		}
		got[string(it.Value())] = payload
	}

	want := map[string]byte{"bar": 0, "baz": 1, "bbar": 1, "barr": 1, "br": 1}
	if len(got) != len(want) {
		t.Fatalf("visited %v, want %v", got, want)
	}
	for term, dist := range want {
		if got[term] != dist {
			t.Errorf("term %q: distance %d, want %d", term, got[term], dist)
		}
	}
}

func TestDocIteratorOrderingAndSeek(t *testing.T) {
	it := NewDocIterator([]int{2, 5, 9, 20})
	if it.DocID() != Invalid {
		t.Fatal("expected Invalid before first Next")
	}
	if d := it.Next(); d != 2 {
		t.Fatalf("Next() = %d, want 2", d)
	}
	if d := it.Seek(9); d != 9 {
		t.Fatalf("Seek(9) = %d, want 9", d)
	}
	if d := it.Next(); d != 20 {
		t.Fatalf("Next() = %d, want 20", d)
	}
	if d := it.Next(); d != NoMoreDocs {
		t.Fatalf("Next() at exhaustion = %d, want NoMoreDocs", d)
	}
}

func TestDocIteratorSeekEOF(t *testing.T) {
	it := NewDocIterator([]int{1, 2, 3})
	if d := it.Seek(NoMoreDocs); d != NoMoreDocs {
		t.Fatalf("Seek(NoMoreDocs) = %d, want NoMoreDocs", d)
	}
}

func TestBitsetTracksUnscoredDocs(t *testing.T) {
	b := NewBitset()
	b.Add([]int{5, 1, 3})
	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}
	if !b.Contains(1) || !b.Contains(5) {
		t.Error("expected added docs to be contained")
	}
	it := b.Iterator()
	var got []int
	for d := it.Next(); d != NoMoreDocs; d = it.Next() {
		got = append(got, d)
	}
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCookieReseekReturnsTermDocs(t *testing.T) {
	r := buildSegment()
	tr, _ := r.Field("text")
	it := tr.Iterator()
	it.SeekCeil([]byte("bar"))
	cookie := it.Cookie()

	docIt, ok := tr.Docs(cookie)
	if !ok {
		t.Fatal("expected cookie to resolve")
	}
	var got []int
	for d := docIt.Next(); d != NoMoreDocs; d = docIt.Next() {
		got = append(got, d)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("docs for \"bar\" = %v, want [1 2]", got)
	}
}
