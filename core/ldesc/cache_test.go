package ldesc

import "testing"

func TestGetCachesIdenticalPointer(t *testing.T) {
	c, err := New(64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d1, ok := c.Get(1, false)
	if !ok {
		t.Fatal("expected ok=true for max_distance=1")
	}
	d2, ok := c.Get(1, false)
	if !ok {
		t.Fatal("expected ok=true on second request")
	}
	if d1 != d2 {
		t.Error("expected the same cached *ParametricDescription pointer on repeat Get")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestGetDistinguishesTranspositions(t *testing.T) {
	c, err := New(64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	withT, _ := c.Get(1, true)
	withoutT, _ := c.Get(1, false)
	if withT == withoutT {
		t.Error("expected distinct descriptions for with/without transpositions")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestGetRejectsUnsupportedDistance(t *testing.T) {
	c, err := New(64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.Get(3, false); ok {
		t.Error("expected ok=false for an unsupported max_distance")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after a rejected request", c.Len())
	}
}

func TestNewDefaultsNonPositiveSize(t *testing.T) {
	c, err := New(0)
	if err != nil {
		t.Fatalf("New(0): %v", err)
	}
	if _, ok := c.Get(1, false); !ok {
		t.Fatal("expected the default-sized cache to still serve requests")
	}
}
