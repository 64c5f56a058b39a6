package engine

import "testing"

func TestRNGDeterminism(t *testing.T) {
	r1 := NewRNG(42)
	r2 := NewRNG(42)
	for i := 0; i < 1000; i++ {
		if r1.Uint32() != r2.Uint32() {
			t.Fatalf("determinism broken at iteration %d", i)
		}
	}
}

func TestRNGDifferentSeeds(t *testing.T) {
	r1 := NewRNG(42)
	r2 := NewRNG(43)
	same := 0
	for i := 0; i < 100; i++ {
		if r1.Uint32() == r2.Uint32() {
			same++
		}
	}
	if same > 5 {
		t.Fatalf("different seeds produced %d/100 identical values", same)
	}
}

func TestFloat64Bounds(t *testing.T) {
	r := NewRNG(42)
	for i := 0; i < 10000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() = %f, out of [0, 1)", v)
		}
	}
}

func TestSignedBounds(t *testing.T) {
	r := NewRNG(42)
	seenNeg, seenPos := false, false
	for i := 0; i < 10000; i++ {
		v := r.Signed()
		if v < -1 || v >= 1 {
			t.Fatalf("Signed() = %f, out of [-1, 1)", v)
		}
		if v < 0 {
			seenNeg = true
		}
		if v > 0 {
			seenPos = true
		}
	}
	if !seenNeg || !seenPos {
		t.Fatal("Signed() should produce both negative and positive values")
	}
}

func TestStateSaveRestore(t *testing.T) {
	r := NewRNG(42)
	for i := 0; i < 100; i++ {
		r.Uint32()
	}
	st, inc := r.State()
	expected := make([]uint32, 50)
	for i := range expected {
		expected[i] = r.Uint32()
	}
	r.RestoreState(st, inc)
	for i, want := range expected {
		if got := r.Uint32(); got != want {
			t.Fatalf("mismatch at %d after restore: got %d, want %d", i, got, want)
		}
	}
}

func TestStateBytesRoundTrip(t *testing.T) {
	r := NewRNG(42)
	for i := 0; i < 100; i++ {
		r.Uint32()
	}
	buf := r.StateBytes()
	if len(buf) != 16 {
		t.Fatalf("StateBytes length = %d, want 16", len(buf))
	}
	expected := make([]uint32, 50)
	for i := range expected {
		expected[i] = r.Uint32()
	}
	r.RestoreStateBytes(buf)
	for i, want := range expected {
		if got := r.Uint32(); got != want {
			t.Fatalf("mismatch at %d after RestoreStateBytes: got %d, want %d", i, got, want)
		}
	}
}

func TestRestoreStateBytesTooShort(t *testing.T) {
	r := NewRNG(42)
	st, inc := r.State()
	r.RestoreStateBytes([]byte{1, 2, 3})
	st2, inc2 := r.State()
	if st != st2 || inc != inc2 {
		t.Fatal("short byte slice should leave state untouched")
	}
}
