package random

import "testing"

func TestPCGIsDeterministic(t *testing.T) {
	a := NewPCG(42)
	b := NewPCG(42)
	for i := 0; i < 100; i++ {
		if x, y := a.NextIntN(1000), b.NextIntN(1000); x != y {
			t.Fatalf("draw %d diverged: %d vs %d", i, x, y)
		}
		if x, y := a.NextDouble(), b.NextDouble(); x != y {
			t.Fatalf("double %d diverged: %v vs %v", i, x, y)
		}
	}
}

func TestPCGRanges(t *testing.T) {
	src := NewPCG(7)
	for i := 0; i < 1000; i++ {
		if v := src.NextIntRange(-3, 4); v < -3 || v >= 4 {
			t.Fatalf("NextIntRange out of range: %d", v)
		}
		if v := src.NextDouble(); v < 0 || v >= 1 {
			t.Fatalf("NextDouble out of range: %v", v)
		}
		if v := src.NextInt(); v < 0 {
			t.Fatalf("NextInt negative: %d", v)
		}
	}
	if v := src.NextIntN(0); v != 0 {
		t.Fatalf("NextIntN(0) = %d, want 0", v)
	}
	if v := src.NextIntRange(5, 5); v != 5 {
		t.Fatalf("NextIntRange(5,5) = %d, want 5", v)
	}
}

func TestFixedSource(t *testing.T) {
	var zero Fixed
	if zero.NextIntN(10) != 0 || zero.NextDouble() != 0 || zero.NextIntRange(2, 9) != 2 {
		t.Fatalf("zero Fixed should always return the low bound")
	}
	f := Fixed{Int: 7, Double: 0.5}
	if got := f.NextIntN(3); got != 1 {
		t.Fatalf("NextIntN(3) = %d, want 1", got)
	}
	if got := f.NextDouble(); got != 0.5 {
		t.Fatalf("NextDouble = %v, want 0.5", got)
	}
}
