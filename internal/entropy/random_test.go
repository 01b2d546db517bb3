package entropy

import "testing"

func TestSeedNonNegative(t *testing.T) {
	for i := 0; i < 100; i++ {
		if s := Seed(); s < 0 {
			t.Fatalf("Seed() = %d, want non-negative", s)
		}
	}
}

func TestSeedVaries(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 8; i++ {
		seen[Seed()] = true
	}
	if len(seen) < 2 {
		t.Fatalf("8 draws produced %d distinct seeds", len(seen))
	}
}
