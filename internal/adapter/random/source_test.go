package random

import (
	"testing"

	"terragrow/internal/domain/season"
)

var (
	_ season.RandomSource = (*Seeded)(nil)
	_ season.RandomSource = Crypto{}
)

func TestSeeded_Reproducible(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)
	for i := 0; i < 50; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
		if x, y := a.IntN(5), b.IntN(5); x != y {
			t.Fatalf("intn draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestSources_StayInRange(t *testing.T) {
	sources := map[string]season.RandomSource{"seeded": NewSeeded(1), "crypto": Crypto{}}
	for name, src := range sources {
		for i := 0; i < 200; i++ {
			if f := src.Float64(); f < 0 || f >= 1 {
				t.Fatalf("%s float out of range: %v", name, f)
			}
			if n := src.IntN(3); n < 0 || n >= 3 {
				t.Fatalf("%s intn out of range: %d", name, n)
			}
		}
	}
}
