package kent_test

import (
	"testing"

	"github.com/katalvlaran/kentmix/kent"
)

// BenchmarkNewCanonical measures construction, dominated by the series for c(κ, β).
func BenchmarkNewCanonical(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := kent.NewCanonical(100, 30); err != nil {
			b.Fatalf("NewCanonical: %v", err)
		}
	}
}

// BenchmarkGenerate measures the rejection sampler.
func BenchmarkGenerate(b *testing.B) {
	k, err := kent.NewCanonical(100, 30)
	if err != nil {
		b.Fatalf("NewCanonical: %v", err)
	}
	rng := kent.NewRand(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = k.Generate(1000, rng)
	}
}

// BenchmarkEstimateAll measures the six estimators on N = 1000.
func BenchmarkEstimateAll(b *testing.B) {
	k, err := kent.NewCanonical(100, 30)
	if err != nil {
		b.Fatalf("NewCanonical: %v", err)
	}
	s, err := kent.NewStats(k.Generate(1000, kent.NewRand(1)), nil)
	if err != nil {
		b.Fatalf("NewStats: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err = kent.EstimateAll(s, kent.DefaultOptions()); err != nil {
			b.Fatalf("EstimateAll: %v", err)
		}
	}
}
