package harness_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/kentmix/harness"
	"github.com/katalvlaran/kentmix/kent"
)

// BenchmarkRun measures one trial of n = 100 with every estimator.
func BenchmarkRun(b *testing.B) {
	truth, err := kent.NewCanonical(100, 30)
	if err != nil {
		b.Fatalf("NewCanonical: %v", err)
	}
	opts := harness.DefaultOptions()
	opts.Trials = 1
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		opts.Seed = int64(i + 1)
		if _, err := harness.Run(context.Background(), truth, opts); err != nil {
			b.Fatalf("Run: %v", err)
		}
	}
}
