package mixture_test

import (
	"testing"

	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/mixture"
)

// BenchmarkLogProbability measures one mixture density evaluation at K = 2.
func BenchmarkLogProbability(b *testing.B) {
	ka, kb := truth(b)
	m, err := mixture.FromComponents([]kent.Kent{ka, kb}, []float64{0.5, 0.5}, quietOptions())
	if err != nil {
		b.Fatalf("FromComponents: %v", err)
	}
	x, _ := m.Generate(1, kent.NewRand(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.LogProbability(x[0])
	}
}

// BenchmarkEstimate measures EM from labelled starts on N = 400, serial and pooled.
func BenchmarkEstimate(b *testing.B) {
	data, labels := clustered(b, 200, 1)
	for _, workers := range []int{1, 4} {
		opts := quietOptions()
		opts.Workers = workers
		b.Run(map[int]string{1: "serial", 4: "workers4"}[workers], func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = fitFromLabels(b, data, labels, opts)
			}
		})
	}
}
