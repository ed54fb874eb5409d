package harness_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kentmix/harness"
	"github.com/katalvlaran/kentmix/kent"
)

func smallOptions() harness.Options {
	o := harness.DefaultOptions()
	o.Trials = 6
	o.SampleSize = 300
	o.Seed = 42

	return o
}

func TestRun_SummarisesEveryMethod(t *testing.T) {
	truth, err := kent.NewCanonical(100, 30)
	require.NoError(t, err)

	rep, err := harness.Run(context.Background(), truth, smallOptions())
	require.NoError(t, err)
	require.Len(t, rep.Trials, 6)
	require.Len(t, rep.Methods, len(kent.Methods))

	for j, s := range rep.Methods {
		assert.Equal(t, kent.Methods[j], s.Method)
		assert.Positive(t, s.Fits, "%s", s.Method)
		assert.InDelta(t, 100, s.Kappa.Mean, 30, "%s kappa", s.Method)
		assert.InDelta(t, s.Kappa.Mean-100, s.Kappa.Bias, 1e-9)
		assert.GreaterOrEqual(t, s.Kappa.MSE, s.Kappa.Bias*s.Kappa.Bias-1e-9, "MSE >= bias²")
		assert.GreaterOrEqual(t, s.KLDivergence, 0.0)
	}
	for i, tr := range rep.Trials {
		assert.Equal(t, i, tr.Index)
		assert.Len(t, tr.Estimates, len(kent.Methods))
		assert.False(t, tr.Estimates[kent.MMLComplete].Distribution.Degenerate(harness.DefaultDegenerateBeta))
	}

	var buf bytes.Buffer
	require.NoError(t, rep.WriteTable(&buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# kappa=100 beta=30 n=300 trials=6"))
	for _, m := range kent.Methods {
		assert.Contains(t, out, m.String())
	}
}

func TestRun_WorkersDoNotChangeTheReport(t *testing.T) {
	truth, err := kent.FromAngles(0.4, 1.0, -0.3, 60, 20)
	require.NoError(t, err)

	opts := smallOptions()
	opts.Trials = 4
	serial, err := harness.Run(context.Background(), truth, opts)
	require.NoError(t, err)
	opts.Workers = 3
	parallel, err := harness.Run(context.Background(), truth, opts)
	require.NoError(t, err)

	for j := range serial.Methods {
		assert.Equal(t, serial.Methods[j].Fits, parallel.Methods[j].Fits)
		assert.InDelta(t, serial.Methods[j].Kappa.Mean, parallel.Methods[j].Kappa.Mean, 1e-12)
		assert.InDelta(t, serial.Methods[j].Beta.Median, parallel.Methods[j].Beta.Median, 1e-12)
	}
}

func TestRun_RetriesExhausted(t *testing.T) {
	truth, err := kent.NewCanonical(50, 10)
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	opts := smallOptions()
	opts.Trials = 1
	opts.MaxRetries = 2
	opts.DegenerateBeta = 1e9 // every fit counts as degenerate
	opts.Logger = logger

	_, err = harness.Run(context.Background(), truth, opts)
	require.ErrorIs(t, err, harness.ErrRetriesExhausted)
	assert.Contains(t, err.Error(), "trial 0 after 3 draws")

	var retries int
	for _, e := range hook.AllEntries() {
		if e.Data["action"] == "experiment_retry" {
			retries++
		}
	}
	assert.Equal(t, 3, retries)
}

func TestRun_InvalidOptions(t *testing.T) {
	truth, err := kent.NewCanonical(50, 10)
	require.NoError(t, err)

	for name, mutate := range map[string]func(*harness.Options){
		"no trials":        func(o *harness.Options) { o.Trials = 0 },
		"tiny sample":      func(o *harness.Options) { o.SampleSize = 1 },
		"negative retries": func(o *harness.Options) { o.MaxRetries = -1 },
		"negative beta":    func(o *harness.Options) { o.DegenerateBeta = -1 },
	} {
		t.Run(name, func(t *testing.T) {
			o := smallOptions()
			mutate(&o)
			_, err := harness.Run(context.Background(), truth, o)
			assert.ErrorIs(t, err, harness.ErrInvalidOptions)
		})
	}
}

func TestRun_ContextCanceled(t *testing.T) {
	truth, err := kent.NewCanonical(50, 10)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = harness.Run(ctx, truth, smallOptions())
	assert.ErrorIs(t, err, context.Canceled)
}
