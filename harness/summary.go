// SPDX-License-Identifier: MIT

package harness

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/kentmix/kent"
)

// Summary describes the estimates of one parameter against its true value.
type Summary struct {
	Mean     float64
	Median   float64
	Variance float64
	Bias     float64
	MAE      float64
	MSE      float64
}

// MethodSummary aggregates one estimator over the trials in which it
// succeeded. Fits counts those trials; the remaining fields are NaN when
// Fits is zero.
type MethodSummary struct {
	Method kent.Method
	Fits   int
	Kappa  Summary
	Beta   Summary
	// means over the successful fits; KL is in bits, message length in bits,
	// negative log-likelihood in nits
	NegLogLikelihood float64
	MessageLength    float64
	KLDivergence     float64
}

func summarize(truth kent.Kent, trials []Trial) []MethodSummary {
	out := make([]MethodSummary, len(kent.Methods))
	for j, m := range kent.Methods {
		var kappa, beta, nll, msglen, kl []float64
		for _, t := range trials {
			e := t.Estimates[j]
			if e.Err != nil {
				continue
			}
			kappa = append(kappa, e.Distribution.Kappa())
			beta = append(beta, e.Distribution.Beta())
			nll = append(nll, e.NegLogLikelihood)
			msglen = append(msglen, e.MessageLength)
			if !math.IsNaN(t.KL[j]) {
				kl = append(kl, t.KL[j])
			}
		}
		out[j] = MethodSummary{
			Method:           m,
			Fits:             len(kappa),
			Kappa:            summarizeParam(kappa, truth.Kappa()),
			Beta:             summarizeParam(beta, truth.Beta()),
			NegLogLikelihood: mean(nll),
			MessageLength:    mean(msglen),
			KLDivergence:     mean(kl),
		}
	}

	return out
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}

	return stat.Mean(x, nil)
}

// summarizeParam computes the Summary of estimates x of a parameter whose
// true value is want.
func summarizeParam(x []float64, want float64) Summary {
	if len(x) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Median: nan, Variance: nan, Bias: nan, MAE: nan, MSE: nan}
	}
	m, v := stat.MeanVariance(x, nil)
	if len(x) == 1 {
		v = 0
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	var mae, mse float64
	for _, xi := range x {
		d := xi - want
		mae += math.Abs(d)
		mse += d * d
	}
	n := float64(len(x))

	return Summary{
		Mean:     m,
		Median:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Variance: v,
		Bias:     m - want,
		MAE:      mae / n,
		MSE:      mse / n,
	}
}

// WriteTable writes one row per estimator: fits, κ and β bias, variance,
// MSE and median, mean KL divergence and mean message length.
func (r *Report) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "# kappa=%g beta=%g n=%d trials=%d discarded=%d\n",
		r.Truth.Kappa(), r.Truth.Beta(), r.SampleSize, len(r.Trials), r.Discarded)
	fmt.Fprintln(tw, "method\tfits\tkappa_bias\tkappa_var\tkappa_mse\tkappa_median\tbeta_bias\tbeta_var\tbeta_mse\tbeta_median\tkl_bits\tmsglen_bits\t")
	for _, s := range r.Methods {
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.5f\t%.3f\t\n",
			s.Method, s.Fits,
			s.Kappa.Bias, s.Kappa.Variance, s.Kappa.MSE, s.Kappa.Median,
			s.Beta.Bias, s.Beta.Variance, s.Beta.MSE, s.Beta.Median,
			s.KLDivergence, s.MessageLength)
	}

	return tw.Flush()
}
