package kent_test

import (
	"fmt"
	"math"

	"github.com/katalvlaran/kentmix/kent"
)

// ExampleNewCanonical shows the von Mises–Fisher limit of the constant.
func ExampleNewCanonical() {
	k, err := kent.NewCanonical(10, 0)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("log c = %.6f\n", k.LogNormalizationConstant())
	fmt.Printf("4π·sinh(κ)/κ = %.6f\n", math.Log(4*math.Pi*math.Sinh(10)/10))
	// Output:
	// log c = 9.535292
	// 4π·sinh(κ)/κ = 9.535292
}

// ExampleKent_KLDivergence compares a distribution with itself.
func ExampleKent_KLDivergence() {
	k, _ := kent.FromAngles(0.2, 0.8, 1.4, 30, 9)
	kl, _ := k.KLDivergence(k)
	fmt.Printf("%.6f bits\n", kl)
	// Output: 0.000000 bits
}

// ExampleEstimateAll fits every estimator to a simulated sample.
func ExampleEstimateAll() {
	truth, _ := kent.NewCanonical(100, 30)
	s, _ := kent.NewStats(truth.Generate(1000, kent.NewRand(7)), nil)
	all, err := kent.EstimateAll(s, kent.DefaultOptions())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, e := range all {
		d := e.Distribution
		fmt.Printf("%-12s ok=%v κ∈[70,130]=%v\n", e.Method, e.Err == nil, d.Kappa() > 70 && d.Kappa() < 130)
	}
	// Output:
	// moment       ok=true κ∈[70,130]=true
	// mle          ok=true κ∈[70,130]=true
	// map          ok=true κ∈[70,130]=true
	// mml_newton   ok=true κ∈[70,130]=true
	// mml_halley   ok=true κ∈[70,130]=true
	// mml_complete ok=true κ∈[70,130]=true
}
