// Package kent implements the Kent (FB5) distribution on the unit sphere:
//
//	f(x) = exp(κ·γ1·x + β[(γ2·x)² − (γ3·x)²]) / c(κ, β)
//
// with mean direction γ1, major axis γ2, minor axis γ3, concentration κ and
// ovalness β (0 <= 2β < κ).
//
// What is in here:
//
//   - New, NewCanonical, FromAngles: immutable Kent values; c(κ, β) and its
//     partials are computed once, in log space, from a half-order Bessel series.
//   - LogDensity, Density, Generate (Kent–Ganeiber–Mardia rejection sampler).
//   - NewStats: weighted sufficient statistics; every likelihood after that
//     is O(1) in the sample size.
//   - EstimateAll: Moment, MLE, MAP, MMLNewton, MMLHalley and MMLComplete
//     estimates, each with its negative log-likelihood and message length.
//   - MessageLength, LogParameterCost: the Wallace–Freeman two-part code.
//   - KLDivergence (closed form) and KLDivergenceMC.
//
// A non-finite normalisation constant is reported as LogC = +Inf and
// surfaces as ErrNonFinite on estimation paths; nothing here panics on
// data-dependent input.
//
// Usage:
//
//	k, _ := kent.NewCanonical(100, 30)
//	data := k.Generate(1000, kent.NewRand(7))
//	s, _ := kent.NewStats(data, nil)
//	all, err := kent.EstimateAll(s, kent.DefaultOptions())
package kent
