// Package mixture fits finite mixtures of Kent distributions by EM and scores
// them with a Minimum Message Length criterion.
//
// A Mixture owns K components, their weights, the K×N responsibility matrix
// and the effective sample sizes; the dataset is shared read-only.
//
// Entry points:
//
//   - FromData, then Estimate: random hard assignment followed by EM until the
//     relative message-length improvement drops below ImprovementRate.
//   - Split, Kill, Join: structural edits that return a new, re-converged
//     mixture and leave the receiver untouched.
//   - MinimumMessageLength, NullModelMessageLength, AIC, BIC, KLDivergence.
//   - Generate, Classify, Save and Load.
//
// E-step chunks, sample-size sums and per-component M-steps run on an
// errgroup pool of Options.Workers goroutines; each phase writes disjoint
// slots, so results do not depend on the worker count.
//
// Usage:
//
//	m, _ := mixture.FromData(2, data, nil, mixture.DefaultOptions())
//	_ = m.Initialize(kent.NewRand(1))
//	bits, err := m.Estimate()
package mixture
