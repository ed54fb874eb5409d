// Package kentmix is your toolkit for modelling directional data on the
// sphere with Kent (FB5) distributions and their mixtures, with the number
// of components chosen by Minimum Message Length (MML).
//
// 🚀 What is kentmix?
//
//	A pure-Go numeric library that brings together:
//		• Special functions: log-scaled modified Bessel I, Dawson's integral
//		• Linear algebra: Jacobi eigen, LU inverse, rotations on the sphere
//		• Kent distribution: density, sampling, moment/ML/MAP/MML estimation
//		• Mixtures: EM with an MML stopping rule, split/kill/join operators
//		• Diagnostics: AIC, BIC, KL divergence, per-iteration parameter logs
//
// ✨ Why kentmix?
//
//   - Numerically careful: every normalisation constant lives in log space
//   - Deterministic: seeded RNG streams, fixed loop orders
//   - Explicit errors: sentinel errors per package, checked via errors.Is
//   - Optional data-parallel E/M steps on a bounded worker pool
//
// Subpackages:
//
//	vector/       dot, cross, spherical coordinates, dispersion, data loading
//	specfunc/     Bessel, log-gamma, Dawson, log-sum-exp
//	matrix/       Dense, Eigen (Jacobi), Inverse (LU), rotations
//	kent/         the Kent (FB5) component and its estimators
//	mixture/      the EM engine, message length, split/kill/join
//	config/       YAML run configuration
//	harness/      estimator-bias runs with bounded retries, K search
//	cmd/kentmix   the command-line driver
//
//	go get github.com/katalvlaran/kentmix
package kentmix
