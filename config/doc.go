// Package config holds the YAML run configuration of the kentmix driver.
//
// Values are layered: Default, then the YAML file (Load/Parse, unknown keys
// rejected), then command-line flags applied by the caller. Validate reports
// every violation in one multierror.
//
// Example file:
//
//	max_components: 20
//	improvement_rate: 1e-9
//	mode: mml
//	aom: 0.001
//	workers: 4
//	seed: 7
//	experiment:
//	  trials: 50
//	  kappa: 100
//	  beta: 30
package config
