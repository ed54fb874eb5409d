// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/katalvlaran/kentmix/harness"
	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/mixture"
)

// Config is the run configuration of the kentmix driver.
type Config struct {
	MaxComponents     int     `yaml:"max_components"`
	ImprovementRate   float64 `yaml:"improvement_rate"`
	MinIterations     int     `yaml:"min_iterations"`
	MaxIterations     int     `yaml:"max_iterations"`
	MonotoneTolerance float64 `yaml:"monotone_tolerance"`
	MinSampleSize     float64 `yaml:"min_sample_size"`
	AOM               float64 `yaml:"aom"`
	Workers           int     `yaml:"workers"`
	Mode              string  `yaml:"mode"`
	MaxKappa          float64 `yaml:"max_kappa"`
	DegenerateBeta    float64 `yaml:"degenerate_beta"`
	ResidualFloor     float64 `yaml:"residual_floor"`
	Seed              int64   `yaml:"seed"`
	LogFile           string  `yaml:"log_file"`

	Experiment Experiment `yaml:"experiment"`
}

// Experiment configures the estimator-bias harness.
type Experiment struct {
	Trials     int     `yaml:"trials"`
	SampleSize int     `yaml:"sample_size"`
	MaxRetries int     `yaml:"max_retries"`
	Kappa      float64 `yaml:"kappa"`
	Beta       float64 `yaml:"beta"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		MaxComponents:     mixture.DefaultMaxComponents,
		ImprovementRate:   mixture.DefaultImprovementRate,
		MinIterations:     mixture.DefaultMinIterations,
		MaxIterations:     mixture.DefaultMaxIterations,
		MonotoneTolerance: mixture.DefaultMonotoneTolerance,
		MinSampleSize:     mixture.DefaultMinSampleSize,
		AOM:               kent.DefaultAOM,
		Workers:           1,
		Mode:              mixture.MML.String(),
		MaxKappa:          kent.DefaultMaxKappa,
		DegenerateBeta:    harness.DefaultDegenerateBeta,
		ResidualFloor:     mixture.DefaultResidualFloor,
		Seed:              kent.DefaultSeed,
		Experiment: Experiment{
			Trials:     100,
			SampleSize: 100,
			MaxRetries: 10,
			Kappa:      100,
			Beta:       30,
		},
	}
}

// Load reads a YAML file over Default and validates the result.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "open config file %q", path)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config file %q", path)
	}

	return cfg, nil
}

// Parse decodes YAML from r over Default and validates the result. Unknown
// keys are an error.
func Parse(r io.Reader) (Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	cfg := Default()
	if err := yaml.UnmarshalStrict(raw, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal yaml config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var result *multierror.Error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			result = multierror.Append(result, fmt.Errorf(format, args...))
		}
	}

	check(c.MaxComponents >= 1, "max_components must be >= 1, got %d", c.MaxComponents)
	check(c.ImprovementRate > 0 && c.ImprovementRate < 1, "improvement_rate must be in (0, 1), got %g", c.ImprovementRate)
	check(c.MinIterations >= 1, "min_iterations must be >= 1, got %d", c.MinIterations)
	check(c.MaxIterations >= c.MinIterations, "max_iterations (%d) must be >= min_iterations (%d)", c.MaxIterations, c.MinIterations)
	check(c.MonotoneTolerance > 0, "monotone_tolerance must be > 0, got %g", c.MonotoneTolerance)
	check(c.MinSampleSize >= 0, "min_sample_size must be >= 0, got %g", c.MinSampleSize)
	check(c.AOM > 0 && c.AOM < 1, "aom must be in (0, 1), got %g", c.AOM)
	check(c.Workers >= 1, "workers must be >= 1, got %d", c.Workers)
	_, err := ParseMode(c.Mode)
	check(err == nil, "mode must be \"mml\" or \"ml\", got %q", c.Mode)
	check(c.MaxKappa > 0, "max_kappa must be > 0, got %g", c.MaxKappa)
	check(c.DegenerateBeta >= 0, "degenerate_beta must be >= 0, got %g", c.DegenerateBeta)
	check(c.ResidualFloor > 0 && c.ResidualFloor < 1, "residual_floor must be in (0, 1), got %g", c.ResidualFloor)

	e := c.Experiment
	check(e.Trials >= 1, "experiment.trials must be >= 1, got %d", e.Trials)
	check(e.SampleSize >= 2, "experiment.sample_size must be >= 2, got %d", e.SampleSize)
	check(e.MaxRetries >= 0, "experiment.max_retries must be >= 0, got %d", e.MaxRetries)
	check(e.Kappa > 0 && e.Beta >= 0 && 2*e.Beta < e.Kappa,
		"experiment needs 0 <= 2*beta < kappa, got kappa=%g beta=%g", e.Kappa, e.Beta)

	return result.ErrorOrNil()
}

// ParseMode maps "mml" and "ml" to mixture modes.
func ParseMode(s string) (mixture.Mode, error) {
	switch s {
	case "mml", "":
		return mixture.MML, nil
	case "ml":
		return mixture.ML, nil
	default:
		return 0, errors.Errorf("unknown mode %q", s)
	}
}

// EstimatorOptions returns the kent estimator options of c.
func (c Config) EstimatorOptions() kent.Options {
	o := kent.DefaultOptions()
	o.MaxKappa = c.MaxKappa
	o.AOM = c.AOM

	return o
}

// MixtureOptions returns the mixture options of c wired to the given logger,
// iteration log sink and metrics, any of which may be nil.
func (c Config) MixtureOptions(logger logrus.FieldLogger, sink io.Writer, metrics *mixture.Metrics) mixture.Options {
	mode, _ := ParseMode(c.Mode)

	return mixture.Options{
		MaxComponents:     c.MaxComponents,
		ImprovementRate:   c.ImprovementRate,
		MinIterations:     c.MinIterations,
		MaxIterations:     c.MaxIterations,
		MonotoneTolerance: c.MonotoneTolerance,
		AOM:               c.AOM,
		Workers:           c.Workers,
		Mode:              mode,
		MinSampleSize:     c.MinSampleSize,
		ResidualFloor:     c.ResidualFloor,
		Estimator:         c.EstimatorOptions(),
		Logger:            logger,
		LogSink:           sink,
		Metrics:           metrics,
		IDs:               &mixture.IDSource{},
	}
}

// ExperimentOptions returns the harness options of c.Experiment.
func (c Config) ExperimentOptions(logger logrus.FieldLogger) harness.Options {
	return harness.Options{
		Trials:         c.Experiment.Trials,
		SampleSize:     c.Experiment.SampleSize,
		MaxRetries:     c.Experiment.MaxRetries,
		DegenerateBeta: c.DegenerateBeta,
		Workers:        c.Workers,
		Seed:           c.Seed,
		Estimator:      c.EstimatorOptions(),
		Logger:         logger,
	}
}
