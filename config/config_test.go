package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kentmix/config"
	"github.com/katalvlaran/kentmix/harness"
	"github.com/katalvlaran/kentmix/mixture"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "mml", cfg.Mode)
	assert.Equal(t, mixture.DefaultMaxComponents, cfg.MaxComponents)
}

func TestParse_OverridesDefaults(t *testing.T) {
	in := `
max_components: 20
mode: ml
workers: 4
experiment:
  trials: 7
`
	cfg, err := config.Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.MaxComponents)
	assert.Equal(t, "ml", cfg.Mode)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 7, cfg.Experiment.Trials)
	assert.Equal(t, config.Default().AOM, cfg.AOM, "unset keys keep their defaults")
	assert.Equal(t, config.Default().Experiment.Kappa, cfg.Experiment.Kappa)

	opts := cfg.MixtureOptions(nil, nil, nil)
	assert.Equal(t, mixture.ML, opts.Mode)
	assert.Equal(t, 4, opts.Workers)
	assert.Equal(t, cfg.MaxKappa, opts.Estimator.MaxKappa)

	exp := cfg.ExperimentOptions(nil)
	assert.Equal(t, 7, exp.Trials)
	assert.Equal(t, 4, exp.Workers)
	assert.Equal(t, harness.DefaultDegenerateBeta, exp.DegenerateBeta)
	assert.Equal(t, cfg.Seed, exp.Seed)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := config.Parse(strings.NewReader("max_component: 3\n"))
	assert.Error(t, err)
}

func TestValidate_AggregatesEveryViolation(t *testing.T) {
	cfg := config.Default()
	cfg.MaxComponents = 0
	cfg.AOM = 2
	cfg.Mode = "bayes"
	cfg.Experiment.Beta = cfg.Experiment.Kappa

	err := cfg.Validate()
	require.Error(t, err)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4)
	assert.Contains(t, err.Error(), "max_components")
	assert.Contains(t, err.Error(), "aom")
	assert.Contains(t, err.Error(), "mode")
	assert.Contains(t, err.Error(), "experiment")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 42\nlog_file: em.log\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "em.log", cfg.LogFile)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")

	require.NoError(t, os.WriteFile(path, []byte("workers: 0\n"), 0o600))
	_, err = config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}

func TestParseMode(t *testing.T) {
	m, err := config.ParseMode("ml")
	require.NoError(t, err)
	assert.Equal(t, mixture.ML, m)
	m, err = config.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, mixture.MML, m)
	_, err = config.ParseMode("em")
	assert.Error(t, err)
}
