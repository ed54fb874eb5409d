package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kentmix/internal/cli"
	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/vector"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := cli.New("test", &stdout, &stderr).RunArgs(args...)

	return stdout.String(), stderr.String(), err
}

func TestSimulateThenEstimate(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data.txt")

	_, _, err := run(t, "simulate", "--kappa", "80", "--beta", "20", "-n", "400", "--seed", "5", "-o", data)
	require.NoError(t, err)
	points, err := vector.ReadFile(data)
	require.NoError(t, err)
	require.Len(t, points, 400)

	out, _, err := run(t, "estimate", data)
	require.NoError(t, err)
	for _, m := range kent.Methods {
		assert.Contains(t, out, m.String())
	}
	assert.Contains(t, out, "msglen_bits")
}

func TestFit_FixedKSavesAMixture(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data.txt")
	saved := filepath.Join(dir, "mixture.txt")
	metrics := filepath.Join(dir, "metrics.prom")
	iterLog := filepath.Join(dir, "iter.log")
	cfg := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log_file: "+iterLog+"\n"), 0o644))

	_, _, err := run(t, "simulate", "-n", "300", "-o", data)
	require.NoError(t, err)

	out, stderr, err := run(t, "fit", data, "--k", "1", "-o", saved, "-c", cfg,
		"--metrics-file", metrics, "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "components\t1\n")
	assert.Contains(t, out, "mu=(")
	assert.Contains(t, stderr, `"run_id"`)
	assert.Contains(t, stderr, `"msg":"mixture fitted"`)

	body, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(body), "\n"))

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "kentmix_em_iterations_total")

	lines, err := os.ReadFile(iterLog)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(lines), "1\t"))

	// the saved mixture feeds simulate
	again := filepath.Join(dir, "again.txt")
	_, _, err = run(t, "simulate", "--mixture", saved, "-n", "10", "-o", again)
	require.NoError(t, err)
	points, err := vector.ReadFile(again)
	require.NoError(t, err)
	assert.Len(t, points, 10)
}

func TestFit_Sweep(t *testing.T) {
	data := filepath.Join(t.TempDir(), "data.txt")
	_, _, err := run(t, "simulate", "-n", "200", "-o", data)
	require.NoError(t, err)

	out, _, err := run(t, "fit", data, "--kmin", "1", "--kmax", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "# K=1 msglen=")
	assert.Contains(t, out, "msglen_bits\t")
}

func TestExperiment(t *testing.T) {
	out, _, err := run(t, "experiment", "--trials", "2", "-n", "100", "--kappa", "50", "--beta", "10")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# kappa=50 beta=10 n=100 trials=2"))
	assert.Contains(t, out, "mml_complete")
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("workers: 0\naom: 2\n"), 0o644))

	_, _, err := run(t, "experiment", "-c", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
	assert.Contains(t, err.Error(), "aom")

	_, _, err = run(t, "estimate", filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)

	_, _, err = run(t, "simulate", "--log-format", "xml")
	assert.Error(t, err)

	_, _, err = run(t, "simulate", "-n", "0")
	assert.Error(t, err)
}
