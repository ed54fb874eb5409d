// SPDX-License-Identifier: MIT

// Package cli implements the kentmix command line.
package cli

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/kentmix/config"
	"github.com/katalvlaran/kentmix/mixture"
)

// CLI holds the root command and the state its subcommands share.
type CLI struct {
	version string
	stdout  io.Writer
	stderr  io.Writer

	configPath  string
	logFormat   string
	logLevel    string
	metricsFile string
	seed        int64
	workers     int

	cfg      config.Config
	logger   *logrus.Logger
	log      logrus.FieldLogger
	registry *prometheus.Registry
	metrics  *mixture.Metrics

	rootCmd *cobra.Command
}

// New builds the command tree. Results go to stdout, logs to stderr.
func New(version string, stdout, stderr io.Writer) *CLI {
	c := &CLI{version: version, stdout: stdout, stderr: stderr}
	c.setupCommands()

	return c
}

func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:           "kentmix",
		Short:         "Kent (FB5) distributions and MML mixture modelling on the sphere",
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initApp(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.writeMetrics()
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	c.rootCmd.SetOut(c.stdout)
	c.rootCmd.SetErr(c.stderr)

	pf := c.rootCmd.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "YAML run configuration")
	pf.StringVar(&c.logFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&c.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pf.StringVar(&c.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
	pf.Int64Var(&c.seed, "seed", 0, "Random seed (overrides the configuration)")
	pf.IntVar(&c.workers, "workers", 0, "EM worker pool size (overrides the configuration)")

	c.rootCmd.AddCommand(c.newEstimateCommand())
	c.rootCmd.AddCommand(c.newFitCommand())
	c.rootCmd.AddCommand(c.newSimulateCommand())
	c.rootCmd.AddCommand(c.newExperimentCommand())
}

// Run executes the command line in os.Args.
func (c *CLI) Run() error {
	return c.RunArgs(os.Args[1:]...)
}

// RunArgs executes the command line given by args.
func (c *CLI) RunArgs(args ...string) error {
	c.rootCmd.SetArgs(args)
	err := c.rootCmd.Execute()
	if err != nil {
		if c.log != nil {
			c.log.WithError(err).Error("command failed")
		} else {
			logrus.New().WithError(err).Error("command failed")
		}
	}

	return err
}

// initApp loads the configuration, applies flag overrides and sets up
// logging and metrics.
func (c *CLI) initApp(cmd *cobra.Command) error {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = c.seed
	}
	if flags.Changed("workers") {
		cfg.Workers = c.workers
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	c.cfg = cfg

	c.logger = logrus.New()
	c.logger.SetOutput(c.stderr)
	switch c.logFormat {
	case "json":
		c.logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		c.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return errors.Errorf("unknown log format %q", c.logFormat)
	}
	level, err := logrus.ParseLevel(c.logLevel)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	c.logger.SetLevel(level)
	c.log = c.logger.WithFields(logrus.Fields{
		"run_id":  uuid.New().String(),
		"command": cmd.Name(),
	})

	c.registry = prometheus.NewRegistry()
	c.metrics = mixture.NewMetrics(c.registry)
	c.log.WithField("seed", cfg.Seed).Debug("configuration loaded")

	return nil
}

func (c *CLI) writeMetrics() error {
	if c.metricsFile == "" || c.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(c.metricsFile, c.registry); err != nil {
		return errors.Wrapf(err, "write metrics to %q", c.metricsFile)
	}
	c.log.WithField("path", c.metricsFile).Debug("metrics written")

	return nil
}

// create opens path for writing, or returns stdout for "" and "-".
func (c *CLI) create(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return c.stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "create %q", path)
	}

	return f, f.Close, nil
}

// mixtureOptions wires the configuration, logger, metrics and the optional
// iteration log file into mixture options. The returned func closes the log.
func (c *CLI) mixtureOptions() (mixture.Options, func() error, error) {
	closeFn := func() error { return nil }
	var sink io.Writer
	if c.cfg.LogFile != "" {
		f, err := os.OpenFile(c.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return mixture.Options{}, nil, errors.Wrapf(err, "open iteration log %q", c.cfg.LogFile)
		}
		sink, closeFn = f, f.Close
	}

	return c.cfg.MixtureOptions(c.log, sink, c.metrics), closeFn, nil
}
