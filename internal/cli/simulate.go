// SPDX-License-Identifier: MIT

package cli

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/mixture"
	"github.com/katalvlaran/kentmix/vector"
)

func (c *CLI) newSimulateCommand() *cobra.Command {
	var (
		mixtureFile string
		n           int
		kappa, beta float64
		output      string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Draw observations from a saved mixture or a canonical Kent distribution",
		Args:  cobra.NoArgs,
		Example: `  kentmix simulate --mixture mixture.txt -n 1000 -o data.txt
  kentmix simulate --kappa 100 --beta 30 -n 500 --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 1 {
				return errors.Errorf("sample size must be >= 1, got %d", n)
			}
			opts, closeLog, err := c.mixtureOptions()
			if err != nil {
				return err
			}
			defer closeLog()

			var m *mixture.Mixture
			if mixtureFile != "" {
				f, err := os.Open(mixtureFile)
				if err != nil {
					return errors.Wrapf(err, "open mixture %q", mixtureFile)
				}
				m, err = mixture.Load(f, opts)
				_ = f.Close()
				if err != nil {
					return errors.Wrapf(err, "load mixture %q", mixtureFile)
				}
			} else {
				k, err := kent.NewCanonical(kappa, beta)
				if err != nil {
					return errors.Wrap(err, "canonical distribution")
				}
				if m, err = mixture.FromComponents([]kent.Kent{k}, []float64{1}, opts); err != nil {
					return err
				}
			}

			data, _ := m.Generate(n, kent.NewRand(c.cfg.Seed))
			c.log.WithField("components", m.K()).WithField("n", n).Info("sample generated")

			w, closeFn, err := c.create(output)
			if err != nil {
				return err
			}
			if err := vector.Write(w, data); err != nil {
				_ = closeFn()
				return errors.Wrap(err, "write sample")
			}

			return closeFn()
		},
	}

	cmd.Flags().StringVar(&mixtureFile, "mixture", "", "Mixture file written by fit")
	cmd.Flags().IntVarP(&n, "samples", "n", 100, "Number of observations")
	cmd.Flags().Float64Var(&kappa, "kappa", 100, "Concentration of the canonical distribution")
	cmd.Flags().Float64Var(&beta, "beta", 30, "Ovalness of the canonical distribution")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}
