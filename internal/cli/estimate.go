// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/vector"
)

func (c *CLI) newEstimateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate <datafile>",
		Short: "Fit a single Kent distribution with every estimator",
		Args:  cobra.ExactArgs(1),
		Example: `  kentmix estimate data.txt
  kentmix estimate data.txt --log-level debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := vector.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "read data %q", args[0])
			}
			s, err := kent.NewStats(data, nil)
			if err != nil {
				return errors.Wrap(err, "sufficient statistics")
			}
			est, err := kent.EstimateAll(s, c.cfg.EstimatorOptions())
			if err != nil {
				return errors.Wrap(err, "estimate")
			}

			tw := tabwriter.NewWriter(c.stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(tw, "method\tkappa\tbeta\tnll_nits\tmsglen_bits\tdistribution\t")
			for _, e := range est {
				log := c.log.WithFields(logrus.Fields{"method": e.Method.String(), "n": len(data)})
				if e.Err != nil {
					log.WithError(e.Err).Warn("estimator failed")
					fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t%v\t\n", e.Method, e.Err)
					continue
				}
				if e.Distribution.Degenerate(c.cfg.DegenerateBeta) {
					log.WithField("beta", e.Distribution.Beta()).Warn("degenerate estimate")
				}
				fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%s\t\n", e.Method,
					e.Distribution.Kappa(), e.Distribution.Beta(), e.NegLogLikelihood, e.MessageLength,
					e.Distribution)
			}

			return tw.Flush()
		},
	}

	return cmd
}
