// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/kentmix/harness"
	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/mixture"
	"github.com/katalvlaran/kentmix/vector"
)

func (c *CLI) newFitCommand() *cobra.Command {
	var (
		k          int
		kmin, kmax int
		output     string
	)

	cmd := &cobra.Command{
		Use:   "fit <datafile>",
		Short: "Fit a Kent mixture by EM and report its message length",
		Long: `Fit a Kent mixture to the observations in <datafile>.

With --k the number of components is fixed. With --kmin/--kmax every K in
the range is fitted and the shortest message wins. Otherwise K is searched
by split, kill and join moves starting from one component.`,
		Args: cobra.ExactArgs(1),
		Example: `  kentmix fit data.txt --k 3 -o mixture.txt
  kentmix fit data.txt --kmin 1 --kmax 6
  kentmix fit data.txt --workers 4 --log-format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := vector.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "read data %q", args[0])
			}
			opts, closeLog, err := c.mixtureOptions()
			if err != nil {
				return err
			}
			defer closeLog()

			m, err := c.fit(cmd.Context(), data, opts, k, kmin, kmax)
			if err != nil {
				return err
			}
			return c.report(m, output)
		},
	}

	cmd.Flags().IntVar(&k, "k", 0, "Fixed number of components (0 searches over K)")
	cmd.Flags().IntVar(&kmin, "kmin", 0, "Smallest K of a sweep")
	cmd.Flags().IntVar(&kmax, "kmax", 0, "Largest K of a sweep")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the fitted mixture to this file")

	return cmd
}

func (c *CLI) fit(ctx context.Context, data []vector.Vector, opts mixture.Options, k, kmin, kmax int) (*mixture.Mixture, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	search := harness.SearchOptions{
		Start:         1,
		MaxComponents: c.cfg.MaxComponents,
		Seed:          c.cfg.Seed,
		Mixture:       opts,
	}
	switch {
	case k > 0:
		m, err := mixture.FromData(k, data, nil, opts)
		if err != nil {
			return nil, errors.Wrap(err, "build mixture")
		}
		if err := m.Initialize(kent.NewRand(c.cfg.Seed)); err != nil {
			return nil, errors.Wrap(err, "initialize")
		}
		if _, err := m.EstimateContext(ctx); err != nil {
			return nil, errors.Wrapf(err, "fit %d components", k)
		}
		return m, nil
	case kmax > 0:
		if kmin < 1 {
			kmin = 1
		}
		fits, best, err := harness.Sweep(ctx, data, nil, kmin, kmax, search)
		if err != nil {
			return nil, errors.Wrap(err, "sweep")
		}
		for _, m := range fits {
			if m != nil {
				fmt.Fprintf(c.stdout, "# K=%d msglen=%.4f bits\n", m.K(), m.MessageLength())
			}
		}
		return fits[best], nil
	default:
		m, err := harness.Search(ctx, data, nil, search)
		return m, errors.Wrap(err, "search")
	}
}

// report prints the fitted mixture and its criteria, and saves it when
// output is set.
func (c *CLI) report(m *mixture.Mixture, output string) error {
	part1, part2 := m.MessageLengthParts()
	aic, err := m.AIC()
	if err != nil {
		return err
	}
	bic, err := m.BIC()
	if err != nil {
		return err
	}
	c.log.WithFields(logrus.Fields{
		"mixture_id": m.ID(),
		"components": m.K(),
		"msglen":     m.MessageLength(),
	}).Info("mixture fitted")

	fmt.Fprintf(c.stdout, "components\t%d\n", m.K())
	fmt.Fprintf(c.stdout, "msglen_bits\t%.4f\t(first part %.4f, second part %.4f)\n", m.MessageLength(), part1, part2)
	fmt.Fprintf(c.stdout, "null_msglen_bits\t%.4f\n", m.NullModelMessageLength())
	fmt.Fprintf(c.stdout, "aic_bits\t%.4f\nbic_bits\t%.4f\n", aic, bic)
	if err := m.Save(c.stdout); err != nil {
		return err
	}
	if output == "" {
		return nil
	}

	w, closeFn, err := c.create(output)
	if err != nil {
		return err
	}
	if err := m.Save(w); err != nil {
		_ = closeFn()
		return errors.Wrapf(err, "save mixture to %q", output)
	}

	return closeFn()
}
