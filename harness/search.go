// SPDX-License-Identifier: MIT

package harness

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/mixture"
	"github.com/katalvlaran/kentmix/vector"
)

// SearchOptions configures Search and Sweep.
//
// Start is the K the search begins from (default 1). MaxComponents bounds K
// from above (default mixture.DefaultMaxComponents). MaxRounds bounds the
// number of accepted moves (default 100). Mixture is used for every fit; its
// Logger also receives the search log.
type SearchOptions struct {
	Start         int
	MaxComponents int
	MaxRounds     int
	Seed          int64
	Mixture       mixture.Options
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.Start < 1 {
		o.Start = 1
	}
	if o.MaxComponents < 1 {
		o.MaxComponents = mixture.DefaultMaxComponents
	}
	if o.MaxRounds < 1 {
		o.MaxRounds = 100
	}
	if o.Mixture.Logger == nil {
		o.Mixture.Logger = discardLogger()
	}

	return o
}

// Search fits a Start-component mixture and then hill-climbs over K.
//
// Every round tries splitting each component (while K < MaxComponents),
// killing each component and joining each pair (while K > 1). The candidate
// with the shortest message length replaces the current mixture if it is
// strictly shorter; otherwise the search stops. Candidates whose EM fails
// are skipped.
//
// Errors: ErrInvalidOptions, the error of the initial fit, or ctx.Err().
func Search(ctx context.Context, data []vector.Vector, dataWeights []float64, opts SearchOptions) (*mixture.Mixture, error) {
	opts = opts.withDefaults()
	if opts.Start > opts.MaxComponents {
		return nil, errors.Wrapf(ErrInvalidOptions, "start %d exceeds max components %d", opts.Start, opts.MaxComponents)
	}
	base := kent.NewRand(opts.Seed)

	cur, err := fitK(ctx, opts.Start, data, dataWeights, opts.Mixture, kent.DeriveRand(base, 0))
	if err != nil {
		return nil, errors.Wrapf(err, "initial fit with %d components", opts.Start)
	}
	log := opts.Mixture.Logger.WithField("action", "search")

	for round := 1; round <= opts.MaxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return cur, err
		}
		best, move := bestNeighbour(cur, opts, base, log)
		if best == nil || best.MessageLength() >= cur.MessageLength() {
			break
		}
		log.WithFields(logrus.Fields{
			"round":      round,
			"move":       move,
			"components": best.K(),
			"msglen":     best.MessageLength(),
			"improved":   cur.MessageLength() - best.MessageLength(),
		}).Info("search move accepted")
		cur = best
	}

	log.WithFields(logrus.Fields{
		"components": cur.K(),
		"msglen":     cur.MessageLength(),
	}).Info("search finished")

	return cur, nil
}

// bestNeighbour returns the shortest candidate reachable by one structural
// move from cur, or nil when every move failed.
func bestNeighbour(cur *mixture.Mixture, opts SearchOptions, base *rand.Rand, log logrus.FieldLogger) (*mixture.Mixture, string) {
	var (
		best *mixture.Mixture
		move string
	)
	consider := func(name string, m *mixture.Mixture, err error) {
		if err != nil {
			log.WithError(err).WithField("move", name).Debug("candidate skipped")
			return
		}
		if best == nil || m.MessageLength() < best.MessageLength() {
			best, move = m, name
		}
	}

	k := cur.K()
	if k < opts.MaxComponents {
		for c := 0; c < k; c++ {
			m, err := cur.Split(c, kent.DeriveRand(base, uint64(c)))
			consider(fmt.Sprintf("split(%d)", c), m, err)
		}
	}
	if k > 1 {
		for c := 0; c < k; c++ {
			m, err := cur.Kill(c)
			consider(fmt.Sprintf("kill(%d)", c), m, err)
		}
		for c1 := 0; c1 < k; c1++ {
			for c2 := c1 + 1; c2 < k; c2++ {
				m, err := cur.Join(c1, c2)
				consider(fmt.Sprintf("join(%d,%d)", c1, c2), m, err)
			}
		}
	}

	return best, move
}

// Sweep fits one mixture per K in [kmin, kmax] from a random start and
// returns them in order of K together with the index of the shortest.
// Fits that fail are logged and left nil.
//
// Errors: ErrInvalidOptions for an empty range, ErrNoFit when no K could be
// fitted, or ctx.Err().
func Sweep(ctx context.Context, data []vector.Vector, dataWeights []float64, kmin, kmax int, opts SearchOptions) ([]*mixture.Mixture, int, error) {
	if kmin < 1 || kmax < kmin {
		return nil, -1, errors.Wrapf(ErrInvalidOptions, "component range [%d, %d]", kmin, kmax)
	}
	opts = opts.withDefaults()
	base := kent.NewRand(opts.Seed)
	log := opts.Mixture.Logger.WithField("action", "sweep")

	fits := make([]*mixture.Mixture, 0, kmax-kmin+1)
	best := -1
	for k := kmin; k <= kmax; k++ {
		if err := ctx.Err(); err != nil {
			return fits, best, err
		}
		m, err := fitK(ctx, k, data, dataWeights, opts.Mixture, kent.DeriveRand(base, uint64(k)))
		if err != nil {
			if ctx.Err() != nil {
				return fits, best, ctx.Err()
			}
			log.WithError(err).WithField("components", k).Warn("fit failed")
			fits = append(fits, nil)
			continue
		}
		log.WithFields(logrus.Fields{
			"components": k,
			"msglen":     m.MessageLength(),
		}).Info("fit finished")
		fits = append(fits, m)
		if best < 0 || m.MessageLength() < fits[best].MessageLength() {
			best = len(fits) - 1
		}
	}
	if best < 0 {
		return fits, best, errors.Wrapf(ErrNoFit, "no fit in [%d, %d]", kmin, kmax)
	}

	return fits, best, nil
}

func fitK(ctx context.Context, k int, data []vector.Vector, dataWeights []float64, mopts mixture.Options, rng *rand.Rand) (*mixture.Mixture, error) {
	m, err := mixture.FromData(k, data, dataWeights, mopts)
	if err != nil {
		return nil, err
	}
	if err := m.Initialize(rng); err != nil {
		return nil, err
	}
	if _, err := m.EstimateContext(ctx); err != nil {
		return nil, err
	}

	return m, nil
}
