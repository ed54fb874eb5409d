// SPDX-License-Identifier: MIT

package mixture

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/matrix"
	"github.com/katalvlaran/kentmix/vector"
)

// Save writes one line per component:
//
//	<weight>\tmu=(x,y,z)\tkap=<κ>\tbeta=<β>\tmaj=(x,y,z)\tmin=(x,y,z)
func (m *Mixture) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for j, c := range m.components {
		if _, err := fmt.Fprintf(bw, "%.10f\t%s\n", m.weights[j], c.String()); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Load reads a mixture written by Save. Each non-blank line holds the weight,
// the three mean coordinates and κ, optionally followed by β and then the
// major and minor axes. The reduced form <weight>\t(x,y,z)\t<κ> is accepted.
//
// Means are normalised, axes re-orthonormalised against the mean and weights
// normalised to sum to one. Missing axes come from the canonical frame
// rotated onto the mean.
//
// Errors: ErrMalformedLine (with the line number) for a line that cannot be
// parsed or describes an invalid component; ErrInvalidInput for an empty
// input.
func Load(r io.Reader, opts Options) (*Mixture, error) {
	const op = "Load"
	var (
		comps   []kent.Kent
		weights []float64
		lineNo  int
		sc      = bufio.NewScanner(r)
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w, c, err := parseComponent(line)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %v: %w", op, lineNo, err, ErrMalformedLine)
		}
		comps = append(comps, c)
		weights = append(weights, w)
	}
	if err := sc.Err(); err != nil {
		return nil, mixtureErrorf(op, err)
	}
	if len(comps) == 0 {
		return nil, mixtureErrorf(op, ErrInvalidInput)
	}

	return FromComponents(comps, weights, opts)
}

// tokenize splits a persisted line into its numeric fields. Any rune other
// than a letter, a digit, a sign or '.' separates fields; purely alphabetic
// tokens are field names.
func tokenize(line string) ([]float64, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("+-.", r)
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		if strings.IndexFunc(f, func(r rune) bool { return !unicode.IsLetter(r) }) < 0 {
			continue
		}
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("field %q", f)
		}
		out = append(out, x)
	}

	return out, nil
}

func parseComponent(line string) (float64, kent.Kent, error) {
	nums, err := tokenize(line)
	if err != nil {
		return 0, kent.Kent{}, err
	}
	var beta float64
	switch len(nums) {
	case 5:
	case 6, 12:
		beta = nums[5]
	default:
		return 0, kent.Kent{}, fmt.Errorf("%d numeric fields", len(nums))
	}

	mean, err := vector.Normalize(vector.New(nums[1], nums[2], nums[3]))
	if err != nil {
		return 0, kent.Kent{}, err
	}
	var major, minor vector.Vector
	if len(nums) == 12 {
		major, minor, err = orthonormalize(mean, vector.New(nums[6], nums[7], nums[8]), vector.New(nums[9], nums[10], nums[11]))
	} else {
		major, minor, err = canonicalAxes(mean)
	}
	if err != nil {
		return 0, kent.Kent{}, err
	}
	c, err := kent.New(mean, major, minor, nums[4], beta)
	if err != nil {
		return 0, kent.Kent{}, err
	}

	return nums[0], c, nil
}

// orthonormalize applies Gram–Schmidt to (mean, major, minor). A minor axis
// that collapses is replaced by mean × major.
func orthonormalize(mean, major, minor vector.Vector) (vector.Vector, vector.Vector, error) {
	maj, err := vector.Normalize(vector.Sub(major, vector.Scale(mean, vector.Dot(major, mean))))
	if err != nil {
		return nil, nil, err
	}
	rest := vector.Sub(minor, vector.Scale(mean, vector.Dot(minor, mean)))
	rest = vector.Sub(rest, vector.Scale(maj, vector.Dot(rest, maj)))
	if mn, err := vector.Normalize(rest); err == nil {
		return maj, mn, nil
	}
	mn, err := vector.Cross(mean, maj)
	if err != nil {
		return nil, nil, err
	}

	return maj, mn, nil
}

// canonicalAxes rotates the x and y axes by the rotation that takes z onto mean.
func canonicalAxes(mean vector.Vector) (vector.Vector, vector.Vector, error) {
	rot, err := matrix.AlignZAxis(mean)
	if err != nil {
		return nil, nil, err
	}
	major, err := matrix.MatVec(rot, vector.XAxis)
	if err != nil {
		return nil, nil, err
	}
	minor, err := matrix.MatVec(rot, vector.YAxis)
	if err != nil {
		return nil, nil, err
	}

	return major, minor, nil
}
