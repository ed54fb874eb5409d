// SPDX-License-Identifier: MIT

package vector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformedRow is returned by Parse when a row does not hold three coordinates.
var ErrMalformedRow = errors.New("vector: malformed data row")

// Parse reads one observation per line: three whitespace- or comma-separated
// coordinates. Blank lines and lines starting with '#' are skipped. Each row
// is normalised to unit length; a zero row is an error.
func Parse(r io.Reader) ([]Vector, error) {
	var (
		out    []Vector
		lineNo int
		sc     = bufio.NewScanner(r)
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(c rune) bool {
			return c == ',' || c == ' ' || c == '\t' || c == ';'
		})
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: %d fields: %w", lineNo, len(fields), ErrMalformedRow)
		}
		v := make(Vector, 3)
		for i, f := range fields {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %q: %w", lineNo, f, ErrMalformedRow)
			}
			v[i] = x
		}
		u, err := Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, u)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrEmptyData
	}

	return out, nil
}

// ReadFile parses the observations stored at path.
func ReadFile(path string) ([]Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Write prints one observation per line, tab separated.
func Write(w io.Writer, data []Vector) error {
	bw := bufio.NewWriter(w)
	for _, v := range data {
		if _, err := fmt.Fprintf(bw, "%.10f\t%.10f\t%.10f\n", v[0], v[1], v[2]); err != nil {
			return err
		}
	}

	return bw.Flush()
}
