package matrix_test

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/kentmix/matrix"
)

// ExampleEigen decomposes a small symmetric scatter matrix.
func ExampleEigen() {
	s, _ := matrix.NewFromRows([][]float64{
		{2, 1},
		{1, 2},
	})
	vals, _, err := matrix.Eigen(s, 1e-12, 100)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	sort.Float64s(vals)
	fmt.Printf("%.3f %.3f\n", vals[0], vals[1])
	// Output: 1.000 3.000
}

// ExampleAlignZAxis rotates the north pole onto +X.
func ExampleAlignZAxis() {
	r, _ := matrix.AlignZAxis([]float64{1, 0, 0})
	x, _ := matrix.MatVec(r, []float64{0, 0, 1})
	fmt.Printf("%.3f %.3f %.3f\n", x[0], x[1], x[2])
	// Output: 1.000 0.000 0.000
}
