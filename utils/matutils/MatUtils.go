// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// MaxVec finds and returns the index of the maximum value in a vector.
// If multiple equal max values exist, only the first one is returned.
func MaxVec(values mat.Vector) int {
	max, idx := values.AtVec(0), 0
	numActions := values.Len()

	for i := 0; i < numActions; i++ {
		if values.AtVec(i) > max {
			max = values.AtVec(i)
			idx = i
		}
	}
	return idx
}

// Flatten returns the elements of X in row-major order
func Flatten(X mat.Matrix) []float64 {
	r, c := X.Dims()
	flat := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			flat = append(flat, X.At(i, j))
		}
	}
	return flat
}

// RowsOf stacks vectors as the rows of a new matrix. All vectors must
// have the same length.
func RowsOf(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("rowsOf: no rows")
	}
	cols := len(rows[0])
	backing := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("rowsOf: illegal length of row %d "+
				"\n\twant(%v)\n\thave(%v)", i, cols, len(row))
		}
		backing = append(backing, row...)
	}
	return mat.NewDense(len(rows), cols, backing), nil
}
