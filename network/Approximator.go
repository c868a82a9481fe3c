// Package network implements the function approximators used by
// gradient-based brains
package network

import "gonum.org/v1/gonum/mat"

// Approximator is a trainable function approximator. Inputs are given
// one sample per row.
type Approximator interface {
	// Predict returns one row of outputs per row of x
	Predict(x *mat.Dense) (*mat.Dense, error)

	// Fit takes a single optimizer step towards the targets y, one
	// row of targets per row of x
	Fit(x, y *mat.Dense) error

	// Outputs returns the number of outputs per sample
	Outputs() int

	Save(path string) error
	Load(path string) error
}
