package environment

import (
	"fmt"
)

// Cardinality determines the cardinality of a number (discrete or continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec implements an observation specification, which tells the shape
// and bounds of the occupancy grid an environment produces
type Spec struct {
	Rows, Cols int
	LowerBound float64
	UpperBound float64
	Cardinality
}

// NewSpec constructs a new observation specification for an r x c
// occupancy grid. NewSpec panics if the grid is empty or the bounds
// are inverted.
func NewSpec(r, c int, lowerBound, upperBound float64,
	cardinality Cardinality) Spec {
	if r <= 0 || c <= 0 {
		panic(fmt.Sprintf("shape (%v, %v) must be positive", r, c))
	}
	if lowerBound > upperBound {
		panic(fmt.Sprintf("lower bound %v must not exceed upper bound %v",
			lowerBound, upperBound))
	}
	return Spec{r, c, lowerBound, upperBound, cardinality}
}

// Features returns the number of features in a flattened observation
func (s Spec) Features() int {
	return s.Rows * s.Cols
}
