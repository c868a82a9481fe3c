package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Step holds the hyperparameters shared by every solver. Losses are
// batch means, so no solver rescales its gradients by the batch size.
type Step struct {
	StepSize float64
	Clip     float64 // <= 0 if no clipping
	L2       float64 // <= 0 if no weight decay
}

func (s Step) opts() []G.SolverOpt {
	opts := []G.SolverOpt{G.WithLearnRate(s.StepSize)}
	if s.Clip > 0 {
		opts = append(opts, G.WithClip(s.Clip))
	}
	if s.L2 > 0 {
		opts = append(opts, G.WithL2Reg(s.L2))
	}
	return opts
}

func (s Step) validate() error {
	if s.StepSize <= 0 {
		return fmt.Errorf("validate: step size must be positive, got %v",
			s.StepSize)
	}
	return nil
}
