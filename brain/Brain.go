// Package brain defines the interface shared by every learning
// algorithm: a Brain owns a value or policy estimator for the whole
// run and refines it from recorded trajectories.
package brain

import (
	"fmt"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/environment"
	"github.com/samuelfneumann/gridrl/timestep"
)

// UpdateMode declares when a Brain expects Update to be called. It is
// fixed when the Brain is constructed.
type UpdateMode int

const (
	// NoUpdate brains never learn; Update is a no-op
	NoUpdate UpdateMode = iota

	// PerStep brains are updated after every recorded transition and
	// learn from the most recent transition only
	PerStep

	// PerEpisode brains are updated once, after the episode ends,
	// from the whole trajectory
	PerEpisode
)

func (u UpdateMode) String() string {
	switch u {
	case PerStep:
		return "PerStep"
	case PerEpisode:
		return "PerEpisode"
	default:
		return "NoUpdate"
	}
}

// Trajectory is a read-only view of the transitions of one episode
type Trajectory interface {
	Len() int
	At(i int) timestep.Transition
}

// Brain owns an estimator and the algorithm that updates it. The
// estimator lives for the whole run and is only ever mutated inside
// Update.
type Brain interface {
	agent.Estimator

	// Mode returns when the Brain should be updated
	Mode() UpdateMode

	// Outputs returns how estimates should be interpreted by a policy
	Outputs() agent.OutputKind

	// Update refines the estimator from a trajectory of env
	Update(t Trajectory, env environment.Environment) error

	// Save and Load persist the estimator's parameters
	Save(path string) error
	Load(path string) error
}

// frozen wraps a Brain so that it is never updated
type frozen struct {
	Brain
}

// Freeze returns a Brain that estimates like b but is never updated
func Freeze(b Brain) Brain {
	return frozen{b}
}

// Mode returns NoUpdate
func (frozen) Mode() UpdateMode {
	return NoUpdate
}

// Update does nothing
func (frozen) Update(Trajectory, environment.Environment) error {
	return nil
}

// Last returns the final transition of t
func Last(t Trajectory) (timestep.Transition, error) {
	if t.Len() == 0 {
		return timestep.Transition{}, fmt.Errorf("last: empty trajectory")
	}
	return t.At(t.Len() - 1), nil
}
