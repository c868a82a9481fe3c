package environment

import "fmt"

// Action is a single move on the grid
type Action int

const (
	Left Action = iota
	Right
	Up
	Down
	Stay
)

// String implements the fmt.Stringer interface
func (a Action) String() string {
	switch a {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Stay:
		return "Stay"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Delta returns the change in (row, col) caused by the Action. Up
// moves toward row 0.
func (a Action) Delta() (dr, dc int) {
	switch a {
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Stay:
		return 0, 0
	}
	panic(fmt.Sprintf("delta: unknown action %d", int(a)))
}

// Actions is the ordered action enumeration shared by an Environment,
// the policy selecting from it and the brain learning about it. The
// position of an Action in the list is its index in every value and
// probability vector.
type Actions []Action

// Cardinal returns the four cardinal moves in the order Left, Right,
// Up, Down
func Cardinal() Actions {
	return Actions{Left, Right, Up, Down}
}

// CardinalWithStay returns the four cardinal moves followed by Stay
func CardinalWithStay() Actions {
	return Actions{Left, Right, Up, Down, Stay}
}

// Len returns the number of actions
func (a Actions) Len() int {
	return len(a)
}

// At returns the Action at index i
func (a Actions) At(i int) Action {
	return a[i]
}

// Index returns the index of action in the enumeration
func (a Actions) Index(action Action) (int, bool) {
	for i := range a {
		if a[i] == action {
			return i, true
		}
	}
	return -1, false
}

// MustIndex is like Index but panics if action is not enumerated
func (a Actions) MustIndex(action Action) int {
	i, ok := a.Index(action)
	if !ok {
		panic(fmt.Sprintf("mustindex: action %v not in %v", action, a))
	}
	return i
}

// OneHot returns the one-hot encoding of action over the enumeration
func (a Actions) OneHot(action Action) []float64 {
	vec := make([]float64, len(a))
	vec[a.MustIndex(action)] = 1.0
	return vec
}

// Validate returns an error if the enumeration is empty, contains an
// unknown Action or lists an Action twice
func (a Actions) Validate() error {
	if len(a) == 0 {
		return fmt.Errorf("validate: no actions")
	}
	seen := make(map[Action]bool, len(a))
	for _, action := range a {
		if action < Left || action > Stay {
			return fmt.Errorf("validate: unknown action %d", int(action))
		}
		if seen[action] {
			return fmt.Errorf("validate: duplicate action %v", action)
		}
		seen[action] = true
	}
	return nil
}
