// Package checkpointer implements saving of learned parameters at
// episode boundaries
package checkpointer

// Saver is an object whose state can be saved to a file
type Saver interface {
	Save(path string) error
}

// Checkpointer checkpoints objects at the end of episodes
type Checkpointer interface {
	// Checkpoint is called after the update of episode, counting from 0
	Checkpoint(episode int) error
}
