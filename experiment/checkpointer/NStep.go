package checkpointer

import "fmt"

// nStep implements checkpointing every N episodes
type nStep struct {
	interval int
	object   Saver // Object to save

	// filename returns the string filename of the file to save the object
	// in.
	//
	// If each checkpoint should be saved in a separate file with each
	// file having an incremented number as a suffix (e.g. brain1.gob,
	// brain2.gob, ..., brainK.gob), use Numbered. To
	// overwrite a single file, use Fixed.
	filename func() string
}

// NewNStep returns a checkpointer that checkpoints every n episodes.
func NewNStep(n int, object Saver, filename func() string) (Checkpointer,
	error) {
	if n <= 0 {
		return nil, fmt.Errorf("newNStep: interval must be positive, got %v",
			n)
	}
	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint checkpoints the Checkpointer's tracked object by calling
// its Save() method after every interval episodes
func (n *nStep) Checkpoint(episode int) error {
	if (episode+1)%n.interval == 0 {
		return n.object.Save(n.filename())
	}
	return nil
}
