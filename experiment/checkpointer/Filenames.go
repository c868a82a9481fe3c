package checkpointer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Numbered returns a filename function for keeping every checkpoint of
// path. The n'th call returns path with n inserted before its
// extension, so brain.gob becomes brain1.gob, brain2.gob and so on.
func Numbered(path string) func() string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d%s", stem, n, ext)
	}
}

// Fixed returns a filename function that overwrites path on every
// checkpoint
func Fixed(path string) func() string {
	return func() string {
		return path
	}
}
