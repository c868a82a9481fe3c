package experiment

import (
	"fmt"

	"github.com/gosuri/uilive"
)

// Progress displays the progress of a run
type Progress interface {
	Start()
	Update(r Result, total int)
	Stop()
}

type nopProgress struct{}

func (nopProgress) Start()             {}
func (nopProgress) Update(Result, int) {}
func (nopProgress) Stop()              {}

// Live is a Progress that redraws a single status line in the terminal
type Live struct {
	writer   *uilive.Writer
	episodes int
	total    float64
}

// NewLive returns a new Live progress display writing to stdout
func NewLive() *Live {
	return &Live{writer: uilive.New()}
}

// Start starts redrawing the status line
func (l *Live) Start() {
	l.writer.Start()
}

// Update replaces the status line with the result of an episode and
// the mean return of every episode so far
func (l *Live) Update(r Result, total int) {
	l.episodes++
	l.total += r.Return
	fmt.Fprintf(l.writer, "episode %d/%d [%s]  steps: %d  return: %.2f  "+
		"mean return: %.2f  ε: %.3f\n", r.Episode+1, total, r.Mode(),
		r.Steps, r.Return, l.total/float64(l.episodes), r.Epsilon)
}

// Stop flushes and stops redrawing the status line
func (l *Live) Stop() {
	l.writer.Stop()
}
