// Package table implements a tabular action-value estimator keyed by
// environment state
package table

import (
	"encoding/gob"
	"fmt"
	"os"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/gridrl/environment"
)

// Table maps states to one value per action. States that have never
// been written read as the default value.
type Table struct {
	values  map[environment.State][]float64
	actions int
	def     float64
}

// New returns a new Table with the given number of actions per state
func New(actions int, def float64) *Table {
	if actions <= 0 {
		panic(fmt.Sprintf("new: actions must be positive, got %v", actions))
	}
	return &Table{
		values:  make(map[environment.State][]float64),
		actions: actions,
		def:     def,
	}
}

// Actions returns the number of actions per state
func (t *Table) Actions() int {
	return t.actions
}

// Default returns the value of entries that have never been written
func (t *Table) Default() float64 {
	return t.def
}

// At returns the value of action index a in state s
func (t *Table) At(s environment.State, a int) float64 {
	t.check(a)
	row, ok := t.values[s]
	if !ok {
		return t.def
	}
	return row[a]
}

// Row returns a copy of the values of every action in state s
func (t *Table) Row(s environment.State) []float64 {
	row := make([]float64, t.actions)
	if stored, ok := t.values[s]; ok {
		copy(row, stored)
	} else {
		for i := range row {
			row[i] = t.def
		}
	}
	return row
}

// Set sets the value of action index a in state s
func (t *Table) Set(s environment.State, a int, v float64) {
	t.check(a)
	t.row(s)[a] = v
}

// Add adds delta to the value of action index a in state s
func (t *Table) Add(s environment.State, a int, delta float64) {
	t.check(a)
	t.row(s)[a] += delta
}

// Max returns the largest action value in state s
func (t *Table) Max(s environment.State) float64 {
	row, ok := t.values[s]
	if !ok {
		return t.def
	}
	return floats.Max(row)
}

// Len returns the number of states that have been written
func (t *Table) Len() int {
	return len(t.values)
}

// States returns the written states in row-major order
func (t *Table) States() []environment.State {
	states := make([]environment.State, 0, len(t.values))
	for s := range t.values {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool {
		if states[i].Row != states[j].Row {
			return states[i].Row < states[j].Row
		}
		return states[i].Col < states[j].Col
	})
	return states
}

func (t *Table) row(s environment.State) []float64 {
	row, ok := t.values[s]
	if !ok {
		row = make([]float64, t.actions)
		for i := range row {
			row[i] = t.def
		}
		t.values[s] = row
	}
	return row
}

func (t *Table) check(a int) {
	if a < 0 || a >= t.actions {
		panic(fmt.Sprintf("table: action index %v out of range [0, %v)",
			a, t.actions))
	}
}

// entry is the serialized form of a single table row
type entry struct {
	State  environment.State
	Values []float64
}

type table struct {
	Actions int
	Default float64
	Entries []entry
}

// GobEncode implements the gob.GobEncoder interface
func (t *Table) GobEncode() ([]byte, error) {
	enc := table{Actions: t.actions, Default: t.def}
	for _, s := range t.States() {
		enc.Entries = append(enc.Entries, entry{s, t.values[s]})
	}
	return encode(enc)
}

// GobDecode implements the gob.GobDecoder interface
func (t *Table) GobDecode(in []byte) error {
	var dec table
	if err := decode(in, &dec); err != nil {
		return err
	}
	if dec.Actions <= 0 {
		return fmt.Errorf("gobDecode: invalid number of actions %v",
			dec.Actions)
	}

	t.actions = dec.Actions
	t.def = dec.Default
	t.values = make(map[environment.State][]float64, len(dec.Entries))
	for _, e := range dec.Entries {
		if len(e.Values) != t.actions {
			return fmt.Errorf("gobDecode: state %v has %v values, expected "+
				"%v", e.State, len(e.Values), t.actions)
		}
		t.values[e.State] = e.Values
	}
	return nil
}

// Save gob encodes the tables to the file at path, in order
func Save(path string, tables ...*Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save: could not create file: %v", err)
	}
	defer file.Close()

	enc := gob.NewEncoder(file)
	for _, t := range tables {
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("save: could not encode table: %v", err)
		}
	}
	return nil
}

// Load decodes tables from the file at path in the order they were
// saved
func Load(path string, tables ...*Table) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load: could not open file: %v", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	for _, t := range tables {
		if err := dec.Decode(t); err != nil {
			return fmt.Errorf("load: could not decode table: %v", err)
		}
	}
	return nil
}
