// Package crf implements a first-order linear-chain conditional random field
// tagger: Viterbi decoding, averaged-perceptron training and a SQLite model
// file format.
package crf

import (
	"fmt"
	"math"
	"time"

	"github.com/cognicore/resparse/pkg/resparse/internalerr"
)

// Attribute is one observed feature of a token with its numeric value.
// Boolean and string features carry value 1.
type Attribute struct {
	Name  string
	Value float64
}

// Model holds the weights of a linear-chain tagger. A loaded model is
// read-only and safe for concurrent Tag calls.
type Model struct {
	ID        string
	Section   string
	CreatedAt time.Time

	Labels []string
	// Start[y] scores label y at the first position.
	Start []float64
	// Transitions[from][to] scores consecutive label pairs.
	Transitions [][]float64
	// State maps an attribute name to one weight per label.
	State map[string][]float64
}

// NewModel returns a zero-weight model over labels.
func NewModel(section string, labels []string) *Model {
	m := &Model{
		Section: section,
		Labels:  append([]string(nil), labels...),
		Start:   make([]float64, len(labels)),
		State:   make(map[string][]float64),
	}
	m.Transitions = make([][]float64, len(labels))
	for i := range m.Transitions {
		m.Transitions[i] = make([]float64, len(labels))
	}
	return m
}

// Validate checks internal consistency.
func (m *Model) Validate() error {
	n := len(m.Labels)
	if n == 0 {
		return fmt.Errorf("%w: no labels", internalerr.ErrInvalidModel)
	}
	seen := make(map[string]bool, n)
	for _, l := range m.Labels {
		if l == "" || seen[l] {
			return fmt.Errorf("%w: empty or duplicate label %q", internalerr.ErrInvalidModel, l)
		}
		seen[l] = true
	}
	if len(m.Start) != n || len(m.Transitions) != n {
		return fmt.Errorf("%w: weight tables do not match %d labels", internalerr.ErrInvalidModel, n)
	}
	for _, row := range m.Transitions {
		if len(row) != n {
			return fmt.Errorf("%w: ragged transition table", internalerr.ErrInvalidModel)
		}
	}
	for name, w := range m.State {
		if len(w) != n {
			return fmt.Errorf("%w: attribute %q has %d weights for %d labels", internalerr.ErrInvalidModel, name, len(w), n)
		}
	}
	return nil
}

// LabelIndex returns the position of label in Labels, or -1.
func (m *Model) LabelIndex(label string) int {
	for i, l := range m.Labels {
		if l == label {
			return i
		}
	}
	return -1
}

// emissions scores every label at every position. Unknown attributes are
// ignored.
func (m *Model) emissions(seq [][]Attribute) [][]float64 {
	out := make([][]float64, len(seq))
	for t, attrs := range seq {
		row := make([]float64, len(m.Labels))
		for _, a := range attrs {
			w, ok := m.State[a.Name]
			if !ok {
				continue
			}
			for y := range row {
				row[y] += w[y] * a.Value
			}
		}
		out[t] = row
	}
	return out
}

// Viterbi returns the highest-scoring label index path. Ties resolve to the
// lower label index.
func (m *Model) Viterbi(seq [][]Attribute) []int {
	n, L := len(seq), len(m.Labels)
	if n == 0 || L == 0 {
		return nil
	}
	emit := m.emissions(seq)

	score := make([][]float64, n)
	back := make([][]int, n)
	score[0] = make([]float64, L)
	for y := 0; y < L; y++ {
		score[0][y] = m.Start[y] + emit[0][y]
	}
	for t := 1; t < n; t++ {
		score[t] = make([]float64, L)
		back[t] = make([]int, L)
		for y := 0; y < L; y++ {
			best, arg := math.Inf(-1), 0
			for prev := 0; prev < L; prev++ {
				s := score[t-1][prev] + m.Transitions[prev][y]
				if s > best {
					best, arg = s, prev
				}
			}
			score[t][y] = best + emit[t][y]
			back[t][y] = arg
		}
	}

	path := make([]int, n)
	best := math.Inf(-1)
	for y := 0; y < L; y++ {
		if score[n-1][y] > best {
			best, path[n-1] = score[n-1][y], y
		}
	}
	for t := n - 1; t > 0; t-- {
		path[t-1] = back[t][path[t]]
	}
	return path
}

// Tag decodes seq into label names.
func (m *Model) Tag(seq [][]Attribute) []string {
	path := m.Viterbi(seq)
	out := make([]string, len(path))
	for i, y := range path {
		out[i] = m.Labels[y]
	}
	return out
}

// Score returns the unnormalized score of a label index path.
func (m *Model) Score(seq [][]Attribute, path []int) float64 {
	if len(path) == 0 {
		return 0
	}
	emit := m.emissions(seq)
	s := m.Start[path[0]] + emit[0][path[0]]
	for t := 1; t < len(path); t++ {
		s += m.Transitions[path[t-1]][path[t]] + emit[t][path[t]]
	}
	return s
}
