package crf

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/cognicore/resparse/pkg/resparse/internalerr"
)

// Instance is one training sequence: per-position attributes and gold labels.
type Instance struct {
	Attrs  [][]Attribute
	Labels []string
}

// TrainOptions configures Train.
type TrainOptions struct {
	Epochs int
	Seed   uint64
	Logger *zap.Logger
}

// DefaultEpochs is used when TrainOptions.Epochs is not positive.
const DefaultEpochs = 10

// weights accumulates perceptron updates with lazy averaging: after c
// updates the averaged weight is w - u/c.
type weights struct {
	w, u []float64
}

func newWeights(n int) *weights {
	return &weights{w: make([]float64, n), u: make([]float64, n)}
}

func (ws *weights) add(i int, delta, c float64) {
	ws.w[i] += delta
	ws.u[i] += c * delta
}

func (ws *weights) averaged(c float64) []float64 {
	out := make([]float64, len(ws.w))
	for i := range out {
		out[i] = ws.w[i] - ws.u[i]/c
	}
	return out
}

// Train fits a model over labels with the averaged structured perceptron.
// Every gold label must belong to labels.
func Train(section string, labels []string, data []Instance, opts TrainOptions) (*Model, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no labels", internalerr.ErrInvalidModel)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	epochs := opts.Epochs
	if epochs <= 0 {
		epochs = DefaultEpochs
	}

	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	gold := make([][]int, len(data))
	for i, inst := range data {
		if len(inst.Attrs) != len(inst.Labels) {
			return nil, fmt.Errorf("%w: instance %d has %d positions but %d labels",
				internalerr.ErrInvalidTrainingData, i, len(inst.Attrs), len(inst.Labels))
		}
		gold[i] = make([]int, len(inst.Labels))
		for t, l := range inst.Labels {
			y, ok := index[l]
			if !ok {
				return nil, fmt.Errorf("%w: instance %d: label %q outside %s alphabet",
					internalerr.ErrInvalidTrainingData, i, l, section)
			}
			gold[i][t] = y
		}
	}

	L := len(labels)
	model := NewModel(section, labels)
	start := newWeights(L)
	trans := newWeights(L * L)
	state := make(map[string]*weights)

	// the working model shares backing arrays with the raw weights
	model.Start = start.w
	for from := 0; from < L; from++ {
		model.Transitions[from] = trans.w[from*L : (from+1)*L]
	}
	for _, inst := range data {
		for _, attrs := range inst.Attrs {
			for _, a := range attrs {
				if _, ok := state[a.Name]; !ok {
					ws := newWeights(L)
					state[a.Name] = ws
					model.State[a.Name] = ws.w
				}
			}
		}
	}

	r := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5deece66d))
	order := make([]int, len(data))
	for i := range order {
		order[i] = i
	}

	c := 1.0
	for epoch := 0; epoch < epochs; epoch++ {
		r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		mistakes := 0
		for _, i := range order {
			inst, want := data[i], gold[i]
			if len(want) == 0 {
				continue
			}
			got := model.Viterbi(inst.Attrs)
			wrong := false
			for t := range want {
				if got[t] != want[t] {
					wrong = true
					break
				}
			}
			if wrong {
				mistakes++
				update(inst.Attrs, want, got, start, trans, state, L, c)
			}
			c++
		}
		logger.Debug("perceptron epoch",
			zap.String("section", section),
			zap.Int("epoch", epoch+1),
			zap.Int("mistakes", mistakes),
			zap.Int("instances", len(data)))
	}

	avg := NewModel(section, labels)
	avg.Start = start.averaged(c)
	flat := trans.averaged(c)
	for from := 0; from < L; from++ {
		avg.Transitions[from] = flat[from*L : (from+1)*L]
	}
	for name, ws := range state {
		w := ws.averaged(c)
		for _, v := range w {
			if v != 0 {
				avg.State[name] = w
				break
			}
		}
	}
	return avg, nil
}

func update(seq [][]Attribute, want, got []int, start, trans *weights, state map[string]*weights, L int, c float64) {
	start.add(want[0], 1, c)
	start.add(got[0], -1, c)
	for t := range want {
		if t > 0 {
			trans.add(want[t-1]*L+want[t], 1, c)
			trans.add(got[t-1]*L+got[t], -1, c)
		}
		if want[t] == got[t] {
			continue
		}
		for _, a := range seq[t] {
			ws := state[a.Name]
			ws.add(want[t], a.Value, c)
			ws.add(got[t], -a.Value, c)
		}
	}
}
