package augment

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/cognicore/resparse/pkg/resparse/internalerr"
	"github.com/cognicore/resparse/pkg/resparse/labels"
)

// Transform rewrites a labeled sequence. Implementations must not modify
// their input and must preserve the relative order of surviving tokens.
type Transform interface {
	Apply(r *rand.Rand, seq labels.Sequence) labels.Sequence
}

// validator is implemented by transforms with parameters to check.
type validator interface {
	validate() error
}

type policyKind int

const (
	policyCount policyKind = iota
	policyProb
	policyProbs
)

// Policy decides which transforms run for one sequence.
type Policy struct {
	kind policyKind
	k    int
	p    float64
	ps   []float64
}

// Count selects exactly k transforms without replacement.
func Count(k int) Policy { return Policy{kind: policyCount, k: k} }

// Prob includes each transform independently with probability p.
func Prob(p float64) Policy { return Policy{kind: policyProb, p: p} }

// Probs gives each transform its own keep probability.
func Probs(ps ...float64) Policy {
	return Policy{kind: policyProbs, ps: append([]float64(nil), ps...)}
}

func (p Policy) String() string {
	switch p.kind {
	case policyCount:
		return fmt.Sprintf("count(%d)", p.k)
	case policyProb:
		return fmt.Sprintf("prob(%g)", p.p)
	}
	return fmt.Sprintf("probs(%v)", p.ps)
}

// Augmenter applies a policy-selected subset of its transforms, always in
// registration order.
type Augmenter struct {
	transforms []Transform
	policy     Policy
}

// New validates the policy against the transform list.
func New(policy Policy, transforms ...Transform) (*Augmenter, error) {
	n := len(transforms)
	switch policy.kind {
	case policyCount:
		if policy.k < 0 || policy.k > n {
			return nil, fmt.Errorf("%w: %s with %d transforms", internalerr.ErrInvalidAugmenterConfig, policy, n)
		}
	case policyProb:
		if !validProb(policy.p) {
			return nil, fmt.Errorf("%w: %s", internalerr.ErrInvalidAugmenterConfig, policy)
		}
	case policyProbs:
		if len(policy.ps) != n {
			return nil, fmt.Errorf("%w: %d probabilities for %d transforms", internalerr.ErrInvalidAugmenterConfig, len(policy.ps), n)
		}
		for _, p := range policy.ps {
			if !validProb(p) {
				return nil, fmt.Errorf("%w: %s", internalerr.ErrInvalidAugmenterConfig, policy)
			}
		}
	}
	for i, t := range transforms {
		if t == nil {
			return nil, fmt.Errorf("%w: transform %d is nil", internalerr.ErrInvalidAugmenterConfig, i)
		}
		if v, ok := t.(validator); ok {
			if err := v.validate(); err != nil {
				return nil, fmt.Errorf("%w: transform %d: %v", internalerr.ErrInvalidAugmenterConfig, i, err)
			}
		}
	}
	return &Augmenter{transforms: transforms, policy: policy}, nil
}

func validProb(p float64) bool { return p >= 0 && p <= 1 }

// Select returns the indices of the transforms to run, ascending.
func (a *Augmenter) Select(r *rand.Rand) []int {
	var picked []int
	switch a.policy.kind {
	case policyCount:
		picked = r.Perm(len(a.transforms))[:a.policy.k]
		sort.Ints(picked)
	case policyProb:
		for i := range a.transforms {
			if r.Float64() < a.policy.p {
				picked = append(picked, i)
			}
		}
	case policyProbs:
		for i, p := range a.policy.ps {
			if r.Float64() < p {
				picked = append(picked, i)
			}
		}
	}
	return picked
}

// Apply runs the selected transforms over a copy of seq.
func (a *Augmenter) Apply(r *rand.Rand, seq labels.Sequence) labels.Sequence {
	out := append(labels.Sequence(nil), seq...)
	for _, i := range a.Select(r) {
		out = a.transforms[i].Apply(r, out)
	}
	return out
}
