package template

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/cognicore/resparse/pkg/resparse/fields"
	"github.com/cognicore/resparse/pkg/resparse/internalerr"
	"github.com/cognicore/resparse/pkg/resparse/labels"
)

// DefaultMaxAttempts bounds how often an empty expansion is retried.
const DefaultMaxAttempts = 10

// Factory returns a template string. Factories draw any variation they need
// from r so a seeded generator is reproducible end to end.
type Factory func(r *rand.Rand) string

// Static wraps a fixed template string as a Factory.
func Static(text string) Factory {
	return func(*rand.Rand) string { return text }
}

// Generator produces labeled sequences for one section by picking a factory
// uniformly at random and expanding the template it returns.
type Generator struct {
	Section     labels.Section
	Factories   []Factory
	Registry    *fields.Registry
	Fixed       []string
	MaxAttempts int

	mu    sync.Mutex
	cache map[string]*Template
}

// NewGenerator builds a generator. With no factories the section's defaults
// are used; with a nil registry, fields.Default(nil).
func NewGenerator(section labels.Section, reg *fields.Registry, factories ...Factory) (*Generator, error) {
	if _, err := labels.ParseSection(string(section)); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidTemplate, err)
	}
	if reg == nil {
		reg = fields.Default(nil)
	}
	if len(factories) == 0 {
		factories = DefaultFactories(section)
	}
	return &Generator{
		Section:     section,
		Factories:   factories,
		Registry:    reg,
		Fixed:       DefaultFixed(),
		MaxAttempts: DefaultMaxAttempts,
	}, nil
}

// Compile returns the compiled form of text, compiling it at most once.
func (g *Generator) Compile(text string) (*Template, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if t, ok := g.cache[text]; ok {
		return t, nil
	}
	t, err := Compile(text, g.Section, g.Registry, g.Fixed...)
	if err != nil {
		return nil, err
	}
	if g.cache == nil {
		g.cache = make(map[string]*Template)
	}
	g.cache[text] = t
	return t, nil
}

// Next generates a single sequence.
func (g *Generator) Next(r *rand.Rand) (labels.Sequence, error) {
	if len(g.Factories) == 0 {
		return nil, fmt.Errorf("%w: no template factories for %s", internalerr.ErrInvalidTemplate, g.Section)
	}
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		factory := g.Factories[r.IntN(len(g.Factories))]
		t, err := g.Compile(factory(r))
		if err != nil {
			return nil, err
		}
		seq, err := t.Expand(r)
		if errors.Is(err, internalerr.ErrEmptyExpansion) {
			lastErr = err
			continue
		}
		return seq, err
	}
	return nil, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// Generate produces n sequences.
func (g *Generator) Generate(r *rand.Rand, n int) ([]labels.Sequence, error) {
	out := make([]labels.Sequence, 0, n)
	for i := 0; i < n; i++ {
		seq, err := g.Next(r)
		if err != nil {
			return out, err
		}
		out = append(out, seq)
	}
	return out, nil
}
