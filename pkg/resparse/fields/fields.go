package fields

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/cognicore/resparse/pkg/resparse/internalerr"
	"github.com/cognicore/resparse/pkg/resparse/labels"
)

// Producer generates one realistic value for a résumé field.
type Producer interface {
	Produce(r *rand.Rand) string
}

// ProducerFunc adapts a function to the Producer interface.
type ProducerFunc func(r *rand.Rand) string

// Produce implements Producer.
func (f ProducerFunc) Produce(r *rand.Rand) string { return f(r) }

// Field is a registered value producer together with the default label
// attached to every token of its values.
type Field struct {
	Key      string
	Label    labels.Label
	Producer Producer
}

// Registry maps field keys to fields. It is populated at construction and
// read-only afterwards.
type Registry struct {
	fields map[string]Field
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fields: make(map[string]Field)}
}

// Register adds a field. Registering a key twice, an empty key, or a nil
// producer is a programmer error and panics.
func (reg *Registry) Register(key string, label labels.Label, p Producer) {
	switch {
	case key == "" || strings.ContainsAny(key, "{}:|"):
		panic(fmt.Sprintf("fields: invalid key %q", key))
	case p == nil:
		panic(fmt.Sprintf("fields: nil producer for %q", key))
	}
	if _, dup := reg.fields[key]; dup {
		panic(fmt.Sprintf("fields: duplicate key %q", key))
	}
	reg.fields[key] = Field{Key: key, Label: label, Producer: p}
}

// Lookup returns the field registered under key.
func (reg *Registry) Lookup(key string) (Field, error) {
	f, ok := reg.fields[key]
	if !ok {
		return Field{}, fmt.Errorf("%w: %q", internalerr.ErrUnknownField, key)
	}
	return f, nil
}

// Produce generates a value for key.
func (reg *Registry) Produce(r *rand.Rand, key string) (string, error) {
	f, err := reg.Lookup(key)
	if err != nil {
		return "", err
	}
	return f.Producer.Produce(r), nil
}

// Keys returns all registered keys, sorted.
func (reg *Registry) Keys() []string {
	keys := make([]string, 0, len(reg.fields))
	for k := range reg.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewRand returns a PCG-backed source; one seed always yields the same stream.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Choice picks uniformly from values. It panics on an empty pool.
func Choice(values ...string) Producer {
	if len(values) == 0 {
		panic("fields: empty choice pool")
	}
	return ProducerFunc(func(r *rand.Rand) string {
		return values[r.IntN(len(values))]
	})
}

// Const always yields value.
func Const(value string) Producer {
	return ProducerFunc(func(*rand.Rand) string { return value })
}

// Weighted is one surface template of a templated producer and its relative
// frequency.
type Weighted struct {
	Template string
	Weight   float64
}

// templated fills a weighted surface template from sub-producers in the
// same registry.
type templated struct {
	reg     *Registry
	choices []Weighted
	total   float64
}

// Templated returns a producer that picks one of choices by weight and
// fills its {key} slots from reg. Keys are resolved at produce time, so
// sub-fields may be registered after the templated field.
func Templated(reg *Registry, choices ...Weighted) Producer {
	t := &templated{reg: reg, choices: choices}
	for _, c := range choices {
		if c.Weight < 0 {
			panic(fmt.Sprintf("fields: negative weight for %q", c.Template))
		}
		t.total += c.Weight
	}
	if t.total == 0 {
		panic("fields: templated producer needs a positive total weight")
	}
	return t
}

func (t *templated) Produce(r *rand.Rand) string {
	x := r.Float64() * t.total
	chosen := t.choices[len(t.choices)-1].Template
	for _, c := range t.choices {
		if x < c.Weight {
			chosen = c.Template
			break
		}
		x -= c.Weight
	}
	return fill(r, t.reg, chosen)
}

// fill substitutes every {key} in tmpl. An unknown key is a programmer error.
func fill(r *rand.Rand, reg *Registry, tmpl string) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		end := strings.IndexByte(tmpl[open:], '}')
		if end < 0 {
			panic(fmt.Sprintf("fields: unterminated slot in %q", tmpl))
		}
		b.WriteString(tmpl[:open])
		value, err := reg.Produce(r, tmpl[open+1:open+end])
		if err != nil {
			panic(err.Error())
		}
		b.WriteString(value)
		tmpl = tmpl[open+end+1:]
	}
}
