package fields

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/resparse/pkg/resparse/internalerr"
	"github.com/cognicore/resparse/pkg/resparse/labels"
)

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	reg.Register("name", labels.Name, Const("Burton DeWilde"))

	f, err := reg.Lookup("name")
	require.NoError(t, err)
	assert.Equal(t, labels.Name, f.Label)
	assert.Equal(t, "Burton DeWilde", f.Producer.Produce(NewRand(1)))

	_, err = reg.Lookup("nickname")
	assert.ErrorIs(t, err, internalerr.ErrUnknownField)
}

func TestRegistryRejectsBadRegistrations(t *testing.T) {
	reg := NewRegistry()
	reg.Register("name", labels.Name, Const("x"))

	assert.Panics(t, func() { reg.Register("name", labels.Name, Const("y")) })
	assert.Panics(t, func() { reg.Register("", labels.Name, Const("y")) })
	assert.Panics(t, func() { reg.Register("a:b", labels.Name, Const("y")) })
	assert.Panics(t, func() { reg.Register("nil", labels.Name, nil) })
	assert.Panics(t, func() { Choice() })
}

func TestSameSeedSameValues(t *testing.T) {
	reg := Default(nil)

	produce := func(seed uint64) []string {
		r := NewRand(seed)
		var out []string
		for _, key := range reg.Keys() {
			v, err := reg.Produce(r, key)
			require.NoError(t, err)
			out = append(out, v)
		}
		return out
	}

	assert.Equal(t, produce(42), produce(42))
	assert.NotEqual(t, produce(42), produce(43))
}

func TestTemplatedWeights(t *testing.T) {
	reg := NewRegistry()
	reg.Register("a", labels.Other, Const("A"))
	reg.Register("b", labels.Other, Const("B"))
	reg.Register("ab", labels.Other, Templated(reg,
		Weighted{"{a}-{b}", 1},
		Weighted{"never {a}", 0},
	))

	r := NewRand(7)
	for i := 0; i < 50; i++ {
		v, err := reg.Produce(r, "ab")
		require.NoError(t, err)
		assert.Equal(t, "A-B", v)
	}
}

func TestDateApproxSurfaceForms(t *testing.T) {
	reg := Default(nil)
	form := regexp.MustCompile(`^(?:(?:[A-Z][a-z]{2}\.?|[A-Z][a-z]+|\d{1,2}/)\s?)?\d{4}$`)

	r := NewRand(3)
	seen := make(map[string]bool)
	for i := 0; i < 300; i++ {
		v, err := reg.Produce(r, "date_approx")
		require.NoError(t, err)
		assert.Regexp(t, form, v)
		switch {
		case strings.Contains(v, "/"):
			seen["numeric"] = true
		case !strings.Contains(v, " "):
			seen["year"] = true
		default:
			seen["named"] = true
		}
	}
	assert.Len(t, seen, 3, "all surface families should appear")
}

func TestDefaultValueShapes(t *testing.T) {
	reg := Default(nil)
	r := rand.New(rand.NewPCG(11, 12))

	for i := 0; i < 100; i++ {
		email, err := reg.Produce(r, "email")
		require.NoError(t, err)
		assert.Regexp(t, `^[a-z0-9._]+@[a-z.]+$`, email)

		phone, err := reg.Produce(r, "phone")
		require.NoError(t, err)
		assert.Regexp(t, `\d{4}$`, phone)

		zip, err := reg.Produce(r, "zip")
		require.NoError(t, err)
		assert.Regexp(t, `^\d{5}$`, zip)

		label, err := reg.Produce(r, "field_label")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(label, ":"))
	}
}

func TestDefaultLabels(t *testing.T) {
	reg := Default(nil)

	want := map[string]labels.Label{
		"name":        labels.Name,
		"label":       labels.Headline,
		"company":     labels.Company,
		"dt":          labels.StartDate,
		"institution": labels.Institution,
		"keyword":     labels.Keyword,
		"fsep":        labels.FieldSep,
		"isep":        labels.ItemSep,
		"bullet":      labels.Bullet,
	}
	for key, label := range want {
		f, err := reg.Lookup(key)
		require.NoError(t, err, key)
		assert.Equal(t, label, f.Label, key)
	}
}
