package augment

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/resparse/pkg/resparse/internalerr"
	"github.com/cognicore/resparse/pkg/resparse/labels"
	"github.com/cognicore/resparse/pkg/resparse/tokenize"
)

func newRand() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func sample() labels.Sequence {
	return labels.Sequence{
		{Text: "Burton", Label: labels.Name},
		{Text: "DeWilde", Label: labels.Name},
		{Text: "|", Label: labels.FieldSep},
		{Text: "Email", Label: labels.FieldLabel},
		{Text: ":", Label: labels.FieldLabel},
		{Text: "burton@example.com", Label: labels.Email},
	}
}

func TestChangeCaseTargetsOnly(t *testing.T) {
	seq := sample()

	upper := ChangeCase(Upper, labels.Name).Apply(newRand(), seq)
	assert.Equal(t, []string{"BURTON", "DEWILDE", "|", "Email", ":", "burton@example.com"}, upper.Texts())
	assert.Equal(t, seq.Labels(), upper.Labels())

	lower := ChangeCase(Lower, labels.FieldLabel).Apply(newRand(), seq)
	assert.Equal(t, "email", lower[3].Text)
	assert.Equal(t, "DeWilde", lower[1].Text)

	title := ChangeCase(Title, labels.Name).Apply(newRand(), seq)
	assert.Equal(t, []string{"Burton", "Dewilde"}, title[:2].Texts())

	assert.Equal(t, "DeWilde", seq[1].Text, "input must not be modified")
}

func TestDeleteToken(t *testing.T) {
	seq := sample()

	out := DeleteToken(1, labels.FieldLabel).Apply(newRand(), seq)
	assert.Equal(t, []string{"Burton", "DeWilde", "|", "burton@example.com"}, out.Texts())

	out = DeleteToken(0, labels.FieldLabel).Apply(newRand(), seq)
	assert.Equal(t, seq, out)

	out = DeleteToken(1).Apply(newRand(), seq)
	assert.Equal(t, seq, out, "a sequence is never emptied")
}

func TestInsertWhitespace(t *testing.T) {
	seq := labels.Sequence{
		{Text: "Burton", Label: labels.Name},
		{Text: "DeWilde", Label: labels.Name},
		{Text: "burton@example.com", Label: labels.Email},
	}

	out := InsertWhitespace(1).Apply(newRand(), seq)
	require.Len(t, out, 5)
	assert.Equal(t, labels.FieldSep, out[1].Label, "same-label neighbours")
	assert.Equal(t, labels.ItemSep, out[3].Label, "different-label neighbours")
	for _, i := range []int{1, 3} {
		assert.Empty(t, strings.TrimSpace(out[i].Text))
		assert.GreaterOrEqual(t, len(out[i].Text), minInsertedSpaces-1)
		assert.LessOrEqual(t, len(out[i].Text), maxInsertedSpaces-1)
	}

	// no insertion next to an existing whitespace token
	spaced := labels.Sequence{
		{Text: "a", Label: labels.Name},
		{Text: "\n", Label: labels.FieldSep},
		{Text: "b", Label: labels.Name},
	}
	assert.Equal(t, spaced, InsertWhitespace(1).Apply(newRand(), spaced))
}

func TestInsertWhitespaceMatchesTokenizer(t *testing.T) {
	tok := tokenize.NewTokenizer(nil)
	seq := labels.Sequence{
		{Text: "Python", Label: labels.Name},
		{Text: "Expert", Label: labels.Level},
	}
	r := newRand()
	for i := 0; i < 50; i++ {
		out := InsertWhitespace(1).Apply(r, seq)
		require.Len(t, out, 3)

		// the surface line gets back the space absorbed by "Python"
		line := out[0].Text + " " + out[1].Text + out[2].Text
		got := tok.Tokenize(line)
		require.Len(t, got, 3, "line %q", line)
		assert.Equal(t, out.Texts(), []string{got[0].Text, got[1].Text, got[2].Text})
		assert.True(t, got[0].Space)
	}
}

func TestChangeCaseIdempotent(t *testing.T) {
	for _, mode := range []CaseMode{Upper, Title, Lower} {
		t.Run(mode.String(), func(t *testing.T) {
			seq := sample()
			tr := ChangeCase(mode, labels.Name)

			once := tr.Apply(newRand(), seq)
			twice := tr.Apply(newRand(), once)
			assert.Equal(t, once, twice)
			for i, lt := range twice {
				if lt.Label != labels.Name {
					assert.Equal(t, seq[i], lt, "untargeted token %d", i)
				}
			}
		})
	}
}

func TestAugmenterConfigValidation(t *testing.T) {
	two := []Transform{ChangeCase(Upper), InsertWhitespace(0.5)}

	bad := []struct {
		name       string
		policy     Policy
		transforms []Transform
	}{
		{"negative count", Count(-1), two},
		{"count too large", Count(3), two},
		{"prob above one", Prob(1.5), two},
		{"prob below zero", Prob(-0.1), two},
		{"probs length mismatch", Probs(0.5), two},
		{"probs out of range", Probs(0.5, 2), two},
		{"bad transform parameter", Count(1), []Transform{DeleteToken(1.2)}},
		{"bad case mode", Count(1), []Transform{ChangeCase(CaseMode(9))}},
		{"nil transform", Count(0), []Transform{nil}},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.policy, tt.transforms...)
			assert.ErrorIs(t, err, internalerr.ErrInvalidAugmenterConfig)
		})
	}

	_, err := New(Count(2), two...)
	assert.NoError(t, err)
	_, err = New(Probs(0, 1), two...)
	assert.NoError(t, err)
}

// recorder notes the order transforms run in.
type recorder struct {
	name string
	log  *[]string
}

func (rec recorder) Apply(_ *rand.Rand, seq labels.Sequence) labels.Sequence {
	*rec.log = append(*rec.log, rec.name)
	return seq
}

func TestAugmenterSelection(t *testing.T) {
	var log []string
	transforms := []Transform{
		recorder{"a", &log}, recorder{"b", &log}, recorder{"c", &log}, recorder{"d", &log},
	}

	aug, err := New(Count(2), transforms...)
	require.NoError(t, err)
	r := newRand()
	for i := 0; i < 50; i++ {
		log = nil
		aug.Apply(r, sample())
		require.Len(t, log, 2)
		assert.Less(t, log[0], log[1], "transforms run in registration order")
	}

	aug, err = New(Probs(1, 0, 1, 0), transforms...)
	require.NoError(t, err)
	log = nil
	aug.Apply(r, sample())
	assert.Equal(t, []string{"a", "c"}, log)

	aug, err = New(Prob(0), transforms...)
	require.NoError(t, err)
	log = nil
	aug.Apply(r, sample())
	assert.Empty(t, log)
}

func TestDisjointTransformsCommute(t *testing.T) {
	seq := sample()
	upperNames := ChangeCase(Upper, labels.Name)
	dropLabels := DeleteToken(1, labels.FieldLabel)

	ab := dropLabels.Apply(newRand(), upperNames.Apply(newRand(), seq))
	ba := upperNames.Apply(newRand(), dropLabels.Apply(newRand(), seq))
	assert.Equal(t, ab, ba)
}

func TestDefaultAugmenters(t *testing.T) {
	r := newRand()
	for _, section := range labels.Sections {
		aug := Default(section)
		for i := 0; i < 20; i++ {
			out := aug.Apply(r, sample())
			assert.NotEmpty(t, out)
		}
	}
}

func TestParseCaseMode(t *testing.T) {
	m, err := ParseCaseMode("Title")
	require.NoError(t, err)
	assert.Equal(t, Title, m)

	_, err = ParseCaseMode("sponge")
	assert.Error(t, err)
}
