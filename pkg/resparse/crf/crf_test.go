package crf

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/resparse/pkg/resparse/internalerr"
)

func attrs(names ...string) []Attribute {
	out := make([]Attribute, len(names))
	for i, n := range names {
		out[i] = Attribute{Name: n, Value: 1}
	}
	return out
}

// toyModel tags digits as "num" and words as "word", and forbids two
// "sep" labels in a row.
func toyModel() *Model {
	m := NewModel("toy", []string{"word", "num", "sep"})
	m.State["is_digit"] = []float64{0, 2, 0}
	m.State["is_alpha"] = []float64{2, 0, 0}
	m.State["is_punct"] = []float64{0, 0, 2}
	m.Transitions[2][2] = -10
	return m
}

func TestViterbi(t *testing.T) {
	m := toyModel()

	seq := [][]Attribute{
		attrs("is_alpha"),
		attrs("is_punct"),
		attrs("is_digit"),
		attrs("unknown_feature"),
	}
	assert.Equal(t, []string{"word", "sep", "num", "word"}, m.Tag(seq), "ties resolve to the lowest label index")
	assert.Empty(t, m.Tag(nil))
}

func TestViterbiUsesTransitions(t *testing.T) {
	m := toyModel()

	// the second punct would be "sep" on its own, but sep->sep costs 10
	seq := [][]Attribute{attrs("is_punct"), attrs("is_punct")}
	assert.Equal(t, []string{"sep", "word"}, m.Tag(seq))
}

func TestViterbiMatchesBruteForce(t *testing.T) {
	m := toyModel()
	m.Start = []float64{0.5, -0.2, 0.1}
	m.Transitions[0][1] = 1.5
	m.Transitions[1][0] = -0.7
	seq := [][]Attribute{
		attrs("is_alpha", "is_digit"),
		{{Name: "is_digit", Value: 0.4}, {Name: "is_punct", Value: 0.3}},
		attrs("is_punct"),
	}

	best, bestScore := []int(nil), -1e18
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			for c := 0; c < 3; c++ {
				path := []int{a, b, c}
				if s := m.Score(seq, path); s > bestScore {
					best, bestScore = path, s
				}
			}
		}
	}
	assert.Equal(t, best, m.Viterbi(seq))
}

func toyData() []Instance {
	word, num, sep := attrs("is_alpha"), attrs("is_digit"), attrs("is_punct")
	return []Instance{
		{Attrs: [][]Attribute{word, sep, num}, Labels: []string{"word", "sep", "num"}},
		{Attrs: [][]Attribute{num, sep, word}, Labels: []string{"num", "sep", "word"}},
		{Attrs: [][]Attribute{word, word}, Labels: []string{"word", "word"}},
		{Attrs: [][]Attribute{num}, Labels: []string{"num"}},
	}
}

func TestTrainLearnsToyTask(t *testing.T) {
	model, err := Train("toy", []string{"word", "num", "sep"}, toyData(), TrainOptions{Epochs: 10, Seed: 1})
	require.NoError(t, err)
	require.NoError(t, model.Validate())

	for _, inst := range toyData() {
		assert.Equal(t, inst.Labels, model.Tag(inst.Attrs))
	}
}

func TestTrainRejectsBadData(t *testing.T) {
	_, err := Train("toy", []string{"word"}, []Instance{
		{Attrs: [][]Attribute{attrs("x")}, Labels: []string{"bogus"}},
	}, TrainOptions{})
	assert.ErrorIs(t, err, internalerr.ErrInvalidTrainingData)

	_, err = Train("toy", []string{"word"}, []Instance{
		{Attrs: [][]Attribute{attrs("x")}, Labels: []string{"word", "word"}},
	}, TrainOptions{})
	assert.ErrorIs(t, err, internalerr.ErrInvalidTrainingData)

	_, err = Train("toy", nil, nil, TrainOptions{})
	assert.ErrorIs(t, err, internalerr.ErrInvalidModel)
}

func TestSaveOpenRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "resume-toy-tagger.sqlite")

	m := toyModel()
	m.Start[1] = 0.25
	require.NoError(t, m.Save(ctx, path))

	_, err := ulid.ParseStrict(m.ID)
	require.NoError(t, err, "save stamps a ULID")
	assert.False(t, m.CreatedAt.IsZero())

	loaded, err := Open(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, m.ID, loaded.ID)
	assert.Equal(t, "toy", loaded.Section)
	assert.Equal(t, m.Labels, loaded.Labels)
	assert.Equal(t, m.Start, loaded.Start)
	assert.Equal(t, m.Transitions, loaded.Transitions)
	assert.Equal(t, m.State, loaded.State)

	// saving again replaces the file and keeps the ID
	id := m.ID
	require.NoError(t, m.Save(ctx, path))
	assert.Equal(t, id, m.ID)
}

func TestSaveAssignsDistinctIDs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	a, b := toyModel(), toyModel()
	require.NoError(t, a.Save(ctx, filepath.Join(dir, "a.sqlite")))
	require.NoError(t, b.Save(ctx, filepath.Join(dir, "b.sqlite")))
	assert.NotEqual(t, a.ID, b.ID)
	assert.Less(t, a.ID, b.ID, "monotonic IDs sort by creation")
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	_, err := Open(ctx, filepath.Join(dir, "missing.sqlite"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.sqlite")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not a database, just some bytes padding it out"), 0o644))
	_, err = Open(ctx, garbage)
	assert.ErrorIs(t, err, internalerr.ErrInvalidModel)
}

func TestValidate(t *testing.T) {
	m := toyModel()
	require.NoError(t, m.Validate())

	m.State["bad"] = []float64{1}
	assert.ErrorIs(t, m.Validate(), internalerr.ErrInvalidModel)

	dup := NewModel("toy", []string{"a", "a"})
	assert.ErrorIs(t, dup.Validate(), internalerr.ErrInvalidModel)

	assert.Equal(t, 1, toyModel().LabelIndex("num"))
	assert.Equal(t, -1, toyModel().LabelIndex("nope"))
}
