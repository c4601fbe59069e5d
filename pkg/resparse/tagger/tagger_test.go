package tagger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/resparse/pkg/resparse/features"
	"github.com/cognicore/resparse/pkg/resparse/internalerr"
	"github.com/cognicore/resparse/pkg/resparse/labels"
	"github.com/cognicore/resparse/pkg/resparse/tokenize"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("models", "resume-work-tagger.sqlite"), ModelPath("models", labels.Work))
	assert.Equal(t, filepath.Join("models", "resume-skills-training-data.jsonl"), TrainingDataPath("models", labels.Skills))
}

func TestMissingModel(t *testing.T) {
	cache := NewCache(t.TempDir(), nil)

	_, err := cache.Get(context.Background(), labels.Basics)
	require.Error(t, err)
	assert.ErrorIs(t, err, internalerr.ErrTaggerMissing)

	var missing *MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, labels.Basics, missing.Section)
	assert.Contains(t, err.Error(), "resparse train --section basics")
}

func trainedModel(t *testing.T, dir string, section labels.Section) string {
	t.Helper()
	seq := labels.Sequence{
		{Text: "Python", Label: labels.Name},
		{Text: ",", Label: labels.ItemSep},
		{Text: "Go", Label: labels.Name},
	}
	model, err := Train(section, []labels.Sequence{seq}, TrainOptions{Epochs: 5})
	require.NoError(t, err)

	path := ModelPath(dir, section)
	require.NoError(t, model.Save(context.Background(), path))
	return path
}

func TestTrainRejectsForeignLabels(t *testing.T) {
	seq := labels.Sequence{{Text: "Acme", Label: labels.Company}}
	_, err := Train(labels.Skills, []labels.Sequence{seq}, TrainOptions{})
	assert.ErrorIs(t, err, internalerr.ErrInvalidTrainingData)

	_, err = Train(labels.Skills, nil, TrainOptions{})
	assert.ErrorIs(t, err, internalerr.ErrInvalidTrainingData)
}

func TestTrainDefaultTokenizerMarksStopwords(t *testing.T) {
	seq := labels.Sequence{
		{Text: "Python", Label: labels.Name},
		{Text: "and", Label: labels.ItemSep},
		{Text: "Go", Label: labels.Name},
	}
	model, err := Train(labels.Skills, []labels.Sequence{seq}, TrainOptions{Epochs: 3})
	require.NoError(t, err)
	assert.Contains(t, model.State, "is_stop")
	assert.Contains(t, model.State, "prev.is_stop")
}

func TestCacheLoadsOnceAndTags(t *testing.T) {
	dir := t.TempDir()
	trainedModel(t, dir, labels.Skills)
	cache := NewCache(dir, nil)
	ctx := context.Background()

	first, err := cache.Get(ctx, labels.Skills)
	require.NoError(t, err)
	second, err := cache.Get(ctx, labels.Skills)
	require.NoError(t, err)
	assert.Same(t, first, second)

	ex, err := features.New(labels.Skills, nil)
	require.NoError(t, err)
	feats := ex.Extract(tokenize.NewTokenizer(nil).Tokenize("Python, Go"))
	tags, err := first.Tag(feats)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "item_sep", "name"}, tags)

	empty, err := first.Tag(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCacheRejectsWrongSection(t *testing.T) {
	dir := t.TempDir()
	path := trainedModel(t, dir, labels.Skills)

	_, err := NewCache(dir, nil).Open(context.Background(), labels.Work, path)
	assert.ErrorIs(t, err, internalerr.ErrInvalidModel)
}

func TestCachePut(t *testing.T) {
	cache := NewCache(t.TempDir(), nil)
	stub := Func(func(feats []features.Map) ([]string, error) {
		out := make([]string, len(feats))
		for i := range out {
			out[i] = "other"
		}
		return out, nil
	})
	cache.Put(labels.Work, stub)

	got, err := cache.Get(context.Background(), labels.Work)
	require.NoError(t, err)
	tags, err := got.Tag(make([]features.Map, 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"other", "other"}, tags)
}
