// Package tagger loads per-section CRF models and tags feature sequences.
package tagger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/cognicore/resparse/pkg/resparse/crf"
	"github.com/cognicore/resparse/pkg/resparse/features"
	"github.com/cognicore/resparse/pkg/resparse/internalerr"
	"github.com/cognicore/resparse/pkg/resparse/labels"
)

// Tagger assigns one label per feature map.
type Tagger interface {
	Tag(feats []features.Map) ([]string, error)
}

// ModelPath returns the conventional model file path for a section.
func ModelPath(dir string, section labels.Section) string {
	return filepath.Join(dir, fmt.Sprintf("resume-%s-tagger.sqlite", section))
}

// TrainingDataPath returns the conventional training data path for a section.
func TrainingDataPath(dir string, section labels.Section) string {
	return filepath.Join(dir, fmt.Sprintf("resume-%s-training-data.jsonl", section))
}

// MissingError reports a model file that has not been trained yet.
type MissingError struct {
	Section labels.Section
	Path    string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%v: no %s model at %s; generate training data and train it with:\n"+
		"  resparse generate --section %s --n 5000\n"+
		"  resparse train --section %s",
		internalerr.ErrTaggerMissing, e.Section, e.Path, e.Section, e.Section)
}

// Unwrap makes errors.Is(err, internalerr.ErrTaggerMissing) hold.
func (e *MissingError) Unwrap() error { return internalerr.ErrTaggerMissing }

// CRFTagger tags with a loaded CRF model.
type CRFTagger struct {
	model *crf.Model
}

// New wraps a loaded model.
func New(model *crf.Model) *CRFTagger {
	return &CRFTagger{model: model}
}

// Model returns the wrapped model.
func (t *CRFTagger) Model() *crf.Model { return t.model }

// Tag returns one label per feature map.
func (t *CRFTagger) Tag(feats []features.Map) ([]string, error) {
	if len(feats) == 0 {
		return nil, nil
	}
	tags := t.model.Tag(features.FlattenAll(feats))
	if len(tags) != len(feats) {
		return nil, fmt.Errorf("tagger returned %d labels for %d tokens", len(tags), len(feats))
	}
	return tags, nil
}

// Cache opens each model path at most once per process.
type Cache struct {
	mu      sync.Mutex
	dir     string
	logger  *zap.Logger
	taggers map[string]Tagger
}

// NewCache returns a cache resolving section models under dir.
func NewCache(dir string, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{dir: dir, logger: logger, taggers: make(map[string]Tagger)}
}

// Dir returns the models directory.
func (c *Cache) Dir() string { return c.dir }

// Get returns the tagger for section, loading it on first use. A missing
// model file yields a *MissingError.
func (c *Cache) Get(ctx context.Context, section labels.Section) (Tagger, error) {
	return c.Open(ctx, section, ModelPath(c.dir, section))
}

// Open returns the tagger for the model at path, loading it on first use.
func (c *Cache) Open(ctx context.Context, section labels.Section, path string) (Tagger, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.taggers[path]; ok {
		return t, nil
	}
	model, err := crf.Open(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &MissingError{Section: section, Path: path}
	}
	if err != nil {
		return nil, err
	}
	if model.Section != "" && model.Section != string(section) {
		return nil, fmt.Errorf("%w: %s holds a %s model, want %s", internalerr.ErrInvalidModel, path, model.Section, section)
	}
	c.logger.Debug("loaded tagger",
		zap.String("section", string(section)),
		zap.String("path", path),
		zap.String("model_id", model.ID),
		zap.Int("attributes", len(model.State)))

	t := New(model)
	c.taggers[path] = t
	return t, nil
}

// Put installs a tagger for section, bypassing the file system. It is used
// to plug in externally trained taggers and test doubles.
func (c *Cache) Put(section labels.Section, t Tagger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taggers[ModelPath(c.dir, section)] = t
}

// Func adapts a function to Tagger.
type Func func(feats []features.Map) ([]string, error)

// Tag implements Tagger.
func (f Func) Tag(feats []features.Map) ([]string, error) { return f(feats) }
