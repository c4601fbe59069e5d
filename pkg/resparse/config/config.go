package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/resparse/pkg/resparse/internalerr"
)

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	return &sl, nil
}

// Abbreviations lists words whose trailing period the tokenizer keeps
type Abbreviations struct {
	Words []string `yaml:"words"`
}

// LoadAbbreviations loads tokenizer abbreviations from a YAML file
func LoadAbbreviations(path string) (*Abbreviations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ab Abbreviations
	if err := yaml.Unmarshal(data, &ab); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	return &ab, nil
}

// RepoRoot returns the nearest ancestor of dir containing a go.mod file,
// or dir itself when there is none.
func RepoRoot(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	for cur := abs; ; {
		if _, err := os.Stat(filepath.Join(cur, "go.mod")); err == nil {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs
		}
		cur = parent
	}
}

// DefaultModelsDir is <repo root>/models relative to the working directory.
func DefaultModelsDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "models"
	}
	return filepath.Join(RepoRoot(wd), "models")
}
