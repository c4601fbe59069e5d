// Package config loads the vocabulary files and resolves the models
// directory used by the parser and the trainer.
package config

import (
	"fmt"

	"github.com/cognicore/resparse/pkg/resparse/lexicon"
	"github.com/cognicore/resparse/pkg/resparse/stoplist"
	"github.com/cognicore/resparse/pkg/resparse/tokenize"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	StoplistPath      string
	LexiconPath       string
	AbbreviationsPath string
	ModelsDir         string
}

// Components holds all loaded configuration components
type Components struct {
	Lexicon   *lexicon.Lexicon
	Stoplist  *stoplist.Manager
	Tokenizer *tokenize.Tokenizer
	ModelsDir string
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	// Lexicon: the embedded one, extended by the file if given
	comp.Lexicon = lexicon.New()
	comp.Lexicon.Merge(lexicon.Default())
	if l.LexiconPath != "" {
		lex, err := lexicon.LoadFromYAML(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon.Merge(lex)
	}

	// Stoplist replaces the lexicon's stopwords when given
	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stoplist = stoplist.NewManager(sl.Terms)
	} else {
		comp.Stoplist = stoplist.NewManager(comp.Lexicon.Stopwords())
	}

	comp.Tokenizer = tokenize.NewTokenizer(comp.Stoplist)
	if l.AbbreviationsPath != "" {
		ab, err := LoadAbbreviations(l.AbbreviationsPath)
		if err != nil {
			return nil, fmt.Errorf("load abbreviations: %w", err)
		}
		comp.Tokenizer.AddAbbreviations(ab.Words...)
	}

	comp.ModelsDir = l.ModelsDir
	if comp.ModelsDir == "" {
		comp.ModelsDir = DefaultModelsDir()
	}

	return comp, nil
}
