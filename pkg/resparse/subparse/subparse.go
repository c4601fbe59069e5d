// Package subparse splits free-text chunks such as postal addresses and
// personal names into their components.
package subparse

import (
	"fmt"
	"strings"

	"github.com/cognicore/resparse/pkg/resparse/internalerr"
	"github.com/cognicore/resparse/pkg/resparse/lexicon"
)

// Fields maps component names to their text.
type Fields map[string]string

// Kind classifies a parsed chunk.
type Kind string

const (
	KindStreetAddress Kind = "street_address"
	KindPlace         Kind = "place"
	KindPersonName    Kind = "person_name"
	KindAmbiguous     Kind = "ambiguous"
)

// Parser parses one chunk of text. Errors wrap internalerr.ErrSubParse and
// are recoverable: callers skip the chunk and continue.
type Parser interface {
	Parse(line string) (Fields, Kind, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(line string) (Fields, Kind, error)

// Parse implements Parser.
func (f ParserFunc) Parse(line string) (Fields, Kind, error) { return f(line) }

// word is one whitespace-separated piece of a chunk with its trailing
// comma stripped.
type word struct {
	text  string
	comma bool
	label string
}

func splitWords(line string) []word {
	fields := strings.Fields(line)
	out := make([]word, 0, len(fields))
	for _, f := range fields {
		if f == "," {
			if len(out) > 0 {
				out[len(out)-1].comma = true
			}
			continue
		}
		w := word{text: strings.TrimSuffix(f, ",")}
		w.comma = w.text != f
		if w.text != "" {
			out = append(out, w)
		}
	}
	return out
}

// collect joins each label's words, failing when a label occurs in two
// separate runs.
func collect(words []word) (Fields, error) {
	out := make(Fields)
	closed := make(map[string]bool)
	open := ""
	for _, w := range words {
		if w.label != open {
			if open != "" {
				closed[open] = true
			}
			if closed[w.label] {
				return nil, repeated(w.label, w.text)
			}
			open = w.label
		}
		if w.label == "" {
			continue
		}
		if cur, ok := out[w.label]; ok {
			out[w.label] = cur + " " + w.text
		} else {
			out[w.label] = w.text
		}
	}
	return out, nil
}

func repeated(label, text string) error {
	return fmt.Errorf("%w: %w: %s at %q", internalerr.ErrSubParse, internalerr.ErrRepeatedLabel, label, text)
}

func has(lex *lexicon.Lexicon, set, text string) bool {
	return lex.Has(set, strings.ToLower(text))
}
