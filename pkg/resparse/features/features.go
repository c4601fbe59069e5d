// Package features turns tokens into per-token feature maps with section
// dictionary predicates and windowed neighbour context, ready for the CRF.
package features

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cognicore/resparse/pkg/resparse/crf"
	"github.com/cognicore/resparse/pkg/resparse/labels"
	"github.com/cognicore/resparse/pkg/resparse/lexicon"
	"github.com/cognicore/resparse/pkg/resparse/tokenize"
)

// Map is the feature map of one token. Values are bool, int, string or a
// nested Map.
type Map map[string]any

// Window is the neighbourhood radius on each side of the centre token.
type Window struct {
	Left, Right int
}

// neighbour keys by offset from the centre token
var neighbourKeys = map[int]string{
	-3: "ppprev",
	-2: "pprev",
	-1: "prev",
	1:  "next",
	2:  "nnext",
	3:  "nnnext",
}

var windows = map[labels.Section]Window{
	labels.Basics:    {Left: 2, Right: 2},
	labels.Work:      {Left: 3, Right: 2},
	labels.Education: {Left: 1, Right: 1},
	labels.Skills:    {Left: 2, Right: 2},
}

// WindowFor returns the window a section's extractor uses.
func WindowFor(section labels.Section) Window {
	if w, ok := windows[section]; ok {
		return w
	}
	return Window{Left: 2, Right: 2}
}

// Extractor builds feature maps for one section.
type Extractor struct {
	section    labels.Section
	lex        *lexicon.Lexicon
	window     Window
	predicates []predicate
}

// New returns the extractor for section. A nil lexicon uses
// lexicon.Default().
func New(section labels.Section, lex *lexicon.Lexicon) (*Extractor, error) {
	preds, ok := sectionPredicates[section]
	if !ok {
		return nil, fmt.Errorf("features: no extractor for section %q", section)
	}
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Extractor{
		section:    section,
		lex:        lex,
		window:     WindowFor(section),
		predicates: preds,
	}, nil
}

// Section returns the section the extractor serves.
func (e *Extractor) Section() labels.Section { return e.section }

// Base returns the section-independent features of one token.
func Base(tok tokenize.Token) Map {
	return Map{
		"idx":              tok.Index,
		"len":              len([]rune(tok.Text)),
		"shape":            tok.Shape,
		"prefix":           tok.Prefix,
		"suffix":           tok.Suffix,
		"is_alpha":         tok.IsAlpha,
		"is_digit":         tok.IsDigit,
		"is_upper":         tok.IsUpper,
		"is_title":         tok.IsTitle,
		"is_punct":         tok.IsPunct,
		"is_space":         tok.IsSpace,
		"like_url":         tok.LikeURL,
		"like_email":       tok.LikeEmail,
		"like_num":         tok.LikeNum,
		"is_stop":          tok.IsStop,
		"is_alnum":         tok.IsAlnum,
		"is_newline":       tok.IsNewline,
		"is_partial_digit": tok.IsPartialDigit,
		"is_partial_punct": tok.IsPartialPunct,
	}
}

// Token returns the base features of tok extended with the section's
// dictionary predicates.
func (e *Extractor) Token(tok tokenize.Token) Map {
	m := Base(tok)
	for _, p := range e.predicates {
		m[p.name] = p.fn(e.lex, tok)
	}
	return m
}

// Extract returns one windowed feature map per token. Each map holds the
// token's own features, its neighbours' maps under prev/next style keys
// (sentinels past either end), and the running line state
// n_toks_since_newline and follows_bullet. A single-token sequence is not
// windowed and is flagged _singleton instead.
func (e *Extractor) Extract(tokens []tokenize.Token) []Map {
	if len(tokens) == 0 {
		return nil
	}
	own := make([]Map, len(tokens))
	for i, tok := range tokens {
		own[i] = e.Token(tok)
	}
	if len(tokens) == 1 {
		m := copyMap(own[0])
		m["_singleton"] = true
		return []Map{m}
	}

	out := make([]Map, len(tokens))
	lastNewline := -1
	lineStart, bullet := true, false
	for i, tok := range tokens {
		m := copyMap(own[i])
		for off := -e.window.Left; off <= e.window.Right; off++ {
			if off == 0 {
				continue
			}
			key := neighbourKeys[off]
			switch j := i + off; {
			case j < 0:
				m[key] = Map{"_start": true}
			case j >= len(tokens):
				m[key] = Map{"_end": true}
			default:
				m[key] = own[j]
			}
		}

		m["n_toks_since_newline"] = i - lastNewline
		if tok.IsNewline {
			lastNewline = i
			lineStart, bullet = true, false
		}
		m["follows_bullet"] = bullet
		if lineStart && !tok.IsSpace {
			bullet = tok.Text == "-"
			lineStart = false
		}
		out[i] = m
	}
	return out
}

// ExtractTexts extracts features for pre-split token texts, as found in
// training data.
func (e *Extractor) ExtractTexts(tok *tokenize.Tokenizer, texts []string) []Map {
	return e.Extract(tok.FromTexts(texts))
}

func copyMap(m Map) Map {
	out := make(Map, len(m)+8)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Flatten converts a feature map into CRF attributes with dotted names for
// nested maps. Strings and ints become "key=value" with weight 1, true
// booleans "key" with weight 1, floats "key" with their value; false
// booleans are omitted. Attributes are sorted by name.
func Flatten(m Map) []crf.Attribute {
	var out []crf.Attribute
	flatten("", m, &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func flatten(prefix string, m Map, out *[]crf.Attribute) {
	for k, v := range m {
		name := prefix + k
		switch v := v.(type) {
		case bool:
			if v {
				*out = append(*out, crf.Attribute{Name: name, Value: 1})
			}
		case int:
			*out = append(*out, crf.Attribute{Name: name + "=" + strconv.Itoa(v), Value: 1})
		case float64:
			*out = append(*out, crf.Attribute{Name: name, Value: v})
		case string:
			*out = append(*out, crf.Attribute{Name: name + "=" + v, Value: 1})
		case Map:
			flatten(name+".", v, out)
		}
	}
}

// FlattenAll flattens every map of a sequence.
func FlattenAll(ms []Map) [][]crf.Attribute {
	out := make([][]crf.Attribute, len(ms))
	for i, m := range ms {
		out[i] = Flatten(m)
	}
	return out
}
