// Package template expands placeholder templates of the form
// {KEY[:LABEL][:PROB]} into labeled token sequences for tagger training.
package template

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/resparse/pkg/resparse/fields"
	"github.com/cognicore/resparse/pkg/resparse/internalerr"
	"github.com/cognicore/resparse/pkg/resparse/labels"
	"github.com/cognicore/resparse/pkg/resparse/tokenize"
)

// lineTokenizer only needs token boundaries, so it carries no stoplist.
var lineTokenizer = tokenize.NewTokenizer(nil)

type placeholder struct {
	keys  []string
	label labels.Label // empty means the field's default label
	prob  float64
}

type part struct {
	literal string
	ph      *placeholder
}

// Template is a compiled template bound to a section and a field registry.
// It is immutable and may be expanded any number of times.
type Template struct {
	text    string
	section labels.Section
	reg     *fields.Registry
	fixed   map[string]bool
	parts   []part
}

// Compile parses text and validates every placeholder: keys must be
// registered, PROB must lie in [0,1], and every label a placeholder can emit
// must belong to the section alphabet. Values of fixed keys are generated
// once per expansion and reused by later occurrences.
func Compile(text string, section labels.Section, reg *fields.Registry, fixed ...string) (*Template, error) {
	t := &Template{
		text:    text,
		section: section,
		reg:     reg,
		fixed:   make(map[string]bool, len(fixed)),
	}
	for _, k := range fixed {
		t.fixed[k] = true
	}

	rest := text
	for rest != "" {
		open := strings.IndexAny(rest, "{}")
		if open < 0 {
			t.parts = append(t.parts, part{literal: rest})
			break
		}
		if rest[open] == '}' {
			return nil, t.errorf("unmatched '}'")
		}
		if open > 0 {
			t.parts = append(t.parts, part{literal: rest[:open]})
		}
		end := strings.IndexAny(rest[open+1:], "{}")
		if end < 0 || rest[open+1+end] == '{' {
			return nil, t.errorf("unterminated placeholder")
		}
		ph, err := t.parsePlaceholder(rest[open+1 : open+1+end])
		if err != nil {
			return nil, err
		}
		t.parts = append(t.parts, part{ph: ph})
		rest = rest[open+1+end+1:]
	}
	return t, nil
}

// MustCompile is like Compile but panics on error. It is meant for
// templates written into source code.
func MustCompile(text string, section labels.Section, reg *fields.Registry, fixed ...string) *Template {
	t, err := Compile(text, section, reg, fixed...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %q: %s", internalerr.ErrInvalidTemplate, t.text, fmt.Sprintf(format, args...))
}

func (t *Template) parsePlaceholder(body string) (*placeholder, error) {
	pieces := strings.Split(body, ":")
	if len(pieces) > 3 {
		return nil, t.errorf("too many fields in {%s}", body)
	}

	ph := &placeholder{prob: 1}
	for _, key := range strings.Split(pieces[0], "|") {
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, t.errorf("empty key in {%s}", body)
		}
		ph.keys = append(ph.keys, key)
	}

	var labelText, probText string
	switch len(pieces) {
	case 2:
		if _, err := strconv.ParseFloat(strings.TrimSpace(pieces[1]), 64); err == nil {
			probText = pieces[1]
		} else {
			labelText = pieces[1]
		}
	case 3:
		labelText, probText = pieces[1], pieces[2]
	}

	if probText = strings.TrimSpace(probText); probText != "" {
		p, err := strconv.ParseFloat(probText, 64)
		if err != nil || math.IsNaN(p) || p < 0 || p > 1 {
			return nil, t.errorf("probability %q outside [0,1]", probText)
		}
		ph.prob = p
	}
	if labelText = strings.TrimSpace(labelText); labelText != "" {
		ph.label = labels.Label(labelText)
		if !labels.InAlphabet(t.section, ph.label) {
			return nil, t.errorf("label %q not in %s alphabet", labelText, t.section)
		}
	}

	for _, key := range ph.keys {
		f, err := t.reg.Lookup(key)
		if err != nil {
			return nil, t.errorf("%v", err)
		}
		if ph.label == "" && !labels.InAlphabet(t.section, f.Label) {
			return nil, t.errorf("field %q emits %q outside %s alphabet", key, f.Label, t.section)
		}
	}
	return ph, nil
}

// Text returns the template source.
func (t *Template) Text() string { return t.text }

// segment is one contiguous piece of the assembled line.
type segment struct {
	start, end int
	label      labels.Label // empty for literal text
}

// Expand generates one labeled sequence. Every token a placeholder's value
// produces carries that placeholder's label. Whitespace tokens from literal
// text are labeled field_sep; other literal tokens take the label of the
// nearest preceding kept placeholder, or the following one when none
// precedes. An expansion in which no placeholder produced a token fails
// with ErrEmptyExpansion.
func (t *Template) Expand(r *rand.Rand) (labels.Sequence, error) {
	var (
		line   strings.Builder
		segs   []segment
		cache  = make(map[string]string)
		elide  bool
		values int
	)

	for i, p := range t.parts {
		if p.ph == nil {
			text := p.literal
			if elide {
				text = trimOneLeadingSpace(text)
				elide = false
			}
			start := line.Len()
			line.WriteString(text)
			segs = append(segs, segment{start: start, end: line.Len()})
			continue
		}

		key := p.ph.keys[0]
		if len(p.ph.keys) > 1 {
			key = p.ph.keys[r.IntN(len(p.ph.keys))]
		}
		f, err := t.reg.Lookup(key)
		if err != nil {
			return nil, t.errorf("%v", err)
		}
		keep := p.ph.prob >= 1 || (p.ph.prob > 0 && r.Float64() < p.ph.prob)

		var value string
		if keep {
			if v, ok := cache[key]; ok {
				value = v
			} else {
				value = f.Producer.Produce(r)
				if t.fixed[key] {
					cache[key] = value
				}
			}
		}

		if value == "" {
			elide = t.elideAround(i, &line, segs)
			continue
		}

		label := p.ph.label
		if label == "" {
			label = f.Label
		}
		start := line.Len()
		line.WriteString(value)
		segs = append(segs, segment{start: start, end: line.Len(), label: label})
		values++
	}

	if values == 0 {
		return nil, fmt.Errorf("%w: %q", internalerr.ErrEmptyExpansion, t.text)
	}
	return zip(line.String(), segs)
}

// elideAround removes one whitespace character next to a dropped
// placeholder. A space or tab before it is preferred; otherwise whitespace
// after it; otherwise a preceding newline. It reports whether the
// following literal must lose its leading whitespace.
func (t *Template) elideAround(i int, line *strings.Builder, segs []segment) bool {
	text := line.String()
	prev, prevSize := utf8.DecodeLastRuneInString(text)
	prevIsLiteral := len(segs) > 0 && segs[len(segs)-1].label == "" && segs[len(segs)-1].end > segs[len(segs)-1].start
	nextSpace := false
	if i+1 < len(t.parts) && t.parts[i+1].ph == nil {
		next, _ := utf8.DecodeRuneInString(t.parts[i+1].literal)
		nextSpace = unicode.IsSpace(next)
	}

	trimPrev := func() {
		text = text[:len(text)-prevSize]
		line.Reset()
		line.WriteString(text)
		segs[len(segs)-1].end -= prevSize
	}

	switch {
	case prevIsLiteral && (prev == ' ' || prev == '\t'):
		trimPrev()
		return false
	case nextSpace:
		return true
	case prevIsLiteral && unicode.IsSpace(prev):
		trimPrev()
	}
	return false
}

func trimOneLeadingSpace(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if unicode.IsSpace(r) {
		return s[size:]
	}
	return s
}

// zip tokenizes the assembled line once and labels each token by the
// segment its first byte falls in.
func zip(line string, segs []segment) (labels.Sequence, error) {
	tokens := lineTokenizer.Tokenize(line)

	segOf := make([]int, len(tokens))
	s := 0
	for i, tok := range tokens {
		for s < len(segs)-1 && tok.Offset >= segs[s].end {
			s++
		}
		segOf[i] = s
	}

	// nearest placeholder labels on either side of every segment
	before := make([]labels.Label, len(segs))
	after := make([]labels.Label, len(segs))
	var last labels.Label
	for i, seg := range segs {
		if seg.label != "" {
			last = seg.label
		}
		before[i] = last
	}
	last = ""
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i].label != "" {
			last = segs[i].label
		}
		after[i] = last
	}

	seq := make(labels.Sequence, 0, len(tokens))
	for i, tok := range tokens {
		seg := segs[segOf[i]]
		label := seg.label
		switch {
		case label != "":
		case tok.IsSpace:
			label = labels.FieldSep
		case before[segOf[i]] != "":
			label = before[segOf[i]]
		default:
			label = after[segOf[i]]
		}
		seq = append(seq, labels.LabeledToken{Text: tok.Text, Label: label})
	}
	return seq, nil
}
