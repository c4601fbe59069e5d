package augment

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cognicore/resparse/pkg/resparse/labels"
)

// CaseMode selects the casing ChangeCase applies.
type CaseMode int

const (
	Upper CaseMode = iota
	Title
	Lower
	// RandomCase picks Upper, Title or Lower anew on every application.
	RandomCase
)

func (m CaseMode) String() string {
	switch m {
	case Upper:
		return "upper"
	case Title:
		return "title"
	case Lower:
		return "lower"
	case RandomCase:
		return "random"
	}
	return fmt.Sprintf("CaseMode(%d)", int(m))
}

// ParseCaseMode parses the String form of a CaseMode.
func ParseCaseMode(s string) (CaseMode, error) {
	for _, m := range []CaseMode{Upper, Title, Lower, RandomCase} {
		if m.String() == strings.ToLower(s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown case mode %q", s)
}

type labelSet map[labels.Label]bool

func newLabelSet(targets []labels.Label) labelSet {
	set := make(labelSet, len(targets))
	for _, l := range targets {
		set[l] = true
	}
	return set
}

// has reports membership; an empty set matches every label.
func (s labelSet) has(l labels.Label) bool {
	return len(s) == 0 || s[l]
}

type changeCase struct {
	mode    CaseMode
	targets labelSet
}

// ChangeCase recases every token whose label is in targets. With no
// targets every token is recased.
func ChangeCase(mode CaseMode, targets ...labels.Label) Transform {
	return &changeCase{mode: mode, targets: newLabelSet(targets)}
}

func (c *changeCase) validate() error {
	if c.mode < Upper || c.mode > RandomCase {
		return fmt.Errorf("invalid case mode %d", int(c.mode))
	}
	return nil
}

func (c *changeCase) Apply(r *rand.Rand, seq labels.Sequence) labels.Sequence {
	mode := c.mode
	if mode == RandomCase {
		mode = CaseMode(r.IntN(3))
	}
	var caser cases.Caser
	switch mode {
	case Upper:
		caser = cases.Upper(language.Und)
	case Title:
		caser = cases.Title(language.Und)
	default:
		caser = cases.Lower(language.Und)
	}

	out := make(labels.Sequence, len(seq))
	for i, lt := range seq {
		if c.targets.has(lt.Label) {
			lt.Text = caser.String(lt.Text)
		}
		out[i] = lt
	}
	return out
}

type deleteToken struct {
	p       float64
	targets labelSet
}

// DeleteToken drops each token whose label is in targets with probability
// p. A sequence is never emptied; if every token would go, the input is
// returned unchanged.
func DeleteToken(p float64, targets ...labels.Label) Transform {
	return &deleteToken{p: p, targets: newLabelSet(targets)}
}

func (d *deleteToken) validate() error {
	if !validProb(d.p) {
		return fmt.Errorf("delete probability %g outside [0,1]", d.p)
	}
	return nil
}

func (d *deleteToken) Apply(r *rand.Rand, seq labels.Sequence) labels.Sequence {
	out := make(labels.Sequence, 0, len(seq))
	for _, lt := range seq {
		if d.targets.has(lt.Label) && r.Float64() < d.p {
			continue
		}
		out = append(out, lt)
	}
	if len(out) == 0 {
		return append(labels.Sequence(nil), seq...)
	}
	return out
}

const (
	minInsertedSpaces = 2
	maxInsertedSpaces = 4
)

type insertWhitespace struct {
	p float64
}

// InsertWhitespace inserts a run of spaces between two adjacent
// non-whitespace tokens with probability p. The run is labeled field_sep
// when both neighbours share a label and item_sep otherwise. The surface
// run is two to four spaces; the first is absorbed into the preceding
// token's Space flag, so the inserted token holds the rest, as the
// tokenizer would emit it.
func InsertWhitespace(p float64) Transform {
	return &insertWhitespace{p: p}
}

func (w *insertWhitespace) validate() error {
	if !validProb(w.p) {
		return fmt.Errorf("insert probability %g outside [0,1]", w.p)
	}
	return nil
}

func (w *insertWhitespace) Apply(r *rand.Rand, seq labels.Sequence) labels.Sequence {
	out := make(labels.Sequence, 0, len(seq))
	for i, lt := range seq {
		out = append(out, lt)
		if i+1 == len(seq) || isWhitespace(lt.Text) || isWhitespace(seq[i+1].Text) {
			continue
		}
		if r.Float64() >= w.p {
			continue
		}
		label := labels.ItemSep
		if lt.Label == seq[i+1].Label {
			label = labels.FieldSep
		}
		n := minInsertedSpaces + r.IntN(maxInsertedSpaces-minInsertedSpaces+1)
		out = append(out, labels.LabeledToken{Text: strings.Repeat(" ", n-1), Label: label})
	}
	return out
}

func isWhitespace(s string) bool {
	return s != "" && strings.TrimSpace(s) == ""
}
