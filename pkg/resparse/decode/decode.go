// Package decode turns tagged token sequences into structured section
// records.
package decode

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/resparse/pkg/resparse/labels"
	"github.com/cognicore/resparse/pkg/resparse/subparse"
	"github.com/cognicore/resparse/pkg/resparse/tokenize"
)

// Record is one decoded object, e.g. the basics block or one work
// experience. Values are strings, []string, nested Records or []Record.
type Record map[string]any

// Group is a maximal run of consecutive tokens sharing a label.
type Group struct {
	Label  labels.Label
	Tokens []tokenize.Token
}

// Text joins the group's tokens into surface text.
func (g Group) Text() string {
	return tokenize.Join(g.Tokens)
}

// GroupTokens splits a tagged sequence into runs of equal labels.
func GroupTokens(tagged []labels.Tagged) []Group {
	var groups []Group
	for _, t := range tagged {
		if n := len(groups); n > 0 && groups[n-1].Label == t.Label {
			groups[n-1].Tokens = append(groups[n-1].Tokens, t.Token)
			continue
		}
		groups = append(groups, Group{Label: t.Label, Tokens: []tokenize.Token{t.Token}})
	}
	return groups
}

// Options configures a Decoder.
type Options struct {
	// Address parses basics location chunks. Defaults to subparse.NewAddress(nil).
	Address subparse.Parser
	// Name validates basics name chunks. Defaults to subparse.NewName(nil).
	Name   subparse.Parser
	Logger *zap.Logger
}

// Decoder builds section records from tagged tokens.
type Decoder struct {
	address subparse.Parser
	name    subparse.Parser
	logger  *zap.Logger
}

// New returns a decoder.
func New(opts Options) *Decoder {
	d := &Decoder{address: opts.Address, name: opts.Name, logger: opts.Logger}
	if d.address == nil {
		d.address = subparse.NewAddress(nil)
	}
	if d.name == nil {
		d.name = subparse.NewName(nil)
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	return d
}

// Decode dispatches to the section's decoder. Basics yields a Record, the
// other sections a []Record; empty input yields an empty value, never nil.
func (d *Decoder) Decode(section labels.Section, tagged []labels.Tagged) (any, error) {
	switch section {
	case labels.Basics:
		return d.Basics(tagged), nil
	case labels.Work:
		return d.Work(tagged), nil
	case labels.Education:
		return d.Education(tagged), nil
	case labels.Skills:
		return d.Skills(tagged), nil
	}
	return nil, fmt.Errorf("decode: unknown section %q", section)
}
