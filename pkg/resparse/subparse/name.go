package subparse

import (
	"github.com/cognicore/resparse/pkg/resparse/lexicon"
)

// Name component labels.
const (
	labelPrefix  = "prefix"
	labelGiven   = "given"
	labelMiddle  = "middle"
	labelSurname = "surname"
	labelSuffix  = "suffix"
)

// Name parses personal names such as "Dr. Burton J. DeWilde Jr." or the
// inverted "DeWilde, Burton J.".
type Name struct {
	lex *lexicon.Lexicon
}

// NewName returns a name parser. A nil lexicon uses lexicon.Default().
func NewName(lex *lexicon.Lexicon) *Name {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Name{lex: lex}
}

// Parse returns the fields prefix, given, middle, surname and suffix,
// whichever are present. Honorifics or suffixes split across the name fail
// with ErrRepeatedLabel.
func (n *Name) Parse(line string) (Fields, Kind, error) {
	words := splitWords(line)
	var core []int
	for i, w := range words {
		switch {
		case has(n.lex, lexicon.SetNamePrefixes, w.text) && len(words) > 1:
			words[i].label = labelPrefix
		case has(n.lex, lexicon.SetNameSuffixes, w.text) && i > 0:
			words[i].label = labelSuffix
		default:
			core = append(core, i)
		}
	}
	if len(core) == 0 {
		if len(words) == 0 {
			return Fields{}, KindAmbiguous, nil
		}
		fields, err := collect(words)
		if err != nil {
			return nil, KindAmbiguous, err
		}
		return fields, KindAmbiguous, nil
	}

	inverted := len(core) > 1 && words[core[0]].comma
	for k, i := range core {
		switch {
		case inverted && k == 0:
			words[i].label = labelSurname
		case inverted && k == 1:
			words[i].label = labelGiven
		case inverted:
			words[i].label = labelMiddle
		case k == 0:
			words[i].label = labelGiven
		case k == len(core)-1:
			words[i].label = labelSurname
		default:
			words[i].label = labelMiddle
		}
	}

	fields, err := collect(words)
	if err != nil {
		return nil, KindPersonName, err
	}
	return fields, KindPersonName, nil
}
