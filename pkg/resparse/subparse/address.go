package subparse

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/cognicore/resparse/pkg/resparse/lexicon"
)

// Address component labels.
const (
	labelNumber = "building_number"
	labelStreet = "street"
	labelUnit   = "unit"
	labelCity   = "city"
	labelRegion = "region"
	labelPostal = "postal_code"
)

var (
	postalPattern = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
	numberPattern = regexp.MustCompile(`^\d+[A-Za-z]?$`)
)

// Address parses US-style single-line postal addresses of the form
// "number street [unit] city, ST zip". Any part may be missing; a line with
// only a city and region is a place.
type Address struct {
	lex *lexicon.Lexicon
}

// NewAddress returns an address parser. A nil lexicon uses lexicon.Default().
func NewAddress(lex *lexicon.Lexicon) *Address {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Address{lex: lex}
}

// Parse returns the fields address, city, region and postal_code, whichever
// are present. A component found in two separate places fails with
// ErrRepeatedLabel.
func (a *Address) Parse(line string) (Fields, Kind, error) {
	words := splitWords(line)
	if len(words) == 0 {
		return Fields{}, KindAmbiguous, nil
	}

	end := len(words)
	if postalPattern.MatchString(words[end-1].text) {
		words[end-1].label = labelPostal
		end--
	}
	if end > 0 && a.isRegion(words[end-1].text) && (end > 1 || end < len(words)) {
		words[end-1].label = labelRegion
		end--
	}

	i := 0
	if end > 1 && numberPattern.MatchString(words[0].text) {
		words[0].label = labelNumber
		i = a.labelStreet(words, 1, end)
		i = a.labelUnits(words, i, end)
	} else if last := lastComma(words, 0, end); last >= 0 {
		for j := 0; j <= last; j++ {
			words[j].label = labelStreet
		}
		i = a.labelUnits(words, last+1, end)
	}
	for ; i < end; i++ {
		if postalPattern.MatchString(words[i].text) {
			words[i].label = labelPostal
			continue
		}
		words[i].label = labelCity
	}

	parts, err := collect(words)
	if err != nil {
		return nil, KindAmbiguous, err
	}
	out := make(Fields)
	var street []string
	for _, key := range []string{labelNumber, labelStreet, labelUnit} {
		if v := parts[key]; v != "" {
			street = append(street, v)
		}
	}
	if len(street) > 0 {
		out["address"] = strings.Join(street, " ")
	}
	for _, key := range []string{labelCity, labelRegion, labelPostal} {
		if v := parts[key]; v != "" {
			out[key] = v
		}
	}

	switch {
	case out["address"] != "":
		return out, KindStreetAddress, nil
	case len(out) > 0:
		return out, KindPlace, nil
	}
	return out, KindAmbiguous, nil
}

// labelStreet labels words from i through the first street suffix, or
// through the first comma when no suffix appears. It returns the index
// after the street.
func (a *Address) labelStreet(words []word, i, end int) int {
	stop := -1
	for j := i; j < end; j++ {
		if j > i && has(a.lex, lexicon.SetStreetSuffixes, words[j].text) {
			stop = j
			break
		}
		if words[j].comma {
			stop = j
			break
		}
	}
	if stop < 0 {
		stop = end - 1
	}
	for j := i; j <= stop; j++ {
		words[j].label = labelStreet
	}
	return stop + 1
}

// labelUnits labels unit designators with their numbers, e.g. "Suite 545"
// or "#12".
func (a *Address) labelUnits(words []word, i, end int) int {
	for i < end {
		w := words[i]
		switch {
		case strings.HasPrefix(w.text, "#") && len(w.text) > 1:
			words[i].label = labelUnit
			i++
		case has(a.lex, lexicon.SetUnitDesignators, w.text) && i+1 < end:
			words[i].label = labelUnit
			words[i+1].label = labelUnit
			i += 2
		default:
			return i
		}
		if words[i-1].comma {
			return i
		}
	}
	return i
}

func (a *Address) isRegion(text string) bool {
	if len(text) != 2 {
		return false
	}
	for _, r := range text {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return has(a.lex, lexicon.SetUSStates, text)
}

func lastComma(words []word, from, end int) int {
	last := -1
	for j := from; j < end-1; j++ {
		if words[j].comma {
			last = j
		}
	}
	return last
}
