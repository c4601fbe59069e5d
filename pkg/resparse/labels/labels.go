package labels

import (
	"fmt"

	"github.com/cognicore/resparse/pkg/resparse/tokenize"
)

// Section identifies a résumé section that has its own tagger.
type Section string

const (
	Basics    Section = "basics"
	Work      Section = "work"
	Education Section = "education"
	Skills    Section = "skills"
)

// Sections lists every tagged section in decoding order.
var Sections = []Section{Basics, Work, Education, Skills}

// ParseSection validates a section name.
func ParseSection(name string) (Section, error) {
	for _, s := range Sections {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", name)
}

// Label is the class assigned to one token.
type Label string

const (
	Other      Label = "other"
	FieldSep   Label = "field_sep"
	ItemSep    Label = "item_sep"
	FieldLabel Label = "field_label"
	Bullet     Label = "bullet"

	Name     Label = "name"
	Headline Label = "label"
	Email    Label = "email"
	Phone    Label = "phone"
	Website  Label = "website"
	Location Label = "location"
	Profile  Label = "profile"

	Company    Label = "company"
	Position   Label = "position"
	StartDate  Label = "start_date"
	EndDate    Label = "end_date"
	Summary    Label = "summary"
	Highlights Label = "highlights"

	Institution Label = "institution"
	Area        Label = "area"
	StudyType   Label = "study_type"
	GPA         Label = "gpa"
	Course      Label = "course"

	Keyword Label = "keyword"
	Level   Label = "level"
)

var alphabets = map[Section][]Label{
	Basics: {
		Other, Name, Headline, Email, Phone, Website, Location, Profile,
		FieldSep, ItemSep, FieldLabel,
	},
	Work: {
		Company, Position, Website, StartDate, EndDate, Summary, Highlights,
		FieldSep, ItemSep, Location, Other,
	},
	Education: {
		Institution, Area, StudyType, StartDate, EndDate, GPA, Course,
		FieldSep, ItemSep, FieldLabel, Bullet, Other,
	},
	Skills: {
		Bullet, Name, Keyword, Level, FieldSep, ItemSep, Other,
	},
}

// Alphabet returns the fixed label alphabet of a section, in canonical order.
func Alphabet(s Section) []Label {
	return append([]Label(nil), alphabets[s]...)
}

// InAlphabet reports whether l belongs to the section's alphabet.
func InAlphabet(s Section, l Label) bool {
	for _, candidate := range alphabets[s] {
		if candidate == l {
			return true
		}
	}
	return false
}

// Structural reports whether a label only shapes the token stream and never
// becomes an output field.
func Structural(l Label) bool {
	switch l {
	case FieldSep, ItemSep, Bullet, Other, FieldLabel:
		return true
	}
	return false
}

// LabeledToken pairs a token's text with its label. It is the unit of the
// training-data file and of the synthetic generator's output.
type LabeledToken struct {
	Text  string
	Label Label
}

// Sequence is one labeled line or block as produced by the generator.
type Sequence []LabeledToken

// Texts returns the token texts of the sequence.
func (s Sequence) Texts() []string {
	out := make([]string, len(s))
	for i, lt := range s {
		out[i] = lt.Text
	}
	return out
}

// Labels returns the label of each token as strings.
func (s Sequence) Labels() []string {
	out := make([]string, len(s))
	for i, lt := range s {
		out[i] = string(lt.Label)
	}
	return out
}

// Tagged is a parsed token with the label the tagger assigned to it.
type Tagged struct {
	Token tokenize.Token
	Label Label
}

// Zip pairs tokens with labels. The slices must have equal length.
func Zip(tokens []tokenize.Token, tags []string) ([]Tagged, error) {
	if len(tokens) != len(tags) {
		return nil, fmt.Errorf("labels: %d tokens but %d labels", len(tokens), len(tags))
	}
	out := make([]Tagged, len(tokens))
	for i, tok := range tokens {
		out[i] = Tagged{Token: tok, Label: Label(tags[i])}
	}
	return out, nil
}
