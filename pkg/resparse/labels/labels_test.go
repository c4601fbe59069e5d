package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/resparse/pkg/resparse/tokenize"
)

func TestAlphabets(t *testing.T) {
	assert.Len(t, Alphabet(Basics), 11)
	assert.Len(t, Alphabet(Work), 11)
	assert.Len(t, Alphabet(Education), 12)
	assert.Len(t, Alphabet(Skills), 7)

	for _, s := range Sections {
		assert.True(t, InAlphabet(s, FieldSep), "%s must carry field_sep", s)
		assert.True(t, InAlphabet(s, ItemSep), "%s must carry item_sep", s)
	}

	assert.True(t, InAlphabet(Work, Highlights))
	assert.False(t, InAlphabet(Work, Bullet))
	assert.False(t, InAlphabet(Skills, Company))
}

func TestAlphabetReturnsCopy(t *testing.T) {
	a := Alphabet(Skills)
	a[0] = "mutated"
	assert.Equal(t, Bullet, Alphabet(Skills)[0])
}

func TestStructural(t *testing.T) {
	for _, l := range []Label{FieldSep, ItemSep, Bullet, Other, FieldLabel} {
		assert.True(t, Structural(l), string(l))
	}
	for _, l := range []Label{Name, Company, Keyword, Highlights} {
		assert.False(t, Structural(l), string(l))
	}
}

func TestParseSection(t *testing.T) {
	s, err := ParseSection("education")
	require.NoError(t, err)
	assert.Equal(t, Education, s)

	_, err = ParseSection("hobbies")
	assert.Error(t, err)
}

func TestZip(t *testing.T) {
	tokens := tokenize.NewTokenizer(nil).Tokenize("Burton DeWilde")

	tagged, err := Zip(tokens, []string{"name", "name"})
	require.NoError(t, err)
	assert.Equal(t, Name, tagged[1].Label)
	assert.Equal(t, "DeWilde", tagged[1].Token.Text)

	_, err = Zip(tokens, []string{"name"})
	assert.Error(t, err)
}

func TestSequenceAccessors(t *testing.T) {
	seq := Sequence{{"Burton", Name}, {"DeWilde", Name}}
	assert.Equal(t, []string{"Burton", "DeWilde"}, seq.Texts())
	assert.Equal(t, []string{"name", "name"}, seq.Labels())
}
