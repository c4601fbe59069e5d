package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLexiconLoads(t *testing.T) {
	lex := Default()

	for _, set := range []string{
		SetCompanyTypes, SetPositions, SetMonths, SetMonthAbbrs, SetSeasons,
		SetPresent, SetInstitutions, SetDegrees, SetLevels, SetSkillCategories,
		SetStreetSuffixes, SetUnitDesignators, SetUSStates, SetBullets,
	} {
		assert.NotEmpty(t, lex.Set(set), "set %s should not be empty", set)
	}

	for _, pool := range []string{
		PoolFirstNames, PoolLastNames, PoolCompanies, PoolPositions, PoolCities,
		PoolStates, PoolStreets, PoolInstitutions, PoolAreas, PoolStudyTypes,
		PoolCourses, PoolSkillNames, PoolSkillCategories, PoolLevels, PoolHighlights,
	} {
		assert.NotEmpty(t, lex.Pool(pool), "pool %s should not be empty", pool)
	}

	assert.NotEmpty(t, lex.Stopwords())
	assert.Same(t, lex, Default(), "default lexicon should be parsed once")
}

func TestHasIsCaseInsensitive(t *testing.T) {
	lex := Default()

	assert.True(t, lex.Has(SetMonths, "January"))
	assert.True(t, lex.Has(SetMonthAbbrs, "SEPT"))
	assert.True(t, lex.Has(SetCompanyTypes, "Inc."))
	assert.True(t, lex.Has(SetBullets, "•"))
	assert.False(t, lex.Has(SetMonths, "Python"))
	assert.False(t, lex.Has("no_such_set", "january"))
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lex.yaml")
	data := []byte(`
stopwords: [the]
sets:
  levels: [Guru, Ninja]
pools:
  levels: [Guru]
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	lex, err := LoadFromYAML(path)
	require.NoError(t, err)

	assert.True(t, lex.Has(SetLevels, "guru"))
	assert.Equal(t, []string{"Guru"}, lex.Pool(PoolLevels))
	assert.Equal(t, []string{"the"}, lex.Stopwords())

	stats := lex.Stats()
	assert.Equal(t, 1, stats.Sets)
	assert.Equal(t, 2, stats.SetWords)
	assert.Equal(t, 1, stats.PoolValues)
}

func TestLoadFromYAMLErrors(t *testing.T) {
	_, err := LoadFromYAML("/nonexistent/lexicon.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sets: [unclosed"), 0o644))
	_, err = LoadFromYAML(path)
	assert.Error(t, err)
}

func TestMergeReplacesPoolsAndExtendsSets(t *testing.T) {
	base := New()
	base.AddSet(SetLevels, []string{"expert"})
	base.AddPool(PoolLevels, []string{"Expert", "Beginner"})

	override := New()
	override.AddSet(SetLevels, []string{"guru"})
	override.AddPool(PoolLevels, []string{"Guru"})

	base.Merge(override)

	assert.True(t, base.Has(SetLevels, "expert"))
	assert.True(t, base.Has(SetLevels, "guru"))
	assert.Equal(t, []string{"Guru"}, base.Pool(PoolLevels))
}
