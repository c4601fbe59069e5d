package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Word-set names consulted by the feature extractors and sub-parsers.
const (
	SetCompanyTypes    = "company_types"
	SetPositions       = "positions"
	SetMonths          = "months"
	SetMonthAbbrs      = "month_abbrs"
	SetSeasons         = "seasons"
	SetPresent         = "present"
	SetInstitutions    = "institutions"
	SetDegrees         = "degrees"
	SetStudyFields     = "study_fields"
	SetLevels          = "levels"
	SetSkillCategories = "skill_categories"
	SetFieldLabels     = "field_labels"
	SetStreetSuffixes  = "street_suffixes"
	SetUnitDesignators = "unit_designators"
	SetUSStates        = "us_states"
	SetNamePrefixes    = "name_prefixes"
	SetNameSuffixes    = "name_suffixes"
	SetProfileSites    = "profile_sites"
	SetBullets         = "bullets"
)

// Value-pool names consulted by the field providers.
const (
	PoolFirstNames      = "first_names"
	PoolLastNames       = "last_names"
	PoolHeadlines       = "headlines"
	PoolCompanies       = "companies"
	PoolPositions       = "positions"
	PoolCities          = "cities"
	PoolStates          = "states"
	PoolStreets         = "streets"
	PoolDomains         = "domains"
	PoolEmailDomains    = "email_domains"
	PoolProfileSites    = "profile_sites"
	PoolSummaries       = "summaries"
	PoolHighlights      = "highlights"
	PoolInstitutions    = "institutions"
	PoolAreas           = "areas"
	PoolStudyTypes      = "study_types"
	PoolCourses         = "courses"
	PoolSkillNames      = "skill_names"
	PoolSkillCategories = "skill_categories"
	PoolLevels          = "levels"
	PoolFieldLabels     = "field_labels"
	PoolEduFieldLabels  = "edu_field_labels"
)

//go:embed data/lexicon.yaml
var defaultYAML []byte

// Lexicon stores the curated résumé vocabulary:
// - Sets: lower-cased membership lists behind dictionary features
//   ("is this token a month name?", "is this a degree abbreviation?")
// - Pools: surface values the synthetic generators sample from
// - Stopwords: the base English stoplist
//
// A Lexicon is populated once and treated as read-only afterwards.
type Lexicon struct {
	sets      map[string]map[string]struct{}
	pools     map[string][]string
	stopwords []string
}

type document struct {
	Stopwords []string            `yaml:"stopwords"`
	Sets      map[string][]string `yaml:"sets"`
	Pools     map[string][]string `yaml:"pools"`
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		sets:  make(map[string]map[string]struct{}),
		pools: make(map[string][]string),
	}
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
	defaultErr  error
)

// Default returns the embedded lexicon. The result is shared; callers that
// need to modify it should Merge it into a fresh Lexicon first.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		defaultLex, defaultErr = Parse(defaultYAML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("lexicon: embedded data is invalid: %v", defaultErr))
	}
	return defaultLex
}

// LoadFromYAML loads a lexicon from a YAML file.
//
// Expected format:
//
//	stopwords: [the, a, an]
//	sets:
//	  months: [january, february]
//	pools:
//	  companies: [Acme Corp, Initech]
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lex, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return lex, nil
}

// Parse decodes a lexicon from YAML bytes.
func Parse(data []byte) (*Lexicon, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	lex := New()
	lex.stopwords = append(lex.stopwords, doc.Stopwords...)
	for name, words := range doc.Sets {
		lex.AddSet(name, words)
	}
	for name, values := range doc.Pools {
		lex.AddPool(name, values)
	}
	return lex, nil
}

// AddSet adds words to a named set. Words are lower-cased and trimmed.
func (l *Lexicon) AddSet(name string, words []string) {
	set, ok := l.sets[name]
	if !ok {
		set = make(map[string]struct{}, len(words))
		l.sets[name] = set
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
}

// AddPool appends values to a named pool, keeping their original case.
func (l *Lexicon) AddPool(name string, values []string) {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			l.pools[name] = append(l.pools[name], v)
		}
	}
}

// Has reports whether token belongs to the named set (case-insensitive).
func (l *Lexicon) Has(set, token string) bool {
	words, ok := l.sets[set]
	if !ok {
		return false
	}
	_, ok = words[strings.ToLower(token)]
	return ok
}

// Set returns the members of a named set, sorted.
func (l *Lexicon) Set(name string) []string {
	words := l.sets[name]
	result := make([]string, 0, len(words))
	for w := range words {
		result = append(result, w)
	}
	sort.Strings(result)
	return result
}

// Pool returns the values of a named pool. The slice must not be modified.
func (l *Lexicon) Pool(name string) []string {
	return l.pools[name]
}

// Stopwords returns the base stoplist.
func (l *Lexicon) Stopwords() []string {
	return l.stopwords
}

// Merge copies every set, pool and stopword of other into l.
// Pools are replaced rather than appended so user files can narrow them.
func (l *Lexicon) Merge(other *Lexicon) {
	if other == nil {
		return
	}
	for name, words := range other.sets {
		set, ok := l.sets[name]
		if !ok {
			set = make(map[string]struct{}, len(words))
			l.sets[name] = set
		}
		for w := range words {
			set[w] = struct{}{}
		}
	}
	for name, values := range other.pools {
		l.pools[name] = append([]string(nil), values...)
	}
	l.stopwords = append(l.stopwords, other.stopwords...)
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() LexiconStats {
	stats := LexiconStats{Sets: len(l.sets), Pools: len(l.pools), Stopwords: len(l.stopwords)}
	for _, words := range l.sets {
		stats.SetWords += len(words)
	}
	for _, values := range l.pools {
		stats.PoolValues += len(values)
	}
	return stats
}

// LexiconStats holds statistics about lexicon contents.
type LexiconStats struct {
	Sets       int
	SetWords   int
	Pools      int
	PoolValues int
	Stopwords  int
}
