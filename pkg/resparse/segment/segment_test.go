package segment

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resume = []string{
	"John Doe",
	"",
	"EXPERIENCE",
	"Some Company, Senior Job Title",
	"Jan 2018 – Mar 2019",
	"- Did something important",
	"",
	"SKILLS",
	"- SQL, Mongo, HBase",
}

func TestSegment(t *testing.T) {
	got := Default().Segment(resume, false)

	assert.Equal(t, []string{"start", "work", "skills"}, got.Names())
	assert.Equal(t, map[string][]string{
		"start": {"John Doe", ""},
		"work": {
			"Some Company, Senior Job Title",
			"Jan 2018 – Mar 2019",
			"- Did something important",
			"",
		},
		"skills": {"- SQL, Mongo, HBase"},
	}, got.Map())
}

func TestSegmentPartitionsLines(t *testing.T) {
	lines := []string{
		"Jane Roe",
		"Summary: Data scientist with a physics background.",
		"Work Experience",
		"Acme Inc.",
		"Education",
		"Reed College",
		"Experience",
		"Globex",
		"Technical Skills:",
		"Python",
	}
	s := Default()
	got := s.Segment(lines, false)

	var want []string
	for _, line := range lines {
		_, rest, ok := s.Match(line)
		switch {
		case !ok:
			want = append(want, line)
		case rest != "":
			want = append(want, rest)
		}
	}

	var concat []string
	for _, b := range got.Blocks() {
		concat = append(concat, b.Lines...)
	}
	assert.Equal(t, want, concat)
	assert.Equal(t, []string{"Data scientist with a physics background."}, got.Lines("summary"))
	assert.Equal(t, []string{"Acme Inc.", "Globex"}, got.Lines("work"))
	assert.Len(t, got.Blocks(), 6, "work is entered twice")
}

func TestSegmentKeepSubheaders(t *testing.T) {
	lines := []string{"EXPERIENCE", "Acme Inc.", "Relevant Experience", "Globex"}

	dropped := Default().Segment(lines, false)
	assert.Equal(t, []string{"Acme Inc.", "Globex"}, dropped.Lines("work"))

	kept := Default().Segment(lines, true)
	assert.Equal(t, []string{"Acme Inc.", "Relevant Experience", "Globex"}, kept.Lines("work"))
	assert.False(t, kept.Has(Start), "no lines precede the first header")
}

func TestMatch(t *testing.T) {
	s := Default()
	tests := []struct {
		line    string
		section string
		rest    string
		ok      bool
	}{
		{"EDUCATION", "education", "", true},
		{"## Projects", "projects", "", true},
		{"Skills: Python, Go", "skills", "Python, Go", true},
		{"  Honors & Awards  ", "awards", "", true},
		{"Programming Languages: Python", "", "", false},
		{"Experience with distributed systems", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			section, rest, ok := s.Match(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.section, section)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestNewValidatesRules(t *testing.T) {
	_, err := New([]Rule{{Section: "work", Pattern: regexp.MustCompile(`^work$`)}})
	assert.Error(t, err)

	_, err = New([]Rule{{Section: Start, Pattern: header(`start`)}})
	assert.Error(t, err)

	s, err := New([]Rule{{Section: "hobbies", Pattern: header(`hobbies`)}})
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "hobbies"}, s.Segment([]string{"x", "Hobbies", "chess"}, false).Names())
}

func TestSegmentEmpty(t *testing.T) {
	got := Default().Segment(nil, false)
	assert.Empty(t, got.Names())
	assert.Empty(t, got.Blocks())
}
