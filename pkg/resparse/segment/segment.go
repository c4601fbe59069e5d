// Package segment splits résumé lines into named sections by matching
// header lines.
package segment

import (
	"fmt"
	"regexp"
)

// Start names the lines before the first recognized header.
const Start = "start"

// Rule maps a header regex to a section. The regex must define the named
// groups "text" (the header) and "end" (content following the header).
type Rule struct {
	Section string
	Pattern *regexp.Regexp
}

func header(alternatives string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^[\s#*]*(?P<text>` + alternatives + `)\s*(?::\s*(?P<end>.*?))?\s*$`)
}

// DefaultRules is the ordered header table; the first matching rule wins.
var DefaultRules = []Rule{
	{"summary", header(`(?:professional |career |executive )?summary|profile|about(?: me)?|(?:career )?objective|personal statement`)},
	{"work", header(`(?:(?:work|professional|employment|relevant) )?experience|employment(?: history)?|(?:work|career) history|professional background`)},
	{"education", header(`education(?: (?:and|&) training)?|academic background|academics`)},
	{"skills", header(`(?:technical |key |core )?skills(?: (?:and|&) (?:expertise|abilities))?|(?:core )?competencies|technologies|expertise`)},
	{"projects", header(`(?:personal |selected |academic )?projects`)},
	{"volunteer", header(`volunteer(?: experience| work)?|volunteering|community service`)},
	{"awards", header(`awards(?: (?:and|&) honors)?|honors(?: (?:and|&) awards)?|achievements`)},
	{"publications", header(`publications|papers`)},
	{"languages", header(`languages|language skills`)},
	{"interests", header(`interests|hobbies(?: (?:and|&) interests)?`)},
	{"references", header(`references`)},
	{"certificates", header(`certificates|certifications|licenses(?: (?:and|&) certifications)?`)},
}

// Block is a contiguous run of lines assigned to one section.
type Block struct {
	Section string
	Lines   []string
}

// Sections is the result of segmenting one document.
type Sections struct {
	blocks []Block
	order  []string
	lines  map[string][]string
}

func newSections() *Sections {
	return &Sections{lines: make(map[string][]string)}
}

func (s *Sections) enter(section string) {
	if _, ok := s.lines[section]; !ok {
		s.order = append(s.order, section)
		s.lines[section] = nil
	}
	s.blocks = append(s.blocks, Block{Section: section})
}

func (s *Sections) add(line string) {
	b := &s.blocks[len(s.blocks)-1]
	b.Lines = append(b.Lines, line)
	s.lines[b.Section] = append(s.lines[b.Section], line)
}

// Names returns the section names in first-seen order.
func (s *Sections) Names() []string {
	return append([]string(nil), s.order...)
}

// Lines returns every line of a section, across all of its blocks.
func (s *Sections) Lines(section string) []string {
	return s.lines[section]
}

// Has reports whether the section occurred.
func (s *Sections) Has(section string) bool {
	_, ok := s.lines[section]
	return ok
}

// Blocks returns the contiguous runs in document order.
func (s *Sections) Blocks() []Block {
	return append([]Block(nil), s.blocks...)
}

// Map returns the section to lines mapping.
func (s *Sections) Map() map[string][]string {
	out := make(map[string][]string, len(s.lines))
	for k, v := range s.lines {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Segmenter assigns lines to sections.
type Segmenter struct {
	rules []Rule
	end   []int
}

// New validates rules and returns a segmenter. Rules are tried in order.
func New(rules []Rule) (*Segmenter, error) {
	s := &Segmenter{rules: rules}
	for _, r := range rules {
		if r.Section == "" || r.Section == Start {
			return nil, fmt.Errorf("segment: invalid section name %q", r.Section)
		}
		text, end := r.Pattern.SubexpIndex("text"), r.Pattern.SubexpIndex("end")
		if text < 0 || end < 0 {
			return nil, fmt.Errorf("segment: %s pattern lacks text or end group", r.Section)
		}
		s.end = append(s.end, end)
	}
	return s, nil
}

// Default returns a segmenter over DefaultRules.
func Default() *Segmenter {
	s, err := New(DefaultRules)
	if err != nil {
		panic(err)
	}
	return s
}

// Match returns the section a header line opens and the content following
// the header, if any.
func (s *Segmenter) Match(line string) (section, rest string, ok bool) {
	for i, r := range s.rules {
		m := r.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return r.Section, m[s.end[i]], true
	}
	return "", "", false
}

// Segment assigns each line to the section of the last header above it.
// Header lines are consumed unless content follows the header, in which
// case only that content is kept. With keepSubheaders, a header for the
// section already in effect is kept whole.
func (s *Segmenter) Segment(lines []string, keepSubheaders bool) *Sections {
	out := newSections()
	current := Start
	out.enter(current)
	for _, line := range lines {
		section, rest, ok := s.Match(line)
		if !ok {
			out.add(line)
			continue
		}
		if section == current && keepSubheaders {
			out.add(line)
			continue
		}
		if section != current {
			current = section
			out.enter(current)
		}
		if rest != "" {
			out.add(rest)
		}
	}
	return out.compact()
}

// compact drops the start block when no lines precede the first header.
func (s *Sections) compact() *Sections {
	out := newSections()
	for _, b := range s.blocks {
		if len(b.Lines) == 0 && b.Section == Start {
			continue
		}
		out.enter(b.Section)
		for _, line := range b.Lines {
			out.add(line)
		}
	}
	return out
}
