package decode

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/resparse/pkg/resparse/labels"
)

// pattern letters, one per label run
var patternCodes = map[labels.Label]byte{
	labels.Name:     'N',
	labels.Keyword:  'K',
	labels.Level:    'L',
	labels.FieldSep: 'F',
	labels.ItemSep:  'I',
}

type skillsShape int

const (
	shapeNames skillsShape = iota
	shapeNameLevels
	shapeNameKeywords
	shapeLevelNames
)

// Recognized line patterns, tried in order:
//
//	Python, Go, SQL                    N(IN)*
//	Python (Expert), Go - Beginner     NFLF?(I?NFLF?)*
//	Languages: Python, Go              NF(LF)?K(IK)*
//	Databases (Advanced): SQL, Mongo   NF(LF)?K(IK)*
//	Expert: Python, Go                 LF?N(IN)*
var skillsPatterns = []struct {
	shape skillsShape
	re    *regexp.Regexp
}{
	{shapeNames, regexp.MustCompile(`^N(?:IN)*I?$`)},
	{shapeNameLevels, regexp.MustCompile(`^NFLF?(?:I?NFLF?)*I?$`)},
	{shapeNameKeywords, regexp.MustCompile(`^NF(?:LF)?K(?:IK)*I?$`)},
	{shapeLevelNames, regexp.MustCompile(`^LF?N(?:IN)*I?$`)},
}

// skillsRun is one label run kept for pattern matching.
type skillsRun struct {
	code byte
	text string
}

// Skills decodes skill entries line by line. Lines are split on newline
// tokens tagged field_sep and matched on their label pattern; lines with an
// unrecognized pattern are logged and dropped.
func (d *Decoder) Skills(tagged []labels.Tagged) []Record {
	out := []Record{}
	for _, line := range skillsLines(tagged) {
		runs, pattern := compact(line)
		if pattern == "" {
			continue
		}
		shape, ok := matchSkills(pattern)
		if !ok {
			d.logger.Warn("dropping skills line with unknown pattern",
				zap.String("section", string(labels.Skills)),
				zap.String("pattern", pattern),
				zap.String("chunk", lineText(runs)))
			continue
		}
		out = append(out, skillsRecords(shape, runs)...)
	}
	return out
}

func skillsLines(tagged []labels.Tagged) [][]labels.Tagged {
	var lines [][]labels.Tagged
	start := 0
	for i, t := range tagged {
		if t.Label == labels.FieldSep && t.Token.IsNewline {
			lines = append(lines, tagged[start:i])
			start = i + 1
		}
	}
	return append(lines, tagged[start:])
}

// compact reduces a line to its label runs, dropping bullets, other tokens
// and leading or trailing separators.
func compact(line []labels.Tagged) ([]skillsRun, string) {
	var runs []skillsRun
	for _, g := range GroupTokens(line) {
		code, ok := patternCodes[g.Label]
		if !ok {
			continue
		}
		text := g.Text()
		if n := len(runs); n > 0 && runs[n-1].code == code {
			runs[n-1].text = strings.TrimSpace(runs[n-1].text + " " + text)
			continue
		}
		runs = append(runs, skillsRun{code: code, text: text})
	}
	for len(runs) > 0 && isSep(runs[0].code) {
		runs = runs[1:]
	}
	for len(runs) > 0 && isSep(runs[len(runs)-1].code) {
		runs = runs[:len(runs)-1]
	}
	var b strings.Builder
	for _, r := range runs {
		b.WriteByte(r.code)
	}
	return runs, b.String()
}

func isSep(code byte) bool { return code == 'F' || code == 'I' }

func matchSkills(pattern string) (skillsShape, bool) {
	for _, p := range skillsPatterns {
		if p.re.MatchString(pattern) {
			return p.shape, true
		}
	}
	return 0, false
}

func skillsRecords(shape skillsShape, runs []skillsRun) []Record {
	var out []Record
	switch shape {
	case shapeNames:
		for _, r := range runs {
			if r.code == 'N' {
				out = append(out, Record{"name": r.text})
			}
		}
	case shapeNameLevels:
		var cur Record
		for _, r := range runs {
			switch r.code {
			case 'N':
				cur = Record{"name": r.text}
				out = append(out, cur)
			case 'L':
				cur["level"] = r.text
			}
		}
	case shapeNameKeywords:
		rec := Record{"name": runs[0].text}
		var keywords []string
		for _, r := range runs[1:] {
			switch r.code {
			case 'L':
				rec["level"] = r.text
			case 'K':
				keywords = append(keywords, r.text)
			}
		}
		rec["keywords"] = keywords
		out = append(out, rec)
	case shapeLevelNames:
		level := runs[0].text
		for _, r := range runs[1:] {
			if r.code == 'N' {
				out = append(out, Record{"name": r.text, "level": level})
			}
		}
	}
	return out
}

func lineText(runs []skillsRun) string {
	parts := make([]string, len(runs))
	for i, r := range runs {
		parts[i] = r.text
	}
	return strings.Join(parts, " ")
}
