package decode

import (
	"github.com/cognicore/resparse/pkg/resparse/labels"
)

type fieldRule int

const (
	// ruleBoundary fields occur once per record; a repeat starts a new one.
	ruleBoundary fieldRule = iota
	// ruleFirst fields keep their first value.
	ruleFirst
	// ruleJoin fields concatenate their runs with a space.
	ruleJoin
	// ruleList fields collect one entry per run.
	ruleList
)

type field struct {
	key  string
	rule fieldRule
}

var workFields = map[labels.Label]field{
	labels.Company:    {"company", ruleBoundary},
	labels.Position:   {"position", ruleBoundary},
	labels.StartDate:  {"start_date", ruleBoundary},
	labels.EndDate:    {"end_date", ruleBoundary},
	labels.Website:    {"website", ruleFirst},
	labels.Location:   {"location", ruleFirst},
	labels.Summary:    {"summary", ruleJoin},
	labels.Highlights: {"highlights", ruleList},
}

var educationFields = map[labels.Label]field{
	labels.Institution: {"institution", ruleBoundary},
	labels.Area:        {"area", ruleJoin},
	labels.StudyType:   {"study_type", ruleFirst},
	labels.StartDate:   {"start_date", ruleFirst},
	labels.EndDate:     {"end_date", ruleFirst},
	labels.GPA:         {"gpa", ruleFirst},
	labels.Course:      {"courses", ruleList},
}

// Work decodes work experiences.
func (d *Decoder) Work(tagged []labels.Tagged) []Record {
	return experiences(tagged, workFields)
}

// Education decodes education experiences.
func (d *Decoder) Education(tagged []labels.Tagged) []Record {
	return experiences(tagged, educationFields)
}

// experiences walks the label runs in order, starting a new record whenever
// a boundary field that the current record already holds shows up again.
func experiences(tagged []labels.Tagged, fields map[labels.Label]field) []Record {
	out := []Record{}
	var cur Record
	for _, g := range GroupTokens(tagged) {
		f, ok := fields[g.Label]
		if !ok || labels.Structural(g.Label) {
			continue
		}
		text := g.Text()
		if text == "" {
			continue
		}
		if cur == nil {
			cur = Record{}
			out = append(out, cur)
		}
		_, seen := cur[f.key]
		switch f.rule {
		case ruleBoundary:
			if seen {
				cur = Record{}
				out = append(out, cur)
			}
			cur[f.key] = text
		case ruleFirst:
			if !seen {
				cur[f.key] = text
			}
		case ruleJoin:
			if seen {
				cur[f.key] = cur[f.key].(string) + " " + text
			} else {
				cur[f.key] = text
			}
		case ruleList:
			list, _ := cur[f.key].([]string)
			cur[f.key] = append(list, text)
		}
	}
	return out
}
