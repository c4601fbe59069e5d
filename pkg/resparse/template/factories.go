package template

import (
	"math/rand/v2"
	"strings"

	"github.com/cognicore/resparse/pkg/resparse/labels"
)

// DefaultFixed lists the keys whose value stays constant within one
// expansion, so a generated block uses a single separator style throughout.
func DefaultFixed() []string {
	return []string{"fsep", "isep", "dsep", "bullet"}
}

// DefaultFactories returns the built-in template factories for a section.
func DefaultFactories(section labels.Section) []Factory {
	switch section {
	case labels.Basics:
		return []Factory{basicsBlock, basicsInline, basicsLabeled}
	case labels.Work:
		return []Factory{workBlock(1, 3), workBlock(1, 1), workCompact}
	case labels.Education:
		return []Factory{educationBlock(1, 2), educationBlock(1, 1), educationCompact}
	case labels.Skills:
		return []Factory{skillsBlock(1, 4), skillsBlock(1, 1)}
	}
	return nil
}

func pick(r *rand.Rand, options ...string) string {
	return options[r.IntN(len(options))]
}

func between(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

func repeat(r *rand.Rand, lo, hi int, item, sep string) string {
	n := between(r, lo, hi)
	items := make([]string, n)
	for i := range items {
		items[i] = item
	}
	return strings.Join(items, sep)
}

// subset returns between lo and len(items) items in random order.
func subset(r *rand.Rand, lo int, items []string) []string {
	shuffled := append([]string(nil), items...)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:between(r, lo, len(shuffled))]
}

var contactItems = []string{
	"{email}", "{phone}", "{location}", "{website}", "{profile}",
}

var labeledContactItems = []string{
	"{email_label} {email}", "{phone_label} {phone}",
	"{location_label} {address}", "{web_label} {website}", "{profile}",
}

func header() string {
	return "{name}\n{label::0.6}"
}

func basicsBlock(r *rand.Rand) string {
	return header() + "\n" + strings.Join(subset(r, 2, contactItems), "\n")
}

func basicsInline(r *rand.Rand) string {
	lead := pick(r, "{name}\n{label::0.6}\n", "{name}{fsep} {label}\n", "{name}\n")
	return lead + strings.Join(subset(r, 2, contactItems), "{fsep} ")
}

func basicsLabeled(r *rand.Rand) string {
	return header() + "\n" + strings.Join(subset(r, 2, labeledContactItems), pick(r, "\n", "{fsep} "))
}

func dateRange(start, end string) string {
	return "{" + start + ":start_date}{dsep} {" + end + ":end_date}"
}

var workHeaders = []string{
	"{company}{fsep} {position}\n" + dateRange("date_approx", "dt"),
	"{position}\n{company}{fsep} {location::0.5}\n" + dateRange("date_approx", "dt"),
	"{position} {at} {company}{fsep} " + dateRange("date_approx", "dt"),
	"{company}\n{position}{fsep} " + dateRange("date_approx", "dt"),
	"{position}{fsep} {company}{fsep} {location}\n" + dateRange("date_approx", "dt"),
	"{company}{fsep} {location}\n{position}\n" + dateRange("date_approx", "dt"),
	"{company} {lparen}{website}{rparen}\n{position}{fsep} " + dateRange("date_approx", "dt"),
}

func workEntry(r *rand.Rand) string {
	var b strings.Builder
	b.WriteString(pick(r, workHeaders...))
	if r.Float64() < 0.3 {
		b.WriteString("\n{summary}")
	}
	if n := between(r, 0, 4); n > 0 {
		b.WriteString("\n")
		b.WriteString(repeat(r, n, n, "{bullet:other} {highlight}", "\n"))
	}
	return b.String()
}

func workBlock(lo, hi int) Factory {
	return func(r *rand.Rand) string {
		entries := make([]string, between(r, lo, hi))
		for i := range entries {
			entries[i] = workEntry(r)
		}
		return strings.Join(entries, "\n")
	}
}

func workCompact(r *rand.Rand) string {
	return pick(r,
		"{position}{fsep} {company}{fsep} "+dateRange("year", "dt"),
		"{company}{fsep} {position} "+"{lparen}"+dateRange("year", "dt")+"{rparen}",
	)
}

var educationHeaders = []string{
	"{institution}\n{study_type} {in} {area}{fsep} " + dateRange("date_approx", "dt"),
	"{study_type}{fsep} {area}\n{institution}{fsep} {date_approx:end_date}",
	"{institution}{fsep} {study_type} {in} {area}{fsep} {date_approx:end_date}",
	"{institution}{fsep} {location:other:0.5}\n{study_type}{fsep} {area}\n" + dateRange("date_approx", "dt"),
	"{study_type} {in} {area}{fsep} {institution}{fsep} {year:end_date}",
	"{institution}\n{area}{fsep} {study_type}\n" + dateRange("year", "year"),
}

func educationEntry(r *rand.Rand) string {
	var b strings.Builder
	b.WriteString(pick(r, educationHeaders...))
	if r.Float64() < 0.4 {
		b.WriteString("\n{gpa_label} {gpa}")
	}
	switch r.IntN(3) {
	case 0:
		b.WriteString("\n{courses_label} ")
		b.WriteString(repeat(r, 1, 5, "{course}", "{isep} "))
	case 1:
		b.WriteString("\n")
		b.WriteString(repeat(r, 1, 3, "{bullet} {course}", "\n"))
	}
	return b.String()
}

func educationBlock(lo, hi int) Factory {
	return func(r *rand.Rand) string {
		entries := make([]string, between(r, lo, hi))
		for i := range entries {
			entries[i] = educationEntry(r)
		}
		return strings.Join(entries, "\n")
	}
}

func educationCompact(r *rand.Rand) string {
	return pick(r,
		"{study_type} {in} {area}{fsep} {institution}",
		"{institution}{fsep} {study_type}{fsep} {year:end_date}",
	)
}

// skillLine returns one skills line in a random recognized layout.
func skillLine(r *rand.Rand) string {
	var line string
	switch r.IntN(6) {
	case 0: // bare names
		line = repeat(r, 2, 6, "{skill_name}", "{isep} ")
	case 1: // name and level
		line = "{skill_name}{fsep} {level}"
	case 2: // name: keywords
		line = "{skill_category}{colon} " + repeat(r, 1, 6, "{keyword}", "{isep} ")
	case 3: // level: names
		line = "{level}{colon} " + repeat(r, 1, 5, "{skill_name}", "{isep} ")
	case 4: // bracketed levels
		line = repeat(r, 1, 4, "{skill_name} {lparen}{level}{rparen}", "{isep} ")
	default: // name: keywords with a bracketed level
		line = "{skill_category} {lparen}{level}{rparen}{colon} " + repeat(r, 1, 4, "{keyword}", "{isep} ")
	}
	if r.Float64() < 0.3 {
		line = "{bullet} " + line
	}
	return line
}

func skillsBlock(lo, hi int) Factory {
	return func(r *rand.Rand) string {
		lines := make([]string, between(r, lo, hi))
		for i := range lines {
			lines[i] = skillLine(r)
		}
		return strings.Join(lines, "\n")
	}
}
