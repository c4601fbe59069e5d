package fields

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/cognicore/resparse/pkg/resparse/labels"
	"github.com/cognicore/resparse/pkg/resparse/lexicon"
)

const (
	minYear = 1995
	maxYear = 2025
)

var seasons = []string{"Spring", "Summer", "Fall", "Autumn", "Winter"}

// Default builds the registry of every field key the section templates use,
// drawing value pools from lex. A nil lexicon uses lexicon.Default().
func Default(lex *lexicon.Lexicon) *Registry {
	if lex == nil {
		lex = lexicon.Default()
	}
	reg := NewRegistry()
	pool := func(name string) Producer { return Choice(lex.Pool(name)...) }

	// names and contact details
	reg.Register("first_name", labels.Name, pool(lexicon.PoolFirstNames))
	reg.Register("last_name", labels.Name, pool(lexicon.PoolLastNames))
	reg.Register("name", labels.Name, Templated(reg,
		Weighted{"{first_name} {last_name}", 0.85},
		Weighted{"{first_name} {initial}. {last_name}", 0.15},
	))
	reg.Register("initial", labels.Name, ProducerFunc(func(r *rand.Rand) string {
		return string(rune('A' + r.IntN(26)))
	}))
	reg.Register("label", labels.Headline, pool(lexicon.PoolHeadlines))
	reg.Register("email", labels.Email, emailProducer(lex))
	reg.Register("phone", labels.Phone, ProducerFunc(phone))
	reg.Register("website", labels.Website, Templated(reg,
		Weighted{"{domain}", 0.5},
		Weighted{"www.{domain}", 0.2},
		Weighted{"https://{domain}", 0.2},
		Weighted{"http://www.{domain}", 0.1},
	))
	reg.Register("domain", labels.Website, pool(lexicon.PoolDomains))
	reg.Register("profile", labels.Profile, Templated(reg,
		Weighted{"{profile_site}/{username}", 0.6},
		Weighted{"https://{profile_site}/{username}", 0.3},
		Weighted{"www.{profile_site}/{username}", 0.1},
	))
	reg.Register("profile_site", labels.Profile, pool(lexicon.PoolProfileSites))
	reg.Register("username", labels.Profile, usernameProducer(lex))

	// locations
	reg.Register("street_address", labels.Location, Templated(reg,
		Weighted{"{building_number} {street}", 0.6},
		Weighted{"{building_number} {street} Suite {unit_number}", 0.2},
		Weighted{"{building_number} {street} Apt. {unit_number}", 0.2},
	))
	reg.Register("building_number", labels.Location, intRange(1, 9999))
	reg.Register("unit_number", labels.Location, intRange(1, 999))
	reg.Register("street", labels.Location, pool(lexicon.PoolStreets))
	reg.Register("city", labels.Location, pool(lexicon.PoolCities))
	reg.Register("state", labels.Location, pool(lexicon.PoolStates))
	reg.Register("zip", labels.Location, ProducerFunc(func(r *rand.Rand) string {
		return fmt.Sprintf("%05d", 10000+r.IntN(89999))
	}))
	reg.Register("city_state", labels.Location, Templated(reg,
		Weighted{"{city}, {state}", 1},
	))
	reg.Register("address", labels.Location, Templated(reg,
		Weighted{"{street_address} {city}, {state} {zip}", 0.7},
		Weighted{"{street_address}, {city}, {state} {zip}", 0.3},
	))
	reg.Register("location", labels.Location, Templated(reg,
		Weighted{"{city}, {state}", 0.7},
		Weighted{"{city}", 0.1},
		Weighted{"{address}", 0.2},
	))

	// work
	reg.Register("company", labels.Company, pool(lexicon.PoolCompanies))
	reg.Register("position", labels.Position, pool(lexicon.PoolPositions))
	reg.Register("summary", labels.Summary, pool(lexicon.PoolSummaries))
	reg.Register("highlight", labels.Highlights, pool(lexicon.PoolHighlights))

	// dates
	reg.Register("year", labels.Other, intRange(minYear, maxYear))
	reg.Register("month", labels.Other, ProducerFunc(func(r *rand.Rand) string {
		return time.Month(1 + r.IntN(12)).String()
	}))
	reg.Register("month_abbr", labels.Other, ProducerFunc(func(r *rand.Rand) string {
		return time.Month(1 + r.IntN(12)).String()[:3]
	}))
	reg.Register("month_num", labels.Other, ProducerFunc(func(r *rand.Rand) string {
		m := 1 + r.IntN(12)
		if r.IntN(2) == 0 {
			return fmt.Sprintf("%02d", m)
		}
		return fmt.Sprint(m)
	}))
	reg.Register("season", labels.Other, Choice(seasons...))
	reg.Register("date_approx", labels.StartDate, Templated(reg,
		Weighted{"{month_abbr} {year}", 0.3},
		Weighted{"{month_abbr}. {year}", 0.1},
		Weighted{"{month} {year}", 0.25},
		Weighted{"{month_num}/{year}", 0.15},
		Weighted{"{year}", 0.15},
		Weighted{"{season} {year}", 0.05},
	))
	reg.Register("present", labels.EndDate, Choice("Present", "present", "Current", "Now"))
	reg.Register("dt", labels.StartDate, Templated(reg,
		Weighted{"{date_approx}", 0.9},
		Weighted{"{present}", 0.1},
	))

	// education
	reg.Register("institution", labels.Institution, pool(lexicon.PoolInstitutions))
	reg.Register("area", labels.Area, pool(lexicon.PoolAreas))
	reg.Register("study_type", labels.StudyType, pool(lexicon.PoolStudyTypes))
	reg.Register("gpa", labels.GPA, ProducerFunc(gpa))
	reg.Register("course", labels.Course, pool(lexicon.PoolCourses))

	// skills
	reg.Register("skill_name", labels.Name, pool(lexicon.PoolSkillNames))
	reg.Register("skill_category", labels.Name, pool(lexicon.PoolSkillCategories))
	reg.Register("keyword", labels.Keyword, pool(lexicon.PoolSkillNames))
	reg.Register("level", labels.Level, pool(lexicon.PoolLevels))

	// structure
	reg.Register("field_label", labels.FieldLabel, Templated(reg,
		Weighted{"{field_label_word}:", 1},
	))
	reg.Register("field_label_word", labels.FieldLabel, pool(lexicon.PoolFieldLabels))
	reg.Register("edu_field_label", labels.FieldLabel, Templated(reg,
		Weighted{"{edu_field_label_word}:", 1},
	))
	reg.Register("edu_field_label_word", labels.FieldLabel, pool(lexicon.PoolEduFieldLabels))
	reg.Register("email_label", labels.FieldLabel, Choice("Email:", "E-mail:", "email:", "Email"))
	reg.Register("phone_label", labels.FieldLabel, Choice("Phone:", "Tel:", "Mobile:", "Cell:", "Phone"))
	reg.Register("web_label", labels.FieldLabel, Choice("Web:", "Website:", "Site:", "Homepage:"))
	reg.Register("location_label", labels.FieldLabel, Choice("Address:", "Location:"))
	reg.Register("gpa_label", labels.FieldLabel, Choice("GPA:", "GPA", "Cumulative GPA:"))
	reg.Register("courses_label", labels.FieldLabel, Choice("Relevant Coursework:", "Coursework:", "Courses:", "Selected Courses:"))
	reg.Register("fsep", labels.FieldSep, Choice(",", " |", " -", " ·", " •", " /", ";"))
	reg.Register("isep", labels.ItemSep, Choice(",", ",", ",", ";", " /", " |", " ·"))
	reg.Register("dsep", labels.FieldSep, Choice(" –", " -", " —", " to"))
	reg.Register("bullet", labels.Bullet, Choice("-", "•", "*", "·", "–", "+", "▪"))
	reg.Register("nl", labels.FieldSep, Const("\n"))
	reg.Register("sp", labels.FieldSep, Choice("  ", "   ", "\t"))
	reg.Register("colon", labels.FieldSep, Const(":"))
	reg.Register("lparen", labels.FieldSep, Const("("))
	reg.Register("rparen", labels.FieldSep, Const(")"))
	reg.Register("other", labels.Other, Choice("at", "@", "with", "in", "of"))
	reg.Register("at", labels.Other, Choice("at", "@"))
	reg.Register("in", labels.Other, Choice("in", "of"))
	return reg
}

func intRange(lo, hi int) Producer {
	return ProducerFunc(func(r *rand.Rand) string {
		return fmt.Sprint(lo + r.IntN(hi-lo+1))
	})
}

// slug lower-cases a name and keeps letters and digits only.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func usernameProducer(lex *lexicon.Lexicon) Producer {
	firsts, lasts := lex.Pool(lexicon.PoolFirstNames), lex.Pool(lexicon.PoolLastNames)
	return ProducerFunc(func(r *rand.Rand) string {
		first, last := slug(firsts[r.IntN(len(firsts))]), slug(lasts[r.IntN(len(lasts))])
		switch r.IntN(4) {
		case 0:
			return first + last
		case 1:
			return first[:1] + last
		case 2:
			return first + "-" + last
		default:
			return fmt.Sprintf("%s%s%d", first, last, r.IntN(100))
		}
	})
}

func emailProducer(lex *lexicon.Lexicon) Producer {
	firsts, lasts := lex.Pool(lexicon.PoolFirstNames), lex.Pool(lexicon.PoolLastNames)
	domains := lex.Pool(lexicon.PoolEmailDomains)
	return ProducerFunc(func(r *rand.Rand) string {
		first, last := slug(firsts[r.IntN(len(firsts))]), slug(lasts[r.IntN(len(lasts))])
		domain := domains[r.IntN(len(domains))]
		var local string
		switch r.IntN(4) {
		case 0:
			local = first + "." + last
		case 1:
			local = first[:1] + last
		case 2:
			local = first + "_" + last
		default:
			local = first
		}
		return local + "@" + domain
	})
}

func phone(r *rand.Rand) string {
	area, exch, line := 200+r.IntN(800), 200+r.IntN(800), r.IntN(10000)
	switch r.IntN(5) {
	case 0:
		return fmt.Sprintf("(%03d) %03d-%04d", area, exch, line)
	case 1:
		return fmt.Sprintf("%03d-%03d-%04d", area, exch, line)
	case 2:
		return fmt.Sprintf("%03d.%03d.%04d", area, exch, line)
	case 3:
		return fmt.Sprintf("+1-%03d-%03d-%04d", area, exch, line)
	default:
		return fmt.Sprintf("%03d%03d%04d", area, exch, line)
	}
}

func gpa(r *rand.Rand) string {
	value := 2.5 + r.Float64()*1.5
	switch r.IntN(3) {
	case 0:
		return fmt.Sprintf("%.2f", value)
	case 1:
		return fmt.Sprintf("%.1f", value)
	default:
		return fmt.Sprintf("%.2f/4.0", value)
	}
}
