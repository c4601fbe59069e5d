package features

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cognicore/resparse/pkg/resparse/labels"
	"github.com/cognicore/resparse/pkg/resparse/lexicon"
	"github.com/cognicore/resparse/pkg/resparse/tokenize"
)

type predicate struct {
	name string
	fn   func(lex *lexicon.Lexicon, tok tokenize.Token) bool
}

// inSet matches the token text lower-cased, also without a trailing
// period or colon.
func inSet(set string) func(*lexicon.Lexicon, tokenize.Token) bool {
	return func(lex *lexicon.Lexicon, tok tokenize.Token) bool {
		text := strings.ToLower(tok.Text)
		if lex.Has(set, text) {
			return true
		}
		trimmed := strings.TrimRight(text, ".:")
		return trimmed != text && trimmed != "" && lex.Has(set, trimmed)
	}
}

var (
	zipPattern       = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
	phonePartPattern = regexp.MustCompile(`^(?:\+?\d{1,3}[-.]?)?\(?\d{3}\)?(?:[-.]?\d{3,4}){0,2}$`)
	yearPattern      = regexp.MustCompile(`^(?:(?:19|20)\d{2}|'\d{2})$`)
	gpaPattern       = regexp.MustCompile(`^[0-4](?:\.\d{1,3})?(?:/[45](?:\.0{1,2})?)?$`)
)

func likeState(lex *lexicon.Lexicon, tok tokenize.Token) bool {
	return tok.IsUpper && len(tok.Text) == 2 && lex.Has(lexicon.SetUSStates, strings.ToLower(tok.Text))
}

func likeZip(_ *lexicon.Lexicon, tok tokenize.Token) bool {
	return zipPattern.MatchString(tok.Text)
}

func likePhonePart(_ *lexicon.Lexicon, tok tokenize.Token) bool {
	digits := 0
	for _, r := range tok.Text {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 3 && phonePartPattern.MatchString(tok.Text)
}

// isProfileSite matches tokens naming or linking to a profile network,
// e.g. "GitHub" or "linkedin.com/in/bdewilde".
func isProfileSite(lex *lexicon.Lexicon, tok tokenize.Token) bool {
	text := strings.ToLower(tok.Text)
	if lex.Has(lexicon.SetProfileSites, text) {
		return len(text) > 1
	}
	if !tok.LikeURL {
		return false
	}
	text = strings.TrimPrefix(strings.TrimPrefix(text, "https://"), "http://")
	text = strings.TrimPrefix(text, "www.")
	host, _, _ := strings.Cut(text, "/")
	name, _, _ := strings.Cut(host, ".")
	return len(name) > 1 && lex.Has(lexicon.SetProfileSites, name)
}

func likeMonthName(lex *lexicon.Lexicon, tok tokenize.Token) bool {
	text := strings.TrimSuffix(strings.ToLower(tok.Text), ".")
	return lex.Has(lexicon.SetMonths, text) || lex.Has(lexicon.SetMonthAbbrs, text)
}

func likeYear(_ *lexicon.Lexicon, tok tokenize.Token) bool {
	return yearPattern.MatchString(tok.Text)
}

func likeGPA(_ *lexicon.Lexicon, tok tokenize.Token) bool {
	if !gpaPattern.MatchString(tok.Text) {
		return false
	}
	value, _, _ := strings.Cut(tok.Text, "/")
	f, err := strconv.ParseFloat(value, 64)
	return err == nil && f <= 5 && strings.Contains(tok.Text, ".")
}

var sectionPredicates = map[labels.Section][]predicate{
	labels.Basics: {
		{"is_field_label_text", inSet(lexicon.SetFieldLabels)},
		{"is_profile_site", isProfileSite},
		{"like_state", likeState},
		{"like_zip", likeZip},
		{"like_phone_part", likePhonePart},
		{"is_street_suffix_text", inSet(lexicon.SetStreetSuffixes)},
	},
	labels.Work: {
		{"is_company_type_text", inSet(lexicon.SetCompanyTypes)},
		{"is_position_text", inSet(lexicon.SetPositions)},
		{"like_month_name", likeMonthName},
		{"like_year", likeYear},
		{"is_present_text", inSet(lexicon.SetPresent)},
		{"is_season_text", inSet(lexicon.SetSeasons)},
	},
	labels.Education: {
		{"is_institution_text", inSet(lexicon.SetInstitutions)},
		{"is_degree_text", inSet(lexicon.SetDegrees)},
		{"is_study_field_text", inSet(lexicon.SetStudyFields)},
		{"like_gpa", likeGPA},
		{"like_month_name", likeMonthName},
		{"like_year", likeYear},
		{"is_present_text", inSet(lexicon.SetPresent)},
		{"is_field_label_text", inSet(lexicon.SetFieldLabels)},
	},
	labels.Skills: {
		{"is_level_text", inSet(lexicon.SetLevels)},
		{"is_skill_category_text", inSet(lexicon.SetSkillCategories)},
		{"is_bullet_text", inSet(lexicon.SetBullets)},
	},
}
