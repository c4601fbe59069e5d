package tokenize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/publicsuffix"
)

// Token is one lexical unit of input text together with its shape and
// character-class flags. Tokens are immutable once produced.
type Token struct {
	Text  string
	Index int
	// Offset is the byte offset of Text in the tokenized string.
	Offset int
	Shape  string
	Prefix string
	Suffix string
	// Space reports whether a single space followed the token in the source.
	Space bool

	IsAlpha        bool
	IsDigit        bool
	IsUpper        bool
	IsTitle        bool
	IsPunct        bool
	IsSpace        bool
	LikeURL        bool
	LikeEmail      bool
	LikeNum        bool
	IsStop         bool
	IsAlnum        bool
	IsNewline      bool
	IsPartialDigit bool
	IsPartialPunct bool
}

// WithText returns a copy of the token carrying new text, with every
// text-derived attribute recomputed. Index, Offset, Space and IsStop are kept.
func (t Token) WithText(text string) Token {
	nt := newToken(text, t.Index, t.IsStop)
	nt.Offset = t.Offset
	nt.Space = t.Space
	return nt
}

var emailPattern = regexp.MustCompile(`^[\w.+%-]+@[\w-]+(?:\.[\w-]+)+$`)

var numberWords = map[string]struct{}{
	"zero": {}, "one": {}, "two": {}, "three": {}, "four": {}, "five": {},
	"six": {}, "seven": {}, "eight": {}, "nine": {}, "ten": {}, "eleven": {},
	"twelve": {}, "thirteen": {}, "fourteen": {}, "fifteen": {}, "sixteen": {},
	"seventeen": {}, "eighteen": {}, "nineteen": {}, "twenty": {}, "thirty": {},
	"forty": {}, "fifty": {}, "sixty": {}, "seventy": {}, "eighty": {},
	"ninety": {}, "hundred": {}, "thousand": {}, "million": {}, "billion": {},
}

func newToken(text string, index int, stop bool) Token {
	t := Token{
		Text:   text,
		Index:  index,
		Shape:  Shape(text),
		Prefix: prefix(text),
		Suffix: suffix(text),
		IsStop: stop,
	}

	var letters, digits, puncts, spaces, upper, lower, total int
	for _, r := range text {
		total++
		switch {
		case unicode.IsLetter(r):
			letters++
			if unicode.IsUpper(r) {
				upper++
			} else if unicode.IsLower(r) {
				lower++
			}
		case unicode.IsDigit(r):
			digits++
		case unicode.IsSpace(r):
			spaces++
		case unicode.IsPunct(r):
			puncts++
		}
	}

	t.IsAlpha = total > 0 && letters == total
	t.IsDigit = total > 0 && digits == total
	t.IsAlnum = total > 0 && letters+digits == total
	t.IsPunct = total > 0 && puncts == total
	t.IsSpace = total > 0 && spaces == total
	t.IsUpper = upper > 0 && lower == 0
	t.IsTitle = isTitle(text)
	t.IsNewline = t.IsSpace && strings.Contains(text, "\n")
	t.IsPartialDigit = digits > 0 && digits < total
	t.IsPartialPunct = puncts > 0 && puncts < total
	t.LikeEmail = emailPattern.MatchString(text)
	t.LikeURL = !t.LikeEmail && LikeURL(text)
	t.LikeNum = likeNum(text)
	return t
}

// Shape returns the Unicode shape signature of text: X for uppercase
// letters, x for lowercase, d for digits, anything else literal.
// Runs of the same shape character are capped at four.
func Shape(text string) string {
	var b strings.Builder
	var last rune
	run := 0
	for _, r := range text {
		var c rune
		switch {
		case unicode.IsUpper(r):
			c = 'X'
		case unicode.IsLetter(r):
			c = 'x'
		case unicode.IsDigit(r):
			c = 'd'
		default:
			c = r
		}
		if c == last {
			run++
		} else {
			last, run = c, 1
		}
		if run <= 4 {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func prefix(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError && size == 0 {
		return ""
	}
	return text[:size]
}

func suffix(text string) string {
	runes := []rune(text)
	if len(runes) <= 3 {
		return text
	}
	return string(runes[len(runes)-3:])
}

// isTitle follows Python's str.istitle: uppercase letters only after uncased
// characters, lowercase letters only after cased ones, at least one cased.
func isTitle(text string) bool {
	cased := false
	prevCased := false
	for _, r := range text {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}

func likeNum(text string) bool {
	text = strings.TrimLeft(text, "+-±~")
	if text == "" {
		return false
	}
	stripped := strings.NewReplacer(",", "", ".", "").Replace(text)
	if stripped != "" && allDigits(stripped) {
		return true
	}
	if num, den, ok := strings.Cut(text, "/"); ok && allDigits(num) && allDigits(den) {
		return true
	}
	_, ok := numberWords[strings.ToLower(text)]
	return ok
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// LikeURL reports whether text looks like a web address: an explicit scheme
// or "www." prefix, or a bare host whose suffix is on the ICANN public
// suffix list (e.g. "bdewilde.com", "github.com/bdewilde").
func LikeURL(text string) bool {
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "www.") {
		return len(lower) > len("www.")
	}
	if strings.ContainsAny(lower, "@ ") {
		return false
	}
	host, _, _ := strings.Cut(lower, "/")
	if host == "" || !strings.Contains(host, ".") || strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if label == "" {
			return false
		}
	}
	suffix, icann := publicsuffix.PublicSuffix(host)
	if !icann || suffix == host {
		return false
	}
	for _, r := range suffix {
		if !unicode.IsLetter(r) && r != '.' {
			return false
		}
	}
	return true
}

// Texts returns the text of each token.
func Texts(tokens []Token) []string {
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Text
	}
	return texts
}

// Join reconstructs surface text from tokens, using each token's Space flag
// and collapsing whitespace tokens into single spaces.
func Join(tokens []Token) string {
	var b strings.Builder
	pendingSpace := false
	for _, t := range tokens {
		if t.IsSpace {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
		pendingSpace = t.Space
	}
	return b.String()
}
