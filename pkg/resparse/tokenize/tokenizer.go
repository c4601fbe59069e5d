package tokenize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/resparse/pkg/resparse/stoplist"
)

const (
	openers = `([{"'“‘<`
	closers = `)]}"'”’,;:!?>`
	dashes  = "–—"
)

var defaultAbbreviations = []string{
	"jan.", "feb.", "mar.", "apr.", "jun.", "jul.", "aug.", "sep.", "sept.",
	"oct.", "nov.", "dec.", "inc.", "corp.", "co.", "ltd.", "llc.", "dr.",
	"mr.", "mrs.", "ms.", "jr.", "sr.", "st.", "ave.", "blvd.", "rd.", "ln.",
	"ste.", "apt.", "prof.", "dept.", "univ.", "no.", "vs.", "etc.", "e.g.",
	"i.e.", "esq.", "approx.",
}

// dotted matches initialisms and degree abbreviations such as "J.", "B.S." or "Ph.D.".
var dotted = regexp.MustCompile(`^[A-Z][A-Za-z]?\.(?:[A-Za-z]{1,2}\.)*$`)

// Tokenizer splits text into Tokens carrying shape and class flags
type Tokenizer struct {
	stopwords     *stoplist.Manager
	abbreviations map[string]struct{}
}

// NewTokenizer creates a new tokenizer with the given stoplist.
// A nil stoplist marks no token as a stopword.
func NewTokenizer(stops *stoplist.Manager) *Tokenizer {
	t := &Tokenizer{
		stopwords:     stops,
		abbreviations: make(map[string]struct{}, len(defaultAbbreviations)),
	}
	t.AddAbbreviations(defaultAbbreviations...)
	return t
}

// AddAbbreviations registers words whose trailing period is kept attached.
// Words without a trailing period are ignored.
func (t *Tokenizer) AddAbbreviations(words ...string) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if strings.HasSuffix(w, ".") && len(w) > 1 {
			t.abbreviations[w] = struct{}{}
		}
	}
}

// Tokenize splits text into tokens.
//
// A single space between two tokens is recorded on the preceding token's
// Space flag instead of becoming a token; any other whitespace run (double
// spaces, tabs, newlines) becomes a whitespace token of its own. Opening and
// closing punctuation is split off words, en and em dashes are split out
// everywhere, and URLs, emails and abbreviations keep their periods.
func (t *Tokenizer) Tokenize(text string) []Token {
	var tokens []Token
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			j := i
			for j < len(text) {
				r2, s2 := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsSpace(r2) {
					break
				}
				j += s2
			}
			run, offset := text[i:j], i
			if len(tokens) > 0 && !tokens[len(tokens)-1].IsSpace && run[0] == ' ' {
				tokens[len(tokens)-1].Space = true
				run, offset = run[1:], offset+1
			}
			if run != "" {
				tokens = append(tokens, t.makeToken(run, len(tokens), offset))
			}
			i = j
			continue
		}

		j := i + size
		for j < len(text) {
			r2, s2 := utf8.DecodeRuneInString(text[j:])
			if unicode.IsSpace(r2) {
				break
			}
			j += s2
		}
		offset := i
		for _, piece := range t.splitWord(text[i:j]) {
			tokens = append(tokens, t.makeToken(piece, len(tokens), offset))
			offset += len(piece)
		}
		i = j
	}
	return tokens
}

// TokenizeLines tokenizes lines joined by newlines.
func (t *Tokenizer) TokenizeLines(lines []string) []Token {
	return t.Tokenize(strings.Join(lines, "\n"))
}

// FromTexts builds tokens from already-split texts, as stored in training
// data. Offsets assume the texts were concatenated without separators and
// Space is never set.
func (t *Tokenizer) FromTexts(texts []string) []Token {
	tokens := make([]Token, len(texts))
	offset := 0
	for i, text := range texts {
		tokens[i] = t.makeToken(text, i, offset)
		offset += len(text)
	}
	return tokens
}

func (t *Tokenizer) makeToken(text string, index, offset int) Token {
	stop := false
	if t.stopwords != nil {
		stop = t.stopwords.IsStop(text)
	}
	tok := newToken(text, index, stop)
	tok.Offset = offset
	return tok
}

// splitWord peels prefixes and suffixes off a whitespace-free chunk.
func (t *Tokenizer) splitWord(word string) []string {
	var head, tail []string

	for len(word) > 1 {
		r, size := utf8.DecodeRuneInString(word)
		if !strings.ContainsRune(openers, r) {
			break
		}
		head = append(head, word[:size])
		word = word[size:]
	}

	for len(word) > 1 {
		if emailPattern.MatchString(word) {
			break
		}
		r, size := utf8.DecodeLastRuneInString(word)
		if strings.ContainsRune(closers, r) || (r == '.' && !t.keepPeriod(word)) {
			tail = append(tail, word[len(word)-size:])
			word = word[:len(word)-size]
			continue
		}
		break
	}

	pieces := head
	if word != "" {
		pieces = append(pieces, splitDashes(word)...)
	}
	for k := len(tail) - 1; k >= 0; k-- {
		pieces = append(pieces, tail[k])
	}
	return pieces
}

func (t *Tokenizer) keepPeriod(word string) bool {
	if _, ok := t.abbreviations[strings.ToLower(word)]; ok {
		return true
	}
	return dotted.MatchString(word)
}

func splitDashes(word string) []string {
	if !strings.ContainsAny(word, dashes) || LikeURL(word) {
		return []string{word}
	}
	var pieces []string
	start := 0
	for i, r := range word {
		if strings.ContainsRune(dashes, r) {
			if i > start {
				pieces = append(pieces, word[start:i])
			}
			pieces = append(pieces, string(r))
			start = i + utf8.RuneLen(r)
		}
	}
	if start < len(word) {
		pieces = append(pieces, word[start:])
	}
	return pieces
}
