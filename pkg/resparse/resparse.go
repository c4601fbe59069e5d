// Package resparse parses plain-text résumés into structured records: it
// splits the text into sections, tags each section's tokens with a
// per-section CRF model and decodes the tags into fields.
package resparse

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/resparse/internal/logger"
	"github.com/cognicore/resparse/pkg/resparse/decode"
	"github.com/cognicore/resparse/pkg/resparse/features"
	"github.com/cognicore/resparse/pkg/resparse/labels"
	"github.com/cognicore/resparse/pkg/resparse/lexicon"
	"github.com/cognicore/resparse/pkg/resparse/segment"
	"github.com/cognicore/resparse/pkg/resparse/stoplist"
	"github.com/cognicore/resparse/pkg/resparse/subparse"
	"github.com/cognicore/resparse/pkg/resparse/tagger"
	"github.com/cognicore/resparse/pkg/resparse/tokenize"
)

// Resume is a parsed résumé keyed by section name: "basics" holds a
// decode.Record, "work", "education" and "skills" hold []decode.Record.
type Resume map[string]any

// Options configures a Parser. Zero values select the defaults.
type Options struct {
	Lexicon        *lexicon.Lexicon
	Tokenizer      *tokenize.Tokenizer
	Taggers        *tagger.Cache
	ModelsDir      string
	Segmenter      *segment.Segmenter
	Address        subparse.Parser
	Name           subparse.Parser
	Normalize      func(string) string
	KeepSubheaders bool
	Logger         *zap.Logger
}

// Parser runs the parsing pipeline.
type Parser struct {
	tokenizer      *tokenize.Tokenizer
	taggers        *tagger.Cache
	segmenter      *segment.Segmenter
	decoder        *decode.Decoder
	extractors     map[labels.Section]*features.Extractor
	normalize      func(string) string
	keepSubheaders bool
	log            *zap.Logger
}

// sectionSources maps each tagged section to the segment it is read from.
// Lines above the first header carry the contact block.
var sectionSources = map[labels.Section]string{
	labels.Basics:    segment.Start,
	labels.Work:      "work",
	labels.Education: "education",
	labels.Skills:    "skills",
}

// New creates a Parser with the given dependencies.
func New(opts Options) (*Parser, error) {
	lex := opts.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	p := &Parser{
		tokenizer:      opts.Tokenizer,
		taggers:        opts.Taggers,
		segmenter:      opts.Segmenter,
		normalize:      opts.Normalize,
		keepSubheaders: opts.KeepSubheaders,
		log:            log,
		extractors:     make(map[labels.Section]*features.Extractor, len(labels.Sections)),
	}
	if p.tokenizer == nil {
		p.tokenizer = tokenize.NewTokenizer(stoplist.NewManager(lex.Stopwords()))
	}
	if p.taggers == nil {
		p.taggers = tagger.NewCache(opts.ModelsDir, log)
	}
	if p.segmenter == nil {
		p.segmenter = segment.Default()
	}
	if p.normalize == nil {
		p.normalize = Normalize
	}
	p.decoder = decode.New(decode.Options{Address: opts.Address, Name: opts.Name, Logger: log})
	for _, s := range labels.Sections {
		ex, err := features.New(s, lex)
		if err != nil {
			return nil, err
		}
		p.extractors[s] = ex
	}
	return p, nil
}

// Normalize applies Unicode NFC and trims trailing whitespace.
func Normalize(line string) string {
	return strings.TrimRight(norm.NFC.String(line), " \t\r")
}

// ParseText parses a whole résumé.
func (p *Parser) ParseText(ctx context.Context, text string) (Resume, error) {
	return p.ParseLines(ctx, strings.Split(text, "\n"))
}

// ParseLines parses a résumé given as lines. Sections that fail are left
// out of the result and their errors are combined into the returned error;
// the remaining sections are still returned.
func (p *Parser) ParseLines(ctx context.Context, lines []string) (Resume, error) {
	sections := p.Segment(lines)

	out := Resume{}
	var errs error
	for _, section := range labels.Sections {
		source := sectionSources[section]
		if !sections.Has(source) {
			continue
		}
		rec, err := p.ParseSection(ctx, section, sections.Lines(source))
		if err != nil {
			p.log.Warn("section failed",
				zap.String("section", string(section)),
				zap.String("preview", logger.TruncateForLog(strings.Join(sections.Lines(source), " "), 80)),
				zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", section, err))
			continue
		}
		out[string(section)] = rec
	}

	if summary := trimBlank(sections.Lines("summary")); len(summary) > 0 {
		basics, ok := out[string(labels.Basics)].(decode.Record)
		if !ok && !sections.Has(segment.Start) {
			basics, ok = decode.Record{}, true
			out[string(labels.Basics)] = basics
		}
		if ok {
			basics["summary"] = strings.Join(summary, "\n")
		}
	}
	return out, errs
}

// ParseSection tags and decodes the lines of one section. Empty input
// yields the section's empty record without loading a model.
func (p *Parser) ParseSection(ctx context.Context, section labels.Section, lines []string) (any, error) {
	ex, ok := p.extractors[section]
	if !ok {
		return nil, fmt.Errorf("no tagger for section %q", section)
	}
	lines = trimBlank(lines)
	if len(lines) == 0 {
		return p.decoder.Decode(section, nil)
	}

	t, err := p.taggers.Get(ctx, section)
	if err != nil {
		return nil, err
	}
	tokens := p.tokenizer.TokenizeLines(lines)
	tags, err := t.Tag(ex.Extract(tokens))
	if err != nil {
		return nil, fmt.Errorf("tag %s: %w", section, err)
	}
	tagged, err := labels.Zip(tokens, tags)
	if err != nil {
		return nil, err
	}
	p.log.Debug("tagged section",
		zap.String("section", string(section)),
		zap.Int("lines", len(lines)),
		zap.Int("tokens", len(tokens)))
	return p.decoder.Decode(section, tagged)
}

// Segment splits lines into sections with the parser's normalizer and
// segmenter.
func (p *Parser) Segment(lines []string) *segment.Sections {
	normalized := make([]string, len(lines))
	for i, line := range lines {
		normalized[i] = p.normalize(line)
	}
	return p.segmenter.Segment(normalized, p.keepSubheaders)
}

// trimBlank drops whitespace-only lines at both ends.
func trimBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
