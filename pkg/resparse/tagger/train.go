package tagger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/resparse/pkg/resparse/crf"
	"github.com/cognicore/resparse/pkg/resparse/features"
	"github.com/cognicore/resparse/pkg/resparse/internalerr"
	"github.com/cognicore/resparse/pkg/resparse/labels"
	"github.com/cognicore/resparse/pkg/resparse/lexicon"
	"github.com/cognicore/resparse/pkg/resparse/stoplist"
	"github.com/cognicore/resparse/pkg/resparse/tokenize"
)

// TrainOptions configures Train.
type TrainOptions struct {
	Epochs    int
	Seed      uint64
	Tokenizer *tokenize.Tokenizer
	Lexicon   *lexicon.Lexicon
	Logger    *zap.Logger
}

// Train extracts features from labeled sequences and fits a section model.
// Labels outside the section's alphabet are rejected.
func Train(section labels.Section, seqs []labels.Sequence, opts TrainOptions) (*crf.Model, error) {
	lex := opts.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	ex, err := features.New(section, lex)
	if err != nil {
		return nil, err
	}
	tok := opts.Tokenizer
	if tok == nil {
		tok = tokenize.NewTokenizer(stoplist.NewManager(lex.Stopwords()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	data := make([]crf.Instance, 0, len(seqs))
	for i, seq := range seqs {
		if len(seq) == 0 {
			continue
		}
		for _, lt := range seq {
			if !labels.InAlphabet(section, lt.Label) {
				return nil, fmt.Errorf("%w: sequence %d: label %q is not in the %s alphabet",
					internalerr.ErrInvalidTrainingData, i+1, lt.Label, section)
			}
		}
		feats := ex.ExtractTexts(tok, seq.Texts())
		data = append(data, crf.Instance{Attrs: features.FlattenAll(feats), Labels: seq.Labels()})
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no sequences", internalerr.ErrInvalidTrainingData)
	}

	alphabet := labels.Alphabet(section)
	names := make([]string, len(alphabet))
	for i, l := range alphabet {
		names[i] = string(l)
	}
	logger.Info("training tagger",
		zap.String("section", string(section)),
		zap.Int("sequences", len(data)))
	return crf.Train(string(section), names, data, crf.TrainOptions{
		Epochs: opts.Epochs,
		Seed:   opts.Seed,
		Logger: logger,
	})
}
