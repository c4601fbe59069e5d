package internalerr

import "errors"

// Sentinel errors shared across the parsing and generation packages.
var (
	ErrTaggerMissing          = errors.New("tagger model missing")
	ErrInvalidModel           = errors.New("invalid tagger model")
	ErrInvalidTemplate        = errors.New("invalid template")
	ErrEmptyExpansion         = errors.New("template expanded to an empty line")
	ErrUnknownField           = errors.New("unknown field key")
	ErrInvalidAugmenterConfig = errors.New("invalid augmenter configuration")
	ErrSubParse               = errors.New("sub-parse failure")
	ErrRepeatedLabel          = errors.New("repeated label")
	ErrInvalidTrainingData    = errors.New("invalid training data")
	ErrInvalidConfig          = errors.New("invalid configuration")
)
