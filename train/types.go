// Package train declares the training-pipeline types: labeled examples,
// the relation-extraction oracle contract, weighted datums, options, and
// sentinel errors.
package train

import (
	"errors"

	"github.com/clausekit/clausekit/clause"
	"github.com/clausekit/clausekit/deptree"
)

// Sentinel errors for the training pipeline.
var (
	// ErrNilOracle indicates training was started without a
	// relation-extraction oracle.
	ErrNilOracle = errors.New("train: oracle is nil")

	// ErrEmptyDataset indicates a trainer received no datums, typically
	// because no example produced a labelable fragment.
	ErrEmptyDataset = errors.New("train: dataset is empty")

	// ErrBadOptions indicates out-of-range training options.
	ErrBadOptions = errors.New("train: invalid training options")

	// ErrModelLoad indicates a missing, unreadable, or unrecognized
	// serialized model. Fatal at inference time: no default scorer exists.
	ErrModelLoad = errors.New("train: cannot load model")
)

// Span is a half-open token interval [Start, End) in sentence positions.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether s fully covers other.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && s.End >= other.End
}

// Matches reports whether a guessed span is an acceptable stand-in for a
// gold span: exact equality, or the guess containing the gold.
func (s Span) Matches(gold Span) bool {
	return s == gold || s.Contains(gold)
}

// TrainingExample is one sentence with a known extraction: the raw
// parser tree plus the gold subject and object token spans.
type TrainingExample struct {
	Tree    *deptree.Tree `json:"tree"`
	Subject Span          `json:"subject"`
	Object  Span          `json:"object"`
}

// RelationMention is one subject/object guess returned by the external
// relation extractor for a candidate clause.
type RelationMention struct {
	Subject Span
	Object  Span
}

// Oracle is the relation-extraction collaborator consumed only at
// training time: given a fragment's tree it returns zero or more
// subject/object span guesses used to label the fragment.
type Oracle interface {
	RelationsInClause(tree *deptree.Tree) []RelationMention
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(tree *deptree.Tree) []RelationMention

// RelationsInClause implements Oracle.
func (f OracleFunc) RelationsInClause(tree *deptree.Tree) []RelationMention { return f(tree) }

// WeightedDatum is one featurized boundary decision with its label and
// importance weight.
type WeightedDatum struct {
	Features clause.FeatureVector
	Label    bool
	Weight   float64
}

// Trainer fits a classifier to a weighted dataset. The pipeline treats
// it as a pluggable factory; LogisticTrainer is the in-repo default.
type Trainer interface {
	Train(ds Dataset) (clause.Classifier, error)
}

// Options configures the training pipeline. Defaults mirror the
// standard configuration; see DefaultOptions.
type Options struct {
	// NegativeSubsampleRatio is the fraction of negative datums kept,
	// in [0,1].
	NegativeSubsampleRatio float64

	// PositiveDatumWeight is the importance weight assigned to every
	// positive datum. Must be positive.
	PositiveDatumWeight float64

	// Seed drives subsampling, dataset shuffling, and the default
	// trainer. The same seed reproduces identical folds and metrics.
	Seed int64

	// Trainer is the classifier factory. Nil selects LogisticTrainer
	// with the same seed.
	Trainer Trainer

	// Folds is the cross-validation fold count. Zero selects 5.
	Folds int

	// MaxTicks bounds each per-example exhaustive search. Zero selects
	// clause.DefaultMaxTicks.
	MaxTicks int

	// ModelPath, if non-empty, is where the trained (classifier,
	// featurizer) pair is persisted. Write failures are logged, not
	// fatal: the in-memory factory is still returned.
	ModelPath string

	// DumpPath, if non-empty, streams every labeled datum to a
	// gzip-compressed text file, one tab-separated line per datum.
	DumpPath string
}

// DefaultOptions returns the standard configuration: 10% negative
// subsampling, positive weight 50, seed 42, 5 folds, logistic trainer.
func DefaultOptions() Options {
	return Options{
		NegativeSubsampleRatio: 0.10,
		PositiveDatumWeight:    50.0,
		Seed:                   42,
		Folds:                  5,
		MaxTicks:               clause.DefaultMaxTicks,
	}
}

// validate normalizes zero values and rejects out-of-range settings.
func (o *Options) validate() error {
	if o.NegativeSubsampleRatio < 0 || o.NegativeSubsampleRatio > 1 {
		return ErrBadOptions
	}
	if o.PositiveDatumWeight <= 0 {
		return ErrBadOptions
	}
	if o.Folds == 0 {
		o.Folds = 5
	}
	if o.Folds < 2 {
		return ErrBadOptions
	}
	if o.MaxTicks == 0 {
		o.MaxTicks = clause.DefaultMaxTicks
	}
	if o.MaxTicks < 0 {
		return ErrBadOptions
	}
	if o.Trainer == nil {
		o.Trainer = LogisticTrainer{Seed: o.Seed}
	}
	return nil
}
